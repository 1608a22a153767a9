package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/internal/meetings/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/application/queries"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

type meetingAskInput struct {
	Query string `json:"query" jsonschema:"required"`
}

type meetingScheduleInput struct {
	Summary     string   `json:"summary" jsonschema:"required"`
	Attendees   []string `json:"attendees" jsonschema:"required"`
	StartTime   string   `json:"start_time" jsonschema:"required"`
	EndTime     string   `json:"end_time" jsonschema:"required"`
	Description string   `json:"description,omitempty"`
}

type meetingUpdateInput struct {
	EventID     string   `json:"event_id" jsonschema:"required"`
	Summary     *string  `json:"summary,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Description *string  `json:"description,omitempty"`
	DryRun      bool     `json:"dry_run,omitempty"`
}

type meetingCancelInput struct {
	EventID string `json:"event_id" jsonschema:"required"`
}

type meetingUpcomingInput struct {
	Days  int    `json:"days,omitempty"`
	Query string `json:"query,omitempty"`
}

func (t *toolset) registerMeetingTools(srv *mcp.Server) {
	srv.Tool("meeting.ask").
		Description("Interpret a natural-language meeting request. Returns free slots, conflicts, or the confirmation needed before a reschedule or cancellation.").
		Handler(t.ask)

	srv.Tool("meeting.schedule").
		Description("Book a meeting with a video link and email the attendees. Times are ISO-8601; values without an offset use the meeting time zone.").
		Handler(t.schedule)

	srv.Tool("meeting.update").
		Description("Change an existing meeting. Only supplied fields change; dry_run checks the new window for conflicts without writing.").
		Handler(t.update)

	srv.Tool("meeting.cancel").
		Description("Cancel a meeting by event id").
		Handler(t.cancel)

	srv.Tool("meeting.upcoming").
		Description("List upcoming meetings, 30 days ahead by default").
		Handler(t.upcoming)
}

func (t *toolset) ask(ctx context.Context, input meetingAskInput) (domain.ActionResult, error) {
	if strings.TrimSpace(input.Query) == "" {
		return domain.ActionResult{}, errors.New("query is required")
	}
	return t.app.Assistant.ProcessMeetingRequest(ctx, input.Query), nil
}

func (t *toolset) schedule(ctx context.Context, input meetingScheduleInput) (domain.ActionResult, error) {
	if input.Summary == "" {
		return domain.ActionResult{}, errors.New("summary is required")
	}
	start, err := t.parseTime("start_time", input.StartTime)
	if err != nil {
		return domain.ActionResult{}, err
	}
	end, err := t.parseTime("end_time", input.EndTime)
	if err != nil {
		return domain.ActionResult{}, err
	}
	return t.app.ScheduleMeetingHandler.Handle(ctx, commands.ScheduleMeetingCommand{
		Summary:     input.Summary,
		Attendees:   input.Attendees,
		Start:       start,
		End:         end,
		Description: input.Description,
	}), nil
}

func (t *toolset) update(ctx context.Context, input meetingUpdateInput) (domain.ActionResult, error) {
	if input.EventID == "" {
		return domain.ActionResult{}, errors.New("event_id is required")
	}
	start, err := t.parseOptionalTime("start_time", input.StartTime)
	if err != nil {
		return domain.ActionResult{}, err
	}
	end, err := t.parseOptionalTime("end_time", input.EndTime)
	if err != nil {
		return domain.ActionResult{}, err
	}
	return t.app.UpdateMeetingHandler.Handle(ctx, commands.UpdateMeetingCommand{
		EventID:     input.EventID,
		Summary:     input.Summary,
		Attendees:   input.Attendees,
		Start:       start,
		End:         end,
		Description: input.Description,
		DryRun:      input.DryRun,
	}), nil
}

func (t *toolset) cancel(ctx context.Context, input meetingCancelInput) (domain.ActionResult, error) {
	if input.EventID == "" {
		return domain.ActionResult{}, errors.New("event_id is required")
	}
	return t.app.CancelMeetingHandler.Handle(ctx, commands.CancelMeetingCommand{EventID: input.EventID}), nil
}

func (t *toolset) upcoming(ctx context.Context, input meetingUpcomingInput) ([]queries.UpcomingEvent, error) {
	return t.app.ListUpcomingHandler.Handle(ctx, queries.ListUpcomingQuery{Days: input.Days, Query: input.Query})
}
