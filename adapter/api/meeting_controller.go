package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/felixgeelhaar/rendezvous/internal/app"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/application/queries"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

// MeetingController handles the meeting endpoints.
type MeetingController struct {
	container *app.Container
	logger    *slog.Logger
}

// NewMeetingController creates a new controller.
func NewMeetingController(container *app.Container, logger *slog.Logger) *MeetingController {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetingController{container: container, logger: logger}
}

type queryRequest struct {
	Query string `json:"query"`
}

type meetingRequest struct {
	Action      string  `json:"action"`
	EventID     string  `json:"eventId"`
	Summary     *string `json:"summary"`
	Attendees   string  `json:"attendees"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Description *string `json:"description"`
	DryRun      bool    `json:"dry_run"`
}

type upcomingResponse struct {
	Status string                  `json:"status"`
	Events []queries.UpcomingEvent `json:"events"`
}

// ProcessQuery handles POST /process_query.
func (c *MeetingController) ProcessQuery(ctx echo.Context) error {
	var req queryRequest
	if err := ctx.Bind(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return errorJSON(ctx, http.StatusBadRequest, "No query provided.")
	}
	result := c.container.Assistant.ProcessMeetingRequest(ctx.Request().Context(), req.Query)
	return ctx.JSON(http.StatusOK, result)
}

// Manage handles POST /meetings for the schedule, update and cancel actions.
func (c *MeetingController) Manage(ctx echo.Context) error {
	var req meetingRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body.")
	}

	switch req.Action {
	case "schedule":
		return c.schedule(ctx, req)
	case "update":
		return c.update(ctx, req)
	case "cancel":
		if strings.TrimSpace(req.EventID) == "" {
			return errorJSON(ctx, http.StatusBadRequest, "Event ID is required for canceling.")
		}
		result := c.container.CancelMeetingHandler.Handle(ctx.Request().Context(), commands.CancelMeetingCommand{EventID: req.EventID})
		return ctx.JSON(http.StatusOK, result)
	default:
		return errorJSON(ctx, http.StatusBadRequest, "Invalid action specified: "+req.Action)
	}
}

func (c *MeetingController) schedule(ctx echo.Context, req meetingRequest) error {
	if req.Summary == nil || *req.Summary == "" || req.Attendees == "" || req.StartTime == "" || req.EndTime == "" {
		return errorJSON(ctx, http.StatusBadRequest, "Missing required fields for scheduling.")
	}
	attendees := domain.SplitAttendees(req.Attendees)
	if len(attendees) == 0 {
		return errorJSON(ctx, http.StatusBadRequest, "No valid attendees emails provided.")
	}
	start, err := domain.ParseTimestamp(req.StartTime, c.container.Location)
	if err != nil {
		return invalidTime(ctx, "startTime")
	}
	end, err := domain.ParseTimestamp(req.EndTime, c.container.Location)
	if err != nil {
		return invalidTime(ctx, "endTime")
	}

	cmd := commands.ScheduleMeetingCommand{
		Summary:   *req.Summary,
		Attendees: attendees,
		Start:     start,
		End:       end,
	}
	if req.Description != nil {
		cmd.Description = *req.Description
	}
	result := c.container.ScheduleMeetingHandler.Handle(ctx.Request().Context(), cmd)
	return ctx.JSON(http.StatusOK, result)
}

func (c *MeetingController) update(ctx echo.Context, req meetingRequest) error {
	if strings.TrimSpace(req.EventID) == "" {
		return errorJSON(ctx, http.StatusBadRequest, "Event ID is required for updating.")
	}
	cmd := commands.UpdateMeetingCommand{
		EventID:     req.EventID,
		Summary:     req.Summary,
		Attendees:   domain.SplitAttendees(req.Attendees),
		Description: req.Description,
		DryRun:      req.DryRun,
	}
	if req.StartTime != "" {
		start, err := domain.ParseTimestamp(req.StartTime, c.container.Location)
		if err != nil {
			return invalidTime(ctx, "startTime")
		}
		cmd.Start = &start
	}
	if req.EndTime != "" {
		end, err := domain.ParseTimestamp(req.EndTime, c.container.Location)
		if err != nil {
			return invalidTime(ctx, "endTime")
		}
		cmd.End = &end
	}
	result := c.container.UpdateMeetingHandler.Handle(ctx.Request().Context(), cmd)
	return ctx.JSON(http.StatusOK, result)
}

// ListUpcoming handles GET /list_upcoming_events. The optional days and q
// query parameters narrow the listing.
func (c *MeetingController) ListUpcoming(ctx echo.Context) error {
	query := queries.ListUpcomingQuery{Query: ctx.QueryParam("q")}
	if raw := ctx.QueryParam("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return errorJSON(ctx, http.StatusBadRequest, "days must be a positive integer.")
		}
		query.Days = days
	}

	events, err := c.container.ListUpcomingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		c.logger.ErrorContext(ctx.Request().Context(), "list upcoming events failed", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve events: "+err.Error())
	}
	return ctx.JSON(http.StatusOK, upcomingResponse{Status: "success", Events: events})
}

func invalidTime(ctx echo.Context, field string) error {
	return errorJSON(ctx, http.StatusBadRequest, "Invalid "+field+": expected an ISO-8601 timestamp.")
}
