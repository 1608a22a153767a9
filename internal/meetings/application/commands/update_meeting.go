package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/application/services"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
	notificationApp "github.com/felixgeelhaar/rendezvous/internal/notification/application"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// UpdateMeetingCommand changes an existing meeting. Nil fields are left as
// they are; a nil Attendees slice keeps the current attendees.
type UpdateMeetingCommand struct {
	EventID     string
	Summary     *string
	Attendees   []string
	Start       *time.Time
	End         *time.Time
	Description *string
	// DryRun only checks whether the proposed time is free.
	DryRun bool
}

func (c UpdateMeetingCommand) validate() error {
	if strings.TrimSpace(c.EventID) == "" {
		return ErrMissingEventID
	}
	if c.Attendees != nil && len(normalizeEmails(c.Attendees)) == 0 {
		return ErrNoAttendees
	}
	if c.DryRun && (c.Start == nil || c.End == nil) {
		return ErrDryRunWindow
	}
	if (c.Start == nil) != (c.End == nil) {
		return ErrPartialWindow
	}
	if c.Start != nil && !c.Start.Before(*c.End) {
		return ErrInvalidWindow
	}
	return nil
}

// UpdateMeetingHandler handles the UpdateMeetingCommand.
type UpdateMeetingHandler struct {
	calendar calendarApp.Service
	slots    services.SlotFinder
	followUp *FollowUp
	logger   *slog.Logger
}

// NewUpdateMeetingHandler creates a new handler.
func NewUpdateMeetingHandler(calendar calendarApp.Service, slots services.SlotFinder, followUp *FollowUp, logger *slog.Logger) *UpdateMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateMeetingHandler{calendar: calendar, slots: slots, followUp: followUp, logger: logger}
}

// Handle applies the update, or with DryRun only checks availability.
func (h *UpdateMeetingHandler) Handle(ctx context.Context, cmd UpdateMeetingCommand) (result domain.ActionResult) {
	defer h.followUp.recover(ctx, &result, "updating")

	if err := cmd.validate(); err != nil {
		return failure("Error updating meeting: " + err.Error())
	}
	id := strings.TrimSpace(cmd.EventID)

	if cmd.DryRun {
		return h.dryRun(ctx, id, cmd)
	}

	patch := calendarDomain.EventPatch{
		Summary:     cmd.Summary,
		Description: cmd.Description,
		Start:       cmd.Start,
		End:         cmd.End,
		Attendees:   normalizeEmails(cmd.Attendees),
	}
	if patch.IsEmpty() {
		return domain.Render(domain.Info{Message: "Nothing to update."})
	}

	event, err := h.calendar.UpdateEvent(ctx, id, patch)
	if errors.Is(err, calendarDomain.ErrEventNotFound) {
		return failure("Meeting not found.")
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update meeting", "event_id", id, "error", err)
		return failure("Error updating meeting: " + err.Error())
	}
	h.logger.InfoContext(ctx, "meeting updated", "event_id", event.ID, "start", event.Start)

	message := "Meeting updated and email sent!"
	notifyErr := h.followUp.notify(ctx, h.followUp.Details(*event), notificationApp.RescheduledMessage)
	if notifyErr != nil {
		message = "Meeting updated, but the notification email could not be sent: " + notifyErr.Error()
	}
	h.followUp.publish(ctx, domain.NewMeetingRescheduled(*event, notifyErr == nil))

	return domain.Render(domain.Success{
		Message:      message,
		CalendarLink: event.HTMLLink,
		MeetLink:     event.MeetLink,
		EventID:      event.ID,
	})
}

func (h *UpdateMeetingHandler) dryRun(ctx context.Context, id string, cmd UpdateMeetingCommand) domain.ActionResult {
	attendees := normalizeEmails(cmd.Attendees)
	if attendees == nil {
		event, err := h.calendar.GetEvent(ctx, id)
		if errors.Is(err, calendarDomain.ErrEventNotFound) {
			return failure("Original event not found for dry run.")
		}
		if err != nil {
			return failure("Error checking availability: " + err.Error())
		}
		attendees = event.Attendees
	}

	window := schedulingDomain.TimeInterval{Start: *cmd.Start, End: *cmd.End}
	free, err := services.IsFree(ctx, h.calendar, attendees, window)
	if err != nil {
		h.logger.WarnContext(ctx, "availability check failed", "event_id", id, "error", err)
	}
	if err == nil && free {
		return domain.Render(domain.Success{Message: "Proposed time is available."})
	}

	start := window.Start
	slots, err := h.slots.FindSlots(ctx, attendees, int(window.Duration()/time.Minute), &start)
	if err != nil {
		h.logger.WarnContext(ctx, "slot search incomplete", "error", err, "found", len(slots))
	}
	return domain.Render(domain.Conflict{
		Message:        "The proposed time is busy. Here are some alternative slots.",
		SuggestedSlots: slots,
	})
}
