package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

// CancelMeetingCommand deletes a meeting the user confirmed cancelling.
type CancelMeetingCommand struct {
	EventID string
}

// CancelMeetingHandler handles the CancelMeetingCommand.
type CancelMeetingHandler struct {
	calendar calendarApp.Service
	followUp *FollowUp
	logger   *slog.Logger
}

// NewCancelMeetingHandler creates a new handler.
func NewCancelMeetingHandler(calendar calendarApp.Service, followUp *FollowUp, logger *slog.Logger) *CancelMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CancelMeetingHandler{calendar: calendar, followUp: followUp, logger: logger}
}

// Handle deletes the event. The calendar provider notifies attendees.
func (h *CancelMeetingHandler) Handle(ctx context.Context, cmd CancelMeetingCommand) (result domain.ActionResult) {
	defer h.followUp.recover(ctx, &result, "cancelling")

	id := strings.TrimSpace(cmd.EventID)
	if id == "" {
		return failure("Error cancelling meeting: " + ErrMissingEventID.Error())
	}

	err := h.calendar.DeleteEvent(ctx, id)
	if errors.Is(err, calendarDomain.ErrEventNotFound) {
		return failure("Meeting not found.")
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to cancel meeting", "event_id", id, "error", err)
		return failure("Error cancelling meeting: " + err.Error())
	}
	h.logger.InfoContext(ctx, "meeting cancelled", "event_id", id)

	h.followUp.publish(ctx, domain.NewMeetingCancelled(id))
	return domain.Render(domain.Success{Message: "Meeting cancelled!", EventID: id})
}
