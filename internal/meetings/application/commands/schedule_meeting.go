package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
	notificationApp "github.com/felixgeelhaar/rendezvous/internal/notification/application"
)

// ScheduleMeetingCommand books a meeting the user already confirmed.
type ScheduleMeetingCommand struct {
	Summary     string
	Attendees   []string
	Start       time.Time
	End         time.Time
	Description string
}

func (c ScheduleMeetingCommand) validate() error {
	if len(normalizeEmails(c.Attendees)) == 0 {
		return ErrNoAttendees
	}
	if !c.Start.Before(c.End) {
		return ErrInvalidWindow
	}
	if strings.TrimSpace(c.Summary) == "" {
		return ErrMissingSummary
	}
	return nil
}

// ScheduleMeetingHandler handles the ScheduleMeetingCommand.
type ScheduleMeetingHandler struct {
	calendar calendarApp.Service
	followUp *FollowUp
	logger   *slog.Logger
}

// NewScheduleMeetingHandler creates a new handler.
func NewScheduleMeetingHandler(calendar calendarApp.Service, followUp *FollowUp, logger *slog.Logger) *ScheduleMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleMeetingHandler{calendar: calendar, followUp: followUp, logger: logger}
}

// Handle creates the event, emails the attendees and publishes
// MeetingScheduled. A failed email does not undo the booking.
func (h *ScheduleMeetingHandler) Handle(ctx context.Context, cmd ScheduleMeetingCommand) (result domain.ActionResult) {
	defer h.followUp.recover(ctx, &result, "scheduling")

	if err := cmd.validate(); err != nil {
		return failure("Error scheduling meeting: " + err.Error())
	}

	event, err := h.calendar.CreateEvent(ctx, calendarDomain.EventInput{
		Summary:     strings.TrimSpace(cmd.Summary),
		Description: cmd.Description,
		Start:       cmd.Start,
		End:         cmd.End,
		Attendees:   normalizeEmails(cmd.Attendees),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create meeting", "error", err)
		return failure("Error scheduling meeting: " + err.Error())
	}
	h.logger.InfoContext(ctx, "meeting scheduled", "event_id", event.ID, "start", event.Start)

	message := "Meeting scheduled and email sent!"
	notifyErr := h.followUp.notify(ctx, h.followUp.Details(*event), notificationApp.ScheduledMessage)
	if notifyErr != nil {
		message = "Meeting scheduled, but the confirmation email could not be sent: " + notifyErr.Error()
	}
	h.followUp.publish(ctx, domain.NewMeetingScheduled(*event, notifyErr == nil))

	return domain.Render(domain.Success{
		Message:      message,
		CalendarLink: event.HTMLLink,
		MeetLink:     event.MeetLink,
		EventID:      event.ID,
	})
}
