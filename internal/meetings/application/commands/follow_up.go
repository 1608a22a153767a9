package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
	notificationApp "github.com/felixgeelhaar/rendezvous/internal/notification/application"
	notificationDomain "github.com/felixgeelhaar/rendezvous/internal/notification/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

var (
	ErrMissingEventID = errors.New("event ID is required")
	ErrMissingSummary = errors.New("summary is required")
	ErrNoAttendees    = errors.New("attendee emails cannot be empty")
	ErrInvalidWindow  = errors.New("end time must be after start time")
	ErrPartialWindow  = errors.New("start and end times must be changed together")
	ErrDryRunWindow   = errors.New("dry run requires both start and end times")
	ErrNoSender       = errors.New("no notification sender configured")
)

// EventPublisher publishes meeting domain events.
type EventPublisher interface {
	PublishEvents(ctx context.Context, events ...sharedDomain.DomainEvent) error
}

// FollowUp performs the side effects that follow a successful calendar
// mutation: the attendee email and the domain event. Both are best-effort.
type FollowUp struct {
	sender    notificationApp.Sender
	publisher EventPublisher
	organizer string
	loc       *time.Location
	logger    *slog.Logger
}

// NewFollowUp creates the post-mutation side effects. A nil publisher
// disables event publishing.
func NewFollowUp(sender notificationApp.Sender, publisher EventPublisher, organizer string, loc *time.Location, logger *slog.Logger) *FollowUp {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &FollowUp{
		sender:    sender,
		publisher: publisher,
		organizer: organizer,
		loc:       loc,
		logger:    logger,
	}
}

// Details renders e in the meeting zone for the templates.
func (f *FollowUp) Details(e calendarDomain.Event) notificationApp.MeetingDetails {
	return notificationApp.MeetingDetails{
		EventID:      e.ID,
		Summary:      e.Summary,
		Description:  e.Description,
		Start:        e.Start.In(f.loc),
		End:          e.End.In(f.loc),
		Attendees:    e.Attendees,
		Organizer:    f.organizer,
		CalendarLink: e.HTMLLink,
		MeetLink:     e.MeetLink,
	}
}

func (f *FollowUp) notify(ctx context.Context, details notificationApp.MeetingDetails, render func(notificationApp.MeetingDetails) notificationDomain.Message) error {
	if f.sender == nil {
		return ErrNoSender
	}
	msg := render(details)
	id, err := f.sender.Send(ctx, msg)
	if err != nil {
		f.logger.ErrorContext(ctx, "meeting notification failed", "event_id", details.EventID, "error", err)
		return err
	}
	f.logger.InfoContext(ctx, "meeting notification sent", "event_id", details.EventID, "message_id", id)
	return nil
}

func (f *FollowUp) publish(ctx context.Context, event sharedDomain.DomainEvent) {
	if f.publisher == nil {
		return
	}
	if err := f.publisher.PublishEvents(ctx, event); err != nil {
		f.logger.WarnContext(ctx, "meeting event not published", "routing_key", event.RoutingKey(), "error", err)
	}
}

// recover converts a panic in a handler into an error result.
func (f *FollowUp) recover(ctx context.Context, result *domain.ActionResult, operation string) {
	if r := recover(); r != nil {
		f.logger.ErrorContext(ctx, "meeting command panicked", "operation", operation, "panic", r)
		*result = failure("Error " + operation + " meeting: unexpected internal error")
	}
}

func failure(message string) domain.ActionResult {
	return domain.Render(domain.Failure{Message: message})
}

// normalizeEmails trims entries and drops blanks. A nil input stays nil so
// callers can tell "unchanged" from "empty".
func normalizeEmails(emails []string) []string {
	if emails == nil {
		return nil
	}
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
