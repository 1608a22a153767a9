package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

const (
	sendUpdatesAll      = "all"
	conferenceMeet      = "hangoutsMeet"
	entryPointVideo     = "video"
	eventStatusCanceled = "cancelled"
	listPageSize        = 250
)

// CalendarService implements the calendar port on the Google Calendar API.
type CalendarService struct {
	api        *calendar.Service
	calendarID string
	location   *time.Location
	logger     *slog.Logger
}

var _ calendarApp.Service = (*CalendarService)(nil)

// NewCalendarService creates a Google Calendar service. opts usually carry an
// OAuth HTTP client via option.WithHTTPClient.
func NewCalendarService(ctx context.Context, calendarID string, loc *time.Location, logger *slog.Logger, opts ...option.ClientOption) (*CalendarService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	if loc == nil {
		loc = time.UTC
	}

	api, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarService{
		api:        api,
		calendarID: calendarID,
		location:   loc,
		logger:     logger,
	}, nil
}

// FreeBusy queries busy intervals for emails. Calendars the user cannot read
// come back with per-calendar errors; they are logged and contribute no data.
func (s *CalendarService) FreeBusy(ctx context.Context, emails []string, window schedulingDomain.TimeInterval) (schedulingDomain.FreeBusyMap, error) {
	items := make([]*calendar.FreeBusyRequestItem, 0, len(emails))
	for _, email := range emails {
		items = append(items, &calendar.FreeBusyRequestItem{Id: email})
	}

	resp, err := s.api.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin:  window.Start.UTC().Format(time.RFC3339),
		TimeMax:  window.End.UTC().Format(time.RFC3339),
		TimeZone: s.location.String(),
		Items:    items,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("free/busy query: %w", err)
	}

	result := make(schedulingDomain.FreeBusyMap, len(resp.Calendars))
	for id, cal := range resp.Calendars {
		if len(cal.Errors) > 0 {
			s.logger.DebugContext(ctx, "free/busy unavailable for calendar",
				"calendar", id,
				"reason", cal.Errors[0].Reason,
			)
			continue
		}
		for _, period := range cal.Busy {
			interval, err := parsePeriod(period)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping malformed busy period", "calendar", id, "error", err)
				continue
			}
			result[id] = append(result[id], interval)
		}
	}
	return result, nil
}

// CreateEvent inserts an event with a Meet conference and invites attendees.
func (s *CalendarService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       s.dateTime(in.Start),
		End:         s.dateTime(in.End),
		Attendees:   toAttendees(in.Attendees),
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: conferenceMeet},
			},
		},
		Reminders: &calendar.EventReminders{UseDefault: true},
	}

	created, err := s.api.Events.Insert(s.calendarID, event).
		ConferenceDataVersion(1).
		SendUpdates(sendUpdatesAll).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.InfoContext(ctx, "calendar event created", "event_id", created.Id)
	return s.toDomain(created), nil
}

// GetEvent fetches an event. Deleted and cancelled events are not found.
func (s *CalendarService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.api.Events.Get(s.calendarID, id).Context(ctx).Do()
	if err != nil {
		return nil, mapNotFound(err, "get event")
	}
	if event.Status == eventStatusCanceled {
		return nil, domain.ErrEventNotFound
	}
	return s.toDomain(event), nil
}

// UpdateEvent patches only the fields set in patch and notifies attendees.
func (s *CalendarService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	body := &calendar.Event{}
	if patch.Summary != nil {
		body.Summary = *patch.Summary
		body.ForceSendFields = append(body.ForceSendFields, "Summary")
	}
	if patch.Description != nil {
		body.Description = *patch.Description
		body.ForceSendFields = append(body.ForceSendFields, "Description")
	}
	if patch.Start != nil {
		body.Start = s.dateTime(*patch.Start)
	}
	if patch.End != nil {
		body.End = s.dateTime(*patch.End)
	}
	if patch.Attendees != nil {
		body.Attendees = toAttendees(patch.Attendees)
	}

	updated, err := s.api.Events.Patch(s.calendarID, id, body).
		ConferenceDataVersion(1).
		SendUpdates(sendUpdatesAll).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapNotFound(err, "update event")
	}

	s.logger.InfoContext(ctx, "calendar event updated", "event_id", id)
	return s.toDomain(updated), nil
}

// DeleteEvent removes an event and notifies attendees.
func (s *CalendarService) DeleteEvent(ctx context.Context, id string) error {
	err := s.api.Events.Delete(s.calendarID, id).
		SendUpdates(sendUpdatesAll).
		Context(ctx).
		Do()
	if err != nil {
		return mapNotFound(err, "delete event")
	}

	s.logger.InfoContext(ctx, "calendar event deleted", "event_id", id)
	return nil
}

// ListEvents returns single (expanded) events overlapping window, ordered by
// start, optionally matching a free-text query.
func (s *CalendarService) ListEvents(ctx context.Context, window schedulingDomain.TimeInterval, query string) ([]domain.Event, error) {
	call := s.api.Events.List(s.calendarID).
		TimeMin(window.Start.UTC().Format(time.RFC3339)).
		TimeMax(window.End.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		MaxResults(listPageSize)
	if q := strings.TrimSpace(query); q != "" {
		call = call.Q(q)
	}

	var events []domain.Event
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			events = append(events, *s.toDomain(item))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	s.logger.DebugContext(ctx, "calendar events listed", "count", len(events), "query", query)
	return events, nil
}

func (s *CalendarService) dateTime(t time.Time) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		DateTime: t.In(s.location).Format(time.RFC3339),
		TimeZone: s.location.String(),
	}
}

func (s *CalendarService) toDomain(item *calendar.Event) *domain.Event {
	event := &domain.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		HTMLLink:    item.HtmlLink,
		MeetLink:    meetLink(item),
	}
	event.Start, event.AllDay = s.parseEventTime(item.Start)
	event.End, _ = s.parseEventTime(item.End)

	for _, a := range item.Attendees {
		if a.Email != "" {
			event.Attendees = append(event.Attendees, a.Email)
		}
	}
	return event
}

// parseEventTime reads a timed or all-day boundary. All-day dates map to
// local midnight.
func (s *CalendarService) parseEventTime(dt *calendar.EventDateTime) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err == nil {
			return t.In(s.location), false
		}
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation(time.DateOnly, dt.Date, s.location)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func meetLink(item *calendar.Event) string {
	if item.ConferenceData != nil {
		for _, ep := range item.ConferenceData.EntryPoints {
			if ep.EntryPointType == entryPointVideo && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return item.HangoutLink
}

func toAttendees(emails []string) []*calendar.EventAttendee {
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		if email = strings.TrimSpace(email); email != "" {
			attendees = append(attendees, &calendar.EventAttendee{Email: email})
		}
	}
	return attendees
}

func parsePeriod(p *calendar.TimePeriod) (schedulingDomain.TimeInterval, error) {
	start, err := time.Parse(time.RFC3339, p.Start)
	if err != nil {
		return schedulingDomain.TimeInterval{}, err
	}
	end, err := time.Parse(time.RFC3339, p.End)
	if err != nil {
		return schedulingDomain.TimeInterval{}, err
	}
	return schedulingDomain.NewTimeInterval(start, end)
}

// mapNotFound converts 404 and 410 API errors into domain.ErrEventNotFound.
func mapNotFound(err error, op string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return domain.ErrEventNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
