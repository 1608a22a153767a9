package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

const (
	productID     = "-//Rendezvous//Meeting Assistant//EN"
	propTransp    = "TRANSP"
	transparent   = "TRANSPARENT"
	statusCancel  = "CANCELLED"
	mailtoPrefix  = "mailto:"
	objectSuffix  = ".ics"
	clientTimeout = 30 * time.Second
)

// Config holds the CalDAV account settings.
type Config struct {
	BaseURL  string
	Username string
	Password string // App-specific password for Apple
	// CalendarPath selects a calendar collection; empty uses the first one
	// discovered under the user's home set.
	CalendarPath string
	// OwnerEmail is the account's address. CalDAV exposes only the owner's
	// calendar, so free/busy answers for this address alone.
	OwnerEmail string
}

// CalendarService implements the calendar port on a CalDAV collection
// (Apple Calendar, Fastmail, Nextcloud, etc.).
type CalendarService struct {
	client   *caldav.Client
	config   Config
	location *time.Location
	logger   *slog.Logger

	mu      sync.Mutex
	calPath string
}

var _ calendarApp.Service = (*CalendarService)(nil)

// NewCalendarService creates a CalDAV calendar service. A nil httpClient
// uses a client with a 30 second timeout.
func NewCalendarService(config Config, httpClient *http.Client, loc *time.Location, logger *slog.Logger) (*CalendarService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: clientTimeout}
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("caldav base url is required")
	}

	calPath := ""
	if config.CalendarPath != "" {
		calPath = ensureTrailingSlash(config.CalendarPath)
	}

	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, config.Username, config.Password), config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	return &CalendarService{
		client:   client,
		config:   config,
		location: loc,
		logger:   logger,
		calPath:  calPath,
	}, nil
}

// FreeBusy reports the owner's opaque, non-cancelled events as busy time.
// Other participants are absent from the result.
func (s *CalendarService) FreeBusy(ctx context.Context, emails []string, window schedulingDomain.TimeInterval) (schedulingDomain.FreeBusyMap, error) {
	result := make(schedulingDomain.FreeBusyMap)

	owner := ""
	for _, email := range emails {
		if strings.EqualFold(email, s.config.OwnerEmail) {
			owner = email
			break
		}
	}
	if owner == "" {
		return result, nil
	}

	objects, err := s.query(ctx, window, nil)
	if err != nil {
		return nil, fmt.Errorf("free/busy query: %w", err)
	}

	for i := range objects {
		comp := firstEvent(&objects[i])
		if comp == nil || !blocksTime(comp) {
			continue
		}
		event := s.parseEvent(&objects[i])
		if event == nil {
			continue
		}
		interval, err := schedulingDomain.NewTimeInterval(event.Start, event.End)
		if err != nil {
			continue
		}
		result[owner] = append(result[owner], interval)
	}
	return result, nil
}

// CreateEvent stores a new VEVENT object named after its UID.
func (s *CalendarService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	calPath, err := s.calendarPath(ctx)
	if err != nil {
		return nil, err
	}

	event := domain.Event{
		ID:          uuid.NewString(),
		Summary:     in.Summary,
		Description: in.Description,
		Start:       in.Start.In(s.location),
		End:         in.End.In(s.location),
		Attendees:   append([]string(nil), in.Attendees...),
	}

	objectPath := calPath + event.ID + objectSuffix
	if _, err := s.client.PutCalendarObject(ctx, objectPath, toICalendar(event, s.config.OwnerEmail, time.Now())); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	event.HTMLLink = s.objectURL(objectPath)

	s.logger.InfoContext(ctx, "calendar event created", "event_id", event.ID)
	return &event, nil
}

// GetEvent looks an event up by UID.
func (s *CalendarService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, _, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent rewrites the stored object with the patch applied.
func (s *CalendarService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	current, objectPath, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*current)
	if !updated.Start.Before(updated.End) {
		return nil, domain.ErrInvalidEvent
	}

	if _, err := s.client.PutCalendarObject(ctx, objectPath, toICalendar(updated, s.config.OwnerEmail, time.Now())); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.logger.InfoContext(ctx, "calendar event updated", "event_id", id)
	return &updated, nil
}

// DeleteEvent removes the event's object.
func (s *CalendarService) DeleteEvent(ctx context.Context, id string) error {
	_, objectPath, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.RemoveAll(ctx, objectPath); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.logger.InfoContext(ctx, "calendar event deleted", "event_id", id)
	return nil
}

// ListEvents returns events overlapping window ordered by start. A query
// keeps events whose summary, description or attendees contain every term.
func (s *CalendarService) ListEvents(ctx context.Context, window schedulingDomain.TimeInterval, query string) ([]domain.Event, error) {
	objects, err := s.query(ctx, window, nil)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	terms := strings.Fields(strings.ToLower(query))
	events := make([]domain.Event, 0, len(objects))
	for i := range objects {
		comp := firstEvent(&objects[i])
		if comp == nil || propValue(comp, ical.PropStatus) == statusCancel {
			continue
		}
		event := s.parseEvent(&objects[i])
		if event == nil || !matchesTerms(*event, terms) {
			continue
		}
		events = append(events, *event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	s.logger.DebugContext(ctx, "calendar events listed", "count", len(events), "query", query)
	return events, nil
}

// find locates the object holding the event with UID id.
func (s *CalendarService) find(ctx context.Context, id string) (*domain.Event, string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, "", domain.ErrEventNotFound
	}

	uidFilter := []caldav.PropFilter{{
		Name:      ical.PropUID,
		TextMatch: &caldav.TextMatch{Text: id},
	}}
	objects, err := s.query(ctx, schedulingDomain.TimeInterval{}, uidFilter)
	if err != nil {
		return nil, "", fmt.Errorf("get event: %w", err)
	}

	for i := range objects {
		comp := firstEvent(&objects[i])
		if comp == nil || propValue(comp, ical.PropUID) != id || propValue(comp, ical.PropStatus) == statusCancel {
			continue
		}
		if event := s.parseEvent(&objects[i]); event != nil {
			return event, objects[i].Path, nil
		}
	}
	return nil, "", domain.ErrEventNotFound
}

// query runs a calendar-query REPORT for VEVENTs. A zero window is
// unbounded.
func (s *CalendarService) query(ctx context.Context, window schedulingDomain.TimeInterval, props []caldav.PropFilter) ([]caldav.CalendarObject, error) {
	calPath, err := s.calendarPath(ctx)
	if err != nil {
		return nil, err
	}

	q := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{{
				Name: "VEVENT",
				Props: []string{
					"SUMMARY", "DTSTART", "DTEND", "UID", "DESCRIPTION",
					"STATUS", "TRANSP", "ORGANIZER", "ATTENDEE",
				},
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: window.Start,
				End:   window.End,
				Props: props,
			}},
		},
	}

	return s.client.QueryCalendar(ctx, calPath, q)
}

// calendarPath returns the configured collection or discovers the default
// one once.
func (s *CalendarService) calendarPath(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calPath != "" {
		return s.calPath, nil
	}

	principal, err := s.client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := s.client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := s.client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// First calendar is usually the default
	s.calPath = ensureTrailingSlash(cals[0].Path)
	s.logger.DebugContext(ctx, "caldav calendar discovered", "path", s.calPath)
	return s.calPath, nil
}

func (s *CalendarService) objectURL(objectPath string) string {
	base, err := url.Parse(s.config.BaseURL)
	if err != nil {
		return objectPath
	}
	ref, err := url.Parse(objectPath)
	if err != nil {
		return objectPath
	}
	return base.ResolveReference(ref).String()
}

func (s *CalendarService) parseEvent(obj *caldav.CalendarObject) *domain.Event {
	event := parseCalendarObject(obj, s.location)
	if event != nil {
		event.HTMLLink = s.objectURL(obj.Path)
	}
	return event
}

// toICalendar converts an event into a single-VEVENT calendar with the owner
// as organizer.
func toICalendar(e domain.Event, organizer string, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, e.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
	event.Props.SetText(ical.PropSummary, e.Summary)
	if e.Description != "" {
		event.Props.SetText(ical.PropDescription, e.Description)
	}

	if organizer != "" {
		prop := ical.NewProp(ical.PropOrganizer)
		prop.Value = mailtoPrefix + organizer
		event.Props[ical.PropOrganizer] = []ical.Prop{*prop}
	}
	for _, email := range e.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Value = mailtoPrefix + email
		prop.Params["ROLE"] = []string{"REQ-PARTICIPANT"}
		prop.Params["PARTSTAT"] = []string{"NEEDS-ACTION"}
		prop.Params["RSVP"] = []string{"TRUE"}
		event.Props[ical.PropAttendee] = append(event.Props[ical.PropAttendee], *prop)
	}

	cal.Children = append(cal.Children, event.Component)
	return cal
}

// parseCalendarObject reads the first VEVENT of obj. Events without a start
// are skipped.
func parseCalendarObject(obj *caldav.CalendarObject, loc *time.Location) *domain.Event {
	child := firstEvent(obj)
	if child == nil {
		return nil
	}

	event := &domain.Event{
		ID:          strings.TrimSuffix(pathBase(obj.Path), objectSuffix),
		Summary:     propValue(child, ical.PropSummary),
		Description: propValue(child, ical.PropDescription),
	}
	if uid := propValue(child, ical.PropUID); uid != "" {
		event.ID = uid
	}

	icalEvent := &ical.Event{Component: child}
	start, err := icalEvent.DateTimeStart(loc)
	if err != nil || start.IsZero() {
		return nil
	}
	event.Start = start.In(loc)

	end, err := icalEvent.DateTimeEnd(loc)
	if err != nil || end.IsZero() {
		end = event.Start
	}
	event.End = end.In(loc)

	if props := child.Props[ical.PropDateTimeStart]; len(props) > 0 {
		event.AllDay = props[0].ValueType() == ical.ValueDate
	}

	for _, prop := range child.Props[ical.PropAttendee] {
		if email := strings.TrimPrefix(strings.TrimPrefix(prop.Value, mailtoPrefix), "MAILTO:"); email != "" {
			event.Attendees = append(event.Attendees, email)
		}
	}
	return event
}

func firstEvent(obj *caldav.CalendarObject) *ical.Component {
	if obj == nil || obj.Data == nil {
		return nil
	}
	for _, child := range obj.Data.Children {
		if child.Name == ical.CompEvent {
			return child
		}
	}
	return nil
}

// blocksTime reports whether the event occupies its slot.
func blocksTime(comp *ical.Component) bool {
	return propValue(comp, propTransp) != transparent && propValue(comp, ical.PropStatus) != statusCancel
}

func propValue(comp *ical.Component, name string) string {
	if props := comp.Props[name]; len(props) > 0 {
		return props[0].Value
	}
	return ""
}

func matchesTerms(e domain.Event, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(e.Summary + " " + e.Description + " " + strings.Join(e.Attendees, " "))
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func pathBase(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func ensureTrailingSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
