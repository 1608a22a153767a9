package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// DefaultUpcomingDays is how far ahead ListUpcoming looks by default.
const DefaultUpcomingDays = 30

const untitled = "No Title"

// ListUpcomingQuery lists the user's next meetings.
type ListUpcomingQuery struct {
	Days  int
	Query string
}

// UpcomingEvent is one row of the upcoming events list.
type UpcomingEvent struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	HTMLLink    string   `json:"htmlLink"`
	Attendees   []string `json:"attendees"`
	Description string   `json:"description"`
}

// ListUpcomingHandler handles the ListUpcomingQuery.
type ListUpcomingHandler struct {
	calendar calendarApp.Service
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewListUpcomingHandler creates a new handler.
func NewListUpcomingHandler(calendar calendarApp.Service, loc *time.Location, logger *slog.Logger) *ListUpcomingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ListUpcomingHandler{calendar: calendar, loc: loc, now: time.Now, logger: logger}
}

// WithClock replaces the clock that anchors the listing window.
func (h *ListUpcomingHandler) WithClock(now func() time.Time) *ListUpcomingHandler {
	if now != nil {
		h.now = now
	}
	return h
}

// Handle returns events starting from now, ordered by start.
func (h *ListUpcomingHandler) Handle(ctx context.Context, query ListUpcomingQuery) ([]UpcomingEvent, error) {
	days := query.Days
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	now := h.now().In(h.loc)
	window := schedulingDomain.TimeInterval{Start: now, End: now.AddDate(0, 0, days)}

	events, err := h.calendar.ListEvents(ctx, window, strings.TrimSpace(query.Query))
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	h.logger.DebugContext(ctx, "listed upcoming events", "count", len(events), "days", days)

	out := make([]UpcomingEvent, 0, len(events))
	for _, e := range events {
		out = append(out, h.toUpcoming(e))
	}
	return out, nil
}

func (h *ListUpcomingHandler) toUpcoming(e calendarDomain.Event) UpcomingEvent {
	summary := e.Summary
	if strings.TrimSpace(summary) == "" {
		summary = untitled
	}
	start, end := e.Start.In(h.loc).Format(time.RFC3339), e.End.In(h.loc).Format(time.RFC3339)
	if e.AllDay {
		start, end = e.Start.Format(time.DateOnly), e.End.Format(time.DateOnly)
	}
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return UpcomingEvent{
		ID:          e.ID,
		Summary:     summary,
		Start:       start,
		End:         end,
		HTMLLink:    e.HTMLLink,
		Attendees:   attendees,
		Description: e.Description,
	}
}
