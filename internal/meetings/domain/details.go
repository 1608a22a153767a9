package domain

import (
	"strings"
	"time"

	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// SlotTime mirrors a calendar dateTime field.
type SlotTime struct {
	DateTime string `json:"dateTime"`
}

// Slot is a suggested meeting window on the wire.
type Slot struct {
	Start SlotTime `json:"start"`
	End   SlotTime `json:"end"`
}

// NewSlot formats interval as ISO-8601 timestamps.
func NewSlot(interval schedulingDomain.TimeInterval) Slot {
	return Slot{
		Start: SlotTime{DateTime: formatTime(interval.Start)},
		End:   SlotTime{DateTime: formatTime(interval.End)},
	}
}

// MeetingDraft pre-fills a manual booking form.
type MeetingDraft struct {
	Summary     string  `json:"summary"`
	Attendees   string  `json:"attendees"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Description string  `json:"description"`
}

// NewDraft creates a draft for the given window. A nil window leaves the
// times empty.
func NewDraft(summary string, attendees []string, window *schedulingDomain.TimeInterval, description string) *MeetingDraft {
	draft := &MeetingDraft{
		Summary:     summary,
		Attendees:   strings.Join(attendees, ", "),
		Description: description,
	}
	if window != nil {
		start, end := formatTime(window.Start), formatTime(window.End)
		draft.StartTime, draft.EndTime = &start, &end
	}
	return draft
}

// EventSummary describes one side of a confirmation.
type EventSummary struct {
	ID        string   `json:"id,omitempty"`
	Summary   string   `json:"summary"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Attendees []string `json:"attendees"`
}

// SummarizeEvent captures an existing calendar event.
func SummarizeEvent(e calendarDomain.Event) EventSummary {
	return EventSummary{
		ID:        e.ID,
		Summary:   e.Summary,
		Start:     formatTime(e.Start),
		End:       formatTime(e.End),
		Attendees: nonNil(e.Attendees),
	}
}

// ConfirmationDetails is what the user must confirm before a mutation.
type ConfirmationDetails struct {
	Intent   Intent        `json:"intent"`
	Original EventSummary  `json:"original"`
	New      *EventSummary `json:"new,omitempty"`
}

// ExistingMeeting lists a meeting that matched a lookup.
type ExistingMeeting struct {
	ID        string   `json:"id"`
	Summary   string   `json:"summary"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	HTMLLink  string   `json:"htmlLink"`
	Attendees []string `json:"attendees"`
}

// NewExistingMeeting converts a calendar event. All-day events keep their
// date only.
func NewExistingMeeting(e calendarDomain.Event) ExistingMeeting {
	start, end := formatTime(e.Start), formatTime(e.End)
	if e.AllDay {
		start, end = e.Start.Format(time.DateOnly), e.End.Format(time.DateOnly)
	}
	return ExistingMeeting{
		ID:        e.ID,
		Summary:   e.Summary,
		Start:     start,
		End:       end,
		HTMLLink:  e.HTMLLink,
		Attendees: nonNil(e.Attendees),
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
