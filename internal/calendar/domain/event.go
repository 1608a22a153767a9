package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEventNotFound = errors.New("calendar event not found")
	ErrInvalidEvent  = errors.New("event requires a summary, attendees and a start before its end")
)

// Event is a calendar event as seen by the assistant.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Attendees   []string
	HTMLLink    string
	MeetLink    string
}

// Duration returns the event length.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// EventInput describes an event to create.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// Validate checks the input can be sent to a calendar.
func (in EventInput) Validate() error {
	if strings.TrimSpace(in.Summary) == "" || len(in.Attendees) == 0 || !in.Start.Before(in.End) {
		return ErrInvalidEvent
	}
	return nil
}

// EventPatch lists the fields to change on an existing event. Nil fields are
// left untouched.
type EventPatch struct {
	Summary     *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Attendees   []string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Summary == nil && p.Description == nil && p.Start == nil && p.End == nil && p.Attendees == nil
}

// Apply returns a copy of e with the patch applied.
func (p EventPatch) Apply(e Event) Event {
	if p.Summary != nil {
		e.Summary = *p.Summary
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Attendees != nil {
		e.Attendees = append([]string(nil), p.Attendees...)
	}
	return e
}
