package domain

import (
	"time"

	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

const aggregateType = "Meeting"

var (
	_ sharedDomain.DomainEvent = (*MeetingScheduled)(nil)
	_ sharedDomain.DomainEvent = (*MeetingRescheduled)(nil)
	_ sharedDomain.DomainEvent = (*MeetingCancelled)(nil)
)

// Routing keys for meeting events.
const (
	RoutingKeyScheduled   = "meetings.meeting.scheduled"
	RoutingKeyRescheduled = "meetings.meeting.rescheduled"
	RoutingKeyCancelled   = "meetings.meeting.cancelled"
)

// MeetingScheduled is emitted after a meeting is booked.
type MeetingScheduled struct {
	sharedDomain.BaseEvent
	MeetingID string    `json:"event_id"`
	Summary   string    `json:"summary"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees []string  `json:"attendees"`
	Notified  bool      `json:"notified"`
}

// NewMeetingScheduled creates a MeetingScheduled event.
func NewMeetingScheduled(e calendarDomain.Event, notified bool) *MeetingScheduled {
	return &MeetingScheduled{
		BaseEvent: sharedDomain.NewBaseEvent(e.ID, aggregateType, RoutingKeyScheduled),
		MeetingID: e.ID,
		Summary:   e.Summary,
		Start:     e.Start,
		End:       e.End,
		Attendees: e.Attendees,
		Notified:  notified,
	}
}

// MeetingRescheduled is emitted after a meeting is updated.
type MeetingRescheduled struct {
	sharedDomain.BaseEvent
	MeetingID string    `json:"event_id"`
	Summary   string    `json:"summary"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees []string  `json:"attendees"`
	Notified  bool      `json:"notified"`
}

// NewMeetingRescheduled creates a MeetingRescheduled event.
func NewMeetingRescheduled(e calendarDomain.Event, notified bool) *MeetingRescheduled {
	return &MeetingRescheduled{
		BaseEvent: sharedDomain.NewBaseEvent(e.ID, aggregateType, RoutingKeyRescheduled),
		MeetingID: e.ID,
		Summary:   e.Summary,
		Start:     e.Start,
		End:       e.End,
		Attendees: e.Attendees,
		Notified:  notified,
	}
}

// MeetingCancelled is emitted after a meeting is deleted.
type MeetingCancelled struct {
	sharedDomain.BaseEvent
	MeetingID string `json:"event_id"`
}

// NewMeetingCancelled creates a MeetingCancelled event.
func NewMeetingCancelled(eventID string) *MeetingCancelled {
	return &MeetingCancelled{
		BaseEvent: sharedDomain.NewBaseEvent(eventID, aggregateType, RoutingKeyCancelled),
		MeetingID: eventID,
	}
}
