package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

func TestMeetingEvents(t *testing.T) {
	window := sampleInterval()
	event := calendarDomain.Event{ID: "evt-7", Summary: "Sync", Start: window.Start, End: window.End, Attendees: []string{"a@x.com"}}

	scheduled := NewMeetingScheduled(event, true)
	assert.Equal(t, "evt-7", scheduled.AggregateID())
	assert.Equal(t, "Meeting", scheduled.AggregateType())
	assert.Equal(t, RoutingKeyScheduled, scheduled.RoutingKey())
	assert.Equal(t, "evt-7", scheduled.MeetingID)
	assert.True(t, scheduled.Notified)

	rescheduled := NewMeetingRescheduled(event, false)
	assert.Equal(t, RoutingKeyRescheduled, rescheduled.RoutingKey())
	assert.False(t, rescheduled.Notified)

	cancelled := NewMeetingCancelled("evt-7")
	assert.Equal(t, RoutingKeyCancelled, cancelled.RoutingKey())
	assert.Equal(t, "evt-7", cancelled.MeetingID)
}

func TestMeetingEvents_AreDomainEvents(t *testing.T) {
	event := calendarDomain.Event{ID: "evt-7", Summary: "Sync"}

	for _, e := range []sharedDomain.DomainEvent{
		NewMeetingScheduled(event, true),
		NewMeetingRescheduled(event, true),
		NewMeetingCancelled("evt-7"),
	} {
		assert.NotEqual(t, uuid.Nil, e.EventID())
		assert.Equal(t, "evt-7", e.AggregateID())
		assert.False(t, e.OccurredAt().IsZero())
	}
}
