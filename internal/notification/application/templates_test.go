package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetails(t *testing.T) MeetingDetails {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return MeetingDetails{
		EventID:      "evt-1",
		Summary:      "Design review",
		Start:        time.Date(2026, time.October, 12, 14, 0, 0, 0, loc),
		End:          time.Date(2026, time.October, 12, 14, 30, 0, 0, loc),
		Attendees:    []string{"me@example.com", "alice@example.com"},
		CalendarLink: "https://calendar.test/event/evt-1",
	}
}

func TestScheduledMessage(t *testing.T) {
	msg := ScheduledMessage(sampleDetails(t))

	assert.Equal(t, "Meeting Confirmation: Design review", msg.Subject)
	assert.Equal(t, []string{"me@example.com", "alice@example.com"}, msg.To)
	assert.Equal(t,
		"Hi,\n\nYour meeting 'Design review' has been scheduled.\n\n"+
			"Time: 2026-10-12 14:00 to 14:30 (IST)\n"+
			"Attendees: me@example.com, alice@example.com\n"+
			"Description: N/A\n"+
			"Calendar Link: https://calendar.test/event/evt-1\n"+
			"Meet Link: N/A\n\n"+
			"Thank you.",
		msg.Body)

	require.NotNil(t, msg.Invite)
	assert.Equal(t, "evt-1", msg.Invite.UID)
	assert.Equal(t, "https://calendar.test/event/evt-1", msg.Invite.URL)
}

func TestRescheduledMessage(t *testing.T) {
	d := sampleDetails(t)
	d.Description = "Quarterly"
	d.MeetLink = "https://meet.test/abc"

	msg := RescheduledMessage(d)

	assert.Equal(t, "Rescheduled: Design review", msg.Subject)
	assert.Contains(t, msg.Body, "has been successfully rescheduled.")
	assert.Contains(t, msg.Body, "New Time: 2026-10-12 14:00 to 14:30 (IST)")
	assert.Contains(t, msg.Body, "Description: Quarterly")
	assert.Contains(t, msg.Body, "Meet Link: https://meet.test/abc")
	assert.Equal(t, "https://meet.test/abc", msg.Invite.URL)
}

func TestScheduledMessage_NoEventID(t *testing.T) {
	d := sampleDetails(t)
	d.EventID = ""
	assert.Nil(t, ScheduledMessage(d).Invite)
}
