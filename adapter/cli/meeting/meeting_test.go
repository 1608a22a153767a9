package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	"github.com/felixgeelhaar/rendezvous/internal/app/apptest"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	meetingQueries "github.com/felixgeelhaar/rendezvous/internal/meetings/application/queries"
)

func setupTestApp(t *testing.T) *apptest.Harness {
	t.Helper()
	h := apptest.New(t)
	cli.SetApp(cli.NewApp(h.Container))
	t.Cleanup(func() { cli.SetApp(nil) })
	return h
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	t.Cleanup(func() { cmd.SetOut(nil) })
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestScheduleCmd_BooksMeeting(t *testing.T) {
	h := setupTestApp(t)

	scheduleAttendees = "me@example.com, raj@example.com"
	scheduleStart = "2026-10-14T15:00"
	scheduleEnd = "2026-10-14T15:30"
	scheduleDescription = "Quarterly plan"

	out, err := run(t, scheduleCmd, "Design review")
	require.NoError(t, err)
	assert.Contains(t, out, "[success] Meeting scheduled and email sent!")
	assert.True(t, h.Calendar.Called("CreateEvent"))
}

func TestScheduleCmd_RejectsBadInput(t *testing.T) {
	setupTestApp(t)

	scheduleAttendees = " , "
	scheduleStart = "2026-10-14T15:00"
	scheduleEnd = "2026-10-14T15:30"
	_, err := run(t, scheduleCmd, "Design review")
	assert.ErrorContains(t, err, "--attendees")

	scheduleAttendees = "raj@example.com"
	scheduleStart = "next tuesday"
	_, err = run(t, scheduleCmd, "Design review")
	assert.ErrorContains(t, err, "--start")
}

func TestUpdateAndCancelCmd(t *testing.T) {
	h := setupTestApp(t)
	loc := h.Container.Location
	start := time.Date(2026, time.October, 14, 10, 0, 0, 0, loc)
	id := h.Calendar.AddEvent(calendarDomain.Event{
		Summary:   "Sync",
		Start:     start,
		End:       start.Add(30 * time.Minute),
		Attendees: []string{"me@example.com", "raj@example.com"},
	})

	updateStart = "2026-10-14T16:00"
	updateEnd = "2026-10-14T16:30"
	updateDryRun = true
	out, err := run(t, updateCmd, id)
	require.NoError(t, err)
	assert.Contains(t, out, "Proposed time is available.")
	event, _ := h.Calendar.Event(id)
	assert.True(t, event.Start.Equal(start), "dry run leaves the event alone")

	updateDryRun = false
	_, err = run(t, updateCmd, id)
	require.NoError(t, err)
	event, _ = h.Calendar.Event(id)
	assert.True(t, event.Start.Equal(start.Add(6*time.Hour)))

	out, err = run(t, cancelCmd, id)
	require.NoError(t, err)
	assert.Contains(t, out, "Meeting cancelled!")
	_, ok := h.Calendar.Event(id)
	assert.False(t, ok)
}

func TestUpcomingCmd(t *testing.T) {
	h := setupTestApp(t)
	upcomingDays = meetingQueries.DefaultUpcomingDays
	upcomingQuery = ""

	out, err := run(t, upcomingCmd)
	require.NoError(t, err)
	assert.Equal(t, "No upcoming meetings.\n", out)

	start := apptest.Now.Add(48 * time.Hour)
	h.Calendar.AddEvent(calendarDomain.Event{ID: "evt-1", Summary: "Planning", Start: start, End: start.Add(time.Hour)})

	cli.SetJSONOutput(true)
	defer cli.SetJSONOutput(false)
	out, err = run(t, upcomingCmd)
	require.NoError(t, err)

	var events []meetingQueries.UpcomingEvent
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Planning", events[0].Summary)
}

func TestCommands_RequireApp(t *testing.T) {
	cli.SetApp(nil)

	_, err := run(t, cancelCmd, "evt-1")
	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}
