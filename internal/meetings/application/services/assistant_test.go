package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/calendartest"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	directoryDomain "github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
	schedulingServices "github.com/felixgeelhaar/rendezvous/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

const me = "me@x.com"

type fakeOracle struct {
	parsed domain.ParsedRequest
	texts  []string
}

func (f *fakeOracle) Parse(_ context.Context, text string) domain.ParsedRequest {
	f.texts = append(f.texts, text)
	return f.parsed
}

type fakeResolver struct {
	called bool
}

func (f *fakeResolver) Resolve(_ context.Context, tokens []string) []directoryDomain.Participant {
	f.called = true
	out := []directoryDomain.Participant{{PrimaryEmail: me, DisplayName: "You"}}
	for _, token := range tokens {
		out = append(out, directoryDomain.Participant{PrimaryEmail: token, DisplayName: token})
	}
	return out
}

// at returns a time on Monday 2026-10-12 in IST.
func at(hour, minute int) time.Time {
	return time.Date(2026, time.October, 12, hour, minute, 0, 0, ist)
}

func interval(start time.Time, minutes int) schedulingDomain.TimeInterval {
	return schedulingDomain.TimeInterval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func minutes(n int) *int {
	return &n
}

type harness struct {
	oracle    *fakeOracle
	resolver  *fakeResolver
	cal       *calendartest.Fake
	assistant *Assistant
}

func newHarness(parsed domain.ParsedRequest) *harness {
	h := &harness{
		oracle:   &fakeOracle{parsed: parsed},
		resolver: &fakeResolver{},
		cal:      calendartest.New(),
	}
	search := schedulingServices.NewSlotSearch(h.cal, schedulingServices.DefaultSlotSearchConfig(ist), nil).
		WithClock(func() time.Time { return at(8, 0) })
	h.assistant = NewAssistant(h.oracle, h.resolver, h.cal, search, ist, nil)
	return h
}

func (h *harness) process(t *testing.T) domain.ActionResult {
	t.Helper()
	return h.assistant.ProcessMeetingRequest(context.Background(), "book a meeting")
}

func scheduleRequest() domain.ParsedRequest {
	return domain.ParsedRequest{
		Intent:          domain.IntentSchedule,
		Participants:    []string{"a@x.com"},
		DurationMinutes: minutes(30),
		StartDateHint:   "2026-10-12",
		StartTimeHint:   "14:00",
		MeetingTitle:    "Design sync",
	}
}

func TestAssistant_Schedule(t *testing.T) {
	t.Run("free candidate is proposed", func(t *testing.T) {
		h := newHarness(scheduleRequest())

		result := h.process(t)

		assert.Equal(t, domain.StatusSuccess, result.Status)
		assert.Equal(t, "Proposed time looks available. Confirm to schedule.", result.Message)
		require.Len(t, result.SuggestedSlots, 1)
		assert.Equal(t, domain.NewSlot(interval(at(14, 0), 30)), result.SuggestedSlots[0])

		draft := result.InitialMeetingDetails
		require.NotNil(t, draft)
		assert.Equal(t, "Design sync", draft.Summary)
		assert.Equal(t, "me@x.com, a@x.com", draft.Attendees)
		require.NotNil(t, draft.StartTime)
		assert.Equal(t, "2026-10-12T14:00:00+05:30", *draft.StartTime)
		assert.Equal(t, "Meeting scheduled via Book Meeting Assistant.", draft.Description)

		assert.False(t, h.cal.Called("CreateEvent"))
		require.NotNil(t, result.ParsedData)
		assert.Equal(t, domain.IntentSchedule, result.ParsedData.Intent)
		assert.Len(t, result.ResolvedParticipants, 2)
	})

	t.Run("busy candidate suggests alternatives from the anchor", func(t *testing.T) {
		h := newHarness(scheduleRequest())
		h.cal.SetBusy("a@x.com", interval(at(14, 0), 60))

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Proposed time is busy. Looking for alternatives.", result.Message)
		require.Len(t, result.SuggestedSlots, 5)
		assert.Equal(t, domain.NewSlot(interval(at(15, 0), 30)), result.SuggestedSlots[0])
	})

	t.Run("availability failure is treated as busy", func(t *testing.T) {
		h := newHarness(scheduleRequest())
		h.cal.FreeBusyErr = errors.New("backend down")

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Proposed time is busy. Looking for alternatives.", result.Message)
		assert.Empty(t, result.SuggestedSlots)
	})

	t.Run("malformed hint falls back to anchorless search", func(t *testing.T) {
		parsed := scheduleRequest()
		parsed.StartDateHint = "next tuesday"
		h := newHarness(parsed)

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Error processing direct schedule attempt. Looking for suggestions.", result.Message)
		require.NotEmpty(t, result.SuggestedSlots)
		assert.Equal(t, domain.NewSlot(interval(at(9, 0), 30)), result.SuggestedSlots[0])
	})

	t.Run("partial hint searches without anchor", func(t *testing.T) {
		parsed := scheduleRequest()
		parsed.StartTimeHint = ""
		h := newHarness(parsed)

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Looking for available time slots.", result.Message)
		assert.Len(t, result.SuggestedSlots, 5)
	})

	t.Run("missing duration asks for details", func(t *testing.T) {
		parsed := scheduleRequest()
		parsed.DurationMinutes = nil
		parsed.MeetingTitle = ""
		h := newHarness(parsed)

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Contains(t, result.Message, "Not enough information to find specific slots.")
		assert.Empty(t, result.SuggestedSlots)
		draft := result.InitialMeetingDetails
		require.NotNil(t, draft)
		assert.Equal(t, "New Meeting", draft.Summary)
		assert.Nil(t, draft.StartTime)
		assert.Nil(t, draft.EndTime)
		assert.Equal(t, "Meeting request: book a meeting", draft.Description)
		assert.False(t, h.cal.Called("FreeBusy"))
	})
}

func existingSync() calendarDomain.Event {
	return calendarDomain.Event{
		ID:        "evt-sync",
		Summary:   "Sync with Raj",
		Start:     at(10, 0),
		End:       at(11, 0),
		Attendees: []string{me, "raj@x.com"},
		HTMLLink:  "https://calendar.test/event/evt-sync",
	}
}

func allDaySync() calendarDomain.Event {
	e := existingSync()
	e.AllDay = true
	e.Start = time.Date(2026, time.October, 12, 0, 0, 0, 0, ist)
	e.End = e.Start.AddDate(0, 0, 1)
	return e
}

func modifyRequest(intent domain.Intent) domain.ParsedRequest {
	return domain.ParsedRequest{
		Intent:                  intent,
		OriginalMeetingKeywords: []string{"sync"},
		OriginalMeetingDateHint: "2026-10-12",
		OriginalMeetingTimeHint: "10:00",
	}
}

func TestAssistant_Cancel(t *testing.T) {
	t.Run("matching event asks for confirmation", func(t *testing.T) {
		h := newHarness(modifyRequest(domain.IntentCancel))
		h.cal.AddEvent(existingSync())

		result := h.process(t)

		assert.Equal(t, domain.StatusConfirmation, result.Status)
		assert.Equal(t, "Please confirm cancellation.", result.Message)
		require.NotNil(t, result.ConfirmationDetails)
		assert.Equal(t, domain.IntentCancel, result.ConfirmationDetails.Intent)
		assert.Equal(t, "evt-sync", result.ConfirmationDetails.Original.ID)
		assert.Equal(t, "2026-10-12T10:00:00+05:30", result.ConfirmationDetails.Original.Start)
		assert.Nil(t, result.ConfirmationDetails.New)
		assert.False(t, h.cal.Called("DeleteEvent"))
	})

	t.Run("no match", func(t *testing.T) {
		h := newHarness(modifyRequest(domain.IntentCancel))

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Could not find a meeting to cancel. Please provide more specific keywords or a date.", result.Message)
	})

	t.Run("missing original time", func(t *testing.T) {
		parsed := modifyRequest(domain.IntentCancel)
		parsed.OriginalMeetingTimeHint = ""
		h := newHarness(parsed)

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Please provide both the date and time of the meeting you want to cancel.", result.Message)
		assert.False(t, h.cal.Called("ListEvents"))
	})

	t.Run("malformed original time", func(t *testing.T) {
		parsed := modifyRequest(domain.IntentCancel)
		parsed.OriginalMeetingTimeHint = "morning"
		h := newHarness(parsed)

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Contains(t, result.Message, "Could not parse the original meeting date and time.")
	})

	t.Run("lookup failure", func(t *testing.T) {
		h := newHarness(modifyRequest(domain.IntentCancel))
		h.cal.ListErr = errors.New("quota exceeded")

		result := h.process(t)

		assert.Equal(t, domain.StatusError, result.Status)
		assert.Contains(t, result.Message, "quota exceeded")
	})
}

func TestAssistant_Reschedule(t *testing.T) {
	withNewTime := func() domain.ParsedRequest {
		parsed := modifyRequest(domain.IntentReschedule)
		parsed.StartDateHint = "2026-10-12"
		parsed.StartTimeHint = "15:00"
		return parsed
	}

	t.Run("free new time asks for confirmation", func(t *testing.T) {
		h := newHarness(withNewTime())
		h.cal.AddEvent(existingSync())

		result := h.process(t)

		assert.Equal(t, domain.StatusConfirmation, result.Status)
		assert.Equal(t, "Proposed time is available. Please confirm.", result.Message)
		details := result.ConfirmationDetails
		require.NotNil(t, details)
		assert.Equal(t, domain.IntentReschedule, details.Intent)
		assert.Equal(t, "evt-sync", details.Original.ID)
		require.NotNil(t, details.New)
		assert.Equal(t, "2026-10-12T15:00:00+05:30", details.New.Start)
		assert.Equal(t, "2026-10-12T16:00:00+05:30", details.New.End)
		assert.Equal(t, "Sync with Raj", details.New.Summary)
		assert.False(t, h.cal.Called("UpdateEvent"))
	})

	t.Run("busy new time suggests slots with the original length", func(t *testing.T) {
		h := newHarness(withNewTime())
		h.cal.AddEvent(existingSync())
		h.cal.SetBusy("raj@x.com", interval(at(15, 0), 30))

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Proposed time is busy. Here are some alternative slots.", result.Message)
		require.NotEmpty(t, result.SuggestedSlots)
		assert.Equal(t, domain.NewSlot(interval(at(15, 30), 60)), result.SuggestedSlots[0])
	})

	t.Run("all-day original uses the requested duration", func(t *testing.T) {
		parsed := withNewTime()
		parsed.DurationMinutes = minutes(45)
		h := newHarness(parsed)
		h.cal.AddEvent(allDaySync())

		result := h.process(t)

		assert.Equal(t, domain.StatusConfirmation, result.Status)
		require.NotNil(t, result.ConfirmationDetails)
		require.NotNil(t, result.ConfirmationDetails.New)
		assert.Equal(t, "2026-10-12T15:00:00+05:30", result.ConfirmationDetails.New.Start)
		assert.Equal(t, "2026-10-12T15:45:00+05:30", result.ConfirmationDetails.New.End)
	})

	t.Run("busy all-day original suggests default length slots", func(t *testing.T) {
		h := newHarness(withNewTime())
		h.cal.AddEvent(allDaySync())
		h.cal.SetBusy("raj@x.com", interval(at(15, 0), 30))

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		require.NotEmpty(t, result.SuggestedSlots)
		assert.Equal(t, domain.NewSlot(interval(at(15, 30), 30)), result.SuggestedSlots[0])
	})

	t.Run("without a new time lists the matches", func(t *testing.T) {
		h := newHarness(modifyRequest(domain.IntentReschedule))
		h.cal.AddEvent(existingSync())

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Equal(t, "Found a matching meeting. Please provide a new date and time for rescheduling.", result.Message)
		require.Len(t, result.ExistingMeetings, 1)
		assert.Equal(t, "evt-sync", result.ExistingMeetings[0].ID)
		assert.Equal(t, "https://calendar.test/event/evt-sync", result.ExistingMeetings[0].HTMLLink)
	})

	t.Run("malformed new time", func(t *testing.T) {
		parsed := withNewTime()
		parsed.StartTimeHint = "3pm"
		h := newHarness(parsed)
		h.cal.AddEvent(existingSync())

		result := h.process(t)

		assert.Equal(t, domain.StatusInfo, result.Status)
		assert.Contains(t, result.Message, "Could not parse the new date and time.")
	})
}

func TestAssistant_UnknownIntent(t *testing.T) {
	h := newHarness(domain.ParsedRequest{Intent: domain.IntentUnknown, Participants: []string{"bob@gmail.com"}})

	result := h.process(t)

	assert.Equal(t, domain.StatusInfo, result.Status)
	assert.Contains(t, result.Message, "I couldn't understand your request.")
	require.NotNil(t, result.InitialMeetingDetails)
	assert.Equal(t, "me@x.com, bob@gmail.com", result.InitialMeetingDetails.Attendees)
}

func TestAssistant_OracleFailure(t *testing.T) {
	h := newHarness(domain.FailedRequest("Failed to parse LLM response into JSON.", errors.New("bad json")))

	result := h.process(t)

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Contains(t, result.Message, "Failed to parse LLM response into JSON.")
	require.NotNil(t, result.ParsedData)
	assert.Equal(t, domain.IntentUnknown, result.ParsedData.Intent)
	assert.Empty(t, result.ResolvedParticipants)
	assert.False(t, h.resolver.called)
	assert.Empty(t, h.cal.Calls())
}

func TestAssistant_EmptyQuery(t *testing.T) {
	h := newHarness(scheduleRequest())

	result := h.assistant.ProcessMeetingRequest(context.Background(), "   ")

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Empty(t, h.oracle.texts)
}
