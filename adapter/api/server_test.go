package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/internal/app/apptest"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/calendartest"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	meetingsDomain "github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

var now = apptest.Now

type fixture struct {
	handler http.Handler
	cal     *calendartest.Fake
	oracle  *apptest.Oracle
	loc     *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h := apptest.New(t)
	return &fixture{
		handler: NewServer(DefaultServerConfig(), h.Container, nil).Handler(),
		cal:     h.Calendar,
		oracle:  h.Oracle,
		loc:     h.Container.Location,
	}
}

func (f *fixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return rec, payload
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec, payload := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", payload["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProcessQuery(t *testing.T) {
	t.Run("missing query", func(t *testing.T) {
		f := newFixture(t)

		rec, payload := f.do(t, http.MethodPost, "/process_query", `{"query":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No query provided.", payload["message"])
		assert.Empty(t, f.oracle.Texts)
	})

	t.Run("oracle failure is returned as a result", func(t *testing.T) {
		f := newFixture(t)
		f.oracle.Parsed = meetingsDomain.FailedRequest("An unexpected error occurred during NLP parsing.", nil)

		rec, payload := f.do(t, http.MethodPost, "/process_query", `{"query":"meet raj tomorrow"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "error", payload["status"])
		assert.Equal(t, []string{"meet raj tomorrow"}, f.oracle.Texts)
	})
}

func TestMeetings_Schedule(t *testing.T) {
	f := newFixture(t)

	rec, payload := f.do(t, http.MethodPost, "/meetings", `{
		"action": "schedule",
		"summary": "Design review",
		"attendees": "me@example.com, raj@example.com, ",
		"startTime": "2026-10-12T15:00:00",
		"endTime": "2026-10-12T15:30:00"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "Meeting scheduled and email sent!", payload["message"])

	id, _ := payload["event_id"].(string)
	event, ok := f.cal.Event(id)
	require.True(t, ok)
	assert.Equal(t, "Design review", event.Summary)
	assert.ElementsMatch(t, []string{"me@example.com", "raj@example.com"}, event.Attendees)
	assert.True(t, event.Start.Equal(time.Date(2026, time.October, 12, 15, 0, 0, 0, f.loc)))
}

func TestMeetings_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"schedule missing fields", `{"action":"schedule","summary":"x"}`, "Missing required fields for scheduling."},
		{"schedule blank attendees", `{"action":"schedule","summary":"x","attendees":" , ","startTime":"2026-10-12T15:00","endTime":"2026-10-12T15:30"}`, "No valid attendees emails provided."},
		{"schedule bad time", `{"action":"schedule","summary":"x","attendees":"a@x.com","startTime":"soon","endTime":"2026-10-12T15:30"}`, "Invalid startTime: expected an ISO-8601 timestamp."},
		{"update without id", `{"action":"update"}`, "Event ID is required for updating."},
		{"update bad end", `{"action":"update","eventId":"e1","endTime":"later"}`, "Invalid endTime: expected an ISO-8601 timestamp."},
		{"cancel without id", `{"action":"cancel"}`, "Event ID is required for canceling."},
		{"unknown action", `{"action":"archive"}`, "Invalid action specified: archive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec, payload := f.do(t, http.MethodPost, "/meetings", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "error", payload["status"])
			assert.Equal(t, tt.message, payload["message"])
			assert.Empty(t, f.cal.Calls())
		})
	}
}

func TestMeetings_UpdateAndCancel(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, time.October, 13, 10, 0, 0, 0, f.loc)
	id := f.cal.AddEvent(calendarDomain.Event{
		Summary:   "Sync",
		Start:     start,
		End:       start.Add(30 * time.Minute),
		Attendees: []string{"me@example.com", "raj@example.com"},
	})

	rec, payload := f.do(t, http.MethodPost, "/meetings",
		`{"action":"update","eventId":"`+id+`","startTime":"2026-10-13T11:00:00+05:30","endTime":"2026-10-13T11:30:00+05:30"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])
	event, _ := f.cal.Event(id)
	assert.True(t, event.Start.Equal(start.Add(time.Hour)))

	rec, payload = f.do(t, http.MethodPost, "/meetings", `{"action":"cancel","eventId":"`+id+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Meeting cancelled!", payload["message"])
	_, ok := f.cal.Event(id)
	assert.False(t, ok)
}

func TestListUpcomingEvents(t *testing.T) {
	f := newFixture(t)
	start := now.Add(24 * time.Hour)
	f.cal.AddEvent(calendarDomain.Event{ID: "e1", Start: start, End: start.Add(time.Hour)})

	rec, payload := f.do(t, http.MethodGet, "/list_upcoming_events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])
	events := payload["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "No Title", events[0].(map[string]any)["summary"])

	rec, payload = f.do(t, http.MethodGet, "/list_upcoming_events?days=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", payload["status"])
}

func TestListUpcomingEvents_CalendarFailure(t *testing.T) {
	f := newFixture(t)
	f.cal.ListErr = assert.AnError

	rec, payload := f.do(t, http.MethodGet, "/list_upcoming_events", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, payload["message"], "Failed to retrieve events: ")
}

func TestContacts(t *testing.T) {
	f := newFixture(t)

	rec, payload := f.do(t, http.MethodPost, "/contacts", `{"email":"raj@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and display name are required.", payload["message"])

	_, payload = f.do(t, http.MethodPost, "/contacts", `{"email":"raj@example.com","displayName":"Raj Kumar"}`)
	assert.Equal(t, "Contact added successfully.", payload["message"])

	_, payload = f.do(t, http.MethodPost, "/contacts", `{"email":"raj@example.com","displayName":"Raj"}`)
	assert.Equal(t, "error", payload["status"])
	assert.Equal(t, "Contact with this email already exists.", payload["message"])

	rec, payload = f.do(t, http.MethodGet, "/contacts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	contacts := payload["contacts"].([]any)
	require.Len(t, contacts, 1)
	assert.Equal(t, "raj@example.com", contacts[0].(map[string]any)["primaryEmail"])

	rec, payload = f.do(t, http.MethodDelete, "/contacts", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required for deletion.", payload["message"])

	_, payload = f.do(t, http.MethodDelete, "/contacts", `{"email":"raj@example.com"}`)
	assert.Equal(t, "Contact deleted successfully.", payload["message"])

	_, payload = f.do(t, http.MethodDelete, "/contacts?email=raj@example.com", "")
	assert.Equal(t, "error", payload["status"])
	assert.Equal(t, "Contact not found.", payload["message"])
}
