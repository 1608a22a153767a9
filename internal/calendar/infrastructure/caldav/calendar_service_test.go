package caldav

import (
	"context"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

func sampleEvent() domain.Event {
	return domain.Event{
		ID:          "9b0c6f4e-aaaa-bbbb-cccc-000000000001",
		Summary:     "Design review",
		Description: "Quarterly planning",
		Start:       time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2026, time.October, 12, 10, 0, 0, 0, time.UTC),
		Attendees:   []string{"me@example.com", "alice@example.com"},
	}
}

func TestNewCalendarService(t *testing.T) {
	t.Run("requires base url", func(t *testing.T) {
		_, err := NewCalendarService(Config{}, nil, nil, nil)
		require.Error(t, err)
	})

	t.Run("normalizes calendar path", func(t *testing.T) {
		svc, err := NewCalendarService(Config{
			BaseURL:      FastmailCalDAVURL,
			CalendarPath: "/dav/calendars/user/me/default",
		}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "/dav/calendars/user/me/default/", svc.calPath)
	})
}

func TestFreeBusy_OwnerNotRequested(t *testing.T) {
	svc, err := NewCalendarService(Config{
		BaseURL:    "http://127.0.0.1:1",
		OwnerEmail: "me@example.com",
	}, nil, nil, nil)
	require.NoError(t, err)

	window := schedulingDomain.TimeInterval{
		Start: time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC),
	}
	busy, err := svc.FreeBusy(context.Background(), []string{"alice@example.com"}, window)
	require.NoError(t, err)
	assert.Empty(t, busy)
}

func TestToICalendar(t *testing.T) {
	event := sampleEvent()
	now := time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)

	cal := toICalendar(event, "me@example.com", now)

	prodID, err := cal.Props.Text(ical.PropProductID)
	require.NoError(t, err)
	assert.Equal(t, productID, prodID)

	events := cal.Events()
	require.Len(t, events, 1)
	vevent := events[0]

	uid, err := vevent.Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, uid)

	summary, err := vevent.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Design review", summary)

	start, err := vevent.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, start.Equal(event.Start))

	end, err := vevent.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, end.Equal(event.End))

	assert.Equal(t, "mailto:me@example.com", vevent.Props[ical.PropOrganizer][0].Value)
	attendees := vevent.Props[ical.PropAttendee]
	require.Len(t, attendees, 2)
	assert.Equal(t, "mailto:alice@example.com", attendees[1].Value)
	assert.Equal(t, []string{"NEEDS-ACTION"}, attendees[1].Params["PARTSTAT"])
}

func TestParseCalendarObject(t *testing.T) {
	event := sampleEvent()
	obj := &caldav.CalendarObject{
		Path: "/dav/calendars/me/default/" + event.ID + ".ics",
		Data: toICalendar(event, "me@example.com", time.Now()),
	}

	ist := time.FixedZone("IST", 5*3600+1800)
	parsed := parseCalendarObject(obj, ist)
	require.NotNil(t, parsed)

	assert.Equal(t, event.ID, parsed.ID)
	assert.Equal(t, event.Summary, parsed.Summary)
	assert.Equal(t, event.Description, parsed.Description)
	assert.True(t, parsed.Start.Equal(event.Start))
	assert.True(t, parsed.End.Equal(event.End))
	assert.Equal(t, ist, parsed.Start.Location())
	assert.False(t, parsed.AllDay)
	assert.Equal(t, event.Attendees, parsed.Attendees)
}

func TestParseCalendarObject_FallsBackToPathID(t *testing.T) {
	cal := ical.NewCalendar()
	vevent := ical.NewEvent()
	vevent.Props.SetDateTime(ical.PropDateTimeStart, time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC))
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, time.Date(2026, time.October, 12, 9, 30, 0, 0, time.UTC))
	cal.Children = append(cal.Children, vevent.Component)

	parsed := parseCalendarObject(&caldav.CalendarObject{Path: "/cal/abc123.ics", Data: cal}, time.UTC)
	require.NotNil(t, parsed)
	assert.Equal(t, "abc123", parsed.ID)
}

func TestParseCalendarObject_NoEvent(t *testing.T) {
	assert.Nil(t, parseCalendarObject(nil, time.UTC))
	assert.Nil(t, parseCalendarObject(&caldav.CalendarObject{Data: ical.NewCalendar()}, time.UTC))
}

func TestBlocksTime(t *testing.T) {
	tests := []struct {
		name   string
		transp string
		status string
		want   bool
	}{
		{name: "opaque", want: true},
		{name: "transparent", transp: "TRANSPARENT", want: false},
		{name: "cancelled", status: "CANCELLED", want: false},
		{name: "confirmed", status: "CONFIRMED", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vevent := ical.NewEvent()
			if tt.transp != "" {
				vevent.Props.SetText(propTransp, tt.transp)
			}
			if tt.status != "" {
				vevent.Props.SetText(ical.PropStatus, tt.status)
			}
			assert.Equal(t, tt.want, blocksTime(vevent.Component))
		})
	}
}

func TestMatchesTerms(t *testing.T) {
	event := sampleEvent()

	assert.True(t, matchesTerms(event, nil))
	assert.True(t, matchesTerms(event, []string{"design"}))
	assert.True(t, matchesTerms(event, []string{"review", "alice"}))
	assert.False(t, matchesTerms(event, []string{"design", "bob"}))
}

func TestObjectURL(t *testing.T) {
	svc, err := NewCalendarService(Config{BaseURL: AppleCalDAVURL}, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://caldav.icloud.com/123/calendars/home/x.ics", svc.objectURL("/123/calendars/home/x.ics"))
}
