package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/notification/domain"
)

const notAvailable = "N/A"

// MeetingDetails is what the meeting templates render.
type MeetingDetails struct {
	EventID      string
	Summary      string
	Description  string
	Start        time.Time
	End          time.Time
	Attendees    []string
	Organizer    string
	CalendarLink string
	MeetLink     string
}

// ScheduledMessage renders the confirmation sent after a meeting is booked.
func ScheduledMessage(d MeetingDetails) domain.Message {
	return domain.Message{
		To:      d.Attendees,
		Subject: "Meeting Confirmation: " + d.Summary,
		Body:    renderBody(d, "has been scheduled.", "Time"),
		Invite:  invite(d),
	}
}

// RescheduledMessage renders the notice sent after a meeting moves.
func RescheduledMessage(d MeetingDetails) domain.Message {
	return domain.Message{
		To:      d.Attendees,
		Subject: "Rescheduled: " + d.Summary,
		Body:    renderBody(d, "has been successfully rescheduled.", "New Time"),
		Invite:  invite(d),
	}
}

func renderBody(d MeetingDetails, verb, timeLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi,\n\nYour meeting '%s' %s\n\n", d.Summary, verb)
	fmt.Fprintf(&b, "%s: %s to %s (%s)\n",
		timeLabel,
		d.Start.Format("2006-01-02 15:04"),
		d.End.Format("15:04"),
		d.Start.Format("MST"),
	)
	fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(d.Attendees, ", "))
	fmt.Fprintf(&b, "Description: %s\n", orNA(d.Description))
	fmt.Fprintf(&b, "Calendar Link: %s\n", d.CalendarLink)
	fmt.Fprintf(&b, "Meet Link: %s\n\n", orNA(d.MeetLink))
	b.WriteString("Thank you.")
	return b.String()
}

func invite(d MeetingDetails) *domain.Invite {
	if d.EventID == "" {
		return nil
	}
	url := d.MeetLink
	if url == "" {
		url = d.CalendarLink
	}
	return &domain.Invite{
		UID:         d.EventID,
		Summary:     d.Summary,
		Description: d.Description,
		Start:       d.Start,
		End:         d.End,
		Organizer:   d.Organizer,
		Attendees:   append([]string(nil), d.Attendees...),
		URL:         url,
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
