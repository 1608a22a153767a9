// Package gmail delivers notifications through the Gmail API.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	notificationApp "github.com/felixgeelhaar/rendezvous/internal/notification/application"
	"github.com/felixgeelhaar/rendezvous/internal/notification/domain"
)

const (
	userMe     = "me"
	productID  = "-//Rendezvous//Meeting Assistant//EN"
	methodProp = "METHOD"
	methodReq  = "REQUEST"
	propURL    = "URL"
)

// Sender sends plain-text messages, with an .ics invite part when present.
type Sender struct {
	api    *gmail.Service
	from   string
	logger *slog.Logger
	now    func() time.Time
}

var _ notificationApp.Sender = (*Sender)(nil)

// NewSender creates a Gmail sender. opts usually carry an OAuth HTTP client
// via option.WithHTTPClient. from may be empty to let Gmail fill it in.
func NewSender(ctx context.Context, from string, logger *slog.Logger, opts ...option.ClientOption) (*Sender, error) {
	if logger == nil {
		logger = slog.Default()
	}

	api, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Sender{api: api, from: from, logger: logger, now: time.Now}, nil
}

// Send delivers msg and returns the Gmail message id.
func (s *Sender) Send(ctx context.Context, msg domain.Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	raw, err := s.compose(msg)
	if err != nil {
		return "", err
	}

	sent, err := s.api.Users.Messages.Send(userMe, &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}

	s.logger.InfoContext(ctx, "email sent", "message_id", sent.Id, "recipients", len(msg.Recipients()))
	return sent.Id, nil
}

// compose renders an RFC 2822 message.
func (s *Sender) compose(msg domain.Message) ([]byte, error) {
	var head bytes.Buffer
	writeHeader(&head, "To", strings.Join(msg.Recipients(), ", "))
	if s.from != "" {
		writeHeader(&head, "From", s.from)
	}
	writeHeader(&head, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&head, "MIME-Version", "1.0")

	if msg.Invite == nil {
		writeHeader(&head, "Content-Type", `text/plain; charset="UTF-8"`)
		head.WriteString("\r\n")
		head.WriteString(msg.Body)
		return head.Bytes(), nil
	}

	ics, err := encodeInvite(*msg.Invite, s.now())
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	cal, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {`text/calendar; charset="UTF-8"; method=REQUEST`},
		"Content-Disposition": {`attachment; filename="invite.ics"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := cal.Write(ics); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	writeHeader(&head, "Content-Type", "multipart/mixed; boundary="+mw.Boundary())
	head.WriteString("\r\n")
	head.Write(body.Bytes())
	return head.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

// encodeInvite renders a METHOD:REQUEST calendar for the invite.
func encodeInvite(inv domain.Invite, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(methodProp, methodReq)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, inv.UID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, inv.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, inv.End.UTC())
	event.Props.SetText(ical.PropSummary, inv.Summary)
	if inv.Description != "" {
		event.Props.SetText(ical.PropDescription, inv.Description)
	}
	if inv.URL != "" {
		event.Props.SetText(propURL, inv.URL)
	}
	if inv.Organizer != "" {
		prop := ical.NewProp(ical.PropOrganizer)
		prop.Value = "mailto:" + inv.Organizer
		event.Props[ical.PropOrganizer] = []ical.Prop{*prop}
	}
	for _, email := range inv.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Value = "mailto:" + email
		prop.Params["RSVP"] = []string{"TRUE"}
		event.Props[ical.PropAttendee] = append(event.Props[ical.PropAttendee], *prop)
	}
	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode invite: %w", err)
	}
	return buf.Bytes(), nil
}
