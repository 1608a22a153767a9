// Package domain holds outbound notification messages.
package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNoRecipients = errors.New("notification requires at least one recipient")
	ErrEmptySubject = errors.New("notification subject is required")
)

// Invite is a calendar invitation attached to a message.
type Invite struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Organizer   string
	Attendees   []string
	URL         string
}

// Message is a plain-text email with an optional invite.
type Message struct {
	To      []string
	Subject string
	Body    string
	Invite  *Invite
}

// Validate checks the message can be delivered.
func (m Message) Validate() error {
	if len(m.Recipients()) == 0 {
		return ErrNoRecipients
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrEmptySubject
	}
	return nil
}

// Recipients returns the non-blank addresses in To.
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To))
	for _, to := range m.To {
		if to = strings.TrimSpace(to); to != "" {
			out = append(out, to)
		}
	}
	return out
}
