package domain

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrContactExists   = errors.New("contact with this email already exists")
	ErrContactNotFound = errors.New("contact not found")
	ErrContactInvalid  = errors.New("email and display name are required")
)

// Contact is an address book entry. The lowercased email is its key.
type Contact struct {
	PrimaryEmail string `json:"primaryEmail"`
	DisplayName  string `json:"displayName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
}

// NewContact creates a contact, deriving first and last name from the display name.
func NewContact(email, displayName string) (Contact, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" || displayName == "" {
		return Contact{}, ErrContactInvalid
	}

	first, last, _ := strings.Cut(displayName, " ")
	return Contact{
		PrimaryEmail: email,
		DisplayName:  displayName,
		FirstName:    first,
		LastName:     last,
	}, nil
}

// Key returns the lookup key for the contact.
func (c Contact) Key() string {
	return NormalizeEmail(c.PrimaryEmail)
}

// Matches reports whether query is a case-insensitive substring of the
// contact's email or display name.
func (c Contact) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(c.PrimaryEmail), q) ||
		strings.Contains(strings.ToLower(c.DisplayName), q)
}

// Participant returns the contact as a resolved meeting participant.
func (c Contact) Participant() Participant {
	return Participant{PrimaryEmail: c.PrimaryEmail, DisplayName: c.DisplayName}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SortContacts orders contacts by lowercased email.
func SortContacts(contacts []Contact) {
	slices.SortFunc(contacts, func(a, b Contact) int {
		return strings.Compare(a.Key(), b.Key())
	})
}
