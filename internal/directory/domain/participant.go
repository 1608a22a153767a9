package domain

import "strings"

// Participant is a canonical calendar identity.
type Participant struct {
	PrimaryEmail string `json:"primaryEmail"`
	DisplayName  string `json:"displayName"`
}

// Emails returns the primary emails of participants, preserving order.
func Emails(participants []Participant) []string {
	emails := make([]string, 0, len(participants))
	for _, p := range participants {
		emails = append(emails, p.PrimaryEmail)
	}
	return emails
}

// ContainsEmail reports whether any participant has email, ignoring case.
func ContainsEmail(participants []Participant, email string) bool {
	for _, p := range participants {
		if strings.EqualFold(p.PrimaryEmail, email) {
			return true
		}
	}
	return false
}
