package domain

import "context"

// Repository defines the interface for contact persistence.
// Emails are matched case-insensitively. List and Search return contacts
// ordered by lowercased email.
type Repository interface {
	List(ctx context.Context) ([]Contact, error)
	Search(ctx context.Context, query string) ([]Contact, error)
	FindByEmail(ctx context.Context, email string) (*Contact, error)
	Add(ctx context.Context, contact Contact) error
	Delete(ctx context.Context, email string) error
}
