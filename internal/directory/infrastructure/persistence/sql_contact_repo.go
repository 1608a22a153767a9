package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database"
)

const contactColumns = "primary_email, display_name, first_name, last_name"

// SQLContactRepository implements domain.Repository on SQLite or PostgreSQL.
// The schema is created by the migrations package.
type SQLContactRepository struct {
	conn database.Connection
}

// NewSQLContactRepository creates a new SQL contact repository.
func NewSQLContactRepository(conn database.Connection) *SQLContactRepository {
	return &SQLContactRepository{conn: conn}
}

func (r *SQLContactRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// List returns all contacts ordered by email.
func (r *SQLContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY email_key`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return scanContacts(rows)
}

// Search returns contacts whose email or display name contains query.
func (r *SQLContactRepository) Search(ctx context.Context, query string) ([]domain.Contact, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(query) + "%"

	rows, err := r.conn.Query(ctx, r.q(`SELECT `+contactColumns+` FROM contacts
		WHERE email_key LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\'
		ORDER BY email_key`), pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return scanContacts(rows)
}

// FindByEmail returns the contact with the given email.
func (r *SQLContactRepository) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.conn.QueryRow(ctx, r.q(`SELECT `+contactColumns+` FROM contacts WHERE email_key = ?`), domain.NormalizeEmail(email)).
		Scan(&c.PrimaryEmail, &c.DisplayName, &c.FirstName, &c.LastName)
	if database.IsNoRows(err) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &c, nil
}

// Add stores a new contact.
func (r *SQLContactRepository) Add(ctx context.Context, c domain.Contact) error {
	res, err := r.conn.Exec(ctx, r.q(`INSERT INTO contacts (email_key, `+contactColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email_key) DO NOTHING`),
		c.Key(), c.PrimaryEmail, c.DisplayName, c.FirstName, c.LastName)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	if n == 0 {
		return domain.ErrContactExists
	}
	return nil
}

// Delete removes the contact with the given email.
func (r *SQLContactRepository) Delete(ctx context.Context, email string) error {
	res, err := r.conn.Exec(ctx, r.q(`DELETE FROM contacts WHERE email_key = ?`), domain.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func scanContacts(rows database.Rows) ([]domain.Contact, error) {
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.PrimaryEmail, &c.DisplayName, &c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
