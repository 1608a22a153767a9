package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/security"
)

// FileContactRepository keeps contacts in a JSON object keyed by lowercased
// email. Reads are served from an in-memory snapshot; every mutation is
// persisted before the snapshot is swapped.
type FileContactRepository struct {
	path     string
	logger   *slog.Logger
	mu       sync.RWMutex
	contacts map[string]domain.Contact
}

// NewFileContactRepository creates a file-backed repository. Call Load before use.
func NewFileContactRepository(path string, logger *slog.Logger) *FileContactRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileContactRepository{
		path:     path,
		logger:   logger,
		contacts: map[string]domain.Contact{},
	}
}

// Load reads the contact file, creating an empty one if it does not exist.
// A file that cannot be decoded is treated as empty.
func (r *FileContactRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := security.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.contacts = map[string]domain.Contact{}
		return r.persist(r.contacts)
	}
	if err != nil {
		return fmt.Errorf("read contacts file: %w", err)
	}

	contacts := map[string]domain.Contact{}
	if err := json.Unmarshal(data, &contacts); err != nil {
		r.logger.WarnContext(ctx, "contacts file is not valid JSON, starting empty",
			"path", r.path,
			"error", err,
		)
		contacts = map[string]domain.Contact{}
	}

	normalized := make(map[string]domain.Contact, len(contacts))
	for _, c := range contacts {
		normalized[c.Key()] = c
	}
	r.contacts = normalized

	r.logger.DebugContext(ctx, "contacts loaded", "path", r.path, "count", len(normalized))
	return nil
}

// List returns all contacts ordered by email.
func (r *FileContactRepository) List(_ context.Context) ([]domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		out = append(out, c)
	}
	domain.SortContacts(out)
	return out, nil
}

// Search returns contacts whose email or display name contains query.
func (r *FileContactRepository) Search(_ context.Context, query string) ([]domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Contact
	for _, c := range r.contacts {
		if c.Matches(query) {
			out = append(out, c)
		}
	}
	domain.SortContacts(out)
	return out, nil
}

// FindByEmail returns the contact with the given email.
func (r *FileContactRepository) FindByEmail(_ context.Context, email string) (*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	return &c, nil
}

// Add stores a new contact.
func (r *FileContactRepository) Add(_ context.Context, contact domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contact.Key()
	if _, exists := r.contacts[key]; exists {
		return domain.ErrContactExists
	}

	next := r.clone()
	next[key] = contact
	if err := r.persist(next); err != nil {
		return err
	}
	r.contacts = next
	return nil
}

// Delete removes the contact with the given email.
func (r *FileContactRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeEmail(email)
	if _, exists := r.contacts[key]; !exists {
		return domain.ErrContactNotFound
	}

	next := r.clone()
	delete(next, key)
	if err := r.persist(next); err != nil {
		return err
	}
	r.contacts = next
	return nil
}

func (r *FileContactRepository) clone() map[string]domain.Contact {
	next := make(map[string]domain.Contact, len(r.contacts)+1)
	for k, v := range r.contacts {
		next[k] = v
	}
	return next
}

func (r *FileContactRepository) persist(contacts map[string]domain.Contact) error {
	data, err := json.MarshalIndent(contacts, "", "    ")
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	if err := security.WriteFileAtomic(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write contacts file: %w", err)
	}
	return nil
}
