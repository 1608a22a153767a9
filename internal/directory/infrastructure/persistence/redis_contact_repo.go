package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisContactsKey is the hash holding all contacts.
const DefaultRedisContactsKey = "rendezvous:contacts"

// RedisContactRepository stores contacts as JSON values in a single Redis
// hash, with the lowercased email as field.
type RedisContactRepository struct {
	client *redis.Client
	key    string
}

// NewRedisContactRepository creates a Redis-backed repository. An empty key
// uses DefaultRedisContactsKey.
func NewRedisContactRepository(client *redis.Client, key string) *RedisContactRepository {
	if key == "" {
		key = DefaultRedisContactsKey
	}
	return &RedisContactRepository{client: client, key: key}
}

// List returns all contacts ordered by email.
func (r *RedisContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(values))
	for field, raw := range values {
		var c domain.Contact
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode contact %s: %w", field, err)
		}
		contacts = append(contacts, c)
	}
	domain.SortContacts(contacts)
	return contacts, nil
}

// Search returns contacts whose email or display name contains query.
func (r *RedisContactRepository) Search(ctx context.Context, query string) ([]domain.Contact, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var hits []domain.Contact
	for _, c := range all {
		if c.Matches(query) {
			hits = append(hits, c)
		}
	}
	return hits, nil
}

// FindByEmail returns the contact with the given email.
func (r *RedisContactRepository) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	raw, err := r.client.HGet(ctx, r.key, domain.NormalizeEmail(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}

	var c domain.Contact
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}
	return &c, nil
}

// Add stores a new contact.
func (r *RedisContactRepository) Add(ctx context.Context, c domain.Contact) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode contact: %w", err)
	}

	created, err := r.client.HSetNX(ctx, r.key, c.Key(), raw).Result()
	if err != nil {
		return fmt.Errorf("add contact: %w", err)
	}
	if !created {
		return domain.ErrContactExists
	}
	return nil
}

// Delete removes the contact with the given email.
func (r *RedisContactRepository) Delete(ctx context.Context, email string) error {
	removed, err := r.client.HDel(ctx, r.key, domain.NormalizeEmail(email)).Result()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if removed == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}
