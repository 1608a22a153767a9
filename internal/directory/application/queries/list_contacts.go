package queries

import (
	"context"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
)

// ListContactsQuery optionally filters contacts by a substring of name or email.
type ListContactsQuery struct {
	Search string
}

// ListContactsHandler handles the ListContactsQuery.
type ListContactsHandler struct {
	repo domain.Repository
}

// NewListContactsHandler creates a new ListContactsHandler.
func NewListContactsHandler(repo domain.Repository) *ListContactsHandler {
	return &ListContactsHandler{repo: repo}
}

// Handle executes the ListContactsQuery.
func (h *ListContactsHandler) Handle(ctx context.Context, query ListContactsQuery) ([]domain.Contact, error) {
	if query.Search != "" {
		return h.repo.Search(ctx, query.Search)
	}
	return h.repo.List(ctx)
}
