package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
)

// AddContactCommand contains the data needed to add a contact.
type AddContactCommand struct {
	Email       string
	DisplayName string
}

// AddContactHandler handles the AddContactCommand.
type AddContactHandler struct {
	repo   domain.Repository
	logger *slog.Logger
}

// NewAddContactHandler creates a new AddContactHandler.
func NewAddContactHandler(repo domain.Repository, logger *slog.Logger) *AddContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddContactHandler{repo: repo, logger: logger}
}

// Handle executes the AddContactCommand.
func (h *AddContactHandler) Handle(ctx context.Context, cmd AddContactCommand) (*domain.Contact, error) {
	contact, err := domain.NewContact(cmd.Email, cmd.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Add(ctx, contact); err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}

	h.logger.InfoContext(ctx, "contact added", "email", contact.PrimaryEmail)
	return &contact, nil
}
