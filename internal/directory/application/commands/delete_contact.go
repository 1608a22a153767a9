package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
)

// DeleteContactCommand identifies the contact to remove.
type DeleteContactCommand struct {
	Email string
}

// DeleteContactHandler handles the DeleteContactCommand.
type DeleteContactHandler struct {
	repo   domain.Repository
	logger *slog.Logger
}

// NewDeleteContactHandler creates a new DeleteContactHandler.
func NewDeleteContactHandler(repo domain.Repository, logger *slog.Logger) *DeleteContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteContactHandler{repo: repo, logger: logger}
}

// Handle executes the DeleteContactCommand.
func (h *DeleteContactHandler) Handle(ctx context.Context, cmd DeleteContactCommand) error {
	email := strings.TrimSpace(cmd.Email)
	if email == "" {
		return domain.ErrContactInvalid
	}

	if err := h.repo.Delete(ctx, email); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	h.logger.InfoContext(ctx, "contact deleted", "email", email)
	return nil
}
