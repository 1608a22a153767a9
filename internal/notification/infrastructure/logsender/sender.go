// Package logsender writes notifications to the log instead of sending them.
package logsender

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	notificationApp "github.com/felixgeelhaar/rendezvous/internal/notification/application"
	"github.com/felixgeelhaar/rendezvous/internal/notification/domain"
)

// Sender logs each message at info level.
type Sender struct {
	logger *slog.Logger
}

var _ notificationApp.Sender = (*Sender)(nil)

// NewSender creates a logging sender.
func NewSender(logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{logger: logger}
}

// Send logs msg and returns a random message id.
func (s *Sender) Send(ctx context.Context, msg domain.Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	id := "log-" + uuid.NewString()
	s.logger.InfoContext(ctx, "notification",
		"message_id", id,
		"to", msg.Recipients(),
		"subject", msg.Subject,
		"body", msg.Body,
		"invite", msg.Invite != nil,
	)
	return id, nil
}
