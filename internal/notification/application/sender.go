// Package application defines the notification port and meeting templates.
package application

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/rendezvous/internal/notification/domain"
)

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg domain.Message) (string, error)
}

// SenderFactory builds a Sender.
type SenderFactory func(ctx context.Context) (Sender, error)

// LazySender builds its Sender on first use and retries failed builds.
type LazySender struct {
	factory SenderFactory

	mu     sync.Mutex
	sender Sender
}

// NewLazySender wraps factory.
func NewLazySender(factory SenderFactory) *LazySender {
	return &LazySender{factory: factory}
}

// Send builds the sender if needed and delivers msg.
func (s *LazySender) Send(ctx context.Context, msg domain.Message) (string, error) {
	s.mu.Lock()
	sender := s.sender
	if sender == nil {
		var err error
		if sender, err = s.factory(ctx); err != nil {
			s.mu.Unlock()
			return "", err
		}
		s.sender = sender
	}
	s.mu.Unlock()
	return sender.Send(ctx, msg)
}
