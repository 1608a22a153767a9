// Package oauth runs the installed-app OAuth flow and hands out token sources
// that persist refreshed tokens.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
)

var (
	// ErrTokenNotFound is returned by a TokenStore that holds no token yet.
	ErrTokenNotFound = errors.New("oauth token not found")
	// ErrNotAuthorized is returned when no usable token exists.
	ErrNotAuthorized = errors.New("not authorized: run the auth command first")
)

// Purpose names what a token grants access to.
type Purpose string

const (
	PurposeCalendar Purpose = "calendar"
	PurposeGmail    Purpose = "gmail"
)

// Scopes returns the OAuth scopes requested for the purpose.
func (p Purpose) Scopes() []string {
	switch p {
	case PurposeCalendar:
		return []string{calendar.CalendarEventsScope, calendar.CalendarReadonlyScope}
	case PurposeGmail:
		return []string{gmail.GmailSendScope}
	default:
		return nil
	}
}

// TokenStore persists one OAuth token.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
}

// Service manages the OAuth flow and token storage for one purpose.
type Service struct {
	oauthConfig *oauth2.Config
	purpose     Purpose
	store       TokenStore
	logger      *slog.Logger
}

// NewService creates a new OAuth service.
func NewService(purpose Purpose, config *oauth2.Config, store TokenStore, logger *slog.Logger) (*Service, error) {
	if config == nil || config.ClientID == "" {
		return nil, errors.New("oauth configuration is incomplete")
	}
	if store == nil {
		return nil, errors.New("oauth token store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		oauthConfig: config,
		purpose:     purpose,
		store:       store,
		logger:      logger,
	}, nil
}

// NewServiceFromSecrets builds the service from a Google client secrets
// JSON document.
func NewServiceFromSecrets(purpose Purpose, secrets []byte, store TokenStore, logger *slog.Logger) (*Service, error) {
	config, err := google.ConfigFromJSON(secrets, purpose.Scopes()...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	return NewService(purpose, config, store, logger)
}

// Purpose returns what the service authorizes.
func (s *Service) Purpose() Purpose {
	return s.purpose
}

// AuthURL returns the consent URL. Offline access with forced consent makes
// Google return a refresh token every time.
func (s *Service) AuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeAndStore exchanges an authorization code and stores the token.
func (s *Service) ExchangeAndStore(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	if err := s.store.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	s.logger.InfoContext(ctx, "oauth token stored", "purpose", s.purpose)
	return token, nil
}

// TokenSource returns a source that refreshes the stored token and writes
// refreshed tokens back to the store.
func (s *Service) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := s.store.Load(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, fmt.Errorf("%s: %w", s.purpose, ErrNotAuthorized)
	}
	if err != nil {
		return nil, err
	}
	if token.RefreshToken == "" && !token.Valid() {
		return nil, fmt.Errorf("%s token expired without refresh token: %w", s.purpose, ErrNotAuthorized)
	}

	return &persistingTokenSource{
		base:   s.oauthConfig.TokenSource(ctx, token),
		store:  s.store,
		last:   token.AccessToken,
		logger: s.logger,
	}, nil
}

type persistingTokenSource struct {
	base   oauth2.TokenSource
	store  TokenStore
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if token.AccessToken != p.last {
		if err := p.store.Save(context.Background(), token); err != nil {
			p.logger.Warn("refreshed token not persisted", "error", err)
		} else {
			p.last = token.AccessToken
		}
	}
	return token, nil
}

// Registry holds the OAuth services by purpose.
type Registry struct {
	mu       sync.RWMutex
	services map[Purpose]*Service
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[Purpose]*Service)}
}

// Register adds or replaces the service for its purpose.
func (r *Registry) Register(service *Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[service.purpose] = service
}

// Get returns the service for purpose, or nil if not configured.
func (r *Registry) Get(purpose Purpose) *Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.services[purpose]
}

// Purposes lists the configured purposes.
func (r *Registry) Purposes() []Purpose {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Purpose, 0, len(r.services))
	for _, p := range []Purpose{PurposeCalendar, PurposeGmail} {
		if _, ok := r.services[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
