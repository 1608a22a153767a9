// Package setup registers the calendar backends and builds the calendar
// service the assistant talks to.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/caldav"
	googleCal "github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/google"
)

// ErrGoogleNotConfigured is returned when Google Calendar is selected but no
// OAuth client secrets were loaded.
var ErrGoogleNotConfigured = errors.New("google calendar requires OAuth client secrets")

// OAuthTokenProvider provides the OAuth2 token source for the calendar.
type OAuthTokenProvider interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// ProviderConfig holds configuration for creating provider factories.
type ProviderConfig struct {
	GoogleOAuth      OAuthTokenProvider
	GoogleCalendarID string
	// GoogleOptions are appended to the client options of every Google
	// service, e.g. option.WithEndpoint in tests.
	GoogleOptions []option.ClientOption

	CalDAV     caldav.Config
	HTTPClient *http.Client

	Location *time.Location
	Logger   *slog.Logger
}

// RegisterProviders registers all available calendar providers with the registry.
func RegisterProviders(registry *application.ProviderRegistry, config ProviderConfig) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry.Register(domain.ProviderGoogle, func(ctx context.Context) (application.Service, error) {
		if config.GoogleOAuth == nil {
			return nil, ErrGoogleNotConfigured
		}
		// Token refreshes outlive the call that first builds the service.
		baseCtx := context.WithoutCancel(ctx)
		ts, err := config.GoogleOAuth.TokenSource(baseCtx)
		if err != nil {
			return nil, fmt.Errorf("google calendar: %w", err)
		}
		opts := append([]option.ClientOption{option.WithTokenSource(ts)}, config.GoogleOptions...)
		return googleCal.NewCalendarService(baseCtx, config.GoogleCalendarID, config.Location, logger, opts...)
	})
	logger.Debug("registered Google Calendar provider")

	// Apple Calendar (iCloud)
	registry.Register(domain.ProviderApple, func(ctx context.Context) (application.Service, error) {
		cfg := config.CalDAV
		if cfg.BaseURL == "" {
			cfg.BaseURL = caldav.AppleCalDAVURL
		}
		return caldav.NewCalendarService(cfg, config.HTTPClient, config.Location, logger)
	})

	// Generic CalDAV (Fastmail, Nextcloud, etc.)
	registry.Register(domain.ProviderCalDAV, func(ctx context.Context) (application.Service, error) {
		if config.CalDAV.BaseURL == "" {
			return nil, errors.New("CalDAV URL not configured")
		}
		return caldav.NewCalendarService(config.CalDAV, config.HTTPClient, config.Location, logger)
	})
	logger.Debug("registered CalDAV providers")
}

// NewService returns the calendar service for provider: built on first use
// and guarded by timeouts and a circuit breaker.
func NewService(registry *application.ProviderRegistry, provider domain.ProviderType, resilience application.ResilienceConfig, logger *slog.Logger) (application.Service, error) {
	if !registry.HasProvider(provider) {
		return nil, fmt.Errorf("unsupported calendar provider: %s", provider)
	}
	lazy := application.NewLazyService(func(ctx context.Context) (application.Service, error) {
		return registry.Create(ctx, provider)
	})
	return application.NewResilientService(provider.String(), lazy, resilience, logger), nil
}
