package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// ResilienceConfig configures timeouts and the circuit breaker around a
// calendar backend.
type ResilienceConfig struct {
	// CallTimeout bounds every backend call.
	CallTimeout time.Duration

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing counts.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32
}

// DefaultResilienceConfig returns the default calendar resilience settings.
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		CallTimeout:      15 * time.Second,
		MaxRequests:      1,
		Interval:         time.Minute,
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 5,
	}
}

// ResilientService wraps a Service with per-call timeouts and a circuit breaker.
type ResilientService struct {
	inner   Service
	breaker *gobreaker.CircuitBreaker[any]
	config  ResilienceConfig
	logger  *slog.Logger
}

var _ Service = (*ResilientService)(nil)

// NewResilientService wraps inner. name identifies the breaker in logs.
func NewResilientService(name string, inner Service, config ResilienceConfig, logger *slog.Logger) *ResilientService {
	if logger == nil {
		logger = slog.Default()
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = DefaultResilienceConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// Lookups of unknown events and caller cancellation say nothing
			// about backend health.
			return err == nil ||
				errors.Is(err, domain.ErrEventNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &ResilientService{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		config:  config,
		logger:  logger,
	}
}

// State returns the breaker state name.
func (s *ResilientService) State() string {
	return s.breaker.State().String()
}

func (s *ResilientService) execute(ctx context.Context, operation string, fn func(ctx context.Context) (any, error)) (any, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		callCtx := ctx
		if s.config.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.config.CallTimeout)
			defer cancel()
		}
		return fn(callCtx)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		s.logger.WarnContext(ctx, "calendar call short-circuited", "operation", operation, "state", s.State())
		return nil, ErrCalendarUnavailable
	}
	return result, err
}

func (s *ResilientService) FreeBusy(ctx context.Context, emails []string, window schedulingDomain.TimeInterval) (schedulingDomain.FreeBusyMap, error) {
	result, err := s.execute(ctx, "free_busy", func(ctx context.Context) (any, error) {
		return s.inner.FreeBusy(ctx, emails, window)
	})
	if err != nil {
		return nil, err
	}
	return result.(schedulingDomain.FreeBusyMap), nil
}

func (s *ResilientService) CreateEvent(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	return eventResult(s.execute(ctx, "create_event", func(ctx context.Context) (any, error) {
		return s.inner.CreateEvent(ctx, input)
	}))
}

func (s *ResilientService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return eventResult(s.execute(ctx, "get_event", func(ctx context.Context) (any, error) {
		return s.inner.GetEvent(ctx, id)
	}))
}

func (s *ResilientService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	return eventResult(s.execute(ctx, "update_event", func(ctx context.Context) (any, error) {
		return s.inner.UpdateEvent(ctx, id, patch)
	}))
}

func (s *ResilientService) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.execute(ctx, "delete_event", func(ctx context.Context) (any, error) {
		return nil, s.inner.DeleteEvent(ctx, id)
	})
	return err
}

func (s *ResilientService) ListEvents(ctx context.Context, window schedulingDomain.TimeInterval, query string) ([]domain.Event, error) {
	result, err := s.execute(ctx, "list_events", func(ctx context.Context) (any, error) {
		return s.inner.ListEvents(ctx, window, query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Event), nil
}

func eventResult(result any, err error) (*domain.Event, error) {
	if err != nil {
		return nil, err
	}
	return result.(*domain.Event), nil
}
