package application

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
)

// ServiceFactory builds a calendar Service for a provider.
type ServiceFactory func(ctx context.Context) (Service, error)

// ProviderRegistry maps provider types to service factories.
type ProviderRegistry struct {
	mu        sync.RWMutex
	factories map[domain.ProviderType]ServiceFactory
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{factories: make(map[domain.ProviderType]ServiceFactory)}
}

// Register adds or replaces the factory for a provider.
func (r *ProviderRegistry) Register(provider domain.ProviderType, factory ServiceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[provider] = factory
}

// Create builds the service for provider.
func (r *ProviderRegistry) Create(ctx context.Context, provider domain.ProviderType) (Service, error) {
	r.mu.RLock()
	factory, ok := r.factories[provider]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no calendar service registered for provider: %s", provider)
	}
	return factory(ctx)
}

// HasProvider reports whether a factory is registered for provider.
func (r *ProviderRegistry) HasProvider(provider domain.ProviderType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[provider]
	return ok
}

// SupportedProviders returns the registered providers in name order.
func (r *ProviderRegistry) SupportedProviders() []domain.ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]domain.ProviderType, 0, len(r.factories))
	for p := range r.factories {
		providers = append(providers, p)
	}
	slices.Sort(providers)
	return providers
}
