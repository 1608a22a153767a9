package application

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// LazyService builds the backing Service on first use. A failed build is
// returned to the caller and retried on the next call, so a process started
// before authorization picks up the token once it exists.
type LazyService struct {
	factory ServiceFactory

	mu      sync.Mutex
	service Service
}

var _ Service = (*LazyService)(nil)

// NewLazyService wraps factory.
func NewLazyService(factory ServiceFactory) *LazyService {
	return &LazyService{factory: factory}
}

func (s *LazyService) get(ctx context.Context) (Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.service != nil {
		return s.service, nil
	}
	svc, err := s.factory(ctx)
	if err != nil {
		return nil, err
	}
	s.service = svc
	return svc, nil
}

func (s *LazyService) FreeBusy(ctx context.Context, emails []string, window schedulingDomain.TimeInterval) (schedulingDomain.FreeBusyMap, error) {
	svc, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return svc.FreeBusy(ctx, emails, window)
}

func (s *LazyService) CreateEvent(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	svc, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return svc.CreateEvent(ctx, input)
}

func (s *LazyService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	svc, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return svc.GetEvent(ctx, id)
}

func (s *LazyService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	svc, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return svc.UpdateEvent(ctx, id, patch)
}

func (s *LazyService) DeleteEvent(ctx context.Context, id string) error {
	svc, err := s.get(ctx)
	if err != nil {
		return err
	}
	return svc.DeleteEvent(ctx, id)
}

func (s *LazyService) ListEvents(ctx context.Context, window schedulingDomain.TimeInterval, query string) ([]domain.Event, error) {
	svc, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return svc.ListEvents(ctx, window, query)
}
