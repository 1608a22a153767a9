package application

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// ErrCalendarUnavailable is returned while the calendar backend is failing
// and calls are being short-circuited.
var ErrCalendarUnavailable = errors.New("calendar service unavailable")

// Service is the calendar port used by the meeting assistant.
type Service interface {
	// FreeBusy returns busy intervals per email within window. Participants
	// the backend cannot see are absent from the map.
	FreeBusy(ctx context.Context, emails []string, window schedulingDomain.TimeInterval) (schedulingDomain.FreeBusyMap, error)
	CreateEvent(ctx context.Context, input domain.EventInput) (*domain.Event, error)
	// GetEvent returns domain.ErrEventNotFound for unknown ids.
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	// ListEvents returns events overlapping window, optionally filtered by a
	// free-text query, ordered by start.
	ListEvents(ctx context.Context, window schedulingDomain.TimeInterval, query string) ([]domain.Event, error)
}
