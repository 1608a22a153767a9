// Package calendartest provides an in-memory calendar for tests.
//
// Example usage:
//
//	cal := calendartest.New()
//	cal.SetBusy("a@x.com", start, end)
//	svc := services.NewAssistant(..., cal, ...)
package calendartest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// Fake is an in-memory calendar.Service. Errors set on the exported fields
// are returned by the matching method.
type Fake struct {
	mu     sync.Mutex
	events map[string]domain.Event
	busy   schedulingDomain.FreeBusyMap
	nextID int
	calls  []string

	FreeBusyErr error
	CreateErr   error
	GetErr      error
	UpdateErr   error
	DeleteErr   error
	ListErr     error
}

// New creates an empty fake calendar.
func New() *Fake {
	return &Fake{
		events: make(map[string]domain.Event),
		busy:   make(schedulingDomain.FreeBusyMap),
	}
}

// SetBusy records a busy interval for email.
func (f *Fake) SetBusy(email string, interval schedulingDomain.TimeInterval) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy[email] = append(f.busy[email], interval)
}

// AddEvent stores an event as if it already existed and returns its id.
func (f *Fake) AddEvent(e domain.Event) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = f.newID()
	}
	f.events[e.ID] = e
	return e.ID
}

// Event returns a stored event.
func (f *Fake) Event(id string) (domain.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	return e, ok
}

// Calls returns the names of the methods invoked so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Called reports whether method was invoked.
func (f *Fake) Called(method string) bool {
	return slices.Contains(f.Calls(), method)
}

func (f *Fake) record(method string) {
	f.calls = append(f.calls, method)
}

func (f *Fake) newID() string {
	f.nextID++
	return fmt.Sprintf("evt-%d", f.nextID)
}

func (f *Fake) FreeBusy(_ context.Context, emails []string, window schedulingDomain.TimeInterval) (schedulingDomain.FreeBusyMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FreeBusy")
	if f.FreeBusyErr != nil {
		return nil, f.FreeBusyErr
	}

	result := make(schedulingDomain.FreeBusyMap)
	for _, email := range emails {
		for _, b := range f.busy.Busy([]string{email}) {
			if b.Overlaps(window) {
				result[email] = append(result[email], b)
			}
		}
	}
	return result, nil
}

func (f *Fake) CreateEvent(_ context.Context, in domain.EventInput) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateEvent")
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	id := f.newID()
	e := domain.Event{
		ID:          id,
		Summary:     in.Summary,
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
		Attendees:   slices.Clone(in.Attendees),
		HTMLLink:    "https://calendar.test/event/" + id,
		MeetLink:    "https://meet.test/" + id,
	}
	f.events[id] = e
	return &e, nil
}

func (f *Fake) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetEvent")
	if f.GetErr != nil {
		return nil, f.GetErr
	}

	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (f *Fake) UpdateEvent(_ context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateEvent")
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}

	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e = patch.Apply(e)
	f.events[id] = e
	return &e, nil
}

func (f *Fake) DeleteEvent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteEvent")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	if _, ok := f.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *Fake) ListEvents(_ context.Context, window schedulingDomain.TimeInterval, query string) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListEvents")
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	terms := strings.Fields(strings.ToLower(query))
	var out []domain.Event
	for _, e := range f.events {
		span := schedulingDomain.TimeInterval{Start: e.Start, End: e.End}
		if !span.Overlaps(window) || !matchesTerms(e, terms) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.Event) int {
		return a.Start.Compare(b.Start)
	})
	return out, nil
}

func matchesTerms(e domain.Event, terms []string) bool {
	text := strings.ToLower(e.Summary + " " + e.Description + " " + strings.Join(e.Attendees, " "))
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}
