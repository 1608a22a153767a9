package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidDuration is returned when a non-positive meeting length is requested.
var ErrInvalidDuration = errors.New("duration must be positive")

// FreeBusyProvider reports busy intervals for a set of participants.
type FreeBusyProvider interface {
	FreeBusy(ctx context.Context, emails []string, window domain.TimeInterval) (domain.FreeBusyMap, error)
}

// SlotSearchConfig configures the slot search.
type SlotSearchConfig struct {
	Location    *time.Location
	WorkStart   time.Duration // offset from midnight, e.g. 9 * time.Hour
	WorkEnd     time.Duration // offset from midnight, e.g. 17 * time.Hour
	SearchDays  int
	Step        time.Duration
	MaxSlots    int
	Concurrency int // days queried in parallel per batch
}

// DefaultSlotSearchConfig returns the business-hours search used by the assistant.
func DefaultSlotSearchConfig(loc *time.Location) SlotSearchConfig {
	if loc == nil {
		loc = time.Local
	}
	return SlotSearchConfig{
		Location:    loc,
		WorkStart:   9 * time.Hour,
		WorkEnd:     17 * time.Hour,
		SearchDays:  7,
		Step:        15 * time.Minute,
		MaxSlots:    5,
		Concurrency: 3,
	}
}

// SlotSearch finds free slots shared by all participants.
type SlotSearch struct {
	provider FreeBusyProvider
	config   SlotSearchConfig
	now      func() time.Time
	logger   *slog.Logger
}

// NewSlotSearch creates a slot search over the given free/busy provider.
func NewSlotSearch(provider FreeBusyProvider, config SlotSearchConfig, logger *slog.Logger) *SlotSearch {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Step <= 0 {
		config.Step = 15 * time.Minute
	}
	if config.SearchDays <= 0 {
		config.SearchDays = 7
	}
	if config.MaxSlots <= 0 {
		config.MaxSlots = 5
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &SlotSearch{
		provider: provider,
		config:   config,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock used to compute the search origin.
func (s *SlotSearch) WithClock(now func() time.Time) *SlotSearch {
	if now != nil {
		s.now = now
	}
	return s
}

// Location returns the zone business hours are evaluated in.
func (s *SlotSearch) Location() *time.Location {
	return s.config.Location
}

// FindSlots returns up to MaxSlots free intervals of the requested length,
// in chronological order, starting no earlier than max(anchor, now).
func (s *SlotSearch) FindSlots(ctx context.Context, emails []string, durationMinutes int, anchor *time.Time) ([]domain.TimeInterval, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	duration := time.Duration(durationMinutes) * time.Minute

	origin := s.now().In(s.config.Location)
	if anchor != nil && anchor.After(origin) {
		origin = anchor.In(s.config.Location)
	}
	origin = ceilToStep(origin, s.config.Step)

	windows := s.dayWindows(origin)
	slots := make([]domain.TimeInterval, 0, s.config.MaxSlots)

	for batchStart := 0; batchStart < len(windows); batchStart += s.config.Concurrency {
		if err := ctx.Err(); err != nil {
			return slots, err
		}

		batchEnd := min(batchStart+s.config.Concurrency, len(windows))
		busy := s.fetchBatch(ctx, emails, windows[batchStart:batchEnd])

		for i, day := range windows[batchStart:batchEnd] {
			if busy[i].err != nil {
				continue
			}
			slots = s.scanDay(day, duration, busy[i].merged, slots)
			if len(slots) >= s.config.MaxSlots {
				return slots, nil
			}
		}
	}

	return slots, nil
}

type dayBusy struct {
	merged []domain.TimeInterval
	err    error
}

// fetchBatch queries free/busy for each day concurrently. Results keep the
// order of days so the scan stays chronological.
func (s *SlotSearch) fetchBatch(ctx context.Context, emails []string, days []domain.TimeInterval) []dayBusy {
	results := make([]dayBusy, len(days))

	var g errgroup.Group
	for i, day := range days {
		g.Go(func() error {
			fb, err := s.provider.FreeBusy(ctx, emails, day)
			if err != nil {
				s.logger.WarnContext(ctx, "free/busy lookup failed, skipping day",
					"day", day.Start.Format(time.DateOnly),
					"error", err,
				)
				results[i] = dayBusy{err: err}
				return nil
			}
			merged := domain.MergeIntervals(fb.Busy(emails))
			for j := range merged {
				merged[j] = merged[j].In(s.config.Location)
			}
			results[i] = dayBusy{merged: merged}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// scanDay walks candidate starts through one day's window, jumping past busy
// blocks, and appends free candidates to slots until MaxSlots is reached.
func (s *SlotSearch) scanDay(day domain.TimeInterval, duration time.Duration, busy []domain.TimeInterval, slots []domain.TimeInterval) []domain.TimeInterval {
	cursor := day.Start
	for !cursor.Add(duration).After(day.End) {
		candidate := domain.TimeInterval{Start: cursor, End: cursor.Add(duration)}
		if block, hit := domain.FirstOverlap(candidate, busy); hit {
			cursor = block.End
			continue
		}

		slots = append(slots, candidate)
		if len(slots) >= s.config.MaxSlots {
			return slots
		}
		cursor = cursor.Add(s.config.Step)
	}
	return slots
}

// dayWindows returns the non-empty business-hour windows of the search, the
// first one clipped to origin.
func (s *SlotSearch) dayWindows(origin time.Time) []domain.TimeInterval {
	loc := s.config.Location
	year, month, day := origin.Date()

	windows := make([]domain.TimeInterval, 0, s.config.SearchDays)
	for i := 0; i < s.config.SearchDays; i++ {
		start := atOffset(year, month, day+i, s.config.WorkStart, loc)
		end := atOffset(year, month, day+i, s.config.WorkEnd, loc)

		if i == 0 && origin.After(start) {
			start = origin
		}
		if !start.Before(end) {
			continue
		}
		windows = append(windows, domain.TimeInterval{Start: start, End: end})
	}
	return windows
}

func atOffset(year int, month time.Month, day int, offset time.Duration, loc *time.Location) time.Time {
	hours := int(offset / time.Hour)
	minutes := int((offset % time.Hour) / time.Minute)
	return time.Date(year, month, day, hours, minutes, 0, 0, loc)
}

// ceilToStep rounds t up to the next step boundary within its hour
// (:00/:15/:30/:45 for a 15 minute step). Times already on a boundary are
// returned unchanged.
func ceilToStep(t time.Time, step time.Duration) time.Time {
	stepMinutes := int(step / time.Minute)
	if stepMinutes <= 0 || stepMinutes > 60 {
		stepMinutes = 15
	}
	floor := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()-t.Minute()%stepMinutes, 0, 0, t.Location())
	if floor.Equal(t) {
		return t
	}
	return floor.Add(time.Duration(stepMinutes) * time.Minute)
}
