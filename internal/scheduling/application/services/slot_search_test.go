package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFreeBusy struct {
	mu      sync.Mutex
	busy    domain.FreeBusyMap
	failDay map[string]bool
	calls   []domain.TimeInterval
}

func (f *fakeFreeBusy) FreeBusy(_ context.Context, emails []string, window domain.TimeInterval) (domain.FreeBusyMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, window)
	if f.failDay[window.Start.Format(time.DateOnly)] {
		return nil, errors.New("backend unavailable")
	}
	result := domain.FreeBusyMap{}
	for _, email := range emails {
		for _, b := range f.busy[email] {
			if b.Overlaps(window) {
				result[email] = append(result[email], b)
			}
		}
	}
	return result, nil
}

// Monday 2026-10-12.
func monday(hour, minute int) time.Time {
	return time.Date(2026, 10, 12, hour, minute, 0, 0, time.UTC)
}

func newTestSearch(provider FreeBusyProvider, now time.Time) *SlotSearch {
	return NewSlotSearch(provider, DefaultSlotSearchConfig(time.UTC), nil).
		WithClock(func() time.Time { return now })
}

func TestSlotSearch_FindSlots_NoBusy(t *testing.T) {
	search := newTestSearch(&fakeFreeBusy{}, monday(10, 7))

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com"}, 30, nil)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	assert.Equal(t, monday(10, 15), slots[0].Start)
	assert.Equal(t, monday(10, 45), slots[0].End)
	assert.Equal(t, monday(10, 30), slots[1].Start)
	assert.Equal(t, monday(11, 15), slots[4].Start)
}

func TestSlotSearch_FindSlots_SkipsBusyBlocks(t *testing.T) {
	provider := &fakeFreeBusy{busy: domain.FreeBusyMap{
		"a@x.com": {{Start: monday(10, 15), End: monday(11, 0)}},
		"b@x.com": {{Start: monday(11, 30), End: monday(12, 10)}},
	}}
	search := newTestSearch(provider, monday(10, 7))

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com", "b@x.com"}, 30, nil)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	assert.Equal(t, monday(11, 0), slots[0].Start)
	// 11:15 would overlap b's block; the cursor jumps to its end.
	assert.Equal(t, monday(12, 10), slots[1].Start)
	assert.Equal(t, monday(12, 25), slots[2].Start)
}

func TestSlotSearch_FindSlots_AfterHoursMovesToNextDay(t *testing.T) {
	search := newTestSearch(&fakeFreeBusy{}, monday(18, 0))

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com"}, 60, nil)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 10, 13, 9, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestSlotSearch_FindSlots_FutureAnchor(t *testing.T) {
	search := newTestSearch(&fakeFreeBusy{}, monday(10, 0))
	anchor := time.Date(2026, 10, 14, 14, 50, 0, 0, time.UTC)

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com"}, 30, &anchor)
	require.NoError(t, err)
	require.Len(t, slots, 5)
	assert.Equal(t, time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestSlotSearch_FindSlots_PastAnchorUsesNow(t *testing.T) {
	search := newTestSearch(&fakeFreeBusy{}, monday(13, 30))
	anchor := monday(9, 0)

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com"}, 30, &anchor)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, monday(13, 30), slots[0].Start)
}

func TestSlotSearch_FindSlots_FailedDayIsSkipped(t *testing.T) {
	provider := &fakeFreeBusy{failDay: map[string]bool{"2026-10-12": true}}
	search := newTestSearch(provider, monday(9, 0))

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com"}, 30, nil)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 10, 13, 9, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestSlotSearch_FindSlots_InvalidDuration(t *testing.T) {
	search := newTestSearch(&fakeFreeBusy{}, monday(9, 0))

	for _, d := range []int{0, -15} {
		_, err := search.FindSlots(context.Background(), []string{"a@x.com"}, d, nil)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestSlotSearch_FindSlots_DurationLongerThanWorkday(t *testing.T) {
	search := newTestSearch(&fakeFreeBusy{}, monday(9, 0))

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com"}, 9*60, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotSearch_FindSlots_StopsQueryingOnceFull(t *testing.T) {
	provider := &fakeFreeBusy{}
	config := DefaultSlotSearchConfig(time.UTC)
	config.Concurrency = 1
	search := NewSlotSearch(provider, config, nil).WithClock(func() time.Time { return monday(9, 0) })

	slots, err := search.FindSlots(context.Background(), []string{"a@x.com"}, 30, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 5)
	assert.Len(t, provider.calls, 1)
}

func TestSlotSearch_FindSlots_Properties(t *testing.T) {
	busy := domain.FreeBusyMap{
		"a@x.com": {
			{Start: monday(9, 0), End: monday(16, 40)},
			{Start: time.Date(2026, 10, 13, 9, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 13, 12, 5, 0, 0, time.UTC)},
		},
		"b@x.com": {
			{Start: time.Date(2026, 10, 13, 12, 30, 0, 0, time.UTC), End: time.Date(2026, 10, 13, 13, 0, 0, 0, time.UTC)},
		},
	}
	emails := []string{"a@x.com", "b@x.com"}
	search := newTestSearch(&fakeFreeBusy{busy: busy}, monday(8, 3))

	slots, err := search.FindSlots(context.Background(), emails, 45, nil)
	require.NoError(t, err)
	require.LessOrEqual(t, len(slots), 5)
	require.NotEmpty(t, slots)

	for i, slot := range slots {
		assert.Equal(t, 45*time.Minute, slot.Duration())
		assert.GreaterOrEqual(t, slot.Start.Hour(), 9)
		endLimit := time.Date(slot.Start.Year(), slot.Start.Month(), slot.Start.Day(), 17, 0, 0, 0, time.UTC)
		assert.False(t, slot.End.After(endLimit))
		assert.False(t, busy.AnyBusy(slot, emails), "slot %d overlaps a busy block", i)
		if i > 0 {
			assert.True(t, slots[i-1].Start.Before(slot.Start))
		}
	}

	again, err := search.FindSlots(context.Background(), emails, 45, nil)
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestCeilToStep(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{monday(10, 0), monday(10, 0)},
		{monday(10, 1), monday(10, 15)},
		{monday(10, 44), monday(10, 45)},
		{monday(10, 46), monday(11, 0)},
		{monday(10, 15).Add(30 * time.Second), monday(10, 30)},
		{monday(23, 50), time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ceilToStep(tt.in, 15*time.Minute), tt.in.String())
	}
}
