package domain

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidInterval is returned when an interval does not end after it starts.
var ErrInvalidInterval = errors.New("interval end must be after start")

// TimeInterval is a half-open span of time [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval creates an interval, rejecting empty or inverted spans.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !end.After(start) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Duration returns the interval length.
func (ti TimeInterval) Duration() time.Duration {
	return ti.End.Sub(ti.Start)
}

// Overlaps reports whether the two half-open intervals share any instant.
// Intervals that only touch do not overlap.
func (ti TimeInterval) Overlaps(other TimeInterval) bool {
	return ti.Start.Before(other.End) && ti.End.After(other.Start)
}

// In returns the interval expressed in loc.
func (ti TimeInterval) In(loc *time.Location) TimeInterval {
	return TimeInterval{Start: ti.Start.In(loc), End: ti.End.In(loc)}
}

// MergeIntervals returns the sorted, pairwise-disjoint union of busy.
// Touching intervals are merged. The input slice is not modified.
func MergeIntervals(busy []TimeInterval) []TimeInterval {
	if len(busy) == 0 {
		return nil
	}

	sorted := make([]TimeInterval, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]TimeInterval, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// IsAvailable reports whether window overlaps none of the busy intervals.
func IsAvailable(window TimeInterval, busy []TimeInterval) bool {
	for _, b := range busy {
		if window.Overlaps(b) {
			return false
		}
	}
	return true
}

// FirstOverlap returns the first busy interval overlapping window.
func FirstOverlap(window TimeInterval, busy []TimeInterval) (TimeInterval, bool) {
	for _, b := range busy {
		if window.Overlaps(b) {
			return b, true
		}
	}
	return TimeInterval{}, false
}
