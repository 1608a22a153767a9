package services

import (
	"context"
	"time"

	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// FreeBusyChecker reports busy intervals for a set of participants.
type FreeBusyChecker interface {
	FreeBusy(ctx context.Context, emails []string, window schedulingDomain.TimeInterval) (schedulingDomain.FreeBusyMap, error)
}

// SlotFinder proposes free slots for a set of participants.
type SlotFinder interface {
	FindSlots(ctx context.Context, emails []string, durationMinutes int, anchor *time.Time) ([]schedulingDomain.TimeInterval, error)
}

// IsFree reports whether every participant is free for the whole window.
// A failed lookup is returned as an error and never reported as free.
func IsFree(ctx context.Context, checker FreeBusyChecker, emails []string, window schedulingDomain.TimeInterval) (bool, error) {
	busy, err := checker.FreeBusy(ctx, emails, window)
	if err != nil {
		return false, err
	}
	return !busy.AnyBusy(window, emails), nil
}
