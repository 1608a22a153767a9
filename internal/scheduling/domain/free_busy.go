package domain

import "strings"

// FreeBusyMap maps a participant email to the busy intervals reported for it.
// Intervals are neither sorted nor disjoint as received.
type FreeBusyMap map[string][]TimeInterval

// Busy returns every busy interval reported for the given emails. Emails
// match case-insensitively since providers may echo them back normalized.
func (m FreeBusyMap) Busy(emails []string) []TimeInterval {
	var all []TimeInterval
	for _, email := range emails {
		if intervals, ok := m[email]; ok {
			all = append(all, intervals...)
			continue
		}
		for key, intervals := range m {
			if strings.EqualFold(key, email) {
				all = append(all, intervals...)
				break
			}
		}
	}
	return all
}

// AnyBusy reports whether any of the given participants has a busy interval
// overlapping window.
func (m FreeBusyMap) AnyBusy(window TimeInterval, emails []string) bool {
	return !IsAvailable(window, MergeIntervals(m.Busy(emails)))
}
