package service

import (
	"sort"
	"time"

	"github.com/vilaca/activity-feed/internal/domain"
)

// MergeFeeds combines several event sequences into one, newest first.
// Events with equal timestamps keep their input order.
func MergeFeeds(feeds ...[]domain.Event) []domain.Event {
	total := 0
	for _, f := range feeds {
		total += len(f)
	}

	merged := make([]domain.Event, 0, total)
	for _, f := range feeds {
		merged = append(merged, f...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return newer(merged[i].CreatedAt, merged[j].CreatedAt)
	})
	return merged
}

// newer reports whether timestamp a is strictly later than b.
// RFC 3339 values are compared as instants, anything else by string order.
func newer(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA == nil && errB == nil {
		return ta.After(tb)
	}
	return a > b
}
