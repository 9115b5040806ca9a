package model

import "time"

// Midnight truncates t to its calendar date in UTC. Delivery dates and
// recurrence windows are always compared at day granularity.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date in UTC.
func SameDate(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}
