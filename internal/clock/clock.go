// Package clock supplies the timestamps stored as created_at and sold_at.
package clock

import "time"

// Clock is injected into services so tests control the recorded time.
type Clock interface {
	Now() time.Time
}

// Values are UTC and truncated to PostgreSQL's timestamptz precision, so a
// time read back from the database equals the one that was written.
const precision = time.Microsecond

type systemClock struct{}

func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC().Truncate(precision)
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock stuck at t.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC().Truncate(precision)}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
