package domain

import "github.com/orbis-25/orbis-projects-backend/internal/format"

// Duration is an amount of project time in whole seconds.
type Duration struct {
	Seconds int64
}

// NewDuration wraps seconds into a Duration.
func NewDuration(seconds int64) Duration {
	return Duration{Seconds: seconds}
}

// Hours returns the duration in fractional hours.
func (d Duration) Hours() float64 {
	return float64(d.Seconds) / 3600
}

// Format renders the duration as hours and minutes, e.g. "12:30".
func (d Duration) Format() string {
	return format.Time(d.Seconds)
}

func (d Duration) String() string {
	return d.Format()
}
