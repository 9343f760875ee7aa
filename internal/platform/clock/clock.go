package clock

import "time"

// Clock abstracts time to keep the timer and time-spent measurements deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a manually advanced clock.
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time { return f.At }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.At = f.At.Add(d) }
