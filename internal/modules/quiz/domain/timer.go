package domain

import (
	"fmt"
	"time"

	session "kokushi/internal/modules/session/domain"
)

type Variant int

const (
	// VariantElapsed is the open-ended practice clock.
	VariantElapsed Variant = iota
	// VariantCountdown is the fixed-budget test clock.
	VariantCountdown
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Band classifies remaining countdown time for display.
type Band string

const (
	BandNeutral Band = ""
	BandWarning Band = "warning"
	BandUrgent  Band = "urgent"
)

const (
	urgentThreshold  = 60
	warningThreshold = 180
)

// BandFor classifies a remaining-seconds value.
func BandFor(remaining int) Band {
	switch {
	case remaining <= urgentThreshold:
		return BandUrgent
	case remaining <= warningThreshold:
		return BandWarning
	default:
		return BandNeutral
	}
}

// FormatClock renders seconds as MM:SS; minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Reading is one evaluation of the timer.
type Reading struct {
	Seconds int
	Text    string
	Band    Band
	// Expired is set on exactly one reading: the one that took the
	// countdown to zero.
	Expired bool
}

// Timer is the session clock. It moves idle -> running -> stopped and never
// goes back; startedAt is written once.
type Timer struct {
	variant   Variant
	budget    int
	startedAt time.Time
	phase     Phase
	last      int
}

func NewCountdown(budgetSeconds int) *Timer {
	if budgetSeconds < 0 {
		budgetSeconds = 0
	}
	return &Timer{variant: VariantCountdown, budget: budgetSeconds, last: budgetSeconds}
}

func NewElapsed() *Timer {
	return &Timer{variant: VariantElapsed}
}

// NewTimerFor picks the variant for a session's mode.
func NewTimerFor(s session.Session) *Timer {
	if s.Mode == session.ModePractice {
		return NewElapsed()
	}
	return NewCountdown(s.BudgetSeconds())
}

func (t *Timer) Variant() Variant     { return t.variant }
func (t *Timer) Phase() Phase         { return t.phase }
func (t *Timer) StartedAt() time.Time { return t.startedAt }
func (t *Timer) BudgetSeconds() int   { return t.budget }
func (t *Timer) Running() bool        { return t.phase == PhaseRunning }

// Start records the start time. It only acts from idle, so repeated calls
// from render passes leave the clock alone.
func (t *Timer) Start(now time.Time) bool {
	if t.phase != PhaseIdle {
		return false
	}
	t.startedAt = now
	t.phase = PhaseRunning
	return true
}

// Tick evaluates the clock at now. A countdown reaching zero stops the timer
// and reports Expired once; later ticks return the stopped reading.
func (t *Timer) Tick(now time.Time) Reading {
	switch t.phase {
	case PhaseIdle:
		return t.reading(t.idleSeconds())
	case PhaseStopped:
		return t.reading(t.last)
	}

	elapsed := int(now.Sub(t.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if t.variant == VariantElapsed {
		if elapsed < t.last {
			elapsed = t.last
		}
		t.last = elapsed
		return t.reading(elapsed)
	}

	remaining := t.budget - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if remaining > t.last {
		remaining = t.last
	}
	t.last = remaining
	r := t.reading(remaining)
	if remaining == 0 {
		t.phase = PhaseStopped
		r.Expired = true
	}
	return r
}

// Stop halts the clock without an expiry event.
func (t *Timer) Stop() {
	if t.phase == PhaseRunning {
		t.phase = PhaseStopped
	}
}

func (t *Timer) idleSeconds() int {
	if t.variant == VariantCountdown {
		return t.budget
	}
	return 0
}

func (t *Timer) reading(seconds int) Reading {
	r := Reading{Seconds: seconds, Text: FormatClock(seconds)}
	if t.variant == VariantCountdown {
		r.Band = BandFor(seconds)
	}
	return r
}
