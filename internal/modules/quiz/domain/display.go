package domain

import "time"

// Surface receives timer display writes.
type Surface interface {
	WriteTimer(text string, band Band)
}

// DisplayGuard forwards a (text, band) pair to its surface only when it
// differs from the last pair it applied.
type DisplayGuard struct {
	surface  Surface
	lastText string
	lastBand Band
	primed   bool
}

func NewDisplayGuard(surface Surface) *DisplayGuard {
	return &DisplayGuard{surface: surface}
}

// Apply reports whether a write reached the surface.
func (g *DisplayGuard) Apply(text string, band Band) bool {
	if g.surface == nil {
		return false
	}
	if g.primed && text == g.lastText && band == g.lastBand {
		return false
	}
	g.surface.WriteTimer(text, band)
	g.lastText, g.lastBand, g.primed = text, band, true
	return true
}

// Reset swaps in a new surface and forgets the last applied pair.
func (g *DisplayGuard) Reset(surface Surface) {
	g.surface = surface
	g.lastText, g.lastBand, g.primed = "", BandNeutral, false
}

// TimerEngine couples a Timer with the guard that owns its display.
type TimerEngine struct {
	timer *Timer
	guard *DisplayGuard
}

func NewTimerEngine(timer *Timer, surface Surface) *TimerEngine {
	return &TimerEngine{timer: timer, guard: NewDisplayGuard(surface)}
}

func (e *TimerEngine) Timer() *Timer { return e.timer }

// Start begins the clock (once) and paints the initial value.
func (e *TimerEngine) Start(now time.Time) Reading {
	e.timer.Start(now)
	return e.Tick(now)
}

// Tick evaluates the timer and writes the display if it changed.
func (e *TimerEngine) Tick(now time.Time) Reading {
	r := e.timer.Tick(now)
	e.guard.Apply(r.Text, r.Band)
	return r
}

// Attach points the engine at a freshly drawn display and paints the
// current value straight away, recomputed from the original start time.
func (e *TimerEngine) Attach(surface Surface, now time.Time) Reading {
	e.guard.Reset(surface)
	return e.Tick(now)
}
