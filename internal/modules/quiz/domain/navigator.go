package domain

import (
	"fmt"
	"time"

	session "kokushi/internal/modules/session/domain"
)

type Progress struct {
	Percent      float64
	Counter      string
	PrevDisabled bool
	NextDisabled bool
	Answered     int
	Total        int
}

func ProgressOf(s *State) Progress {
	count := s.Session.Count()
	p := Progress{Total: count, Answered: s.AnsweredCount(), PrevDisabled: true, NextDisabled: true}
	if count == 0 {
		p.Counter = "0 / 0"
		return p
	}
	p.Percent = float64(s.Cursor+1) / float64(count) * 100
	p.Counter = fmt.Sprintf("%d / %d", s.Cursor+1, count)
	p.PrevDisabled = s.Cursor == 0
	p.NextDisabled = s.Cursor == count-1
	return p
}

// Navigator moves the cursor. Each move restarts the per-question clock
// used for time_spent.
type Navigator struct {
	state *State
}

func NewNavigator(state *State) *Navigator {
	return &Navigator{state: state}
}

// Next reports whether the cursor moved; at the last question it is a no-op.
func (n *Navigator) Next(now time.Time) bool {
	return n.moveTo(n.state.Cursor+1, now)
}

// Previous reports whether the cursor moved; at index 0 it is a no-op.
func (n *Navigator) Previous(now time.Time) bool {
	return n.moveTo(n.state.Cursor-1, now)
}

// Jump moves to a zero-based index, clamping out-of-range values.
func (n *Navigator) Jump(index int, now time.Time) bool {
	return n.moveTo(session.ClampIndex(index, n.state.Session.Count()), now)
}

func (n *Navigator) moveTo(index int, now time.Time) bool {
	count := n.state.Session.Count()
	if index < 0 || index >= count || index == n.state.Cursor {
		return false
	}
	n.state.Cursor = index
	n.state.shownAt = now
	return true
}

func (n *Navigator) Progress() Progress { return ProgressOf(n.state) }
