package domain

import (
	"time"

	session "kokushi/internal/modules/session/domain"
)

// State is the session-scoped quiz state. Field ownership: Cursor and
// shownAt belong to the Navigator, the answer map and selections to the
// Coordinator, the timer to its engine.
type State struct {
	Session    session.Session
	Cursor     int
	Timer      *TimerEngine
	selections map[string]session.Selection
	shownAt    time.Time
	terminated bool
}

// NewState builds the state for a freshly loaded session and starts its
// clock at now.
func NewState(s session.Session, cursor int, now time.Time, surface Surface) *State {
	if s.Answers == nil {
		s.Answers = map[string]session.Answer{}
	}
	st := &State{
		Session:    s,
		Cursor:     session.ClampIndex(cursor, s.Count()),
		Timer:      NewTimerEngine(NewTimerFor(s), surface),
		selections: map[string]session.Selection{},
		shownAt:    now,
	}
	st.Timer.Start(now)
	return st
}

func (s *State) Mode() session.Mode { return s.Session.Mode }

func (s *State) Current() session.Question { return s.Session.Questions[s.Cursor] }

func (s *State) IsLast() bool { return s.Cursor >= s.Session.Count()-1 }

func (s *State) ShownAt() time.Time { return s.shownAt }

func (s *State) AnswerFor(questionID string) *session.Answer {
	a, ok := s.Session.Answers[questionID]
	if !ok {
		return nil
	}
	return &a
}

// Selection is the on-screen selection for a question, seeded from its
// recorded answer.
func (s *State) Selection(questionID string) session.Selection {
	if sel, ok := s.selections[questionID]; ok {
		return sel
	}
	if a, ok := s.Session.Answers[questionID]; ok {
		return a.Selection
	}
	return nil
}

// View renders the current question.
func (s *State) View() QuestionView {
	q := s.Current()
	return Render(q, s.Cursor, s.AnswerFor(q.ID), s.Selection(q.ID), s.Mode())
}

// Terminate marks the session as finished; it reports false if it already was.
func (s *State) Terminate() bool {
	if s.terminated {
		return false
	}
	s.terminated = true
	s.Timer.Timer().Stop()
	return true
}

func (s *State) Terminated() bool { return s.terminated }

// AnsweredCount is how many questions have a recorded answer.
func (s *State) AnsweredCount() int {
	n := 0
	for _, q := range s.Session.Questions {
		if _, ok := s.Session.Answers[q.ID]; ok {
			n++
		}
	}
	return n
}

// Quiz bundles the state with the two components allowed to change it.
type Quiz struct {
	*State
	Nav   *Navigator
	Coord *Coordinator
}

func NewQuiz(st *State) *Quiz {
	nav := NewNavigator(st)
	return &Quiz{State: st, Nav: nav, Coord: NewCoordinator(st, nav)}
}
