package domain

import (
	"time"

	session "kokushi/internal/modules/session/domain"
)

// Pending is an answer already recorded locally and awaiting the remote
// store's confirmation.
type Pending struct {
	SessionID string
	Index     int
	Answer    session.Answer
	// First is true when no answer existed for the question beforehand.
	First bool
	Last  bool
}

type Selected struct {
	Selection session.Selection
	Eligible  bool
	Ignored   bool
}

// Coordinator is the only writer of the answer map and selections.
type Coordinator struct {
	state *State
	nav   *Navigator
}

func NewCoordinator(state *State, nav *Navigator) *Coordinator {
	return &Coordinator{state: state, nav: nav}
}

// SelectChoice toggles key for questionID. In test mode an answered
// question is read-only and the call is ignored.
func (c *Coordinator) SelectChoice(questionID string, key session.ChoiceKey) Selected {
	idx := c.state.Session.QuestionIndex(questionID)
	if idx < 0 || !session.ValidChoiceKey(key) || c.state.Terminated() {
		return Selected{Ignored: true}
	}
	_, answered := c.state.Session.Answers[questionID]
	if answered && c.state.Mode() == session.ModeTest {
		return Selected{Selection: c.state.Selection(questionID), Ignored: true}
	}
	sel := c.state.Selection(questionID).Toggle(key)
	c.state.selections[questionID] = sel
	q := c.state.Session.Questions[idx]
	return Selected{
		Selection: sel,
		Eligible:  !answered && !sel.Empty() && len(sel) >= q.RequiredSelections(),
	}
}

// Submit records the selection for questionID and returns the pending
// remote write. It returns false, touching nothing, when the question
// already has an answer or the selection is empty.
func (c *Coordinator) Submit(questionID string, sel session.Selection, now time.Time) (Pending, bool) {
	idx := c.state.Session.QuestionIndex(questionID)
	if idx < 0 || sel.Empty() || c.state.Terminated() {
		return Pending{}, false
	}
	if _, ok := c.state.Session.Answers[questionID]; ok {
		return Pending{}, false
	}
	spent := 0.0
	if idx == c.state.Cursor {
		spent = now.Sub(c.state.shownAt).Seconds()
		if spent < 0 {
			spent = 0
		}
	}
	answer := session.Answer{
		QuestionID:  questionID,
		Selection:   session.NewSelection(sel...),
		TimeSpent:   spent,
		SubmittedAt: now,
	}
	c.state.Session.Answers[questionID] = answer
	c.state.selections[questionID] = answer.Selection
	return Pending{
		SessionID: c.state.Session.ID,
		Index:     idx,
		Answer:    answer,
		First:     true,
		Last:      idx == c.state.Session.Count()-1,
	}, true
}

// Choose is a key press on a choice: toggle, then submit when eligible.
func (c *Coordinator) Choose(questionID string, key session.ChoiceKey, now time.Time) (Selected, *Pending) {
	res := c.SelectChoice(questionID, key)
	if res.Ignored || !res.Eligible {
		return res, nil
	}
	p, ok := c.Submit(questionID, res.Selection, now)
	if !ok {
		return res, nil
	}
	return res, &p
}

// Complete applies the remote outcome of p. Failures leave the local
// answer in place. On success the cursor advances when this was the
// question's first answer, it is not the last question and the cursor has
// not moved since.
func (c *Coordinator) Complete(p Pending, err error, now time.Time) bool {
	if err != nil || !p.First || p.Last || c.state.Terminated() {
		return false
	}
	if c.state.Cursor != p.Index {
		return false
	}
	return c.nav.Next(now)
}
