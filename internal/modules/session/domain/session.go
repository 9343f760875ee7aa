package domain

import (
	"strconv"
	"strings"
)

// SecondsPerQuestion is the test-mode countdown allowance per question.
const SecondsPerQuestion = 70

type Mode string

const (
	ModeTest     Mode = "test"
	ModePractice Mode = "practice"
)

// ParseMode maps the wire value to a Mode. Unknown values fall back to test,
// the mode a session is created with when none is requested.
func ParseMode(raw string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(raw))) == ModePractice {
		return ModePractice
	}
	return ModeTest
}

// Session is one attempt: a fixed question order plus the answers recorded so far.
type Session struct {
	ID        string
	Mode      Mode
	Questions []Question
	Answers   map[string]Answer
}

// NewSession indexes answers by question id. A later answer for the same
// question replaces an earlier one, matching the remote upsert.
func NewSession(id string, mode Mode, questions []Question, answers []Answer) Session {
	byID := make(map[string]Answer, len(answers))
	for _, a := range answers {
		if a.QuestionID == "" || a.Selection.Empty() {
			continue
		}
		byID[a.QuestionID] = a
	}
	return Session{ID: id, Mode: mode, Questions: questions, Answers: byID}
}

func (s Session) Count() int { return len(s.Questions) }

// BudgetSeconds is the test-mode countdown budget.
func (s Session) BudgetSeconds() int { return s.Count() * SecondsPerQuestion }

func (s Session) AnswerFor(questionID string) (Answer, bool) {
	a, ok := s.Answers[questionID]
	return a, ok
}

// QuestionIndex returns the position of questionID in the order, or -1.
func (s Session) QuestionIndex(questionID string) int {
	for i, q := range s.Questions {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}

// ClampIndex forces i into [0, count-1]; an empty session clamps to 0.
func ClampIndex(i, count int) int {
	if count <= 0 || i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}

// ParseIndex reads a cursor position the way a browser reads an integer
// query parameter: leading whitespace and sign, then leading digits, with
// anything after them ignored. Malformed input yields 0; the result is clamped.
func ParseIndex(raw string, count int) int {
	s := strings.TrimSpace(raw)
	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Overflow: the value is far outside any session, pick the matching edge.
		if sign < 0 {
			return 0
		}
		return ClampIndex(count, count)
	}
	return ClampIndex(sign*n, count)
}
