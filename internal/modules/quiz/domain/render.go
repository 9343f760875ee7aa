package domain

import (
	"fmt"
	"regexp"
	"strings"

	session "kokushi/internal/modules/session/domain"
)

// NoDataLabel stands in for an empty choice slot.
const NoDataLabel = "(no data)"

type ChoiceMark int

const (
	MarkNone ChoiceMark = iota
	MarkCorrect
	MarkIncorrect
)

type ChoiceView struct {
	Key         session.ChoiceKey
	Label       string
	Placeholder bool
	Selected    bool
	Mark        ChoiceMark
	Disabled    bool
}

// NoChoiceNotice replaces the choice list when a question has no choice text.
type NoChoiceNotice struct {
	CorrectKeys session.Selection
	Theme       string
}

type Feedback struct {
	Correct     bool
	CorrectKeys session.Selection
	Submitted   session.Selection
	Explanation string
	Hint        string
	Theme       string
}

// QuestionView is everything a surface needs to draw one question.
type QuestionView struct {
	QuestionID     string
	Number         int
	ExamNumber     int
	QuestionNumber int
	Category       string
	Mode           session.Mode
	Lines          []string
	Cue            string
	Choices        []ChoiceView
	NoChoice       *NoChoiceNotice
	Feedback       *Feedback
	Answered       bool
	ReadOnly       bool
	CanSubmit      bool
}

var parenthetical = regexp.MustCompile(`[（(][^）)]*[）)]`)

// StripParentheticals removes half- and full-width parenthesised segments.
func StripParentheticals(s string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(s, ""))
}

// Render builds the view of q at cursor position index. answer is the
// recorded Answer if any; selection is the live selection on screen.
func Render(q session.Question, index int, answer *session.Answer, selection session.Selection, mode session.Mode) QuestionView {
	revealed := mode == session.ModePractice && answer != nil

	v := QuestionView{
		QuestionID:     q.ID,
		Number:         index + 1,
		ExamNumber:     q.ExamNumber,
		QuestionNumber: q.QuestionNumber,
		Category:       q.Category,
		Mode:           mode,
		Lines:          splitLines(displayText(q, index, revealed)),
		Cue:            cue(q, index, mode),
		Answered:       answer != nil,
		ReadOnly:       mode == session.ModeTest && answer != nil,
	}

	if !q.HasChoiceData() {
		v.NoChoice = &NoChoiceNotice{CorrectKeys: q.Correct, Theme: strings.TrimSpace(q.Theme)}
	} else {
		v.Choices = renderChoices(q, answer, selection, mode)
	}

	if answer == nil {
		v.CanSubmit = len(selection) >= q.RequiredSelections()
	}

	if revealed {
		v.Feedback = &Feedback{
			Correct:     q.IsCorrect(answer.Selection),
			CorrectKeys: q.Correct,
			Submitted:   answer.Selection,
			Explanation: strings.TrimSpace(q.Explanation),
			Hint:        strings.TrimSpace(q.Hint),
			Theme:       strings.TrimSpace(q.Theme),
		}
	}
	return v
}

func displayText(q session.Question, index int, revealed bool) string {
	if text := strings.TrimSpace(q.Text); text != "" {
		return text
	}
	if theme := strings.TrimSpace(q.Theme); theme != "" {
		if revealed {
			return theme
		}
		if redacted := StripParentheticals(theme); redacted != "" {
			return redacted
		}
	}
	n := q.QuestionNumber
	if n <= 0 {
		n = index + 1
	}
	return fmt.Sprintf("Question %d", n)
}

// cue is hidden when it would repeat the question line, including the
// redacted theme standing in for an empty question text.
func cue(q session.Question, index int, mode session.Mode) string {
	if mode != session.ModePractice {
		return ""
	}
	c := strings.TrimSpace(q.Hint)
	if c == "" {
		c = StripParentheticals(q.Theme)
	}
	if c == "" || c == displayText(q, index, false) {
		return ""
	}
	return c
}

func renderChoices(q session.Question, answer *session.Answer, selection session.Selection, mode session.Mode) []ChoiceView {
	out := make([]ChoiceView, 0, len(session.ChoiceKeys))
	for _, k := range session.ChoiceKeys {
		c := ChoiceView{Key: k, Label: q.Choice(k), Selected: selection.Contains(k)}
		if c.Label == "" {
			c.Label, c.Placeholder = NoDataLabel, true
		}
		if answer != nil {
			switch mode {
			case session.ModePractice:
				switch {
				case q.Correct.Contains(k):
					c.Mark = MarkCorrect
				case answer.Selection.Contains(k):
					c.Mark = MarkIncorrect
				}
			default:
				c.Selected = answer.Selection.Contains(k)
				c.Disabled = true
			}
		}
		out = append(out, c)
	}
	return out
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
