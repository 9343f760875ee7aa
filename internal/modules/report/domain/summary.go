package domain

import (
	"sort"
	"time"

	session "kokushi/internal/modules/session/domain"
)

type Outcome string

const (
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
	OutcomeUnanswered Outcome = "unanswered"
)

type Tally struct {
	Total      int
	Correct    int
	Incorrect  int
	Unanswered int
}

// Rate is the correct percentage; zero for an empty tally.
func (t Tally) Rate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total) * 100
}

func (t *Tally) add(o Outcome) {
	t.Total++
	switch o {
	case OutcomeCorrect:
		t.Correct++
	case OutcomeIncorrect:
		t.Incorrect++
	default:
		t.Unanswered++
	}
}

type CategoryStats struct {
	Name string
	Tally
}

type Item struct {
	Position       int
	QuestionID     string
	ExamNumber     int
	QuestionNumber int
	Category       string
	Theme          string
	Outcome        Outcome
	Submitted      session.Selection
	Correct        session.Selection
	TimeSpent      float64
}

type Summary struct {
	SessionID   string
	Mode        session.Mode
	GeneratedAt time.Time
	Tally
	Categories []CategoryStats
	Items      []Item
}

// Summarize scores every question of the session in its fixed order.
// Categories are ordered by correct rate, best first, then by name.
func Summarize(s session.Session, now time.Time) Summary {
	out := Summary{SessionID: s.ID, Mode: s.Mode, GeneratedAt: now}
	byCat := map[string]*CategoryStats{}
	var order []string

	for i, q := range s.Questions {
		item := Item{
			Position:       i + 1,
			QuestionID:     q.ID,
			ExamNumber:     q.ExamNumber,
			QuestionNumber: q.QuestionNumber,
			Category:       q.Category,
			Theme:          q.Theme,
			Correct:        q.Correct,
			Outcome:        OutcomeUnanswered,
		}
		if a, ok := s.AnswerFor(q.ID); ok {
			item.Submitted = a.Selection
			item.TimeSpent = a.TimeSpent
			if q.IsCorrect(a.Selection) {
				item.Outcome = OutcomeCorrect
			} else {
				item.Outcome = OutcomeIncorrect
			}
		}
		out.Tally.add(item.Outcome)

		cat, ok := byCat[q.Category]
		if !ok {
			cat = &CategoryStats{Name: q.Category}
			byCat[q.Category] = cat
			order = append(order, q.Category)
		}
		cat.add(item.Outcome)
		out.Items = append(out.Items, item)
	}

	for _, name := range order {
		out.Categories = append(out.Categories, *byCat[name])
	}
	sort.SliceStable(out.Categories, func(i, j int) bool {
		ri, rj := out.Categories[i].Rate(), out.Categories[j].Rate()
		if ri != rj {
			return ri > rj
		}
		return out.Categories[i].Name < out.Categories[j].Name
	})
	return out
}
