package domain_test

import (
	"strings"
	"testing"
	"time"

	"kokushi/internal/modules/report/domain"
	session "kokushi/internal/modules/session/domain"
)

func sample() session.Session {
	qs := []session.Question{
		{ID: "a1", ExamNumber: 58, QuestionNumber: 1, Category: "解剖学", Correct: session.NewSelection("2")},
		{ID: "a2", ExamNumber: 58, QuestionNumber: 2, Category: "解剖学", Correct: session.NewSelection("1", "3")},
		{ID: "p1", ExamNumber: 58, QuestionNumber: 3, Category: "生理学", Correct: session.NewSelection("4"), Theme: "心拍"},
		{ID: "p2", ExamNumber: 58, QuestionNumber: 4, Category: "生理学", Correct: session.NewSelection("1")},
	}
	return session.NewSession("s1", session.ModeTest, qs, []session.Answer{
		{QuestionID: "a1", Selection: session.NewSelection("3"), TimeSpent: 12.34},
		{QuestionID: "a2", Selection: session.NewSelection("3", "1"), TimeSpent: 20},
		{QuestionID: "p1", Selection: session.NewSelection("4"), TimeSpent: 5},
	})
}

func TestSummarizeTalliesAndCategoryOrder(t *testing.T) {
	t.Parallel()
	s := domain.Summarize(sample(), time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	if s.Total != 4 || s.Correct != 2 || s.Incorrect != 1 || s.Unanswered != 1 || s.Rate() != 50 {
		t.Fatalf("unexpected tally %+v", s.Tally)
	}
	// equal rates fall back to name order
	if len(s.Categories) != 2 || s.Categories[0].Name != "生理学" || s.Categories[1].Rate() != 50 {
		t.Fatalf("unexpected categories %+v", s.Categories)
	}
	if s.Items[1].Outcome != domain.OutcomeCorrect || s.Items[3].Outcome != domain.OutcomeUnanswered {
		t.Fatalf("unexpected item outcomes %+v", s.Items)
	}
}

func TestCategoriesSortedByRateThenName(t *testing.T) {
	t.Parallel()
	qs := []session.Question{
		{ID: "x", Category: "b", Correct: session.NewSelection("1")},
		{ID: "y", Category: "a", Correct: session.NewSelection("1")},
		{ID: "z", Category: "c", Correct: session.NewSelection("1")},
	}
	sess := session.NewSession("s", session.ModeTest, qs, []session.Answer{
		{QuestionID: "z", Selection: session.NewSelection("1")},
	})
	s := domain.Summarize(sess, time.Time{})
	got := []string{s.Categories[0].Name, s.Categories[1].Name, s.Categories[2].Name}
	if strings.Join(got, ",") != "c,a,b" {
		t.Fatalf("expected c,a,b got %v", got)
	}
}

func TestEmptyTallyRateIsZero(t *testing.T) {
	t.Parallel()
	if (domain.Tally{}).Rate() != 0 {
		t.Fatalf("empty tally rate must be zero")
	}
}

func TestRenderMarkdownSections(t *testing.T) {
	t.Parallel()
	md := domain.RenderMarkdown(domain.Summarize(sample(), time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
	for _, want := range []string{
		"# Results: session s1",
		"| 4 | 2 | 1 | 1 | 50.0% |",
		"| 生理学 | 2 | 1 | 0 | 1 | 50.0% |",
		"### 1. Exam 58, question 1",
		"- Result: ❌ incorrect",
		"- Your answer: 3",
		"- Time: 12.3s",
		"- Theme: 心拍",
		"- Result: ⚪ unanswered",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
}
