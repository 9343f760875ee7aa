package domain

import (
	"fmt"
	"strings"

	session "kokushi/internal/modules/session/domain"
)

// RenderMarkdown writes the body of a results note.
func RenderMarkdown(s Summary) string {
	var b strings.Builder
	modeLabel := "Test"
	if s.Mode == session.ModePractice {
		modeLabel = "Practice"
	}
	fmt.Fprintf(&b, "# Results: session %s\n\n", s.SessionID)
	fmt.Fprintf(&b, "- Mode: %s\n", modeLabel)
	fmt.Fprintf(&b, "- Generated: %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Overall\n\n")
	fmt.Fprintf(&b, "| Questions | Correct | Incorrect | Unanswered | Rate |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %.1f%% |\n\n", s.Total, s.Correct, s.Incorrect, s.Unanswered, s.Rate())

	if len(s.Categories) > 0 {
		b.WriteString("## By category\n\n")
		b.WriteString("| Category | Questions | Correct | Incorrect | Unanswered | Rate |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, c := range s.Categories {
			name := c.Name
			if name == "" {
				name = "(uncategorised)"
			}
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %.1f%% |\n", name, c.Total, c.Correct, c.Incorrect, c.Unanswered, c.Rate())
		}
		b.WriteString("\n")
	}

	b.WriteString("## Questions\n\n")
	for _, it := range s.Items {
		fmt.Fprintf(&b, "### %d. %s\n\n", it.Position, itemTitle(it))
		if it.Category != "" {
			fmt.Fprintf(&b, "- Category: %s\n", it.Category)
		}
		if it.Theme != "" {
			fmt.Fprintf(&b, "- Theme: %s\n", it.Theme)
		}
		fmt.Fprintf(&b, "- Result: %s\n", outcomeLabel(it.Outcome))
		if it.Outcome != OutcomeUnanswered {
			fmt.Fprintf(&b, "- Your answer: %s\n", it.Submitted.String())
		}
		fmt.Fprintf(&b, "- Correct answer: %s\n", it.Correct.String())
		if it.Outcome != OutcomeUnanswered {
			fmt.Fprintf(&b, "- Time: %.1fs\n", it.TimeSpent)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func itemTitle(it Item) string {
	if it.ExamNumber > 0 && it.QuestionNumber > 0 {
		return fmt.Sprintf("Exam %d, question %d", it.ExamNumber, it.QuestionNumber)
	}
	return it.QuestionID
}

func outcomeLabel(o Outcome) string {
	switch o {
	case OutcomeCorrect:
		return "✅ correct"
	case OutcomeIncorrect:
		return "❌ incorrect"
	default:
		return "⚪ unanswered"
	}
}
