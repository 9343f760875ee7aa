package out

import (
	"fmt"
	"io"
	"strings"

	"kokushi/internal/modules/quiz/domain"
	quizout "kokushi/internal/modules/quiz/port/out"
)

// TextWriter renders a question as plain text for pipes and logs.
type TextWriter struct{}

var _ quizout.ViewWriter = TextWriter{}

func (TextWriter) Write(w io.Writer, view domain.QuestionView, progress domain.Progress, timer domain.Reading) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", progress.Counter, timer.Text)
	if timer.Band != domain.BandNeutral {
		fmt.Fprintf(&b, " (%s)", timer.Band)
	}
	b.WriteString("\n")
	if view.Category != "" {
		fmt.Fprintf(&b, "%s\n", view.Category)
	}
	b.WriteString("\n")
	for _, l := range view.Lines {
		b.WriteString(l + "\n")
	}
	if view.Cue != "" {
		fmt.Fprintf(&b, "\nhint: %s\n", view.Cue)
	}
	b.WriteString("\n")
	if n := view.NoChoice; n != nil {
		fmt.Fprintf(&b, "No choice data. Correct answer: %s\n", n.CorrectKeys.String())
		if n.Theme != "" {
			fmt.Fprintf(&b, "Theme: %s\n", n.Theme)
		}
	}
	for _, c := range view.Choices {
		box := "[ ]"
		if c.Selected {
			box = "[x]"
		}
		mark := ""
		switch c.Mark {
		case domain.MarkCorrect:
			mark = "  ✓"
		case domain.MarkIncorrect:
			mark = "  ✗"
		}
		fmt.Fprintf(&b, "%s %s. %s%s\n", box, c.Key, c.Label, mark)
	}
	if f := view.Feedback; f != nil {
		if f.Correct {
			b.WriteString("\nCorrect\n")
		} else {
			fmt.Fprintf(&b, "\nIncorrect: answer %s\n", f.CorrectKeys.String())
		}
		for _, extra := range []string{f.Explanation, f.Hint, f.Theme} {
			if extra != "" {
				b.WriteString(extra + "\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
