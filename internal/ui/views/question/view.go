package question

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	quizdto "kokushi/internal/modules/quiz/dto"
	"kokushi/internal/ui/theme"
)

// Display is the timer surface of the question screen. The timer engine
// writes to it; View reads it back.
type Display struct {
	Text   string
	Band   quizdto.Band
	Writes int
}

func (d *Display) WriteTimer(text string, band quizdto.Band) {
	d.Text, d.Band = text, band
	d.Writes++
}

// Model draws one QuestionView. It holds no quiz state of its own.
type Model struct {
	display  *Display
	progress progress.Model
	notice   string
	width    int
	height   int
}

func New() Model {
	bar := progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)))
	bar.ShowPercentage = false
	return Model{display: &Display{}, progress: bar}
}

// Display is the surface to attach the timer engine to.
func (m Model) Display() *Display { return m.display }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = max(10, width-24)
}

// SetNotice sets a one-line message shown under the choices; "" clears it.
func (m *Model) SetNotice(notice string) { m.notice = notice }

func (m Model) Notice() string { return m.notice }

func (m Model) View(v quizdto.QuestionView, p quizdto.Progress) string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader(v) + "\n")
	sb.WriteString(m.progress.ViewAs(p.Percent/100) + "  " +
		theme.Muted.Render(fmt.Sprintf("%s  answered %d/%d", p.Counter, p.Answered, p.Total)) + "\n\n")

	body := lipgloss.NewStyle().Width(max(20, m.width-4))
	sb.WriteString(body.Render(strings.Join(v.Lines, "\n")) + "\n")
	if v.Cue != "" {
		sb.WriteString(theme.Muted.Italic(true).Render("ヒント: "+v.Cue) + "\n")
	}
	sb.WriteString("\n")

	if v.NoChoice != nil {
		sb.WriteString(renderNoChoice(*v.NoChoice))
	} else {
		for _, c := range v.Choices {
			sb.WriteString(renderChoice(c) + "\n")
		}
	}
	if v.Feedback != nil {
		sb.WriteString("\n" + renderFeedback(*v.Feedback))
	}
	if m.notice != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.notice) + "\n")
	}
	sb.WriteString("\n" + renderNav(p))
	return sb.String()
}

func (m Model) renderHeader(v quizdto.QuestionView) string {
	title := fmt.Sprintf("Q%d", v.Number)
	if v.ExamNumber > 0 && v.QuestionNumber > 0 {
		title = fmt.Sprintf("第%d回 問%d", v.ExamNumber, v.QuestionNumber)
	}
	left := theme.Title.Render(title)
	if v.Category != "" {
		left += "  " + theme.Muted.Render(v.Category)
	}
	left += "  " + theme.Muted.Render("["+string(v.Mode)+"]")

	clock := theme.Clock(m.display.Band).Render(m.display.Text)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(clock)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + clock
}

func renderChoice(c quizdto.ChoiceView) string {
	box := "[ ]"
	if c.Selected {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s. %s", box, c.Key, c.Label)
	switch {
	case c.Mark == quizdto.MarkCorrect:
		return theme.Correct.Render(line + "  ✓")
	case c.Mark == quizdto.MarkIncorrect:
		return theme.Incorrect.Render(line + "  ✗")
	case c.Placeholder, c.Disabled && !c.Selected:
		return theme.Disabled.Render(line)
	case c.Selected:
		return theme.Selected.Render(line)
	}
	return line
}

func renderNoChoice(n quizdto.NoChoiceNotice) string {
	line := "選択肢データがありません。正解: " + n.CorrectKeys.String()
	if n.Theme != "" {
		line += "（" + n.Theme + "）"
	}
	return theme.Muted.Render(line) + "\n"
}

func renderFeedback(f quizdto.Feedback) string {
	var sb strings.Builder
	if f.Correct {
		sb.WriteString(theme.Correct.Render("正解") + "\n")
	} else {
		sb.WriteString(theme.Incorrect.Render("不正解") + theme.Muted.Render("  正解: "+f.CorrectKeys.String()) + "\n")
	}
	if f.Theme != "" {
		sb.WriteString(theme.Muted.Render("テーマ: "+f.Theme) + "\n")
	}
	if f.Hint != "" {
		sb.WriteString(theme.Muted.Render("ヒント: "+f.Hint) + "\n")
	}
	if f.Explanation != "" {
		sb.WriteString(f.Explanation + "\n")
	}
	return sb.String()
}

func renderNav(p quizdto.Progress) string {
	prev, next := theme.Muted, theme.Muted
	if p.PrevDisabled {
		prev = theme.Disabled
	}
	if p.NextDisabled {
		next = theme.Disabled
	}
	return prev.Render("← prev") + "  " + next.Render("next →") + "  " +
		theme.Muted.Render("1-4 choose  f finish  : palette  ? help")
}
