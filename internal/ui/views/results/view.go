package results

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	quizdto "kokushi/internal/modules/quiz/dto"
	reportdto "kokushi/internal/modules/report/dto"
	"kokushi/internal/ui/theme"
)

// BuiltMsg carries the scored report for the finished session.
type BuiltMsg struct {
	Output reportdto.ReportOutput
	Err    error
}

// Model is the results screen: a scrollable glamour rendering of the
// report Markdown.
type Model struct {
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	finish   quizdto.FinishOutput
	output   reportdto.ReportOutput
	err      error
	loading  bool
	width    int
	height   int
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	r, _ := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(0))
	return Model{viewport: viewport.New(0, 0), spinner: sp, renderer: r}
}

// Begin switches to the loading state for a just-finished quiz.
func (m *Model) Begin(finish quizdto.FinishOutput) tea.Cmd {
	m.finish = finish
	m.loading = true
	return m.spinner.Tick
}

// SetFinish replaces the finish details once the quiz has stopped.
func (m *Model) SetFinish(finish quizdto.FinishOutput) { m.finish = finish }

func (m Model) Loading() bool { return m.loading }

func (m Model) Output() reportdto.ReportOutput { return m.output }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(1, height-3)
	if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(width)); err == nil {
		m.renderer = r
	}
	if !m.loading && m.output.Markdown != "" {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case BuiltMsg:
		m.loading = false
		m.output, m.err = msg.Output, msg.Err
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, max(1, m.height-2), lipgloss.Center, lipgloss.Center,
				m.spinner.View()+" Scoring session…"))
	}
	footer := theme.Muted.Render(fmt.Sprintf("%.0f%%  ↑/↓ scroll  q quit", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

func (m Model) renderHeader() string {
	title := theme.Title.Render("Results")
	if m.finish.Expired {
		title += "  " + theme.Error.Render("時間切れ")
	}
	line := title + "  " + theme.Muted.Render(m.finish.ReportURL)
	if m.finish.Launched {
		line += theme.Muted.Render("  (opened in browser)")
	}
	if m.output.Path != "" {
		line += "\n" + theme.Muted.Render("saved "+m.output.Path)
	}
	return line
}

func (m Model) renderContent() string {
	if m.err != nil {
		return theme.Error.Render("Error: " + m.err.Error())
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(m.output.Markdown); err == nil {
			return rendered
		}
	}
	return m.output.Markdown
}
