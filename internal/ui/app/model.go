package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	quizdto "kokushi/internal/modules/quiz/dto"
	reportdto "kokushi/internal/modules/report/dto"
	"kokushi/internal/platform/clock"
	apperrors "kokushi/internal/platform/errors"
	"kokushi/internal/ui/components"
	"kokushi/internal/ui/theme"
	questionview "kokushi/internal/ui/views/question"
	resultsview "kokushi/internal/ui/views/results"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type quizPort interface {
	Start(ctx context.Context, sessionID, index string, surface quizdto.Surface) (*quizdto.Quiz, error)
	Submit(ctx context.Context, pending quizdto.Pending) error
	Finish(ctx context.Context, quiz *quizdto.Quiz, expired bool) (quizdto.FinishOutput, error)
}

type reportPort interface {
	Build(ctx context.Context, input reportdto.BuildInput) (reportdto.ReportOutput, error)
}

// ─── screens ─────────────────────────────────────────────────────────────────

type screen int

const (
	screenLoading screen = iota
	screenQuiz
	screenResults
	screenError
)

// ─── async messages ───────────────────────────────────────────────────────────

type loadedMsg struct {
	quiz *quizdto.Quiz
	err  error
}

type tickMsg time.Time

type submittedMsg struct {
	pending quizdto.Pending
	err     error
}

type finishedMsg struct {
	finish quizdto.FinishOutput
	report reportdto.ReportOutput
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Choose  key.Binding
	Prev    key.Binding
	Next    key.Binding
	Finish  key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Choose:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "choose")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "previous")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Prev, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Choose, k.Prev, k.Next},
		{k.Finish, k.Palette},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Options selects the session to run.
type Options struct {
	SessionID string
	Index     string
}

// Model is the root Bubble Tea model. The quiz state is only touched from
// Update; remote calls run as commands and come back as messages.
type Model struct {
	quizSvc quizPort
	report  reportPort
	clock   clock.Clock
	opts    Options

	quiz     *quizdto.Quiz
	question questionview.Model
	results  resultsview.Model
	spinner  spinner.Model

	screen   screen
	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	loadErr  error
	width    int
	height   int
}

func NewModel(quizSvc quizPort, report reportPort, clk clock.Clock, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		quizSvc:  quizSvc,
		report:   report,
		clock:    clk,
		opts:     opts,
		question: questionview.New(),
		results:  resultsview.New(),
		spinner:  sp,
		screen:   screenLoading,
		keys:     defaultKeys(),
		help:     help.New(),
		palette:  components.NewPalette(),
		status:   "loading session " + opts.SessionID,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var paletteCmd tea.Cmd
	if m.palette.Visible() {
		var captured bool
		m.palette, paletteCmd, captured = m.palette.Capture(msg)
		if captured {
			return m, paletteCmd
		}
	}
	next, cmd := m.route(msg)
	return next, tea.Batch(paletteCmd, cmd)
}

func (m Model) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 64))
		m.help.Width = m.width
		m.question.SetSize(m.width, m.height-2)
		m.results.SetSize(m.width, m.height-2)
		return m, nil

	case spinner.TickMsg:
		if m.screen == screenLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case loadedMsg:
		if msg.err != nil {
			m.screen = screenError
			m.loadErr = msg.err
			m.status = "load failed"
			return m, nil
		}
		m.quiz = msg.quiz
		m.screen = screenQuiz
		m.status = fmt.Sprintf("session %s (%s)", m.quiz.Session.ID, m.quiz.Mode())
		return m, tickCmd()

	case tickMsg:
		if m.screen != screenQuiz {
			return m, nil
		}
		reading := m.quiz.Timer.Tick(m.clock.Now())
		if reading.Expired {
			m.question.SetNotice("時間切れです")
			return m.finish(true)
		}
		return m, tickCmd()

	case submittedMsg:
		if m.screen != screenQuiz {
			return m, nil
		}
		now := m.clock.Now()
		if m.quiz.Coord.Complete(msg.pending, msg.err, now) {
			m.moved(now)
		}
		return m, nil

	case finishedMsg:
		m.results.SetFinish(msg.finish)
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(resultsview.BuiltMsg{Output: msg.report, Err: msg.err})
		if msg.report.Path != "" {
			m.status = "results saved"
		}
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		}
		if m.screen == screenQuiz {
			return m.handleQuizKey(msg)
		}
	}

	if m.screen == screenResults {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleQuizKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.clock.Now()
	switch {
	case key.Matches(msg, m.keys.Choose):
		q := m.quiz.Current()
		_, pending := m.quiz.Coord.Choose(q.ID, quizdto.ChoiceKey(msg.String()), now)
		if pending != nil {
			return m, m.submitCmd(*pending)
		}
	case key.Matches(msg, m.keys.Prev):
		if m.quiz.Nav.Previous(now) {
			m.moved(now)
		}
	case key.Matches(msg, m.keys.Next):
		if m.quiz.Nav.Next(now) {
			m.moved(now)
		}
	case key.Matches(msg, m.keys.Finish):
		return m.finish(false)
	case key.Matches(msg, m.keys.Palette):
		cmd := m.palette.Open()
		return m, cmd
	}
	return m, nil
}

// moved redraws after a cursor change: the timer is attached to the fresh
// display and any notice is dropped.
func (m *Model) moved(now time.Time) {
	m.question.SetNotice("")
	m.quiz.Timer.Attach(m.question.Display(), now)
}

// finish hands the quiz to the finish command. From here on Update no
// longer reads or writes the quiz state.
func (m Model) finish(expired bool) (tea.Model, tea.Cmd) {
	m.palette.Close()
	m.screen = screenResults
	m.status = "finishing"
	cmd := m.results.Begin(quizdto.FinishOutput{SessionID: m.quiz.Session.ID, Expired: expired})
	return m, tea.Batch(cmd, m.finishCmd(m.quiz, expired))
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	title := m.renderTitleBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(title)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.screenView(contentH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, content, statusBar)
}

func (m Model) screenView(height int) string {
	switch m.screen {
	case screenLoading:
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading session…")
	case screenError:
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			theme.Error.Render(loadErrorText(m.loadErr))+"\n\n"+theme.Muted.Render("q: quit"))
	case screenResults:
		return m.results.View()
	}
	return m.question.View(m.quiz.View(), m.quiz.Nav.Progress())
}

func (m Model) renderTitleBar() string {
	bar := theme.Hot.Render("kokushi")
	if m.opts.SessionID != "" {
		bar += "  " + theme.Muted.Render(m.opts.SessionID)
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  ::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
		Render(left + strings.Repeat(" ", gap) + right)
}

func loadErrorText(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return "セッションが見つかりません"
	case errors.Is(err, apperrors.ErrEmptyQuestionSet):
		return "問題がありません"
	case err != nil:
		return "Error: " + err.Error()
	}
	return ""
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 || m.screen != screenQuiz {
		return m, nil
	}
	now := m.clock.Now()
	switch parts[0] {
	case "goto":
		if len(parts) < 2 {
			m.status = "usage: goto <n>"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid question number"
			return m, nil
		}
		if m.quiz.Nav.Jump(n-1, now) {
			m.moved(now)
		}
	case "next":
		if m.quiz.Nav.Next(now) {
			m.moved(now)
		}
	case "prev":
		if m.quiz.Nav.Previous(now) {
			m.moved(now)
		}
	case "finish":
		return m.finish(false)
	case "help":
		m.showHelp = true
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadCmd() tea.Cmd {
	surface := m.question.Display()
	return func() tea.Msg {
		q, err := m.quizSvc.Start(context.Background(), m.opts.SessionID, m.opts.Index, surface)
		return loadedMsg{quiz: q, err: err}
	}
}

func (m Model) submitCmd(p quizdto.Pending) tea.Cmd {
	return func() tea.Msg {
		err := m.quizSvc.Submit(context.Background(), p)
		return submittedMsg{pending: p, err: err}
	}
}

// finishCmd stops the quiz and scores the session as held locally. A
// failure to open the browser does not block the results screen.
func (m Model) finishCmd(q *quizdto.Quiz, expired bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out, _ := m.quizSvc.Finish(ctx, q, expired)
		sess := q.Session
		report, err := m.report.Build(ctx, reportdto.BuildInput{Session: &sess, Save: true})
		return finishedMsg{finish: out, report: report, err: err}
	}
}
