package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kokushi/internal/bootstrap"
	"kokushi/internal/platform/config"
	"kokushi/internal/platform/logging"
	uiapp "kokushi/internal/ui/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	baseURL    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "kokushi",
		Short:         "Terminal client for national-exam practice sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to kokushi.yaml")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "quiz server base URL")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "trace|debug|info|warn|error")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newAnswerCmd(flags))
	root.AddCommand(newRenderCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newJournalCmd(flags))
	root.AddCommand(newCategoriesCmd(flags))
	root.AddCommand(newExamNumbersCmd(flags))
	root.AddCommand(newQuestionsCmd(flags))
	root.AddCommand(newConfigCmd())
	return root
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	return config.Load(flags.configPath, config.Overrides{BaseURL: flags.baseURL, LogLevel: flags.logLevel})
}

// loadApp wires the application with logs going to logOut.
func loadApp(flags *globalFlags, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat, logOut)
	return bootstrap.New(context.Background(), cfg, log)
}

func requireFlag(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	var sessionID, index string
	cmd := &cobra.Command{
		Use:   "tui --session <id>",
		Short: "Run the timed quiz in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireFlag("session", sessionID); err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("tui needs an interactive terminal; use `kokushi render` instead")
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logFile, err := logging.OpenFile(cfg.LogPath())
			if err != nil {
				return err
			}
			defer logFile.Close()

			app, err := bootstrap.New(context.Background(), cfg, logging.Setup(cfg.LogLevel, cfg.LogFormat, logFile))
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app, uiapp.Options{SessionID: sessionID, Index: index})
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().StringVar(&index, "index", "", "zero-based question to open first")
	return cmd
}

func newSessionCmd(flags *globalFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Create and inspect sessions"}

	var mode string
	var exams []int
	var categories []string
	var maxQuestions int
	create := &cobra.Command{
		Use:   "new",
		Short: "Create a session on the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.New(context.Background(), mode, exams, categories, maxQuestions)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session created: %s questions=%d matched=%d\n", out.SessionID, out.Total, out.FilteredTotal)
			return nil
		},
	}
	create.Flags().StringVar(&mode, "mode", "test", "session mode: test|practice")
	create.Flags().IntSliceVar(&exams, "exam", nil, "exam number filter (repeatable)")
	create.Flags().StringSliceVar(&categories, "category", nil, "category filter (repeatable)")
	create.Flags().IntVar(&maxQuestions, "max", 0, "maximum number of questions (0: all)")

	var sessionID string
	show := &cobra.Command{
		Use:   "show --session <id>",
		Short: "Show a session's progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("session", sessionID); err != nil {
				return err
			}
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Show(context.Background(), sessionID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session=%s mode=%s questions=%d answered=%d\n", out.SessionID, out.Mode, out.Questions, out.Answered)
			return nil
		},
	}
	show.Flags().StringVar(&sessionID, "session", "", "session id")

	session.AddCommand(create, show)
	return session
}

func newAnswerCmd(flags *globalFlags) *cobra.Command {
	var sessionID, questionID string
	var choices []string
	var timeSpent float64
	cmd := &cobra.Command{
		Use:   "answer --session <id> --question <qid> --choice K",
		Short: "Submit one answer; an answered question is rejected",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("session", sessionID); err != nil {
				return err
			}
			if err := requireFlag("question", questionID); err != nil {
				return err
			}
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Answer(context.Background(), sessionID, questionID, strings.Join(choices, ","), timeSpent)
			if err != nil {
				return err
			}
			verdict := "recorded"
			if out.Mode == "practice" {
				verdict = "incorrect"
				if out.Correct {
					verdict = "correct"
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", out.QuestionID, out.Selection.String(), verdict)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().StringVar(&questionID, "question", "", "question id")
	cmd.Flags().StringSliceVar(&choices, "choice", nil, "choice key 1-4 (repeatable)")
	cmd.Flags().Float64Var(&timeSpent, "time-spent", 0, "seconds spent on the question")
	return cmd
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var sessionID, index, format string
	cmd := &cobra.Command{
		Use:   "render --session <id>",
		Short: "Print one question as text or HTML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("session", sessionID); err != nil {
				return err
			}
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.QuizCLI.Render(context.Background(), sessionID, index, format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().StringVar(&index, "index", "", "zero-based question index")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text|html")
	return cmd
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	var sessionID string
	var remote, save bool
	cmd := &cobra.Command{
		Use:   "report --session <id>",
		Short: "Score a session and write its results note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("session", sessionID); err != nil {
				return err
			}
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()
			if remote {
				md, err := app.ReportCLI.Remote(ctx, sessionID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			}
			out, err := app.ReportCLI.Build(ctx, sessionID, save)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Markdown)
			if out.Path != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", out.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().BoolVar(&remote, "remote", false, "print the server-side report instead")
	cmd.Flags().BoolVar(&save, "save", true, "write the results note under <data_dir>/reports")
	return cmd
}

func newJournalCmd(flags *globalFlags) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List locally recorded submission outcomes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			entries, err := app.SessionCLI.Journal(context.Background(), sessionID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no submissions")
				return nil
			}
			for _, e := range entries {
				status := "ok"
				if !e.OK {
					status = "failed: " + e.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  [%s]  %.1fs  %s\n",
					e.RecordedAt.Format("2006-01-02 15:04:05"), e.QuestionID, e.Choices, e.TimeSpent, status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (empty: all sessions)")
	return cmd
}

func newCategoriesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List question categories with counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			cats, err := app.SessionCLI.Categories(context.Background())
			if err != nil {
				return err
			}
			for _, c := range cats {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", c.Name, c.Count)
			}
			return nil
		},
	}
}

func newExamNumbersCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exams",
		Short: "List available exam numbers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			nums, err := app.SessionCLI.ExamNumbers(context.Background())
			if err != nil {
				return err
			}
			for _, n := range nums {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "第%d回\n", n)
			}
			return nil
		},
	}
}

func newQuestionsCmd(flags *globalFlags) *cobra.Command {
	var exams []int
	var categories []string
	list := &cobra.Command{
		Use:   "questions",
		Short: "Browse the question bank",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			qs, err := app.SessionCLI.Questions(context.Background(), exams, categories)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, q := range qs {
				_, _ = fmt.Fprintf(out, "%s\t第%d回 問%d\t%s\t%s\n", q.ID, q.ExamNumber, q.QuestionNumber, q.Category, firstLine(q.Text))
			}
			_, _ = fmt.Fprintf(out, "%d questions\n", len(qs))
			return nil
		},
	}
	list.Flags().IntSliceVar(&exams, "exam", nil, "exam number filter (repeatable)")
	list.Flags().StringSliceVar(&categories, "category", nil, "category filter (repeatable)")

	show := &cobra.Command{
		Use:   "show <question-id>",
		Short: "Print one question with its answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()
			q, err := app.SessionCLI.Question(context.Background(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "第%d回 問%d  %s\n\n%s\n\n", q.ExamNumber, q.QuestionNumber, q.Category, q.Text)
			for n, c := range q.Choices {
				_, _ = fmt.Fprintf(out, "  %d. %s\n", n+1, c)
			}
			_, _ = fmt.Fprintf(out, "\n正解: %s\n", q.Correct)
			if q.Explanation != "" {
				_, _ = fmt.Fprintf(out, "解説: %s\n", q.Explanation)
			}
			return nil
		},
	}
	list.AddCommand(show)
	return list
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func newConfigCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	cfg.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write a default kokushi.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "kokushi.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Write(path, config.DefaultConfig()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cfg
}
