package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	quizinadapter "kokushi/internal/modules/quiz/adapter/in"
	quizoutadapter "kokushi/internal/modules/quiz/adapter/out"
	quizout "kokushi/internal/modules/quiz/port/out"
	quizservice "kokushi/internal/modules/quiz/service"
	quizusecase "kokushi/internal/modules/quiz/usecase"
	reportinadapter "kokushi/internal/modules/report/adapter/in"
	reportoutadapter "kokushi/internal/modules/report/adapter/out"
	reportservice "kokushi/internal/modules/report/service"
	reportusecase "kokushi/internal/modules/report/usecase"
	sessioninadapter "kokushi/internal/modules/session/adapter/in"
	sessionoutadapter "kokushi/internal/modules/session/adapter/out"
	sessionout "kokushi/internal/modules/session/port/out"
	sessionservice "kokushi/internal/modules/session/service"
	sessionusecase "kokushi/internal/modules/session/usecase"
	"kokushi/internal/platform/clock"
	"kokushi/internal/platform/config"
	"kokushi/internal/platform/id"
	uiapp "kokushi/internal/ui/app"
)

type App struct {
	SessionCLI sessioninadapter.CLIHandler
	QuizCLI    quizinadapter.CLIHandler
	QuizTUI    quizinadapter.TUIHandler
	ReportCLI  reportinadapter.CLIHandler
	ReportTUI  reportinadapter.TUIHandler
	Clock      clock.Clock

	journal *sessionoutadapter.SQLiteJournal
	redis   *redis.Client
}

func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	clk := clock.SystemClock{}

	catalog := sessionoutadapter.NewHTTPStore(cfg.BaseURL, cfg.RequestTimeout).WithRequestIDs(id.UUID{})
	var store sessionout.SessionStore = catalog
	var rdb *redis.Client
	if cfg.Store == config.StoreRedis {
		var err error
		rdb, err = sessionoutadapter.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, fmt.Errorf("new redis store: %w", err)
		}
		store = sessionoutadapter.NewRedisStore(rdb)
	}

	journal, err := sessionoutadapter.NewSQLiteJournal(cfg.JournalPath())
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, fmt.Errorf("new submission journal: %w", err)
	}

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, store, journal, log),
		catalog,
		clk,
	)

	sessions := quizoutadapter.NewSessionAdapter(sessionUC)
	quizUC := quizusecase.NewInteractor(quizservice.NewQuizService(
		clk,
		sessions,
		sessions,
		quizoutadapter.NewOSExternalLauncher(),
		quizservice.Options{
			BaseURL:    cfg.BaseURL,
			OpenReport: cfg.OpenReport,
			Writers: map[string]quizout.ViewWriter{
				"text": quizoutadapter.TextWriter{},
				"html": quizoutadapter.NewHTMLWriter(),
			},
		},
		log,
	))

	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(
		clk,
		reportoutadapter.NewSessionAdapter(sessionUC),
		reportoutadapter.NewFileNoteStore(cfg.ReportDir()),
	))

	return &App{
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		QuizCLI:    quizinadapter.NewCLIHandler(quizUC),
		QuizTUI:    quizinadapter.NewTUIHandler(quizUC),
		ReportCLI:  reportinadapter.NewCLIHandler(reportUC),
		ReportTUI:  reportinadapter.NewTUIHandler(reportUC),
		Clock:      clk,
		journal:    journal,
		redis:      rdb,
	}, nil
}

// Close releases the journal database and the Redis connection, if any.
func (a *App) Close() error {
	var errs []error
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}

func RunTUI(app *App, opts uiapp.Options) error {
	model := uiapp.NewModel(app.QuizTUI, app.ReportTUI, app.Clock, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
