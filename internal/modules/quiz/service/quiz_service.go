package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"kokushi/internal/modules/quiz/domain"
	quizout "kokushi/internal/modules/quiz/port/out"
	"kokushi/internal/platform/clock"
	apperrors "kokushi/internal/platform/errors"
)

type QuizService struct {
	clock      clock.Clock
	source     quizout.SessionSource
	submitter  quizout.AnswerSubmitter
	launcher   quizout.ExternalLauncher
	writers    map[string]quizout.ViewWriter
	baseURL    string
	openReport bool
	log        zerolog.Logger
}

type Options struct {
	BaseURL    string
	OpenReport bool
	Writers    map[string]quizout.ViewWriter
}

func NewQuizService(
	clock clock.Clock,
	source quizout.SessionSource,
	submitter quizout.AnswerSubmitter,
	launcher quizout.ExternalLauncher,
	opts Options,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		clock:      clock,
		source:     source,
		submitter:  submitter,
		launcher:   launcher,
		writers:    opts.Writers,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		openReport: opts.OpenReport,
		log:        log.With().Str("component", "quiz").Logger(),
	}
}

// Start loads the session and starts its clock. Load errors are terminal.
func (s *QuizService) Start(ctx context.Context, sessionID, rawIndex string, surface domain.Surface) (*domain.Quiz, error) {
	sess, cursor, err := s.source.Load(ctx, sessionID, rawIndex)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("session load failed")
		return nil, err
	}
	q := domain.NewQuiz(domain.NewState(sess, cursor, s.clock.Now(), surface))
	s.log.Info().
		Str("session_id", sess.ID).
		Str("mode", string(sess.Mode)).
		Int("questions", sess.Count()).
		Int("cursor", q.Cursor).
		Int("budget_seconds", q.Timer.Timer().BudgetSeconds()).
		Msg("quiz started")
	return q, nil
}

// Submit pushes a locally recorded answer. The caller decides whether to
// advance from the returned error; nothing is rolled back here.
func (s *QuizService) Submit(ctx context.Context, p domain.Pending) error {
	if p.SessionID == "" || p.Answer.QuestionID == "" {
		return fmt.Errorf("%w: incomplete submission", apperrors.ErrInvalidInput)
	}
	return s.submitter.Submit(ctx, p.SessionID, p.Answer)
}

// ReportURL is the results page for a session on the quiz server.
func (s *QuizService) ReportURL(sessionID string) string {
	return s.baseURL + "/report/" + url.PathEscape(sessionID)
}

// Finish ends the quiz. The first call stops the clock and, when enabled,
// opens the results page; later calls only report the URL.
func (s *QuizService) Finish(ctx context.Context, q *domain.Quiz, expired bool) (string, bool, error) {
	target := s.ReportURL(q.Session.ID)
	if !q.Terminate() {
		return target, false, nil
	}
	s.log.Info().Str("session_id", q.Session.ID).Bool("expired", expired).Int("answered", q.AnsweredCount()).Msg("quiz finished")
	if !s.openReport || s.launcher == nil {
		return target, false, nil
	}
	if err := s.launcher.Open(ctx, target); err != nil {
		s.log.Warn().Err(err).Str("target", target).Msg("open report failed")
		return target, false, err
	}
	return target, true, nil
}

// Render draws one question of a session in the named format.
func (s *QuizService) Render(ctx context.Context, sessionID, rawIndex, format string, w io.Writer) error {
	writer, ok := s.writers[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("%w: unknown render format %q", apperrors.ErrInvalidInput, format)
	}
	sess, cursor, err := s.source.Load(ctx, sessionID, rawIndex)
	if err != nil {
		return err
	}
	st := domain.NewState(sess, cursor, s.clock.Now(), nil)
	reading := st.Timer.Tick(s.clock.Now())
	return writer.Write(w, st.View(), domain.ProgressOf(st), reading)
}
