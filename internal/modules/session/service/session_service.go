package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"kokushi/internal/modules/session/domain"
	sessionout "kokushi/internal/modules/session/port/out"
	"kokushi/internal/platform/clock"
	apperrors "kokushi/internal/platform/errors"
)

type SessionService struct {
	clock   clock.Clock
	store   sessionout.SessionStore
	journal sessionout.SubmissionJournal
	log     zerolog.Logger
}

func NewSessionService(clock clock.Clock, store sessionout.SessionStore, journal sessionout.SubmissionJournal, log zerolog.Logger) *SessionService {
	return &SessionService{clock: clock, store: store, journal: journal, log: log.With().Str("component", "session").Logger()}
}

// Load fetches a session and places the cursor from a raw index value.
// An unknown id and a session without questions are both fatal to the caller.
func (s *SessionService) Load(ctx context.Context, sessionID, rawIndex string) (domain.Session, int, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.Session{}, 0, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	sess, err := s.store.FetchSession(ctx, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("load session failed")
		return domain.Session{}, 0, err
	}
	if sess.Count() == 0 {
		return domain.Session{}, 0, fmt.Errorf("%s: %w", sessionID, apperrors.ErrEmptyQuestionSet)
	}
	if sess.ID == "" {
		sess.ID = sessionID
	}
	cursor := domain.ParseIndex(rawIndex, sess.Count())
	s.log.Debug().Str("session_id", sessionID).Int("questions", sess.Count()).Int("answers", len(sess.Answers)).Int("cursor", cursor).Msg("session loaded")
	return sess, cursor, nil
}

// Submit posts one answer and journals the attempt. The journal write never
// masks the remote outcome.
func (s *SessionService) Submit(ctx context.Context, sessionID string, answer domain.Answer) error {
	if answer.SubmittedAt.IsZero() {
		answer.SubmittedAt = s.clock.Now()
	}
	postErr := s.store.PostAnswer(ctx, sessionID, answer)

	sub := domain.Submission{
		SessionID:  sessionID,
		QuestionID: answer.QuestionID,
		Selection:  answer.Selection,
		TimeSpent:  answer.TimeSpent,
		OK:         postErr == nil,
		RecordedAt: s.clock.Now(),
	}
	if postErr != nil {
		sub.Error = postErr.Error()
		s.log.Error().Err(postErr).
			Str("session_id", sessionID).
			Str("question_id", answer.QuestionID).
			Str("answer", answer.Selection.String()).
			Msg("answer submission failed")
	}
	if s.journal != nil {
		if err := s.journal.Record(ctx, sub); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("journal write failed")
		}
	}
	if postErr != nil && !errors.Is(postErr, apperrors.ErrRemote) {
		return fmt.Errorf("%w: %v", apperrors.ErrRemote, postErr)
	}
	return postErr
}

func (s *SessionService) Journal(ctx context.Context, sessionID string) ([]domain.Submission, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(ctx, sessionID)
}
