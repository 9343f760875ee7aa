package service

import (
	"context"
	"fmt"
	"strings"

	"kokushi/internal/modules/report/domain"
	reportout "kokushi/internal/modules/report/port/out"
	session "kokushi/internal/modules/session/domain"
	"kokushi/internal/platform/clock"
	apperrors "kokushi/internal/platform/errors"
)

type ReportService struct {
	clock  clock.Clock
	source reportout.SessionSource
	notes  reportout.NoteStore
}

func NewReportService(clock clock.Clock, source reportout.SessionSource, notes reportout.NoteStore) *ReportService {
	return &ReportService{clock: clock, source: source, notes: notes}
}

// Build scores sess (fetching it when nil) and optionally saves the note.
func (s *ReportService) Build(ctx context.Context, sessionID string, sess *session.Session, save bool) (domain.Summary, string, string, error) {
	if sess == nil {
		if strings.TrimSpace(sessionID) == "" {
			return domain.Summary{}, "", "", fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
		}
		fetched, err := s.source.Fetch(ctx, sessionID)
		if err != nil {
			return domain.Summary{}, "", "", err
		}
		sess = &fetched
	}
	summary := domain.Summarize(*sess, s.clock.Now())
	body := domain.RenderMarkdown(summary)
	if !save || s.notes == nil {
		return summary, body, "", nil
	}
	path, err := s.notes.Save(ctx, summary, body)
	if err != nil {
		return domain.Summary{}, "", "", err
	}
	return summary, body, path, nil
}

func (s *ReportService) Remote(ctx context.Context, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return s.source.RemoteReport(ctx, sessionID)
}
