package out

import (
	"context"

	"kokushi/internal/modules/report/domain"
	session "kokushi/internal/modules/session/domain"
)

type SessionSource interface {
	Fetch(ctx context.Context, sessionID string) (session.Session, error)
	RemoteReport(ctx context.Context, sessionID string) (string, error)
}

// NoteStore persists results notes; it returns the written path.
type NoteStore interface {
	Save(ctx context.Context, summary domain.Summary, body string) (string, error)
}
