package out

import (
	"context"
	"io"

	"kokushi/internal/modules/quiz/domain"
	session "kokushi/internal/modules/session/domain"
)

type SessionSource interface {
	Load(ctx context.Context, sessionID, rawIndex string) (session.Session, int, error)
}

type AnswerSubmitter interface {
	Submit(ctx context.Context, sessionID string, answer session.Answer) error
}

type ExternalLauncher interface {
	Open(ctx context.Context, target string) error
}

// ViewWriter draws a rendered question onto a one-shot output.
type ViewWriter interface {
	Write(w io.Writer, view domain.QuestionView, progress domain.Progress, timer domain.Reading) error
}
