package out

import (
	"context"

	"kokushi/internal/modules/session/domain"
)

// SessionStore is the remote source of truth for a session and its answers.
type SessionStore interface {
	FetchSession(ctx context.Context, sessionID string) (domain.Session, error)
	PostAnswer(ctx context.Context, sessionID string, answer domain.Answer) error
}

// Catalog covers the remote operations outside a single session's lifetime.
type Catalog interface {
	CreateSession(ctx context.Context, req domain.CreateRequest) (domain.Created, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	ExamNumbers(ctx context.Context) ([]int, error)
	Questions(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error)
	Question(ctx context.Context, questionID string) (domain.Question, error)
	Report(ctx context.Context, sessionID string) (string, error)
}

// SubmissionJournal keeps a local record of every submission attempt.
type SubmissionJournal interface {
	Record(ctx context.Context, sub domain.Submission) error
	List(ctx context.Context, sessionID string) ([]domain.Submission, error)
}
