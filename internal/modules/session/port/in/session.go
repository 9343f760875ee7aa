package in

import (
	"context"

	"kokushi/internal/modules/session/dto"
)

type Usecase interface {
	Load(ctx context.Context, input dto.LoadInput) (dto.LoadOutput, error)
	Submit(ctx context.Context, input dto.SubmitInput) error
	AnswerOnce(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error)
	Summary(ctx context.Context, sessionID string) (dto.SessionSummaryOutput, error)
	Create(ctx context.Context, input dto.CreateInput) (dto.CreateOutput, error)
	Categories(ctx context.Context) ([]dto.CategoryOutput, error)
	ExamNumbers(ctx context.Context) ([]int, error)
	Questions(ctx context.Context, input dto.QuestionsInput) ([]dto.QuestionOutput, error)
	Question(ctx context.Context, questionID string) (dto.QuestionOutput, error)
	RemoteReport(ctx context.Context, sessionID string) (string, error)
	Journal(ctx context.Context, sessionID string) ([]dto.JournalEntryOutput, error)
}
