package in

import (
	"context"
	"strings"

	sessiondto "kokushi/internal/modules/session/dto"
	sessionin "kokushi/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) New(ctx context.Context, mode string, exams []int, categories []string, max int) (sessiondto.CreateOutput, error) {
	return h.usecase.Create(ctx, sessiondto.CreateInput{Mode: mode, ExamNumbers: exams, Categories: categories, MaxQuestions: max})
}

func (h CLIHandler) Show(ctx context.Context, sessionID string) (sessiondto.SessionSummaryOutput, error) {
	return h.usecase.Summary(ctx, sessionID)
}

// Answer accepts choices as "2" or "1,3".
func (h CLIHandler) Answer(ctx context.Context, sessionID, questionID, choices string, timeSpent float64) (sessiondto.SubmitOutput, error) {
	var keys []string
	for _, part := range strings.Split(choices, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keys = append(keys, part)
		}
	}
	return h.usecase.AnswerOnce(ctx, sessiondto.SubmitInput{SessionID: sessionID, QuestionID: questionID, Choices: keys, TimeSpent: timeSpent})
}

func (h CLIHandler) Categories(ctx context.Context) ([]sessiondto.CategoryOutput, error) {
	return h.usecase.Categories(ctx)
}

func (h CLIHandler) ExamNumbers(ctx context.Context) ([]int, error) {
	return h.usecase.ExamNumbers(ctx)
}

func (h CLIHandler) Questions(ctx context.Context, exams []int, categories []string) ([]sessiondto.QuestionOutput, error) {
	return h.usecase.Questions(ctx, sessiondto.QuestionsInput{ExamNumbers: exams, Categories: categories})
}

func (h CLIHandler) Question(ctx context.Context, questionID string) (sessiondto.QuestionOutput, error) {
	return h.usecase.Question(ctx, questionID)
}

func (h CLIHandler) RemoteReport(ctx context.Context, sessionID string) (string, error) {
	return h.usecase.RemoteReport(ctx, sessionID)
}

func (h CLIHandler) Journal(ctx context.Context, sessionID string) ([]sessiondto.JournalEntryOutput, error) {
	return h.usecase.Journal(ctx, sessionID)
}
