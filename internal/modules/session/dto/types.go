package dto

import (
	"time"

	"kokushi/internal/modules/session/domain"
)

type LoadInput struct {
	SessionID string `validate:"required"`
	Index     string
}

type LoadOutput struct {
	Session  domain.Session
	Cursor   int
	LoadedAt time.Time
}

type SubmitInput struct {
	SessionID  string   `json:"session_id" validate:"required"`
	QuestionID string   `json:"question_id" validate:"required"`
	Choices    []string `json:"answer" validate:"min=1,dive,oneof=1 2 3 4"`
	TimeSpent  float64  `json:"time_spent" validate:"gte=0"`
}

type SubmitOutput struct {
	SessionID  string
	QuestionID string
	Selection  domain.Selection
	Correct    bool
	Mode       domain.Mode
}

type CreateInput struct {
	Mode         string   `validate:"oneof=test practice"`
	ExamNumbers  []int    `validate:"dive,gt=0"`
	Categories   []string `validate:"dive,required"`
	MaxQuestions int      `validate:"gte=0"`
}

type CreateOutput struct {
	SessionID     string
	Total         int
	FilteredTotal int
}

type SessionSummaryOutput struct {
	SessionID string
	Mode      domain.Mode
	Questions int
	Answered  int
}

type CategoryOutput struct {
	Name  string
	Count int
}

type QuestionsInput struct {
	ExamNumbers []int    `validate:"dive,gt=0"`
	Categories  []string `validate:"dive,required"`
}

type QuestionOutput struct {
	ID             string
	ExamNumber     int
	QuestionNumber int
	Category       string
	Text           string
	Choices        []string
	Correct        string
	Explanation    string
}

type JournalEntryOutput struct {
	QuestionID string
	Choices    string
	TimeSpent  float64
	OK         bool
	Error      string
	RecordedAt time.Time
}
