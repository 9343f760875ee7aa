package domain

import "time"

// Submission is one attempt to push an Answer to the remote store, kept in
// the local journal whether or not it succeeded.
type Submission struct {
	SessionID  string
	QuestionID string
	Selection  Selection
	TimeSpent  float64
	OK         bool
	Error      string
	RecordedAt time.Time
}

// CreateRequest asks the remote store for a new session.
type CreateRequest struct {
	Mode         Mode
	ExamNumbers  []int
	Categories   []string
	MaxQuestions int
}

// QuestionFilter narrows the question bank; empty fields match everything.
type QuestionFilter struct {
	ExamNumbers []int
	Categories  []string
}

// Created is the remote store's reply to a CreateRequest.
type Created struct {
	SessionID     string
	Total         int
	FilteredTotal int
}

// CategoryCount is the number of questions in a category.
type CategoryCount struct {
	Name  string
	Count int
}
