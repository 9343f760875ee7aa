package domain

import "time"

// Answer is the immutable record of one question's submission.
type Answer struct {
	QuestionID  string
	Selection   Selection
	TimeSpent   float64
	SubmittedAt time.Time
}
