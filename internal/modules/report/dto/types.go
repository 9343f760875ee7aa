package dto

import (
	"time"

	session "kokushi/internal/modules/session/domain"
)

type BuildInput struct {
	SessionID string
	// Session, when set, is scored as-is instead of being fetched.
	Session *session.Session
	Save    bool
}

type CategoryOutput struct {
	Name       string
	Total      int
	Correct    int
	Incorrect  int
	Unanswered int
	Rate       float64
}

type ReportOutput struct {
	SessionID   string
	Total       int
	Correct     int
	Incorrect   int
	Unanswered  int
	Rate        float64
	Categories  []CategoryOutput
	Markdown    string
	Path        string
	GeneratedAt time.Time
}
