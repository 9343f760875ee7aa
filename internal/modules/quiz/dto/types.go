package dto

import (
	"kokushi/internal/modules/quiz/domain"
	session "kokushi/internal/modules/session/domain"
)

// Surfaces work with the quiz state machine through these names.
type (
	Quiz           = domain.Quiz
	Pending        = domain.Pending
	Selected       = domain.Selected
	QuestionView   = domain.QuestionView
	ChoiceView     = domain.ChoiceView
	Feedback       = domain.Feedback
	NoChoiceNotice = domain.NoChoiceNotice
	Progress       = domain.Progress
	Reading        = domain.Reading
	Band           = domain.Band
	Surface        = domain.Surface
	ChoiceMark     = domain.ChoiceMark
	ChoiceKey      = session.ChoiceKey
)

const (
	BandNeutral   = domain.BandNeutral
	BandWarning   = domain.BandWarning
	BandUrgent    = domain.BandUrgent
	MarkNone      = domain.MarkNone
	MarkCorrect   = domain.MarkCorrect
	MarkIncorrect = domain.MarkIncorrect
)

type StartInput struct {
	SessionID string
	Index     string
}

type FinishOutput struct {
	SessionID string
	ReportURL string
	Launched  bool
	Expired   bool
}

type RenderInput struct {
	SessionID string
	Index     string
	Format    string
}
