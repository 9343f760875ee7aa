package out

import (
	"context"

	quizout "kokushi/internal/modules/quiz/port/out"
	session "kokushi/internal/modules/session/domain"
	sessiondto "kokushi/internal/modules/session/dto"
	sessionin "kokushi/internal/modules/session/port/in"
)

// SessionAdapter reaches the session module through its use case port.
type SessionAdapter struct {
	sessions sessionin.Usecase
}

var (
	_ quizout.SessionSource   = (*SessionAdapter)(nil)
	_ quizout.AnswerSubmitter = (*SessionAdapter)(nil)
)

func NewSessionAdapter(sessions sessionin.Usecase) *SessionAdapter {
	return &SessionAdapter{sessions: sessions}
}

func (a *SessionAdapter) Load(ctx context.Context, sessionID, rawIndex string) (session.Session, int, error) {
	out, err := a.sessions.Load(ctx, sessiondto.LoadInput{SessionID: sessionID, Index: rawIndex})
	if err != nil {
		return session.Session{}, 0, err
	}
	return out.Session, out.Cursor, nil
}

func (a *SessionAdapter) Submit(ctx context.Context, sessionID string, answer session.Answer) error {
	choices := make([]string, 0, len(answer.Selection))
	for _, k := range answer.Selection {
		choices = append(choices, string(k))
	}
	return a.sessions.Submit(ctx, sessiondto.SubmitInput{
		SessionID:  sessionID,
		QuestionID: answer.QuestionID,
		Choices:    choices,
		TimeSpent:  answer.TimeSpent,
	})
}
