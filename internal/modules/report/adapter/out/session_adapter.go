package out

import (
	"context"

	reportout "kokushi/internal/modules/report/port/out"
	session "kokushi/internal/modules/session/domain"
	sessiondto "kokushi/internal/modules/session/dto"
	sessionin "kokushi/internal/modules/session/port/in"
)

type SessionAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionAdapter(sessions sessionin.Usecase) reportout.SessionSource {
	return &SessionAdapter{sessions: sessions}
}

func (a *SessionAdapter) Fetch(ctx context.Context, sessionID string) (session.Session, error) {
	out, err := a.sessions.Load(ctx, sessiondto.LoadInput{SessionID: sessionID})
	if err != nil {
		return session.Session{}, err
	}
	return out.Session, nil
}

func (a *SessionAdapter) RemoteReport(ctx context.Context, sessionID string) (string, error) {
	return a.sessions.RemoteReport(ctx, sessionID)
}
