package usecase

import (
	"context"
	"io"

	"kokushi/internal/modules/quiz/dto"
	quizin "kokushi/internal/modules/quiz/port/in"
	"kokushi/internal/modules/quiz/service"
)

type Interactor struct {
	svc *service.QuizService
}

func NewInteractor(svc *service.QuizService) quizin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput, surface dto.Surface) (*dto.Quiz, error) {
	return i.svc.Start(ctx, input.SessionID, input.Index, surface)
}

func (i *Interactor) Submit(ctx context.Context, pending dto.Pending) error {
	return i.svc.Submit(ctx, pending)
}

func (i *Interactor) Finish(ctx context.Context, quiz *dto.Quiz, expired bool) (dto.FinishOutput, error) {
	target, launched, err := i.svc.Finish(ctx, quiz, expired)
	out := dto.FinishOutput{SessionID: quiz.Session.ID, ReportURL: target, Launched: launched, Expired: expired}
	return out, err
}

func (i *Interactor) Render(ctx context.Context, input dto.RenderInput, w io.Writer) error {
	format := input.Format
	if format == "" {
		format = "text"
	}
	return i.svc.Render(ctx, input.SessionID, input.Index, format, w)
}
