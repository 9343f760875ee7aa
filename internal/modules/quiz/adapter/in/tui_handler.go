package in

import (
	"context"

	"kokushi/internal/modules/quiz/dto"
	quizin "kokushi/internal/modules/quiz/port/in"
)

type TUIHandler struct {
	usecase quizin.Usecase
}

func NewTUIHandler(usecase quizin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context, sessionID, index string, surface dto.Surface) (*dto.Quiz, error) {
	return h.usecase.Start(ctx, dto.StartInput{SessionID: sessionID, Index: index}, surface)
}

func (h TUIHandler) Submit(ctx context.Context, pending dto.Pending) error {
	return h.usecase.Submit(ctx, pending)
}

func (h TUIHandler) Finish(ctx context.Context, quiz *dto.Quiz, expired bool) (dto.FinishOutput, error) {
	return h.usecase.Finish(ctx, quiz, expired)
}
