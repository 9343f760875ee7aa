package in

import (
	"context"
	"io"

	"kokushi/internal/modules/quiz/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput, surface dto.Surface) (*dto.Quiz, error)
	Submit(ctx context.Context, pending dto.Pending) error
	Finish(ctx context.Context, quiz *dto.Quiz, expired bool) (dto.FinishOutput, error)
	Render(ctx context.Context, input dto.RenderInput, w io.Writer) error
}
