package in

import (
	"context"
	"io"

	"kokushi/internal/modules/quiz/dto"
	quizin "kokushi/internal/modules/quiz/port/in"
)

type CLIHandler struct {
	usecase quizin.Usecase
}

func NewCLIHandler(usecase quizin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Render(ctx context.Context, sessionID, index, format string, w io.Writer) error {
	return h.usecase.Render(ctx, dto.RenderInput{SessionID: sessionID, Index: index, Format: format}, w)
}
