package in

import (
	"context"

	"kokushi/internal/modules/report/dto"
	reportin "kokushi/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Build(ctx context.Context, sessionID string, save bool) (dto.ReportOutput, error) {
	return h.usecase.Build(ctx, dto.BuildInput{SessionID: sessionID, Save: save})
}

func (h CLIHandler) Remote(ctx context.Context, sessionID string) (string, error) {
	return h.usecase.Remote(ctx, sessionID)
}

// TUIHandler scores the in-memory session the quiz just finished.
type TUIHandler struct {
	usecase reportin.Usecase
}

func NewTUIHandler(usecase reportin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Build(ctx context.Context, input dto.BuildInput) (dto.ReportOutput, error) {
	return h.usecase.Build(ctx, input)
}
