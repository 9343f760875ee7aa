package in

import (
	"context"

	"kokushi/internal/modules/report/dto"
)

type Usecase interface {
	Build(ctx context.Context, input dto.BuildInput) (dto.ReportOutput, error)
	Remote(ctx context.Context, sessionID string) (string, error)
}
