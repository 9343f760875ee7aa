package usecase

import (
	"context"

	"kokushi/internal/modules/report/dto"
	reportin "kokushi/internal/modules/report/port/in"
	"kokushi/internal/modules/report/service"
)

type Interactor struct {
	svc *service.ReportService
}

func NewInteractor(svc *service.ReportService) reportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Build(ctx context.Context, input dto.BuildInput) (dto.ReportOutput, error) {
	summary, body, path, err := i.svc.Build(ctx, input.SessionID, input.Session, input.Save)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	cats := make([]dto.CategoryOutput, 0, len(summary.Categories))
	for _, c := range summary.Categories {
		cats = append(cats, dto.CategoryOutput{
			Name:       c.Name,
			Total:      c.Total,
			Correct:    c.Correct,
			Incorrect:  c.Incorrect,
			Unanswered: c.Unanswered,
			Rate:       c.Rate(),
		})
	}
	return dto.ReportOutput{
		SessionID:   summary.SessionID,
		Total:       summary.Total,
		Correct:     summary.Correct,
		Incorrect:   summary.Incorrect,
		Unanswered:  summary.Unanswered,
		Rate:        summary.Rate(),
		Categories:  cats,
		Markdown:    body,
		Path:        path,
		GeneratedAt: summary.GeneratedAt,
	}, nil
}

func (i *Interactor) Remote(ctx context.Context, sessionID string) (string, error) {
	return i.svc.Remote(ctx, sessionID)
}
