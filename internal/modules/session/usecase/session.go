package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kokushi/internal/modules/session/domain"
	sessiondto "kokushi/internal/modules/session/dto"
	sessionin "kokushi/internal/modules/session/port/in"
	sessionout "kokushi/internal/modules/session/port/out"
	"kokushi/internal/modules/session/service"
	"kokushi/internal/platform/clock"
	apperrors "kokushi/internal/platform/errors"
	"kokushi/internal/platform/validate"
)

type Interactor struct {
	svc     *service.SessionService
	catalog sessionout.Catalog
	clock   clock.Clock
}

func NewInteractor(svc *service.SessionService, catalog sessionout.Catalog, clock clock.Clock) sessionin.Usecase {
	return &Interactor{svc: svc, catalog: catalog, clock: clock}
}

func (i *Interactor) Load(ctx context.Context, input sessiondto.LoadInput) (sessiondto.LoadOutput, error) {
	if err := validate.Struct(input); err != nil {
		return sessiondto.LoadOutput{}, err
	}
	sess, cursor, err := i.svc.Load(ctx, input.SessionID, input.Index)
	if err != nil {
		return sessiondto.LoadOutput{}, err
	}
	return sessiondto.LoadOutput{Session: sess, Cursor: cursor, LoadedAt: i.clock.Now()}, nil
}

// Submit posts without consulting remote state; callers that track answers
// locally are responsible for the once-per-question rule.
func (i *Interactor) Submit(ctx context.Context, input sessiondto.SubmitInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	return i.svc.Submit(ctx, input.SessionID, i.answerFrom(input))
}

// AnswerOnce loads the session first and refuses to overwrite an answer that
// already exists remotely.
func (i *Interactor) AnswerOnce(ctx context.Context, input sessiondto.SubmitInput) (sessiondto.SubmitOutput, error) {
	if err := validate.Struct(input); err != nil {
		return sessiondto.SubmitOutput{}, err
	}
	sess, _, err := i.svc.Load(ctx, input.SessionID, "")
	if err != nil {
		return sessiondto.SubmitOutput{}, err
	}
	idx := sess.QuestionIndex(input.QuestionID)
	if idx < 0 {
		return sessiondto.SubmitOutput{}, fmt.Errorf("question %s: %w", input.QuestionID, apperrors.ErrNotFound)
	}
	if _, ok := sess.AnswerFor(input.QuestionID); ok {
		return sessiondto.SubmitOutput{}, fmt.Errorf("question %s: %w", input.QuestionID, apperrors.ErrAlreadyAnswered)
	}
	q := sess.Questions[idx]
	answer := i.answerFrom(input)
	if len(answer.Selection) < q.RequiredSelections() {
		return sessiondto.SubmitOutput{}, fmt.Errorf("%w: question %s needs %d choices", apperrors.ErrInvalidInput, q.ID, q.RequiredSelections())
	}
	if err := i.svc.Submit(ctx, input.SessionID, answer); err != nil {
		return sessiondto.SubmitOutput{}, err
	}
	return sessiondto.SubmitOutput{
		SessionID:  input.SessionID,
		QuestionID: input.QuestionID,
		Selection:  answer.Selection,
		Correct:    q.IsCorrect(answer.Selection),
		Mode:       sess.Mode,
	}, nil
}

func (i *Interactor) Summary(ctx context.Context, sessionID string) (sessiondto.SessionSummaryOutput, error) {
	sess, _, err := i.svc.Load(ctx, sessionID, "")
	if err != nil {
		return sessiondto.SessionSummaryOutput{}, err
	}
	return sessiondto.SessionSummaryOutput{
		SessionID: sess.ID,
		Mode:      sess.Mode,
		Questions: sess.Count(),
		Answered:  len(sess.Answers),
	}, nil
}

func (i *Interactor) Create(ctx context.Context, input sessiondto.CreateInput) (sessiondto.CreateOutput, error) {
	if input.Mode == "" {
		input.Mode = string(domain.ModeTest)
	}
	if err := validate.Struct(input); err != nil {
		return sessiondto.CreateOutput{}, err
	}
	if i.catalog == nil {
		return sessiondto.CreateOutput{}, errors.New("catalog is not configured")
	}
	created, err := i.catalog.CreateSession(ctx, domain.CreateRequest{
		Mode:         domain.ParseMode(input.Mode),
		ExamNumbers:  input.ExamNumbers,
		Categories:   trimAll(input.Categories),
		MaxQuestions: input.MaxQuestions,
	})
	if err != nil {
		return sessiondto.CreateOutput{}, err
	}
	return sessiondto.CreateOutput{SessionID: created.SessionID, Total: created.Total, FilteredTotal: created.FilteredTotal}, nil
}

func (i *Interactor) Categories(ctx context.Context) ([]sessiondto.CategoryOutput, error) {
	if i.catalog == nil {
		return nil, errors.New("catalog is not configured")
	}
	cats, err := i.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.CategoryOutput, 0, len(cats))
	for _, c := range cats {
		out = append(out, sessiondto.CategoryOutput{Name: c.Name, Count: c.Count})
	}
	return out, nil
}

func (i *Interactor) ExamNumbers(ctx context.Context) ([]int, error) {
	if i.catalog == nil {
		return nil, errors.New("catalog is not configured")
	}
	return i.catalog.ExamNumbers(ctx)
}

func (i *Interactor) Questions(ctx context.Context, input sessiondto.QuestionsInput) ([]sessiondto.QuestionOutput, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if i.catalog == nil {
		return nil, errors.New("catalog is not configured")
	}
	qs, err := i.catalog.Questions(ctx, domain.QuestionFilter{
		ExamNumbers: input.ExamNumbers,
		Categories:  trimAll(input.Categories),
	})
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.QuestionOutput, 0, len(qs))
	for _, q := range qs {
		out = append(out, questionOutput(q))
	}
	return out, nil
}

func (i *Interactor) Question(ctx context.Context, questionID string) (sessiondto.QuestionOutput, error) {
	if strings.TrimSpace(questionID) == "" {
		return sessiondto.QuestionOutput{}, fmt.Errorf("%w: question id is required", apperrors.ErrInvalidInput)
	}
	if i.catalog == nil {
		return sessiondto.QuestionOutput{}, errors.New("catalog is not configured")
	}
	q, err := i.catalog.Question(ctx, strings.TrimSpace(questionID))
	if err != nil {
		return sessiondto.QuestionOutput{}, err
	}
	return questionOutput(q), nil
}

func (i *Interactor) RemoteReport(ctx context.Context, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if i.catalog == nil {
		return "", errors.New("catalog is not configured")
	}
	return i.catalog.Report(ctx, sessionID)
}

func (i *Interactor) Journal(ctx context.Context, sessionID string) ([]sessiondto.JournalEntryOutput, error) {
	subs, err := i.svc.Journal(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.JournalEntryOutput, 0, len(subs))
	for _, s := range subs {
		out = append(out, sessiondto.JournalEntryOutput{
			QuestionID: s.QuestionID,
			Choices:    s.Selection.String(),
			TimeSpent:  s.TimeSpent,
			OK:         s.OK,
			Error:      s.Error,
			RecordedAt: s.RecordedAt,
		})
	}
	return out, nil
}

func (i *Interactor) answerFrom(input sessiondto.SubmitInput) domain.Answer {
	keys := make([]domain.ChoiceKey, 0, len(input.Choices))
	for _, c := range input.Choices {
		keys = append(keys, domain.ChoiceKey(c))
	}
	return domain.Answer{
		QuestionID:  input.QuestionID,
		Selection:   domain.NewSelection(keys...),
		TimeSpent:   input.TimeSpent,
		SubmittedAt: i.clock.Now(),
	}
}

// questionOutput lists the four choice slots in key order, blank when absent.
func questionOutput(q domain.Question) sessiondto.QuestionOutput {
	choices := make([]string, len(domain.ChoiceKeys))
	for n, k := range domain.ChoiceKeys {
		choices[n] = q.Choice(k)
	}
	return sessiondto.QuestionOutput{
		ID:             q.ID,
		ExamNumber:     q.ExamNumber,
		QuestionNumber: q.QuestionNumber,
		Category:       q.Category,
		Text:           q.Text,
		Choices:        choices,
		Correct:        q.Correct.String(),
		Explanation:    q.Explanation,
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
