package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	sessionout "kokushi/internal/modules/session/adapter/out"
	sessiondto "kokushi/internal/modules/session/dto"
	sessionin "kokushi/internal/modules/session/port/in"
	"kokushi/internal/modules/session/service"
	"kokushi/internal/modules/session/usecase"
	"kokushi/internal/platform/clock"
	apperrors "kokushi/internal/platform/errors"
	"kokushi/internal/testutil/fakeapi"
)

const sessionDoc = `{
  "session_id": "s1",
  "mode": "practice",
  "questions": [
    {"id": "q1", "question_text": "one", "choices": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correct_answer": [2]},
    {"id": "q2", "question_text": "two", "choices": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correct_answer": [1, 3]},
    {"id": "q3", "question_text": "three", "choices": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correct_answer": [4]}
  ],
  "answers": []
}`

type fixture struct {
	api     *fakeapi.Server
	uc      sessionin.Usecase
	journal *sessionout.SQLiteJournal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	api := fakeapi.New()
	api.PutJSON("s1", sessionDoc)
	api.PutJSON("empty", `{"session_id":"empty","mode":"test","questions":[],"answers":[]}`)
	store := sessionout.NewHTTPStore(api.Start(t), time.Second)
	journal, err := sessionout.NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = journal.Close() })
	clk := &clock.Fixed{At: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}
	svc := service.NewSessionService(clk, store, journal, zerolog.Nop())
	return fixture{api: api, uc: usecase.NewInteractor(svc, store, clk), journal: journal}
}

func TestLoadPlacesCursorFromIndex(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	out, err := f.uc.Load(context.Background(), sessiondto.LoadInput{SessionID: "s1", Index: "1"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Cursor != 1 || out.Session.BudgetSeconds() != 210 {
		t.Fatalf("expected cursor 1 and budget 210, got %d/%d", out.Cursor, out.Session.BudgetSeconds())
	}
	out, err = f.uc.Load(context.Background(), sessiondto.LoadInput{SessionID: "s1", Index: "42"})
	if err != nil || out.Cursor != 2 {
		t.Fatalf("out-of-range index should clamp to 2, got %d (%v)", out.Cursor, err)
	}
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Load(ctx, sessiondto.LoadInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("missing id should be invalid input, got %v", err)
	}
	if _, err := f.uc.Load(ctx, sessiondto.LoadInput{SessionID: "nope"}); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("unknown id should be not found, got %v", err)
	}
	if _, err := f.uc.Load(ctx, sessiondto.LoadInput{SessionID: "empty"}); !errors.Is(err, apperrors.ErrEmptyQuestionSet) {
		t.Fatalf("empty session should fail, got %v", err)
	}
	f.api.FailSessions(http.StatusBadGateway)
	if _, err := f.uc.Load(ctx, sessiondto.LoadInput{SessionID: "s1"}); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("a server error on load should be not found, got %v", err)
	}
}

func TestAnswerOncePostsAndJournals(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.AnswerOnce(ctx, sessiondto.SubmitInput{SessionID: "s1", QuestionID: "q1", Choices: []string{"2"}, TimeSpent: 5})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !out.Correct {
		t.Fatalf("choice 2 is correct for q1")
	}
	if posts := f.api.Posts(); len(posts) != 1 || string(posts[0].Answer) != "[2]" {
		t.Fatalf("expected one [2] post, got %+v", posts)
	}
	if _, err := f.uc.AnswerOnce(ctx, sessiondto.SubmitInput{SessionID: "s1", QuestionID: "q1", Choices: []string{"3"}}); !errors.Is(err, apperrors.ErrAlreadyAnswered) {
		t.Fatalf("second answer must be refused, got %v", err)
	}
	if len(f.api.Posts()) != 1 {
		t.Fatalf("refused answer must not reach the server")
	}

	entries, err := f.uc.Journal(ctx, "s1")
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	if len(entries) != 1 || !entries[0].OK || entries[0].Choices != "2" {
		t.Fatalf("unexpected journal %+v", entries)
	}
}

func TestAnswerOnceValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	cases := []sessiondto.SubmitInput{
		{SessionID: "s1", QuestionID: "q1"},
		{SessionID: "s1", QuestionID: "q1", Choices: []string{"5"}},
		{SessionID: "s1", QuestionID: "q2", Choices: []string{"1"}},
	}
	for _, in := range cases {
		if _, err := f.uc.AnswerOnce(ctx, in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", in, err)
		}
	}
	if _, err := f.uc.AnswerOnce(ctx, sessiondto.SubmitInput{SessionID: "s1", QuestionID: "zz", Choices: []string{"1"}}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown question should be not found, got %v", err)
	}
	if len(f.api.Posts()) != 0 {
		t.Fatalf("invalid answers must not be posted")
	}
}

func TestSubmitFailureIsJournaledAndReported(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.api.FailAnswers(http.StatusInternalServerError)
	ctx := context.Background()

	err := f.uc.Submit(ctx, sessiondto.SubmitInput{SessionID: "s1", QuestionID: "q3", Choices: []string{"4"}})
	if !errors.Is(err, apperrors.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	entries, err := f.uc.Journal(ctx, "s1")
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	if len(entries) != 1 || entries[0].OK || entries[0].Error == "" {
		t.Fatalf("failed submission should be journaled, got %+v", entries)
	}
}

func TestCreateAndCatalog(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.api.SetBank(
		map[string]any{"id": "a", "exam_number": 58, "category": "解剖学", "question_text": "x"},
		map[string]any{"id": "b", "exam_number": 58, "category": "解剖学", "question_text": "y"},
	)
	ctx := context.Background()

	if _, err := f.uc.Create(ctx, sessiondto.CreateInput{Mode: "exam"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown mode should be rejected, got %v", err)
	}
	created, err := f.uc.Create(ctx, sessiondto.CreateInput{MaxQuestions: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Total != 1 || created.FilteredTotal != 2 {
		t.Fatalf("unexpected totals %+v", created)
	}
	summary, err := f.uc.Summary(ctx, created.SessionID)
	if err != nil || summary.Mode != "test" || summary.Questions != 1 {
		t.Fatalf("unexpected summary %+v (%v)", summary, err)
	}
	cats, err := f.uc.Categories(ctx)
	if err != nil || len(cats) != 1 || cats[0].Count != 2 {
		t.Fatalf("unexpected categories %+v (%v)", cats, err)
	}
	md, err := f.uc.RemoteReport(ctx, created.SessionID)
	if err != nil || md == "" {
		t.Fatalf("remote report: %q (%v)", md, err)
	}
	if _, err := f.uc.RemoteReport(ctx, " "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank id should be invalid, got %v", err)
	}
}

func TestBrowseQuestionBank(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.api.SetBank(
		map[string]any{"id": "a", "exam_number": 58, "question_number": 1, "category": "解剖学", "question_text": "x", "choices": map[string]string{"1": "p", "3": "r"}, "correct_answer": 3},
		map[string]any{"id": "b", "exam_number": 57, "question_number": 4, "category": "生理学", "question_text": "y"},
		map[string]any{"id": "c", "exam_number": 58, "question_number": 2, "category": "生理学", "question_text": "z"},
	)
	ctx := context.Background()

	all, err := f.uc.Questions(ctx, sessiondto.QuestionsInput{})
	if err != nil || len(all) != 3 {
		t.Fatalf("unfiltered bank: %d (%v)", len(all), err)
	}
	filtered, err := f.uc.Questions(ctx, sessiondto.QuestionsInput{ExamNumbers: []int{58}, Categories: []string{" 生理学 "}})
	if err != nil || len(filtered) != 1 || filtered[0].ID != "c" {
		t.Fatalf("expected only c, got %+v (%v)", filtered, err)
	}
	if _, err := f.uc.Questions(ctx, sessiondto.QuestionsInput{ExamNumbers: []int{0}}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("exam number 0 should be invalid, got %v", err)
	}

	q, err := f.uc.Question(ctx, "a")
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if q.Correct != "3" || len(q.Choices) != 4 || q.Choices[0] != "p" || q.Choices[1] != "" {
		t.Fatalf("unexpected question %+v", q)
	}
	if _, err := f.uc.Question(ctx, "zz"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown question should be not found, got %v", err)
	}
	if _, err := f.uc.Question(ctx, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank id should be invalid, got %v", err)
	}
}
