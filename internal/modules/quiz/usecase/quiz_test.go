package usecase_test

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	quizoutadapter "kokushi/internal/modules/quiz/adapter/out"
	"kokushi/internal/modules/quiz/domain"
	quizdto "kokushi/internal/modules/quiz/dto"
	quizin "kokushi/internal/modules/quiz/port/in"
	quizout "kokushi/internal/modules/quiz/port/out"
	"kokushi/internal/modules/quiz/service"
	"kokushi/internal/modules/quiz/usecase"
	sessionoutadapter "kokushi/internal/modules/session/adapter/out"
	sessionservice "kokushi/internal/modules/session/service"
	sessionusecase "kokushi/internal/modules/session/usecase"
	"kokushi/internal/platform/clock"
	"kokushi/internal/testutil/fakeapi"
)

const doc = `{
  "session_id": "s1",
  "mode": "test",
  "questions": [
    {"id": "q1", "question_text": "one", "choices": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correct_answer": [2]},
    {"id": "q2", "question_text": "two", "choices": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correct_answer": [1]},
    {"id": "q3", "question_text": "three", "choices": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correct_answer": [4]}
  ],
  "answers": []
}`

type fakeLauncher struct {
	mu      sync.Mutex
	targets []string
}

func (f *fakeLauncher) Open(_ context.Context, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	return nil
}

type spy struct{ writes []string }

func (s *spy) WriteTimer(text string, _ quizdto.Band) { s.writes = append(s.writes, text) }

type harness struct {
	api      *fakeapi.Server
	clk      *clock.Fixed
	launcher *fakeLauncher
	uc       quizin.Usecase
	baseURL  string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	api := fakeapi.New()
	api.PutJSON("s1", doc)
	base := api.Start(t)
	clk := &clock.Fixed{At: time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)}
	journal, err := sessionoutadapter.NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	t.Cleanup(func() { _ = journal.Close() })
	store := sessionoutadapter.NewHTTPStore(base, time.Second)
	sessions := sessionusecase.NewInteractor(sessionservice.NewSessionService(clk, store, journal, zerolog.Nop()), store, clk)

	launcher := &fakeLauncher{}
	adapter := quizoutadapter.NewSessionAdapter(sessions)
	svc := service.NewQuizService(clk, adapter, adapter, launcher, service.Options{
		BaseURL:    base,
		OpenReport: true,
		Writers:    map[string]quizout.ViewWriter{"text": quizoutadapter.TextWriter{}, "html": quizoutadapter.NewHTMLWriter()},
	}, zerolog.Nop())
	return harness{api: api, clk: clk, launcher: launcher, uc: usecase.NewInteractor(svc), baseURL: base}
}

func TestClickSubmitsOnceAndAdvances(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	q, err := h.uc.Start(ctx, quizdto.StartInput{SessionID: "s1", Index: "0"}, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	h.clk.Advance(4 * time.Second)
	_, pending := q.Coord.Choose("q1", "2", h.clk.Now())
	if pending == nil {
		t.Fatalf("expected a submission")
	}
	if _, dup := q.Coord.Choose("q1", "2", h.clk.Now()); dup != nil {
		t.Fatalf("double press must not submit twice")
	}
	err = h.uc.Submit(ctx, *pending)
	if !q.Coord.Complete(*pending, err, h.clk.Now()) {
		t.Fatalf("expected advance after success (err=%v)", err)
	}
	if q.Cursor != 1 {
		t.Fatalf("cursor should be 1, got %d", q.Cursor)
	}
	posts := h.api.Posts()
	if len(posts) != 1 || string(posts[0].Answer) != "[2]" || posts[0].TimeSpent != 4 {
		t.Fatalf("expected exactly one [2] post with 4s, got %+v", posts)
	}
}

func TestRemoteFailureKeepsLocalAnswer(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.api.FailAnswers(http.StatusInternalServerError)
	ctx := context.Background()
	q, err := h.uc.Start(ctx, quizdto.StartInput{SessionID: "s1"}, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, pending := q.Coord.Choose("q1", "3", h.clk.Now())
	err = h.uc.Submit(ctx, *pending)
	if err == nil {
		t.Fatalf("expected a remote error")
	}
	if q.Coord.Complete(*pending, err, h.clk.Now()) || q.Cursor != 0 {
		t.Fatalf("failure must not advance")
	}
	if q.AnswerFor("q1") == nil {
		t.Fatalf("local answer stays after failure")
	}
}

func TestCountdownExpiryFinishesOnceAndOpensReport(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	display := &spy{}
	q, err := h.uc.Start(ctx, quizdto.StartInput{SessionID: "s1", Index: "1"}, display)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if q.Cursor != 1 || q.Timer.Timer().BudgetSeconds() != 210 {
		t.Fatalf("expected cursor 1 and budget 210")
	}

	expiries := 0
	for i := 0; i < 215; i++ {
		h.clk.Advance(time.Second)
		if r := q.Timer.Tick(h.clk.Now()); r.Expired {
			expiries++
			out, err := h.uc.Finish(ctx, q, true)
			if err != nil {
				t.Fatalf("finish: %v", err)
			}
			if !out.Launched || out.ReportURL != h.baseURL+"/report/s1" {
				t.Fatalf("unexpected finish %+v", out)
			}
		}
	}
	if expiries != 1 {
		t.Fatalf("expiry must fire once, got %d", expiries)
	}
	if _, err := h.uc.Finish(ctx, q, true); err != nil {
		t.Fatalf("second finish: %v", err)
	}
	if len(h.launcher.targets) != 1 {
		t.Fatalf("report should open once, got %v", h.launcher.targets)
	}
	if got := len(display.writes); got != 211 {
		t.Fatalf("expected one write per distinct second (211), got %d", got)
	}
	if q.Timer.Timer().Phase() != domain.PhaseStopped {
		t.Fatalf("timer should be stopped")
	}
}

func TestRenderFormats(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := h.uc.Render(ctx, quizdto.RenderInput{SessionID: "s1", Index: "2"}, &buf); err != nil {
		t.Fatalf("render text: %v", err)
	}
	if !strings.Contains(buf.String(), "[3 / 3] 03:30") {
		t.Fatalf("unexpected text render:\n%s", buf.String())
	}
	buf.Reset()
	if err := h.uc.Render(ctx, quizdto.RenderInput{SessionID: "s1", Format: "html"}, &buf); err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(buf.String(), `data-question-id="q1"`) {
		t.Fatalf("unexpected html render:\n%s", buf.String())
	}
	if err := h.uc.Render(ctx, quizdto.RenderInput{SessionID: "s1", Format: "pdf"}, &buf); err == nil {
		t.Fatalf("unknown format must fail")
	}
	if _, err := h.uc.Start(ctx, quizdto.StartInput{SessionID: "missing"}, nil); err == nil {
		t.Fatalf("unknown session must fail to start")
	}
}
