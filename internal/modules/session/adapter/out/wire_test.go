package out

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"kokushi/internal/modules/session/domain"
)

func TestSessionPayloadDecodesLenientAnswerShapes(t *testing.T) {
	t.Parallel()
	doc := `{
  "session_id": "s1",
  "mode": "practice",
  "questions": [
    {"id": 101, "question_text": "Q1", "choices": {"1": "a", "2": "b"}, "correct_answer": 2},
    {"id": "102", "question_text": "Q2", "choices": {}, "correct_answer": ["1", 4]},
    {"id": "103", "question_text": "Q3", "correct_answer": null}
  ],
  "answers": [
    {"question_id": 101, "answer": [2], "time_spent": 4.5, "submitted_at": "2026-01-02T03:04:05.123456"},
    {"question_id": "102", "answer": "1", "time_spent": 0},
    {"question_id": "103", "answer": null}
  ]
}`
	var p sessionPayload
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	sess := p.toDomain("ignored")
	if sess.ID != "s1" || sess.Mode != domain.ModePractice || sess.Count() != 3 {
		t.Fatalf("unexpected session header: %+v", sess)
	}
	if got := sess.Questions[0].Correct.String(); got != "2" {
		t.Fatalf("scalar correct_answer should decode to [2], got %q", got)
	}
	if got := sess.Questions[1].Correct.String(); got != "1, 4" {
		t.Fatalf("mixed correct_answer list should decode, got %q", got)
	}
	if !sess.Questions[2].Correct.Empty() {
		t.Fatalf("null correct_answer should be empty")
	}
	a, ok := sess.AnswerFor("101")
	if !ok || a.Selection.String() != "2" || a.TimeSpent != 4.5 {
		t.Fatalf("unexpected answer for 101: %+v", a)
	}
	if a.SubmittedAt.IsZero() {
		t.Fatalf("submitted_at should parse")
	}
	if b, ok := sess.AnswerFor("102"); !ok || b.Selection.String() != "1" {
		t.Fatalf("string answer should decode, got %+v", b)
	}
	if _, ok := sess.AnswerFor("103"); ok {
		t.Fatalf("null answer must not count as answered")
	}
}

func TestMissingSessionIDUsesFallback(t *testing.T) {
	t.Parallel()
	var p sessionPayload
	if err := json.Unmarshal([]byte(`{"questions":[{"id":"q"}]}`), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sess := p.toDomain("abc"); sess.ID != "abc" || sess.Mode != domain.ModeTest {
		t.Fatalf("expected fallback id and test mode, got %+v", sess)
	}
}

func TestAnswerRequestEncodesIntegerArray(t *testing.T) {
	t.Parallel()
	req, err := newAnswerRequest(domain.Answer{QuestionID: "q1", Selection: domain.NewSelection("3", "1"), TimeSpent: 2})
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	data, _ := json.Marshal(req)
	if string(data) != `{"question_id":"q1","answer":[1,3],"time_spent":2}` {
		t.Fatalf("unexpected body %s", data)
	}
	if _, err := newAnswerRequest(domain.Answer{QuestionID: "q1", Selection: domain.Selection{"x"}}); err == nil {
		t.Fatalf("non-numeric keys must be rejected")
	}
}

func TestMergeAnswerUpsertsAndPreservesFields(t *testing.T) {
	t.Parallel()
	doc := []byte(`{"session_id":"s1","created_at":"2026-01-01T00:00:00","answers":[{"question_id":"q1","answer":[1]}]}`)
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	updated, err := mergeAnswer(doc, domain.Answer{QuestionID: "q1", Selection: domain.NewSelection("2"), SubmittedAt: at})
	if err != nil {
		t.Fatalf("merge replace: %v", err)
	}
	updated, err = mergeAnswer(updated, domain.Answer{QuestionID: "q2", Selection: domain.NewSelection("4"), TimeSpent: 3, SubmittedAt: at})
	if err != nil {
		t.Fatalf("merge append: %v", err)
	}
	var p sessionPayload
	if err := json.Unmarshal(updated, &p); err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if len(p.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(p.Answers))
	}
	if string(p.Answers[0].QuestionID) != "q1" || p.Answers[0].Answer.selection().String() != "2" {
		t.Fatalf("q1 should be replaced in place, got %+v", p.Answers[0])
	}
	if !strings.Contains(string(updated), `"created_at":"2026-01-01T00:00:00"`) {
		t.Fatalf("unrelated fields must survive: %s", updated)
	}
	if !strings.Contains(string(updated), `"answer":[4]`) {
		t.Fatalf("answers must be stored as integer arrays: %s", updated)
	}
}

func TestMergeAnswerHandlesMissingAnswerList(t *testing.T) {
	t.Parallel()
	updated, err := mergeAnswer([]byte(`{"answers":null}`), domain.Answer{QuestionID: "q1", Selection: domain.NewSelection("1")})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !strings.Contains(string(updated), `"question_id":"q1"`) {
		t.Fatalf("expected appended answer, got %s", updated)
	}
	if _, err := mergeAnswer([]byte(`not json`), domain.Answer{}); err == nil {
		t.Fatalf("invalid document must fail")
	}
}

func TestCreateRequestDefaults(t *testing.T) {
	t.Parallel()
	data, _ := json.Marshal(newCreateRequest(domain.CreateRequest{}))
	if string(data) != `{"mode":"test","exam_numbers":[],"categories":[],"max_questions":null}` {
		t.Fatalf("unexpected create body %s", data)
	}
}
