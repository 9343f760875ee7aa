package out_test

import (
	"bytes"
	"strings"
	"testing"

	quizout "kokushi/internal/modules/quiz/adapter/out"
	"kokushi/internal/modules/quiz/domain"
	session "kokushi/internal/modules/session/domain"
)

func TestHTMLWriterEscapesLabelsAndMarksBands(t *testing.T) {
	t.Parallel()
	q := session.Question{
		ID:      "q1",
		Text:    "first\nsecond <b>",
		Choices: map[session.ChoiceKey]string{"1": "<script>x</script>", "2": "b & c"},
		Correct: session.NewSelection("1"),
	}
	view := domain.Render(q, 0, nil, session.NewSelection("2"), session.ModeTest)
	progress := domain.Progress{Percent: 50, Counter: "1 / 2", PrevDisabled: true}
	reading := domain.Reading{Seconds: 42, Text: "00:42", Band: domain.BandUrgent}

	var buf bytes.Buffer
	if err := quizout.NewHTMLWriter().Write(&buf, view, progress, reading); err != nil {
		t.Fatalf("write: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "<script>") || !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("choice labels must be escaped: %s", html)
	}
	if !strings.Contains(html, "first<br>second &lt;b&gt;") {
		t.Fatalf("newlines should become <br> with escaped text: %s", html)
	}
	if !strings.Contains(html, "timer-urgent") || !strings.Contains(html, "00:42") {
		t.Fatalf("timer band missing: %s", html)
	}
	if !strings.Contains(html, `class="choice selected"`) || !strings.Contains(html, "no-data") {
		t.Fatalf("choice classes missing: %s", html)
	}
	if !strings.Contains(html, `class="prev" disabled`) || strings.Contains(html, `class="next" disabled`) {
		t.Fatalf("navigation disabled states wrong: %s", html)
	}
}

func TestHTMLWriterNoChoiceNotice(t *testing.T) {
	t.Parallel()
	q := session.Question{ID: "q", Text: "x", Theme: "筋", Correct: session.NewSelection("3")}
	var buf bytes.Buffer
	if err := quizout.NewHTMLWriter().Write(&buf, domain.Render(q, 0, nil, nil, session.ModeTest), domain.Progress{}, domain.Reading{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "Correct answer: 3") || strings.Contains(buf.String(), `<ul class="choices">`) {
		t.Fatalf("expected no-choice notice only: %s", buf.String())
	}
}

func TestTextWriterShowsFeedback(t *testing.T) {
	t.Parallel()
	q := session.Question{ID: "q", Text: "x", Choices: map[session.ChoiceKey]string{"1": "a", "2": "b", "3": "c", "4": "d"}, Correct: session.NewSelection("2"), Explanation: "because"}
	ans := &session.Answer{QuestionID: "q", Selection: session.NewSelection("2")}
	var buf bytes.Buffer
	err := quizout.TextWriter{}.Write(&buf, domain.Render(q, 0, ans, ans.Selection, session.ModePractice), domain.Progress{Counter: "1 / 1"}, domain.Reading{Text: "00:05"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"[1 / 1] 00:05", "[x] 2. b  ✓", "Correct", "because"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
