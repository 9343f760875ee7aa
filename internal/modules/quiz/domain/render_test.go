package domain_test

import (
	"testing"

	"kokushi/internal/modules/quiz/domain"
	session "kokushi/internal/modules/session/domain"
)

func fullChoices() map[session.ChoiceKey]string {
	return map[session.ChoiceKey]string{"1": "a", "2": "b", "3": "c", "4": "d"}
}

func TestRenderRedactsThemeCueBeforeAnswer(t *testing.T) {
	t.Parallel()
	q := session.Question{
		ID:          "q1",
		Theme:       "肩こり（原因：血流）",
		Choices:     fullChoices(),
		Correct:     session.NewSelection("2"),
		Explanation: "blood flow",
	}
	v := domain.Render(q, 0, nil, nil, session.ModePractice)
	if len(v.Lines) != 1 || v.Lines[0] != "肩こり" {
		t.Fatalf("fallback display text should be redacted, got %v", v.Lines)
	}
	if v.Cue != "" {
		t.Fatalf("cue repeating the substituted question line must be hidden, got %q", v.Cue)
	}

	withText := q
	withText.Text = "肩の痛みに関係する筋はどれか"
	if v := domain.Render(withText, 0, nil, nil, session.ModePractice); v.Cue != "肩こり" {
		t.Fatalf("expected redacted theme cue next to real question text, got %q", v.Cue)
	}
	if v.Feedback != nil {
		t.Fatalf("feedback must stay hidden before answering")
	}

	ans := &session.Answer{QuestionID: "q1", Selection: session.NewSelection("3")}
	v = domain.Render(q, 0, ans, ans.Selection, session.ModePractice)
	if v.Feedback == nil || v.Feedback.Explanation != "blood flow" || v.Feedback.Correct {
		t.Fatalf("expected incorrect feedback with explanation, got %+v", v.Feedback)
	}
	if v.Feedback.Theme != "肩こり（原因：血流）" {
		t.Fatalf("full theme should be revealed, got %q", v.Feedback.Theme)
	}
	if v.Choices[1].Mark != domain.MarkCorrect || v.Choices[2].Mark != domain.MarkIncorrect {
		t.Fatalf("unexpected marks %+v", v.Choices)
	}
}

func TestRenderCueRules(t *testing.T) {
	t.Parallel()
	q := session.Question{Text: "What?", Hint: "think (hard)", Theme: "t", Choices: fullChoices()}
	if v := domain.Render(q, 0, nil, nil, session.ModePractice); v.Cue != "think (hard)" {
		t.Fatalf("hint must be shown verbatim, got %q", v.Cue)
	}
	if v := domain.Render(q, 0, nil, nil, session.ModeTest); v.Cue != "" {
		t.Fatalf("test mode never shows a cue, got %q", v.Cue)
	}
	same := session.Question{Text: "肩こり", Theme: "肩こり(x)", Choices: fullChoices()}
	if v := domain.Render(same, 0, nil, nil, session.ModePractice); v.Cue != "" {
		t.Fatalf("cue equal to the question text is hidden, got %q", v.Cue)
	}
}

func TestRenderPlaceholdersAndLines(t *testing.T) {
	t.Parallel()
	q := session.Question{QuestionNumber: 12, Choices: map[session.ChoiceKey]string{"1": "a", "3": " "}}
	v := domain.Render(q, 4, nil, nil, session.ModeTest)
	if v.Lines[0] != "Question 12" {
		t.Fatalf("expected placeholder text, got %v", v.Lines)
	}
	if len(v.Choices) != 4 || v.Choices[0].Placeholder || !v.Choices[2].Placeholder || v.Choices[2].Label != domain.NoDataLabel {
		t.Fatalf("unexpected choices %+v", v.Choices)
	}
	q.Text = "line one\r\nline two"
	if v := domain.Render(q, 4, nil, nil, session.ModeTest); len(v.Lines) != 2 || v.Lines[1] != "line two" {
		t.Fatalf("newlines should be preserved, got %v", v.Lines)
	}
	q.QuestionNumber = 0
	q.Text = ""
	if v := domain.Render(q, 4, nil, nil, session.ModeTest); v.Lines[0] != "Question 5" {
		t.Fatalf("placeholder should fall back to position, got %v", v.Lines)
	}
}

func TestRenderNoChoiceDataNotice(t *testing.T) {
	t.Parallel()
	q := session.Question{Text: "x", Theme: "骨", Correct: session.NewSelection("1", "3"), Choices: map[session.ChoiceKey]string{"1": "", "2": " "}}
	v := domain.Render(q, 0, nil, nil, session.ModeTest)
	if v.NoChoice == nil || v.Choices != nil {
		t.Fatalf("expected notice instead of choices, got %+v", v)
	}
	if v.NoChoice.CorrectKeys.String() != "1, 3" || v.NoChoice.Theme != "骨" {
		t.Fatalf("notice should list correct keys and theme, got %+v", v.NoChoice)
	}
}

func TestRenderTestModeAnsweredIsReadOnly(t *testing.T) {
	t.Parallel()
	q := session.Question{Text: "x", Choices: fullChoices(), Correct: session.NewSelection("2")}
	ans := &session.Answer{QuestionID: "q", Selection: session.NewSelection("4")}
	v := domain.Render(q, 0, ans, session.NewSelection("1"), session.ModeTest)
	if !v.ReadOnly || v.Feedback != nil || v.CanSubmit {
		t.Fatalf("answered test question must be read-only without feedback: %+v", v)
	}
	for _, c := range v.Choices {
		if !c.Disabled || c.Mark != domain.MarkNone || c.Selected != (c.Key == "4") {
			t.Fatalf("unexpected choice state %+v", c)
		}
	}
}

func TestRenderEligibility(t *testing.T) {
	t.Parallel()
	q := session.Question{Text: "x", Choices: fullChoices(), Correct: session.NewSelection("1", "2")}
	if domain.Render(q, 0, nil, session.NewSelection("1"), session.ModeTest).CanSubmit {
		t.Fatalf("one key is not enough for a two-key question")
	}
	if !domain.Render(q, 0, nil, session.NewSelection("1", "4"), session.ModeTest).CanSubmit {
		t.Fatalf("two keys should be submittable")
	}
}
