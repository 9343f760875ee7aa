package out

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"kokushi/internal/modules/session/domain"
)

// sessionPayload mirrors the session document shared by the HTTP API and
// the Redis key space.
type sessionPayload struct {
	SessionID string            `json:"session_id"`
	Mode      string            `json:"mode"`
	Questions []questionPayload `json:"questions"`
	Answers   []answerPayload   `json:"answers"`
}

type questionPayload struct {
	ID             flexString        `json:"id"`
	ExamNumber     int               `json:"exam_number"`
	QuestionNumber int               `json:"question_number"`
	Category       string            `json:"category"`
	QuestionText   string            `json:"question_text"`
	Choices        map[string]string `json:"choices"`
	CorrectAnswer  flexKeys          `json:"correct_answer"`
	Explanation    string            `json:"explanation"`
	Hint           string            `json:"hint"`
	Theme          string            `json:"theme"`
}

type answerPayload struct {
	QuestionID  flexString `json:"question_id"`
	Answer      flexKeys   `json:"answer"`
	TimeSpent   float64    `json:"time_spent"`
	SubmittedAt string     `json:"submitted_at,omitempty"`
}

// answerRequest is the body of POST /api/sessions/{id}/answers.
type answerRequest struct {
	QuestionID string  `json:"question_id"`
	Answer     []int   `json:"answer"`
	TimeSpent  float64 `json:"time_spent"`
}

type createRequest struct {
	Mode         string   `json:"mode"`
	ExamNumbers  []int    `json:"exam_numbers"`
	Categories   []string `json:"categories"`
	MaxQuestions *int     `json:"max_questions"`
}

type createResponse struct {
	SessionID      string `json:"session_id"`
	TotalQuestions int    `json:"total_questions"`
	FilteredTotal  int    `json:"filtered_total"`
}

type categoriesResponse struct {
	Categories map[string]int `json:"categories"`
	Total      int            `json:"total"`
}

type examNumbersResponse struct {
	ExamNumbers []int `json:"exam_numbers"`
}

type questionsResponse struct {
	Questions []questionPayload `json:"questions"`
	Total     int               `json:"total"`
}

type reportResponse struct {
	Markdown string          `json:"markdown"`
	JSON     json.RawMessage `json:"json"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// flexKeys accepts a choice key list written as an int, a string, an array
// of either, or null.
type flexKeys []string

func (f *flexKeys) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}
	if data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("choice list: %w", err)
		}
		out := make(flexKeys, 0, len(items))
		for _, it := range items {
			out = append(out, string(it))
		}
		*f = out
		return nil
	}
	var one flexString
	if err := one.UnmarshalJSON(data); err != nil {
		return err
	}
	if one == "" {
		*f = nil
		return nil
	}
	*f = flexKeys{string(one)}
	return nil
}

func (f flexKeys) selection() domain.Selection {
	keys := make([]domain.ChoiceKey, 0, len(f))
	for _, k := range f {
		keys = append(keys, domain.ChoiceKey(strings.TrimSpace(k)))
	}
	return domain.NewSelection(keys...)
}

func (p sessionPayload) toDomain(fallbackID string) domain.Session {
	questions := make([]domain.Question, 0, len(p.Questions))
	for _, q := range p.Questions {
		questions = append(questions, q.toDomain())
	}
	answers := make([]domain.Answer, 0, len(p.Answers))
	for _, a := range p.Answers {
		answers = append(answers, a.toDomain())
	}
	id := p.SessionID
	if id == "" {
		id = fallbackID
	}
	return domain.NewSession(id, domain.ParseMode(p.Mode), questions, answers)
}

func (q questionPayload) toDomain() domain.Question {
	choices := make(map[domain.ChoiceKey]string, len(q.Choices))
	for k, v := range q.Choices {
		choices[domain.ChoiceKey(strings.TrimSpace(k))] = v
	}
	return domain.Question{
		ID:             string(q.ID),
		ExamNumber:     q.ExamNumber,
		QuestionNumber: q.QuestionNumber,
		Category:       q.Category,
		Text:           q.QuestionText,
		Choices:        choices,
		Correct:        q.CorrectAnswer.selection(),
		Explanation:    q.Explanation,
		Hint:           q.Hint,
		Theme:          q.Theme,
	}
}

func (a answerPayload) toDomain() domain.Answer {
	out := domain.Answer{
		QuestionID: string(a.QuestionID),
		Selection:  a.Answer.selection(),
		TimeSpent:  a.TimeSpent,
	}
	if a.SubmittedAt != "" {
		if ts, err := parseTimestamp(a.SubmittedAt); err == nil {
			out.SubmittedAt = ts
		}
	}
	return out
}

func newAnswerPayload(a domain.Answer) answerPayload {
	keys := make(flexKeys, 0, len(a.Selection))
	for _, k := range a.Selection {
		keys = append(keys, string(k))
	}
	p := answerPayload{QuestionID: flexString(a.QuestionID), Answer: keys, TimeSpent: a.TimeSpent}
	if !a.SubmittedAt.IsZero() {
		p.SubmittedAt = a.SubmittedAt.Format("2006-01-02T15:04:05.000000")
	}
	return p
}

// MarshalJSON writes numeric keys as integers so stored answers match what
// the browser client sends.
func (f flexKeys) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	vals := make([]any, 0, len(f))
	for _, k := range f {
		if n, err := strconv.Atoi(k); err == nil {
			vals = append(vals, n)
			continue
		}
		vals = append(vals, k)
	}
	return json.Marshal(vals)
}

func (f flexString) MarshalJSON() ([]byte, error) { return json.Marshal(string(f)) }

func newAnswerRequest(a domain.Answer) (answerRequest, error) {
	ints := make([]int, 0, len(a.Selection))
	for _, k := range a.Selection {
		n, err := strconv.Atoi(string(k))
		if err != nil {
			return answerRequest{}, fmt.Errorf("choice key %q is not numeric", k)
		}
		ints = append(ints, n)
	}
	sort.Ints(ints)
	return answerRequest{QuestionID: a.QuestionID, Answer: ints, TimeSpent: a.TimeSpent}, nil
}

func newCreateRequest(req domain.CreateRequest) createRequest {
	out := createRequest{
		Mode:        string(req.Mode),
		ExamNumbers: req.ExamNumbers,
		Categories:  req.Categories,
	}
	if out.Mode == "" {
		out.Mode = string(domain.ModeTest)
	}
	if out.ExamNumbers == nil {
		out.ExamNumbers = []int{}
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	if req.MaxQuestions > 0 {
		n := req.MaxQuestions
		out.MaxQuestions = &n
	}
	return out
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}
