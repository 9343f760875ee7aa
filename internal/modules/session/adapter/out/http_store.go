package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"kokushi/internal/modules/session/domain"
	sessionout "kokushi/internal/modules/session/port/out"
	apperrors "kokushi/internal/platform/errors"
	"kokushi/internal/platform/id"
)

// HTTPStore talks to the quiz server's JSON API.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	ids     id.Generator
}

var (
	_ sessionout.SessionStore = (*HTTPStore)(nil)
	_ sessionout.Catalog      = (*HTTPStore)(nil)
)

func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		ids:     id.UUID{},
	}
}

// WithRequestIDs swaps the generator behind the X-Request-ID header.
func (s *HTTPStore) WithRequestIDs(ids id.Generator) *HTTPStore {
	s.ids = ids
	return s
}

func (s *HTTPStore) FetchSession(ctx context.Context, sessionID string) (domain.Session, error) {
	var payload sessionPayload
	status, err := s.do(ctx, http.MethodGet, s.sessionPath(sessionID), nil, &payload)
	if err != nil {
		// Any error status from the loader means the session is unusable.
		if status != 0 && status/100 != 2 {
			return domain.Session{}, fmt.Errorf("%s: %w: %v", sessionID, apperrors.ErrSessionNotFound, err)
		}
		return domain.Session{}, err
	}
	return payload.toDomain(sessionID), nil
}

func (s *HTTPStore) PostAnswer(ctx context.Context, sessionID string, answer domain.Answer) error {
	body, err := newAnswerRequest(answer)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	status, err := s.do(ctx, http.MethodPost, s.sessionPath(sessionID)+"/answers", body, nil)
	if err != nil {
		if status == http.StatusNotFound {
			return fmt.Errorf("%s: %w", sessionID, apperrors.ErrSessionNotFound)
		}
		return err
	}
	return nil
}

func (s *HTTPStore) CreateSession(ctx context.Context, req domain.CreateRequest) (domain.Created, error) {
	var resp createResponse
	if _, err := s.do(ctx, http.MethodPost, "/api/sessions", newCreateRequest(req), &resp); err != nil {
		return domain.Created{}, err
	}
	if resp.SessionID == "" {
		return domain.Created{}, fmt.Errorf("%w: create session: empty session id", apperrors.ErrRemote)
	}
	return domain.Created{SessionID: resp.SessionID, Total: resp.TotalQuestions, FilteredTotal: resp.FilteredTotal}, nil
}

func (s *HTTPStore) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	var resp categoriesResponse
	if _, err := s.do(ctx, http.MethodGet, "/api/categories", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.CategoryCount, 0, len(resp.Categories))
	for name, n := range resp.Categories {
		out = append(out, domain.CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *HTTPStore) ExamNumbers(ctx context.Context) ([]int, error) {
	var resp examNumbersResponse
	if _, err := s.do(ctx, http.MethodGet, "/api/exam-numbers", nil, &resp); err != nil {
		return nil, err
	}
	sort.Ints(resp.ExamNumbers)
	return resp.ExamNumbers, nil
}

func (s *HTTPStore) Questions(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	query := url.Values{}
	for _, n := range filter.ExamNumbers {
		query.Add("exam_numbers", strconv.Itoa(n))
	}
	for _, c := range filter.Categories {
		query.Add("categories", c)
	}
	path := "/api/questions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var resp questionsResponse
	if _, err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		out = append(out, q.toDomain())
	}
	return out, nil
}

func (s *HTTPStore) Question(ctx context.Context, questionID string) (domain.Question, error) {
	var payload questionPayload
	status, err := s.do(ctx, http.MethodGet, "/api/questions/"+url.PathEscape(questionID), nil, &payload)
	if err != nil {
		if status == http.StatusNotFound {
			return domain.Question{}, fmt.Errorf("question %s: %w", questionID, apperrors.ErrNotFound)
		}
		return domain.Question{}, err
	}
	return payload.toDomain(), nil
}

func (s *HTTPStore) Report(ctx context.Context, sessionID string) (string, error) {
	var resp reportResponse
	status, err := s.do(ctx, http.MethodGet, s.sessionPath(sessionID)+"/report", nil, &resp)
	if err != nil {
		if status == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", sessionID, apperrors.ErrSessionNotFound)
		}
		return "", err
	}
	return resp.Markdown, nil
}

func (s *HTTPStore) sessionPath(sessionID string) string {
	return "/api/sessions/" + url.PathEscape(sessionID)
}

// do sends one request. The returned status is 0 when no response arrived.
func (s *HTTPStore) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", s.ids.New())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", apperrors.ErrRemote, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return resp.StatusCode, httpErr(method+" "+path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: decode %s %s: %v", apperrors.ErrRemote, method, path, err)
	}
	return resp.StatusCode, nil
}

func httpErr(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e errorResponse
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("%w: %s: %d %s", apperrors.ErrRemote, op, resp.StatusCode, msg)
}
