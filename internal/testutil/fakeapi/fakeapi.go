// Package fakeapi is an in-memory stand-in for the quiz server's JSON API,
// used by tests that exercise the HTTP adapters end to end.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// AnswerPost is one decoded POST /api/sessions/{id}/answers body.
type AnswerPost struct {
	SessionID  string
	QuestionID string          `json:"question_id"`
	Answer     json.RawMessage `json:"answer"`
	TimeSpent  float64         `json:"time_spent"`
	RequestID  string
}

type Server struct {
	mu          sync.Mutex
	sessions    map[string]map[string]any
	bank        []map[string]any
	posts       []AnswerPost
	failAnswers int
	failLoads   int
	router      chi.Router
}

func New() *Server {
	s := &Server{sessions: map[string]map[string]any{}}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/categories", s.categories)
	r.Get("/api/exam-numbers", s.examNumbers)
	r.Get("/api/questions", s.questions)
	r.Get("/api/questions/{questionID}", s.question)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/answers", s.postAnswer)
			r.Get("/report", s.report)
		})
	})
	s.router = r
	return s
}

// Start serves the API on a loopback port for the life of the test.
func (s *Server) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func (s *Server) Handler() http.Handler { return s.router }

// PutJSON stores a raw session document under id.
func (s *Server) PutJSON(id, doc string) {
	var m map[string]any
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		panic(fmt.Sprintf("fakeapi: bad session document: %v", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = m
}

// SetBank replaces the question bank used by session creation.
func (s *Server) SetBank(questions ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank = questions
}

// FailAnswers makes every answer POST reply with status; 0 restores success.
func (s *Server) FailAnswers(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAnswers = status
}

// FailSessions makes every session GET reply with status; 0 restores success.
func (s *Server) FailSessions(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLoads = status
}

func (s *Server) Posts() []AnswerPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AnswerPost(nil), s.posts...)
}

// Answers returns the stored answer list of a session.
func (s *Server) Answers(id string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.sessions[id]
	if !ok {
		return nil
	}
	list, _ := doc["answers"].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, a := range list {
		if m, ok := a.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	counts := map[string]int{}
	total := 0
	for _, q := range s.bank {
		if c, ok := q["category"].(string); ok {
			counts[c]++
			total++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"categories": counts, "total": total})
}

func (s *Server) examNumbers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	seen := map[int]struct{}{}
	for _, q := range s.bank {
		if n, ok := q["exam_number"].(int); ok {
			seen[n] = struct{}{}
		}
	}
	s.mu.Unlock()
	nums := make([]int, 0, len(seen))
	for n := range seen {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	writeJSON(w, http.StatusOK, map[string]any{"exam_numbers": nums})
}

func (s *Server) questions(w http.ResponseWriter, r *http.Request) {
	exams := map[string]bool{}
	for _, n := range r.URL.Query()["exam_numbers"] {
		exams[n] = true
	}
	cats := map[string]bool{}
	for _, c := range r.URL.Query()["categories"] {
		cats[c] = true
	}
	s.mu.Lock()
	out := make([]map[string]any, 0, len(s.bank))
	for _, q := range s.bank {
		if len(exams) > 0 && !exams[fmt.Sprint(q["exam_number"])] {
			continue
		}
		if len(cats) > 0 && !cats[fmt.Sprint(q["category"])] {
			continue
		}
		out = append(out, q)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"questions": out, "total": len(out)})
}

func (s *Server) question(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "questionID")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.bank {
		if fmt.Sprint(q["id"]) == id {
			writeJSON(w, http.StatusOK, q)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Question not found"})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode         string   `json:"mode"`
		Categories   []string `json:"categories"`
		MaxQuestions *int     `json:"max_questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON or missing request body"})
		return
	}
	if req.Mode == "" {
		req.Mode = "test"
	}
	wanted := map[string]bool{}
	for _, c := range req.Categories {
		wanted[c] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]any, 0, len(s.bank))
	for _, q := range s.bank {
		if len(wanted) > 0 && !wanted[fmt.Sprint(q["category"])] {
			continue
		}
		questions = append(questions, q)
	}
	filtered := len(questions)
	if req.MaxQuestions != nil && *req.MaxQuestions > 0 && *req.MaxQuestions < len(questions) {
		questions = questions[:*req.MaxQuestions]
	}
	id := uuid.NewString()
	s.sessions[id] = map[string]any{
		"session_id": id,
		"mode":       req.Mode,
		"questions":  questions,
		"answers":    []any{},
		"created_at": time.Now().Format("2006-01-02T15:04:05.000000"),
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "total_questions": len(questions), "filtered_total": filtered})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	doc, ok := s.sessions[id]
	fail := s.failLoads
	s.mu.Unlock()
	if fail != 0 {
		writeJSON(w, fail, map[string]string{"error": http.StatusText(fail)})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) postAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var post AnswerPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON or missing request body"})
		return
	}
	post.SessionID = id
	post.RequestID = r.Header.Get("X-Request-ID")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, post)
	doc, ok := s.sessions[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
		return
	}
	if s.failAnswers != 0 {
		writeJSON(w, s.failAnswers, map[string]string{"error": "Failed to save answer"})
		return
	}
	var answer any
	_ = json.Unmarshal(post.Answer, &answer)
	entry := map[string]any{
		"question_id":  post.QuestionID,
		"answer":       answer,
		"time_spent":   post.TimeSpent,
		"submitted_at": time.Now().Format("2006-01-02T15:04:05.000000"),
	}
	list, _ := doc["answers"].([]any)
	replaced := false
	for i, a := range list {
		if m, ok := a.(map[string]any); ok && fmt.Sprint(m["question_id"]) == post.QuestionID {
			list[i] = entry
			replaced = true
		}
	}
	if !replaced {
		list = append(list, entry)
	}
	doc["answers"] = list
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	doc, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
		return
	}
	list, _ := doc["answers"].([]any)
	md := fmt.Sprintf("# Report\n\nsession: %s\n\nanswered: %d\n", id, len(list))
	writeJSON(w, http.StatusOK, map[string]any{"markdown": md, "json": map[string]any{"session_id": id}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
