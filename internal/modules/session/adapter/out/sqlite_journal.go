package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kokushi/internal/modules/session/domain"
	sessionout "kokushi/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteJournal struct {
	db *sql.DB
}

var _ sessionout.SubmissionJournal = (*SQLiteJournal)(nil)

func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	journal := &SQLiteJournal{db: db}
	if err := journal.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

func (j *SQLiteJournal) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS submissions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  question_id TEXT NOT NULL,
  choices TEXT NOT NULL,
  time_spent REAL NOT NULL,
  ok INTEGER NOT NULL,
  error TEXT,
  recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_session ON submissions(session_id);
`
	if _, err := j.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create submissions table: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) Record(ctx context.Context, sub domain.Submission) error {
	const stmt = `
INSERT INTO submissions (session_id, question_id, choices, time_spent, ok, error, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	ok := 0
	if sub.OK {
		ok = 1
	}
	_, err := j.db.ExecContext(ctx, stmt,
		sub.SessionID,
		sub.QuestionID,
		joinKeys(sub.Selection),
		sub.TimeSpent,
		ok,
		sub.Error,
		sub.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// List returns the attempts for sessionID oldest first; an empty id lists all.
func (j *SQLiteJournal) List(ctx context.Context, sessionID string) ([]domain.Submission, error) {
	query := `SELECT session_id, question_id, choices, time_spent, ok, COALESCE(error, ''), recorded_at FROM submissions`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		var (
			sub      domain.Submission
			choices  string
			ok       int
			recorded string
		)
		if err := rows.Scan(&sub.SessionID, &sub.QuestionID, &choices, &sub.TimeSpent, &ok, &sub.Error, &recorded); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.Selection = splitKeys(choices)
		sub.OK = ok == 1
		if ts, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
			sub.RecordedAt = ts
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

func (j *SQLiteJournal) Close() error { return j.db.Close() }

func joinKeys(sel domain.Selection) string {
	parts := make([]string, len(sel))
	for i, k := range sel {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

func splitKeys(raw string) domain.Selection {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]domain.ChoiceKey, 0, len(parts))
	for _, p := range parts {
		keys = append(keys, domain.ChoiceKey(p))
	}
	return domain.NewSelection(keys...)
}
