package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kokushi/internal/modules/report/domain"
	reportout "kokushi/internal/modules/report/port/out"
	"kokushi/internal/platform/markdown"
	"kokushi/internal/platform/slug"
)

const (
	SchemaVersion = 1

	blockStart = "<!-- kokushi:results:start -->"
	blockEnd   = "<!-- kokushi:results:end -->"
)

// FileNoteStore writes one Markdown note per session. Regenerating a note
// replaces only the managed results block; text outside it is kept.
type FileNoteStore struct {
	dir string
}

func NewFileNoteStore(dir string) reportout.NoteStore {
	return &FileNoteStore{dir: dir}
}

type noteMeta struct {
	SchemaVersion int     `yaml:"schema_version"`
	SessionID     string  `yaml:"session_id"`
	Mode          string  `yaml:"mode"`
	GeneratedAt   string  `yaml:"generated_at"`
	Total         int     `yaml:"total"`
	Correct       int     `yaml:"correct"`
	Incorrect     int     `yaml:"incorrect"`
	Unanswered    int     `yaml:"unanswered"`
	CorrectRate   float64 `yaml:"correct_rate"`
}

func (s *FileNoteStore) Save(_ context.Context, summary domain.Summary, body string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(s.dir, slug.Make(summary.SessionID)+".md")

	existing := ""
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var old noteMeta
		existing, err = markdown.SplitFrontmatter(string(raw), &old)
		if err != nil {
			return "", fmt.Errorf("read existing note %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read existing note: %w", err)
	}

	meta := noteMeta{
		SchemaVersion: SchemaVersion,
		SessionID:     summary.SessionID,
		Mode:          string(summary.Mode),
		GeneratedAt:   summary.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Total:         summary.Total,
		Correct:       summary.Correct,
		Incorrect:     summary.Incorrect,
		Unanswered:    summary.Unanswered,
		CorrectRate:   roundTenth(summary.Rate()),
	}
	rendered, err := markdown.RenderFrontmatter(meta, markdown.ReplaceManagedBlock(existing, blockStart, blockEnd, body))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report note: %w", err)
	}
	return path, nil
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
