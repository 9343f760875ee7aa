package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"kokushi/internal/modules/session/domain"
	sessionout "kokushi/internal/modules/session/port/out"
	apperrors "kokushi/internal/platform/errors"
)

// SessionTTL matches the server's expiry for session documents.
const SessionTTL = 24 * time.Hour

const maxUpsertRetries = 5

// RedisStore reads and updates session documents directly in the server's
// Redis key space, bypassing the HTTP API.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ sessionout.SessionStore = (*RedisStore)(nil)

// NewRedisClient parses url and checks the connection.
func NewRedisClient(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info().Str("addr", opt.Addr).Int("db", opt.DB).Msg("redis connected")
	return rdb, nil
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: SessionTTL}
}

func SessionKey(sessionID string) string { return "session:" + sessionID }

func (s *RedisStore) FetchSession(ctx context.Context, sessionID string) (domain.Session, error) {
	raw, err := s.rdb.Get(ctx, SessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, fmt.Errorf("%s: %w", sessionID, apperrors.ErrSessionNotFound)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: redis get: %v", apperrors.ErrRemote, err)
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Session{}, fmt.Errorf("%w: decode session %s: %v", apperrors.ErrRemote, sessionID, err)
	}
	return payload.toDomain(sessionID), nil
}

// PostAnswer upserts the answer inside the stored document under an
// optimistic WATCH so concurrent writers never lose each other's answers.
func (s *RedisStore) PostAnswer(ctx context.Context, sessionID string, answer domain.Answer) error {
	key := SessionKey(sessionID)
	if answer.SubmittedAt.IsZero() {
		answer.SubmittedAt = time.Now()
	}
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s: %w", sessionID, apperrors.ErrSessionNotFound)
		}
		if err != nil {
			return err
		}
		updated, err := mergeAnswer(raw, answer)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpsertRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, apperrors.ErrSessionNotFound) {
				return err
			}
			return fmt.Errorf("%w: redis upsert: %v", apperrors.ErrRemote, err)
		}
		return nil
	}
	return fmt.Errorf("%w: redis upsert: too much contention on %s", apperrors.ErrRemote, key)
}

// mergeAnswer replaces or appends the answer for answer.QuestionID in a
// stored session document, leaving every other field untouched.
func mergeAnswer(doc []byte, answer domain.Answer) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, fmt.Errorf("decode session document: %w", err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	var answers []json.RawMessage
	if raw, ok := fields["answers"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	encoded, err := json.Marshal(newAnswerPayload(answer))
	if err != nil {
		return nil, fmt.Errorf("encode answer: %w", err)
	}

	replaced := false
	for i, raw := range answers {
		var existing struct {
			QuestionID flexString `json:"question_id"`
		}
		if json.Unmarshal(raw, &existing) == nil && string(existing.QuestionID) == answer.QuestionID {
			answers[i] = encoded
			replaced = true
			break
		}
	}
	if !replaced {
		answers = append(answers, encoded)
	}
	list, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	fields["answers"] = list
	return json.Marshal(fields)
}
