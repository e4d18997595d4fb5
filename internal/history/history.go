// Package history keeps the latest match results of every candidate in Redis.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/models"
)

const (
	// MaxEntries is the number of entries kept per candidate.
	MaxEntries       = 50
	DefaultKeyPrefix = "resume-matcher:history"
)

// Entry is one recorded match of a candidate against a job.
type Entry struct {
	RunID           string    `json:"runId"`
	JobID           string    `json:"jobId"`
	Score           float64   `json:"score"`
	MatchedKeywords []string  `json:"matchedKeywords"`
	MatchedAt       time.Time `json:"matchedAt"`
}

// NewRunID returns an identifier grouping the entries of one ranking run.
func NewRunID() string {
	return uuid.NewString()
}

// EntriesFromResults converts ranked results into history entries, keeping their order.
func EntriesFromResults(runID string, results []*models.MatchResult, at time.Time) []Entry {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, Entry{
			RunID:           runID,
			JobID:           r.JobID(),
			Score:           r.Score,
			MatchedKeywords: r.MatchedKeywords,
			MatchedAt:       at.UTC(),
		})
	}
	return entries
}

// RedisStore stores each candidate's history as a Redis list, newest first.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// Connect parses redisURL, applies password when not empty and verifies the connection.
func Connect(ctx context.Context, redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStore) key(candidateID string) string {
	return s.prefix + ":" + candidateID
}

// Record prepends entries, in the given order, to the candidate's history and
// drops everything beyond MaxEntries.
func (s *RedisStore) Record(ctx context.Context, candidateID string, entries []Entry) error {
	if candidateID == "" {
		return fmt.Errorf("candidate id is required")
	}
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		data, err := json.Marshal(entries[i])
		if err != nil {
			return fmt.Errorf("encoding history entry: %w", err)
		}
		values = append(values, data)
	}

	key := s.key(candidateID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, values...)
		pipe.LTrim(ctx, key, 0, MaxEntries-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording history for %q: %w", candidateID, err)
	}

	s.logger.Debug("history recorded",
		zap.String("candidate_id", candidateID),
		zap.Int("entries", len(entries)),
	)
	return nil
}

// List returns the candidate's history, newest first.
func (s *RedisStore) List(ctx context.Context, candidateID string) ([]Entry, error) {
	raw, err := s.client.LRange(ctx, s.key(candidateID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading history for %q: %w", candidateID, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decoding history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear removes the candidate's history.
func (s *RedisStore) Clear(ctx context.Context, candidateID string) error {
	if err := s.client.Del(ctx, s.key(candidateID)).Err(); err != nil {
		return fmt.Errorf("clearing history for %q: %w", candidateID, err)
	}
	return nil
}
