// Package results persists quiz outcomes: an authoritative local append-only
// log plus a best-effort remote submission.
package results

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quizlane/quizcore/internal/config"
	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/model"
)

// Submitter sends a result to a remote store. Submission failure never
// changes the score or the locally recorded result; it only means no
// server-side copy exists.
type Submitter interface {
	Submit(ctx context.Context, result *model.Result) error
}

// Log is the local result sink. Results are appended to two lists: the
// result log shown to students and the attempts log read by dashboards and
// leaderboards. Prior entries are never replaced, so multiple attempts
// coexist.
type Log struct {
	kv  kvstore.Store
	log zerolog.Logger
}

// NewLog creates a local result log on top of kv.
func NewLog(kv kvstore.Store, log zerolog.Logger) *Log {
	return &Log{
		kv:  kv,
		log: log.With().Str("component", "result_log").Logger(),
	}
}

// AppendResult appends result to the local result log.
func (l *Log) AppendResult(ctx context.Context, result *model.Result) error {
	return l.append(ctx, config.StorageKey.ResultsKey(), result)
}

// AppendAttempt appends result to the attempts log.
func (l *Log) AppendAttempt(ctx context.Context, result *model.Result) error {
	return l.append(ctx, config.StorageKey.AttemptsKey(), result)
}

// Results returns every locally recorded result, oldest first.
func (l *Log) Results(ctx context.Context) ([]model.Result, error) {
	return l.list(ctx, config.StorageKey.ResultsKey())
}

// Attempts returns every locally recorded attempt, oldest first.
func (l *Log) Attempts(ctx context.Context) ([]model.Result, error) {
	return l.list(ctx, config.StorageKey.AttemptsKey())
}

func (l *Log) append(ctx context.Context, key string, result *model.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := l.kv.Append(ctx, key, raw); err != nil {
		return fmt.Errorf("append result to %s: %w", key, err)
	}
	return nil
}

func (l *Log) list(ctx context.Context, key string) ([]model.Result, error) {
	raws, err := l.kv.List(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	out := make([]model.Result, 0, len(raws))
	for _, raw := range raws {
		var r model.Result
		if err := json.Unmarshal(raw, &r); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("Skipping unreadable result entry")
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
