// Package progress persists in-flight session snapshots so an interrupted
// quiz can be resumed.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizlane/quizcore/internal/config"
	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/model"
)

// ErrNoProgress is returned by Load when no snapshot exists for the
// (quiz, student) pair.
var ErrNoProgress = errors.New("progress: no saved progress")

// Store mirrors a session's in-memory state into a single key-value slot per
// (quiz, student) pair. It is a write-through mirror with no independent
// authority: in-memory state always wins, and every save overwrites the slot
// wholesale so readers never see a partial snapshot.
type Store struct {
	kv  kvstore.Store
	log zerolog.Logger
}

// New creates a progress Store on top of kv.
func New(kv kvstore.Store, log zerolog.Logger) *Store {
	return &Store{
		kv:  kv,
		log: log.With().Str("component", "progress_store").Logger(),
	}
}

// Save serializes p and stores it under the slot for (quizID, studentName),
// stamping SavedAt. Safe to call on every answer, navigation and tick:
// the slot is overwritten, never appended to.
func (s *Store) Save(ctx context.Context, quizID int64, studentName string, p *model.SessionProgress) error {
	p.SavedAt = time.Now().UnixMilli()

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	if err := s.kv.Set(ctx, config.StorageKey.ProgressKey(quizID, studentName), raw); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Load returns the last saved snapshot for (quizID, studentName), or
// ErrNoProgress when none exists. A corrupt snapshot is treated as absent:
// losing a resume is recoverable, refusing to start a quiz is not.
func (s *Store) Load(ctx context.Context, quizID int64, studentName string) (*model.SessionProgress, error) {
	raw, err := s.kv.Get(ctx, config.StorageKey.ProgressKey(quizID, studentName))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNoProgress
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	var p model.SessionProgress
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Warn().Err(err).
			Int64("quiz_id", quizID).
			Str("student", studentName).
			Msg("Discarding unreadable progress snapshot")
		return nil, ErrNoProgress
	}
	return &p, nil
}

// Clear removes the slot for (quizID, studentName). Called once, right after
// a successful submission, so the next visit to the quiz starts fresh.
func (s *Store) Clear(ctx context.Context, quizID int64, studentName string) error {
	if err := s.kv.Delete(ctx, config.StorageKey.ProgressKey(quizID, studentName)); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
