package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quizlane/quizcore/internal/config"
	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/model"
)

// FallbackCatalog wraps a remote catalog with a local key-value cache.
// Successful remote reads are written back to the cache; when the remote
// fails, the last cached copy is served instead, so a flaky backend does not
// strand a student who has taken the quiz before.
type FallbackCatalog struct {
	remote Catalog
	kv     kvstore.Store
	log    zerolog.Logger
}

// NewFallbackCatalog creates a caching wrapper around remote.
func NewFallbackCatalog(remote Catalog, kv kvstore.Store, log zerolog.Logger) *FallbackCatalog {
	return &FallbackCatalog{
		remote: remote,
		kv:     kv,
		log:    log.With().Str("component", "catalog").Logger(),
	}
}

func (c *FallbackCatalog) GetQuiz(ctx context.Context, quizID int64) (*model.Quiz, error) {
	quiz, err := c.remote.GetQuiz(ctx, quizID)
	if err == nil {
		c.cache(ctx, config.StorageKey.QuizKey(quizID), quiz)
		return quiz, nil
	}

	c.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Remote quiz fetch failed, trying local cache")

	var cached model.Quiz
	if cacheErr := c.restore(ctx, config.StorageKey.QuizKey(quizID), &cached); cacheErr != nil {
		return nil, fmt.Errorf("quiz %d unavailable remotely and locally: %w", quizID, err)
	}
	return &cached, nil
}

func (c *FallbackCatalog) GetQuestions(ctx context.Context, quizID int64) ([]model.Question, error) {
	questions, err := c.remote.GetQuestions(ctx, quizID)
	if err == nil {
		c.cache(ctx, config.StorageKey.QuizQuestionsKey(quizID), questions)
		return questions, nil
	}

	c.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Remote question fetch failed, trying local cache")

	var cached []model.Question
	if cacheErr := c.restore(ctx, config.StorageKey.QuizQuestionsKey(quizID), &cached); cacheErr != nil {
		return nil, fmt.Errorf("questions for quiz %d unavailable remotely and locally: %w", quizID, err)
	}
	return cached, nil
}

func (c *FallbackCatalog) cache(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	// Cache write failure only costs the offline fallback.
	if err := c.kv.Set(ctx, key, raw); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
	}
}

func (c *FallbackCatalog) restore(ctx context.Context, key string, dst interface{}) error {
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
