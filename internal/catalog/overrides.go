package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quizlane/quizcore/internal/config"
	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/model"
)

// Overrides holds locally authored question edits and deletions. They are
// applied to the fetched question list after the catalog read and before
// randomization, so a deleted question never reaches the shuffler.
type Overrides struct {
	Edited  map[int64]model.Question
	Deleted map[int64]struct{}
}

// LoadOverrides reads the override maps from local persistence. Missing keys
// read as empty overrides; corrupt entries are an error because silently
// serving a stale question the author deleted is worse than failing the load.
func LoadOverrides(ctx context.Context, kv kvstore.Store) (*Overrides, error) {
	o := &Overrides{
		Edited:  make(map[int64]model.Question),
		Deleted: make(map[int64]struct{}),
	}

	raw, err := kv.Get(ctx, config.StorageKey.EditedQuestionsKey())
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load edited questions: %w", err)
	default:
		if err := json.Unmarshal(raw, &o.Edited); err != nil {
			return nil, fmt.Errorf("decode edited questions: %w", err)
		}
	}

	raw, err = kv.Get(ctx, config.StorageKey.DeletedQuestionsKey())
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load deleted questions: %w", err)
	default:
		var ids []int64
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, fmt.Errorf("decode deleted questions: %w", err)
		}
		for _, id := range ids {
			o.Deleted[id] = struct{}{}
		}
	}

	return o, nil
}

// Apply filters out deleted questions and substitutes edited versions by ID,
// preserving the catalog's order of the survivors.
func (o *Overrides) Apply(questions []model.Question) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if _, gone := o.Deleted[q.ID]; gone {
			continue
		}
		if edited, ok := o.Edited[q.ID]; ok {
			out = append(out, edited)
			continue
		}
		out = append(out, q)
	}
	return out
}
