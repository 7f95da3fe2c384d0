package progress

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlane/quizcore/internal/config"
	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/model"
)

func newStore() *Store {
	return New(kvstore.NewMemory(), zerolog.Nop())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	saved := &model.SessionProgress{
		Answers: []model.Answer{
			{QuestionID: 1, SelectedOptionID: 10},
			{QuestionID: 3, SelectedOptionID: 31},
		},
		CurrentQuestionIndex: 2,
		TimeLeftSeconds:      187,
	}

	require.NoError(t, store.Save(ctx, 42, "alice", saved))
	assert.NotZero(t, saved.SavedAt, "Save must stamp SavedAt")

	loaded, err := store.Load(ctx, 42, "alice")
	require.NoError(t, err)
	assert.Equal(t, saved.Answers, loaded.Answers)
	assert.Equal(t, 2, loaded.CurrentQuestionIndex)
	assert.Equal(t, 187, loaded.TimeLeftSeconds)
	assert.Equal(t, saved.SavedAt, loaded.SavedAt)
}

func TestLoadMissingReturnsErrNoProgress(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	_, err := store.Load(ctx, 42, "alice")
	assert.ErrorIs(t, err, ErrNoProgress)
}

func TestSaveOverwritesSingleSlot(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	first := &model.SessionProgress{TimeLeftSeconds: 300}
	second := &model.SessionProgress{
		Answers:              []model.Answer{{QuestionID: 1, SelectedOptionID: 10}},
		CurrentQuestionIndex: 1,
		TimeLeftSeconds:      299,
	}

	require.NoError(t, store.Save(ctx, 42, "alice", first))
	require.NoError(t, store.Save(ctx, 42, "alice", second))

	loaded, err := store.Load(ctx, 42, "alice")
	require.NoError(t, err)
	assert.Equal(t, 299, loaded.TimeLeftSeconds)
	assert.Len(t, loaded.Answers, 1)
}

func TestSlotsAreScopedByQuizAndStudent(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	require.NoError(t, store.Save(ctx, 42, "alice", &model.SessionProgress{TimeLeftSeconds: 10}))
	require.NoError(t, store.Save(ctx, 42, "bob", &model.SessionProgress{TimeLeftSeconds: 20}))
	require.NoError(t, store.Save(ctx, 7, "alice", &model.SessionProgress{TimeLeftSeconds: 30}))

	loaded, err := store.Load(ctx, 42, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.TimeLeftSeconds)
}

func TestClearRemovesSlot(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	require.NoError(t, store.Save(ctx, 42, "alice", &model.SessionProgress{TimeLeftSeconds: 10}))
	require.NoError(t, store.Clear(ctx, 42, "alice"))

	_, err := store.Load(ctx, 42, "alice")
	assert.ErrorIs(t, err, ErrNoProgress)

	// Clearing an already-empty slot is a no-op.
	assert.NoError(t, store.Clear(ctx, 42, "alice"))
}

func TestCorruptSnapshotReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := New(kv, zerolog.Nop())

	require.NoError(t, kv.Set(ctx, config.StorageKey.ProgressKey(42, "alice"), []byte("{not json")))

	_, err := store.Load(ctx, 42, "alice")
	assert.ErrorIs(t, err, ErrNoProgress)
}
