package results

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/model"
)

func sampleResult(student string, score int) *model.Result {
	return &model.Result{
		ID:             uuid.New(),
		QuizID:         42,
		QuizTitle:      "Geography",
		StudentName:    student,
		Score:          score,
		CorrectAnswers: score / 50,
		TotalQuestions: 2,
		CompletedAt:    time.Now().UTC(),
		TimeTaken:      "1:05",
	}
}

func TestLogAppendsAndReadsBack(t *testing.T) {
	ctx := context.Background()
	log := NewLog(kvstore.NewMemory(), zerolog.Nop())

	first := sampleResult("alice", 50)
	second := sampleResult("alice", 100)

	require.NoError(t, log.AppendResult(ctx, first))
	require.NoError(t, log.AppendResult(ctx, second))
	require.NoError(t, log.AppendAttempt(ctx, first))

	results, err := log.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2, "appends must accumulate, never replace")
	assert.Equal(t, first.ID, results[0].ID)
	assert.Equal(t, second.ID, results[1].ID)

	attempts, err := log.Attempts(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, first.ID, attempts[0].ID)
}

func TestLogSkipsUnreadableEntries(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	log := NewLog(kv, zerolog.Nop())

	require.NoError(t, log.AppendResult(ctx, sampleResult("alice", 50)))
	require.NoError(t, kv.Append(ctx, "quiz_results", []byte("{broken")))

	results, err := log.Results(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestHTTPSubmitterPostsResult(t *testing.T) {
	ctx := context.Background()

	var received model.Result
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/quiz-attempts", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	sub := NewHTTPSubmitter(srv.URL+"/api", nil)
	result := sampleResult("alice", 100)

	require.NoError(t, sub.Submit(ctx, result))
	assert.Equal(t, result.ID, received.ID)
	assert.Equal(t, 100, received.Score)
}

func TestHTTPSubmitterReportsServerError(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	sub := NewHTTPSubmitter(srv.URL, nil)
	assert.Error(t, sub.Submit(ctx, sampleResult("alice", 50)))
}
