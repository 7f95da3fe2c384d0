package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlane/quizcore/internal/model"
)

func TestShufflePreservesElements(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8}

	out := Shuffle(input)

	require.Len(t, out, len(input))
	assert.ElementsMatch(t, input, out)
	// Input must not be mutated.
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, input)
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Shuffle([]int{}))
	assert.Equal(t, []string{"only"}, Shuffle([]string{"only"}))
}

func TestShuffleIsApproximatelyUniform(t *testing.T) {
	// Count how often each element lands in each position. Over enough
	// trials every cell should sit near trials/n.
	const trials = 9000
	elements := []int{0, 1, 2}
	counts := [3][3]int{}

	for i := 0; i < trials; i++ {
		out := Shuffle(elements)
		for pos, el := range out {
			counts[pos][el]++
		}
	}

	expected := float64(trials) / float64(len(elements))
	for pos := range counts {
		for el := range counts[pos] {
			got := float64(counts[pos][el])
			// Generous 20% tolerance keeps the test stable while still
			// catching a broken (biased) shuffle.
			assert.InDelta(t, expected, got, expected*0.2,
				"element %d at position %d", el, pos)
		}
	}
}

func TestPrepareSessionKeepsOptionIdentity(t *testing.T) {
	questions := []model.Question{
		{
			ID:           1,
			QuestionText: "Capital of France?",
			QuestionType: model.QuestionTypeMultipleChoice,
			Options: []model.Option{
				{ID: 10, OptionText: "Paris", IsCorrect: true},
				{ID: 11, OptionText: "Lyon"},
				{ID: 12, OptionText: "Nice"},
				{ID: 13, OptionText: "Lille"},
			},
		},
		{
			ID:           2,
			QuestionText: "The sky is blue.",
			QuestionType: model.QuestionTypeTrueFalse,
			Options: []model.Option{
				{ID: 20, OptionText: "True", IsCorrect: true},
				{ID: 21, OptionText: "False"},
			},
		},
	}

	prepared := PrepareSession(questions)

	require.Len(t, prepared, 2)

	byID := make(map[int64]model.Question)
	for _, q := range prepared {
		byID[q.ID] = q
	}

	for _, orig := range questions {
		got, ok := byID[orig.ID]
		require.True(t, ok, "question %d missing after prepare", orig.ID)
		require.Len(t, got.Options, len(orig.Options))

		correctness := make(map[int64]bool)
		for _, opt := range got.Options {
			correctness[opt.ID] = opt.IsCorrect
		}
		for _, opt := range orig.Options {
			flag, ok := correctness[opt.ID]
			require.True(t, ok, "option %d missing after prepare", opt.ID)
			assert.Equal(t, opt.IsCorrect, flag)
		}
	}

	// The source slice keeps its original option order.
	assert.Equal(t, int64(10), questions[0].Options[0].ID)
}

func TestPrepareSessionEmpty(t *testing.T) {
	assert.Empty(t, PrepareSession(nil))
}
