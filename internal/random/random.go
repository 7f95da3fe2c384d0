// Package random produces the per-student presentation order of a quiz.
package random

import (
	"math/rand"

	"github.com/quizlane/quizcore/internal/model"
)

// Shuffle returns a new slice with the same elements in uniformly random
// order (Fisher-Yates). The input is never mutated.
func Shuffle[T any](items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// PrepareSession shuffles question order and, per question, option order.
// Called once per session load; every invocation produces a fresh independent
// order, so different students and attempts see different arrangements.
// Option identity and correctness are untouched; only presentation order moves.
func PrepareSession(questions []model.Question) []model.Question {
	prepared := Shuffle(questions)
	for i := range prepared {
		prepared[i].Options = Shuffle(prepared[i].Options)
	}
	return prepared
}
