// Package catalog provides the quiz-catalog contract the session loads from,
// plus the local override maps authored outside the session.
package catalog

import (
	"context"

	"github.com/quizlane/quizcore/internal/model"
)

// Catalog supplies quiz metadata and question lists. Both operations may fail
// (network, not-found), in which case the session reports a load failure.
type Catalog interface {
	GetQuiz(ctx context.Context, quizID int64) (*model.Quiz, error)
	GetQuestions(ctx context.Context, quizID int64) ([]model.Question, error)
}
