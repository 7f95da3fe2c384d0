package model

import (
	"time"

	"github.com/google/uuid"
)

// Result is the immutable outcome of one submitted quiz attempt. It is
// appended to both the local result log and the remote store, never
// replacing prior results, so multiple attempts coexist.
type Result struct {
	ID             uuid.UUID `json:"id"`
	QuizID         int64     `json:"quizId"`
	QuizTitle      string    `json:"quizTitle"`
	StudentName    string    `json:"studentName"`
	Score          int       `json:"score"` // 0-100, rounded
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
	TimeTaken      string    `json:"timeTaken"` // "M:SS" wall-clock elapsed
}
