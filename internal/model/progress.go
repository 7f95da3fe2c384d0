package model

// Answer records the student's current selection for one question.
// At most one Answer exists per question; re-selecting overwrites it.
type Answer struct {
	QuestionID       int64 `json:"questionId"`
	SelectedOptionID int64 `json:"selectedOptionId"`
}

// SessionProgress is the serializable snapshot needed to resume an
// interrupted session. It is overwritten on every mutation and deleted
// on successful submission.
type SessionProgress struct {
	Answers              []Answer `json:"answers"`
	CurrentQuestionIndex int      `json:"currentQuestionIndex"`
	TimeLeftSeconds      int      `json:"timeLeft"`
	SavedAt              int64    `json:"savedAt"` // unix milliseconds
}
