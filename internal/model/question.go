package model

// QuestionType enumerates the supported question variants.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
)

// Question represents a single quiz question with its answer options.
type Question struct {
	ID           int64        `json:"id" validate:"required"`
	QuizID       int64        `json:"quizId"`
	QuestionText string       `json:"questionText" validate:"required"`
	QuestionType QuestionType `json:"questionType" validate:"required,oneof=MULTIPLE_CHOICE TRUE_FALSE"`
	Options      []Option     `json:"options" validate:"required,min=2,dive"`
}

// Option is one selectable answer. Its ID is stable across shuffles:
// shuffling permutes presentation order only, never identity or correctness.
type Option struct {
	ID         int64  `json:"id" validate:"required"`
	OptionText string `json:"optionText" validate:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

// CorrectOption returns the question's single correct option. The authoring
// side is supposed to guarantee exactly one, but the catalog does not enforce
// it, so a question with zero or multiple correct options reports ok=false
// and scoring treats any selection against it as incorrect.
func (q *Question) CorrectOption() (*Option, bool) {
	var found *Option
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			if found != nil {
				return nil, false
			}
			found = &q.Options[i]
		}
	}
	if found == nil {
		return nil, false
	}
	return found, true
}

// HasOption reports whether optionID belongs to this question.
func (q *Question) HasOption(optionID int64) bool {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return true
		}
	}
	return false
}
