package config

import (
	"fmt"
)

type StorageKeyStruct struct{}

func NewStorageKeyStruct() *StorageKeyStruct {
	return &StorageKeyStruct{}
}

// ProgressKey returns the storage key for a student's in-progress quiz snapshot.
// One slot per (quiz, student) pair; every save overwrites the previous one.
func (r *StorageKeyStruct) ProgressKey(quizID int64, studentName string) string {
	return fmt.Sprintf("student:%s:quiz:%d:progress", studentName, quizID)
}

// QuizKey returns the storage key for a cached quiz payload.
func (r *StorageKeyStruct) QuizKey(quizID int64) string {
	return fmt.Sprintf("quiz:%d:payload", quizID)
}

// QuizQuestionsKey returns the storage key for a quiz's cached question list.
func (r *StorageKeyStruct) QuizQuestionsKey(quizID int64) string {
	return fmt.Sprintf("quiz:%d:questions", quizID)
}

// ResultsKey returns the storage key for the local result log.
func (r *StorageKeyStruct) ResultsKey() string {
	return "quiz_results"
}

// AttemptsKey returns the storage key for the local attempts log read by dashboards.
func (r *StorageKeyStruct) AttemptsKey() string {
	return "quiz_attempts"
}

// EditedQuestionsKey returns the storage key for the map of locally edited questions.
func (r *StorageKeyStruct) EditedQuestionsKey() string {
	return "questions:edited"
}

// DeletedQuestionsKey returns the storage key for the list of locally deleted question IDs.
func (r *StorageKeyStruct) DeletedQuestionsKey() string {
	return "questions:deleted"
}

// RetakePermissionsKey returns the storage key for outstanding retake permissions.
func (r *StorageKeyStruct) RetakePermissionsKey() string {
	return "retake_permissions"
}

var StorageKey = NewStorageKeyStruct()
