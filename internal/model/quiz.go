package model

import (
	"time"
)

// Quiz represents a quiz as served by the quiz catalog. It is owned
// externally and immutable for the duration of a session.
type Quiz struct {
	ID               int64      `json:"id" validate:"required"`
	Title            string     `json:"title" validate:"required"`
	Description      string     `json:"description"`
	TimeLimitMinutes int        `json:"timeLimit" validate:"required,min=1,max=480"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}
