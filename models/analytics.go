package models

import (
	"time"

	"github.com/google/uuid"
)

// Analytics holds per-user aggregates derived from scored questions.
// Recomputed from the full set of the user's questions on every score
// change, not incrementally maintained.
type Analytics struct {
	UserID            uuid.UUID  `json:"user_id"`
	TotalInterviews   int        `json:"total_interviews"`
	AverageScore      float64    `json:"average_score"`
	BestScore         float64    `json:"best_score"`
	LastInterviewDate *time.Time `json:"last_interview_date"`
	TotalPracticeTime int        `json:"total_practice_time"`
}
