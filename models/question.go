package models

import (
	"time"

	"github.com/google/uuid"
)

// Question represents one Q&A unit inside an interview
type Question struct {
	ID               uuid.UUID  `json:"id"`
	InterviewID      uuid.UUID  `json:"interview_id"`
	Category         string     `json:"category"`
	Industry         string     `json:"industry"`
	Difficulty       string     `json:"difficulty"`
	QuestionText     string     `json:"question_text"`
	ExpectedKeywords []string   `json:"expected_keywords"`
	SampleAnswer     *string    `json:"sample_answer"`
	UserResponse     string     `json:"user_response"`
	AIFeedback       string     `json:"ai_feedback"`
	Score            *float64   `json:"score"`
	ExpectedAnswer   string     `json:"expected_answer"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
