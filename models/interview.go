package models

import (
	"time"

	"github.com/google/uuid"
)

// InterviewStatus represents the lifecycle state of an interview
type InterviewStatus string

const (
	StatusPending    InterviewStatus = "pending"
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusCancelled  InterviewStatus = "cancelled"
)

// Valid reports whether the status is one of the known states
func (s InterviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status transitions are allowed
func (s InterviewStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the status may move to next.
// pending -> in_progress -> completed, with cancelled reachable from
// either non-terminal state.
func (s InterviewStatus) CanTransitionTo(next InterviewStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusCancelled:
		return true
	case StatusInProgress:
		return s == StatusPending
	case StatusCompleted:
		return s == StatusPending || s == StatusInProgress
	}
	return false
}

// Interview represents one practice session owned by a user
type Interview struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Title        string          `json:"title"`
	Company      string          `json:"company"`
	JobRole      string          `json:"job_role"`
	Industry     string          `json:"industry"`
	Difficulty   string          `json:"difficulty"`
	Type         string          `json:"type"`
	Duration     int             `json:"duration"`
	Score        *float64        `json:"score"`
	Feedback     *string         `json:"feedback"`
	Transcript   *string         `json:"transcript"`
	Status       InterviewStatus `json:"status"`
	OverallScore *float64        `json:"overall_score"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}
