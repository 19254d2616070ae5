package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SkillLevel represents a user's self-assessed skill level
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// NotificationPreferences is an open key-value map of per-user settings
type NotificationPreferences map[string]interface{}

// Value implements driver.Valuer for JSONB
func (n NotificationPreferences) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements sql.Scanner for JSONB
func (n *NotificationPreferences) Scan(value interface{}) error {
	if value == nil {
		*n = make(NotificationPreferences)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*n = make(NotificationPreferences)
		return nil
	}

	if len(bytes) == 0 {
		*n = make(NotificationPreferences)
		return nil
	}

	return json.Unmarshal(bytes, n)
}

// Profile represents a user's public-facing attributes
type Profile struct {
	ID                      uuid.UUID               `json:"id"`
	UserID                  uuid.UUID               `json:"user_id"`
	Email                   string                  `json:"email"`
	FullName                string                  `json:"full_name"`
	AvatarURL               *string                 `json:"avatar_url"`
	Company                 *string                 `json:"company"`
	Role                    *string                 `json:"role"`
	ExperienceLevel         string                  `json:"experience_level"`
	Bio                     *string                 `json:"bio"`
	SkillLevel              SkillLevel              `json:"skill_level"`
	PreferredIndustries     []string                `json:"preferred_industries"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
	InterviewCount          int                     `json:"interview_count"`
	TotalPracticeTime       int                     `json:"total_practice_time"`
	CreatedAt               time.Time               `json:"created_at"`
	UpdatedAt               time.Time               `json:"updated_at"`
}
