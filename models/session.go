package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the fixed session lifetime, matching the cookie max age
const SessionTTL = 7 * 24 * time.Hour

// Session maps an opaque cookie token to an authenticated identity
type Session struct {
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the session is past its lifetime
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
