package repository

import (
	"context"
	"sync"
	"time"

	"prepwise-backend/models"

	"github.com/google/uuid"
)

// SessionRepository handles storage operations for auth sessions.
// Sessions are ephemeral and always live in process memory, even when
// the durable store backs the other repositories.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// MemorySessionRepository is the in-memory map-backed implementation
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionRepository creates an empty in-memory session repository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]models.Session),
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	session.CreatedAt = now
	session.ExpiresAt = now.Add(models.SessionTTL)
	r.sessions[session.Token] = *session
	return nil
}

// Get resolves a token to its session. Expired sessions are pruned on
// lookup and reported as not found.
func (r *MemorySessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if session.Expired(time.Now()) {
		r.mu.Lock()
		delete(r.sessions, token)
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	return &session, nil
}

// Delete is idempotent; deleting an absent token is not an error
func (r *MemorySessionRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

func (r *MemorySessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}
