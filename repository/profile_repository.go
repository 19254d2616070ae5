package repository

import (
	"context"
	"sync"
	"time"

	"prepwise-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles storage operations for profiles.
// Profiles are keyed by the owning user's ID.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	IncrementInterviewCount(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// MemoryProfileRepository is the in-memory map-backed implementation
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]models.Profile
}

// NewMemoryProfileRepository creates an empty in-memory profile repository
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[uuid.UUID]models.Profile),
	}
}

func (r *MemoryProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *MemoryProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

func (r *MemoryProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.UserID]; !ok {
		return ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *MemoryProfileRepository) IncrementInterviewCount(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	profile.InterviewCount++
	profile.UpdatedAt = time.Now()
	r.profiles[userID] = profile
	return nil
}

func (r *MemoryProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[userID]; !ok {
		return ErrNotFound
	}
	delete(r.profiles, userID)
	return nil
}

// PostgresProfileRepository is the pgx-backed implementation
type PostgresProfileRepository struct {
	db *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new Postgres profile repository
func NewPostgresProfileRepository(db *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (
			id, user_id, email, full_name, avatar_url, company, role,
			experience_level, bio, skill_level, preferred_industries,
			notification_preferences, interview_count, total_practice_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Email,
		profile.FullName,
		profile.AvatarURL,
		profile.Company,
		profile.Role,
		profile.ExperienceLevel,
		profile.Bio,
		profile.SkillLevel,
		profile.PreferredIndustries,
		profile.NotificationPreferences,
		profile.InterviewCount,
		profile.TotalPracticeTime,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, user_id, email, full_name, avatar_url, company, role,
			experience_level, bio, skill_level, preferred_industries,
			notification_preferences, interview_count, total_practice_time,
			created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Email,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Company,
		&profile.Role,
		&profile.ExperienceLevel,
		&profile.Bio,
		&profile.SkillLevel,
		&profile.PreferredIndustries,
		&profile.NotificationPreferences,
		&profile.InterviewCount,
		&profile.TotalPracticeTime,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles SET
			full_name = $2,
			avatar_url = $3,
			company = $4,
			role = $5,
			experience_level = $6,
			bio = $7,
			skill_level = $8,
			preferred_industries = $9,
			notification_preferences = $10,
			total_practice_time = $11,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.AvatarURL,
		profile.Company,
		profile.Role,
		profile.ExperienceLevel,
		profile.Bio,
		profile.SkillLevel,
		profile.PreferredIndustries,
		profile.NotificationPreferences,
		profile.TotalPracticeTime,
	).Scan(&profile.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresProfileRepository) IncrementInterviewCount(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET interview_count = interview_count + 1, updated_at = NOW() WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
