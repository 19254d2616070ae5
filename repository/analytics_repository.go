package repository

import (
	"context"
	"sync"

	"prepwise-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepository handles storage operations for per-user aggregates
type AnalyticsRepository interface {
	Create(ctx context.Context, analytics *models.Analytics) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Analytics, error)
	Update(ctx context.Context, analytics *models.Analytics) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// MemoryAnalyticsRepository is the in-memory map-backed implementation
type MemoryAnalyticsRepository struct {
	mu        sync.RWMutex
	analytics map[uuid.UUID]models.Analytics
}

// NewMemoryAnalyticsRepository creates an empty in-memory analytics repository
func NewMemoryAnalyticsRepository() *MemoryAnalyticsRepository {
	return &MemoryAnalyticsRepository{
		analytics: make(map[uuid.UUID]models.Analytics),
	}
}

func (r *MemoryAnalyticsRepository) Create(ctx context.Context, analytics *models.Analytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.analytics[analytics.UserID] = *analytics
	return nil
}

func (r *MemoryAnalyticsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Analytics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analytics, ok := r.analytics[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &analytics, nil
}

func (r *MemoryAnalyticsRepository) Update(ctx context.Context, analytics *models.Analytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.analytics[analytics.UserID]; !ok {
		return ErrNotFound
	}
	r.analytics[analytics.UserID] = *analytics
	return nil
}

func (r *MemoryAnalyticsRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.analytics[userID]; !ok {
		return ErrNotFound
	}
	delete(r.analytics, userID)
	return nil
}

// PostgresAnalyticsRepository is the pgx-backed implementation
type PostgresAnalyticsRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAnalyticsRepository creates a new Postgres analytics repository
func NewPostgresAnalyticsRepository(db *pgxpool.Pool) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func (r *PostgresAnalyticsRepository) Create(ctx context.Context, analytics *models.Analytics) error {
	query := `
		INSERT INTO analytics (
			user_id, total_interviews, average_score, best_score,
			last_interview_date, total_practice_time
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		analytics.UserID,
		analytics.TotalInterviews,
		analytics.AverageScore,
		analytics.BestScore,
		analytics.LastInterviewDate,
		analytics.TotalPracticeTime,
	)
	return err
}

func (r *PostgresAnalyticsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Analytics, error) {
	analytics := &models.Analytics{}
	query := `
		SELECT user_id, total_interviews, average_score, best_score,
			last_interview_date, total_practice_time
		FROM analytics
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&analytics.UserID,
		&analytics.TotalInterviews,
		&analytics.AverageScore,
		&analytics.BestScore,
		&analytics.LastInterviewDate,
		&analytics.TotalPracticeTime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return analytics, nil
}

func (r *PostgresAnalyticsRepository) Update(ctx context.Context, analytics *models.Analytics) error {
	query := `
		UPDATE analytics SET
			total_interviews = $2,
			average_score = $3,
			best_score = $4,
			last_interview_date = $5,
			total_practice_time = $6
		WHERE user_id = $1`

	tag, err := r.db.Exec(ctx, query,
		analytics.UserID,
		analytics.TotalInterviews,
		analytics.AverageScore,
		analytics.BestScore,
		analytics.LastInterviewDate,
		analytics.TotalPracticeTime,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAnalyticsRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM analytics WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
