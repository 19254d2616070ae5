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

// InterviewRepository handles storage operations for interviews
type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	Update(ctx context.Context, interview *models.Interview) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Interview, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryInterviewRepository is the in-memory map-backed implementation.
// The order slice preserves insertion order for listing.
type MemoryInterviewRepository struct {
	mu         sync.RWMutex
	interviews map[uuid.UUID]models.Interview
	order      []uuid.UUID
}

// NewMemoryInterviewRepository creates an empty in-memory interview repository
func NewMemoryInterviewRepository() *MemoryInterviewRepository {
	return &MemoryInterviewRepository{
		interviews: make(map[uuid.UUID]models.Interview),
	}
}

func (r *MemoryInterviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	interview.CreatedAt = now
	interview.UpdatedAt = now
	r.interviews[interview.ID] = *interview
	r.order = append(r.order, interview.ID)
	return nil
}

func (r *MemoryInterviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	interview, ok := r.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &interview, nil
}

func (r *MemoryInterviewRepository) Update(ctx context.Context, interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.interviews[interview.ID]; !ok {
		return ErrNotFound
	}
	interview.UpdatedAt = time.Now()
	r.interviews[interview.ID] = *interview
	return nil
}

func (r *MemoryInterviewRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Interview, 0)
	for _, id := range r.order {
		interview, ok := r.interviews[id]
		if !ok || interview.UserID != userID {
			continue
		}
		copied := interview
		result = append(result, &copied)
	}
	return result, nil
}

func (r *MemoryInterviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.interviews[id]; !ok {
		return ErrNotFound
	}
	delete(r.interviews, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// PostgresInterviewRepository is the pgx-backed implementation
type PostgresInterviewRepository struct {
	db *pgxpool.Pool
}

// NewPostgresInterviewRepository creates a new Postgres interview repository
func NewPostgresInterviewRepository(db *pgxpool.Pool) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

func (r *PostgresInterviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	query := `
		INSERT INTO interviews (
			id, user_id, title, company, job_role, industry, difficulty,
			type, duration, score, feedback, transcript, status,
			overall_score, completed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		interview.ID,
		interview.UserID,
		interview.Title,
		interview.Company,
		interview.JobRole,
		interview.Industry,
		interview.Difficulty,
		interview.Type,
		interview.Duration,
		interview.Score,
		interview.Feedback,
		interview.Transcript,
		interview.Status,
		interview.OverallScore,
		interview.CompletedAt,
	).Scan(&interview.CreatedAt, &interview.UpdatedAt)
}

func (r *PostgresInterviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	interview := &models.Interview{}
	err := r.db.QueryRow(ctx, selectInterview+` WHERE id = $1`, id).Scan(interviewScanDest(interview)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return interview, nil
}

func (r *PostgresInterviewRepository) Update(ctx context.Context, interview *models.Interview) error {
	query := `
		UPDATE interviews SET
			title = $2,
			company = $3,
			job_role = $4,
			industry = $5,
			difficulty = $6,
			type = $7,
			duration = $8,
			score = $9,
			feedback = $10,
			transcript = $11,
			status = $12,
			overall_score = $13,
			completed_at = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		interview.ID,
		interview.Title,
		interview.Company,
		interview.JobRole,
		interview.Industry,
		interview.Difficulty,
		interview.Type,
		interview.Duration,
		interview.Score,
		interview.Feedback,
		interview.Transcript,
		interview.Status,
		interview.OverallScore,
		interview.CompletedAt,
	).Scan(&interview.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresInterviewRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Interview, error) {
	rows, err := r.db.Query(ctx, selectInterview+` WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*models.Interview, 0)
	for rows.Next() {
		interview := &models.Interview{}
		if err := rows.Scan(interviewScanDest(interview)...); err != nil {
			return nil, err
		}
		result = append(result, interview)
	}
	return result, rows.Err()
}

func (r *PostgresInterviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectInterview = `
	SELECT id, user_id, title, company, job_role, industry, difficulty,
		type, duration, score, feedback, transcript, status,
		overall_score, created_at, updated_at, completed_at
	FROM interviews`

func interviewScanDest(i *models.Interview) []interface{} {
	return []interface{}{
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Company,
		&i.JobRole,
		&i.Industry,
		&i.Difficulty,
		&i.Type,
		&i.Duration,
		&i.Score,
		&i.Feedback,
		&i.Transcript,
		&i.Status,
		&i.OverallScore,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.CompletedAt,
	}
}
