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

// QuestionRepository handles storage operations for questions
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	ListByInterviewID(ctx context.Context, interviewID uuid.UUID) ([]*models.Question, error)
	DeleteByInterviewID(ctx context.Context, interviewID uuid.UUID) error
}

// MemoryQuestionRepository is the in-memory map-backed implementation
type MemoryQuestionRepository struct {
	mu        sync.RWMutex
	questions map[uuid.UUID]models.Question
	order     []uuid.UUID
}

// NewMemoryQuestionRepository creates an empty in-memory question repository
func NewMemoryQuestionRepository() *MemoryQuestionRepository {
	return &MemoryQuestionRepository{
		questions: make(map[uuid.UUID]models.Question),
	}
}

func (r *MemoryQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now
	r.questions[question.ID] = *question
	r.order = append(r.order, question.ID)
	return nil
}

func (r *MemoryQuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	question, ok := r.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &question, nil
}

func (r *MemoryQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[question.ID]; !ok {
		return ErrNotFound
	}
	question.UpdatedAt = time.Now()
	r.questions[question.ID] = *question
	return nil
}

func (r *MemoryQuestionRepository) ListByInterviewID(ctx context.Context, interviewID uuid.UUID) ([]*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Question, 0)
	for _, id := range r.order {
		question, ok := r.questions[id]
		if !ok || question.InterviewID != interviewID {
			continue
		}
		copied := question
		result = append(result, &copied)
	}
	return result, nil
}

func (r *MemoryQuestionRepository) DeleteByInterviewID(ctx context.Context, interviewID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	for _, id := range r.order {
		question, ok := r.questions[id]
		if ok && question.InterviewID == interviewID {
			delete(r.questions, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return nil
}

// PostgresQuestionRepository is the pgx-backed implementation
type PostgresQuestionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresQuestionRepository creates a new Postgres question repository
func NewPostgresQuestionRepository(db *pgxpool.Pool) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{db: db}
}

func (r *PostgresQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	query := `
		INSERT INTO questions (
			id, interview_id, category, industry, difficulty, question_text,
			expected_keywords, sample_answer, user_response, ai_feedback,
			score, expected_answer
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		question.ID,
		question.InterviewID,
		question.Category,
		question.Industry,
		question.Difficulty,
		question.QuestionText,
		question.ExpectedKeywords,
		question.SampleAnswer,
		question.UserResponse,
		question.AIFeedback,
		question.Score,
		question.ExpectedAnswer,
	).Scan(&question.CreatedAt, &question.UpdatedAt)
}

func (r *PostgresQuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	question := &models.Question{}
	err := r.db.QueryRow(ctx, selectQuestion+` WHERE id = $1`, id).Scan(questionScanDest(question)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return question, nil
}

func (r *PostgresQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	query := `
		UPDATE questions SET
			category = $2,
			industry = $3,
			difficulty = $4,
			question_text = $5,
			expected_keywords = $6,
			sample_answer = $7,
			user_response = $8,
			ai_feedback = $9,
			score = $10,
			expected_answer = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		question.ID,
		question.Category,
		question.Industry,
		question.Difficulty,
		question.QuestionText,
		question.ExpectedKeywords,
		question.SampleAnswer,
		question.UserResponse,
		question.AIFeedback,
		question.Score,
		question.ExpectedAnswer,
	).Scan(&question.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresQuestionRepository) ListByInterviewID(ctx context.Context, interviewID uuid.UUID) ([]*models.Question, error) {
	rows, err := r.db.Query(ctx, selectQuestion+` WHERE interview_id = $1 ORDER BY created_at`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*models.Question, 0)
	for rows.Next() {
		question := &models.Question{}
		if err := rows.Scan(questionScanDest(question)...); err != nil {
			return nil, err
		}
		result = append(result, question)
	}
	return result, rows.Err()
}

func (r *PostgresQuestionRepository) DeleteByInterviewID(ctx context.Context, interviewID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM questions WHERE interview_id = $1`, interviewID)
	return err
}

const selectQuestion = `
	SELECT id, interview_id, category, industry, difficulty, question_text,
		expected_keywords, sample_answer, user_response, ai_feedback,
		score, expected_answer, created_at, updated_at
	FROM questions`

func questionScanDest(q *models.Question) []interface{} {
	return []interface{}{
		&q.ID,
		&q.InterviewID,
		&q.Category,
		&q.Industry,
		&q.Difficulty,
		&q.QuestionText,
		&q.ExpectedKeywords,
		&q.SampleAnswer,
		&q.UserResponse,
		&q.AIFeedback,
		&q.Score,
		&q.ExpectedAnswer,
		&q.CreatedAt,
		&q.UpdatedAt,
	}
}
