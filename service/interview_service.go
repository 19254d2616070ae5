package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"prepwise-backend/models"
	"prepwise-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNotOwner          = errors.New("not authorized for this record")
	ErrInvalidTransition = errors.New("invalid interview status transition")
)

// InterviewService implements the interview/question CRUD operations and
// the per-user analytics recomputation triggered by score changes.
type InterviewService struct {
	interviewRepo repository.InterviewRepository
	questionRepo  repository.QuestionRepository
	analyticsRepo repository.AnalyticsRepository
	profileRepo   repository.ProfileRepository
}

// InterviewServiceOption is a functional option for InterviewService
type InterviewServiceOption func(*InterviewService)

// WithInterviewRepository sets the interview repository
func WithInterviewRepository(repo repository.InterviewRepository) InterviewServiceOption {
	return func(s *InterviewService) {
		s.interviewRepo = repo
	}
}

// WithQuestionRepository sets the question repository
func WithQuestionRepository(repo repository.QuestionRepository) InterviewServiceOption {
	return func(s *InterviewService) {
		s.questionRepo = repo
	}
}

// WithAnalyticsRepository sets the analytics repository
func WithAnalyticsRepository(repo repository.AnalyticsRepository) InterviewServiceOption {
	return func(s *InterviewService) {
		s.analyticsRepo = repo
	}
}

// WithProfileRepository sets the profile repository
func WithProfileRepository(repo repository.ProfileRepository) InterviewServiceOption {
	return func(s *InterviewService) {
		s.profileRepo = repo
	}
}

// NewInterviewService creates a new interview service
func NewInterviewService(opts ...InterviewServiceOption) *InterviewService {
	s := &InterviewService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInterviewRequest represents a request to create an interview
type CreateInterviewRequest struct {
	UserID     uuid.UUID
	Title      string
	Company    string
	JobRole    string
	Industry   string
	Difficulty string
	Type       string
	Duration   int
}

// CreateInterview creates an interview with defaulted fields and
// increments the owner profile's interview count.
func (s *InterviewService) CreateInterview(ctx context.Context, req CreateInterviewRequest) (*models.Interview, error) {
	if req.Title == "" {
		req.Title = "Mock Interview"
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if req.Type == "" {
		req.Type = "general"
	}

	interview := &models.Interview{
		ID:         uuid.New(),
		UserID:     req.UserID,
		Title:      req.Title,
		Company:    req.Company,
		JobRole:    req.JobRole,
		Industry:   req.Industry,
		Difficulty: req.Difficulty,
		Type:       req.Type,
		Duration:   req.Duration,
		Status:     models.StatusInProgress,
	}

	if err := s.interviewRepo.Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	if s.profileRepo != nil {
		if err := s.profileRepo.IncrementInterviewCount(ctx, req.UserID); err != nil {
			log.Printf("Warning: failed to increment interview count for user %s: %v", req.UserID, err)
		}
	}

	return interview, nil
}

// ListInterviews returns interviews owned by the user in storage order
func (s *InterviewService) ListInterviews(ctx context.Context, userID uuid.UUID) ([]*models.Interview, error) {
	return s.interviewRepo.ListByUserID(ctx, userID)
}

// UpdateInterviewPatch lists the mutable interview fields. Identity
// fields (id, user_id, created_at) are deliberately absent.
type UpdateInterviewPatch struct {
	Title        *string
	Company      *string
	JobRole      *string
	Industry     *string
	Difficulty   *string
	Type         *string
	Duration     *int
	Score        *float64
	Feedback     *string
	Transcript   *string
	Status       *models.InterviewStatus
	OverallScore *float64
}

// UpdateInterview merges the patch into an interview owned by userID.
// Absent or non-owned interviews report ErrInterviewNotFound; the
// ownership failure is indistinguishable from a missing record.
func (s *InterviewService) UpdateInterview(ctx context.Context, userID, interviewID uuid.UUID, patch UpdateInterviewPatch) (*models.Interview, error) {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil || interview.UserID != userID {
		return nil, ErrInterviewNotFound
	}

	if patch.Title != nil {
		interview.Title = *patch.Title
	}
	if patch.Company != nil {
		interview.Company = *patch.Company
	}
	if patch.JobRole != nil {
		interview.JobRole = *patch.JobRole
	}
	if patch.Industry != nil {
		interview.Industry = *patch.Industry
	}
	if patch.Difficulty != nil {
		interview.Difficulty = *patch.Difficulty
	}
	if patch.Type != nil {
		interview.Type = *patch.Type
	}
	if patch.Duration != nil {
		interview.Duration = *patch.Duration
	}
	if patch.Score != nil {
		interview.Score = patch.Score
	}
	if patch.Feedback != nil {
		interview.Feedback = patch.Feedback
	}
	if patch.Transcript != nil {
		interview.Transcript = patch.Transcript
	}
	if patch.OverallScore != nil {
		interview.OverallScore = patch.OverallScore
	}
	if patch.Status != nil && *patch.Status != interview.Status {
		if !interview.Status.CanTransitionTo(*patch.Status) {
			return nil, ErrInvalidTransition
		}
		interview.Status = *patch.Status
		if *patch.Status == models.StatusCompleted {
			now := time.Now()
			interview.CompletedAt = &now
		}
	}

	if err := s.interviewRepo.Update(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	return interview, nil
}

// ListQuestions returns the questions under an interview owned by userID
func (s *InterviewService) ListQuestions(ctx context.Context, userID, interviewID uuid.UUID) ([]*models.Question, error) {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil || interview.UserID != userID {
		return nil, ErrInterviewNotFound
	}
	return s.questionRepo.ListByInterviewID(ctx, interviewID)
}

// CreateQuestionRequest represents a request to create a question
type CreateQuestionRequest struct {
	Category         string
	Industry         string
	Difficulty       string
	QuestionText     string
	ExpectedKeywords []string
	SampleAnswer     *string
	ExpectedAnswer   string
}

// CreateQuestion creates a question under an interview owned by userID
func (s *InterviewService) CreateQuestion(ctx context.Context, userID, interviewID uuid.UUID, req CreateQuestionRequest) (*models.Question, error) {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil || interview.UserID != userID {
		return nil, ErrInterviewNotFound
	}
	return s.createQuestion(ctx, interviewID, req)
}

func (s *InterviewService) createQuestion(ctx context.Context, interviewID uuid.UUID, req CreateQuestionRequest) (*models.Question, error) {
	if req.Category == "" {
		req.Category = "general"
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if req.ExpectedKeywords == nil {
		req.ExpectedKeywords = []string{}
	}

	question := &models.Question{
		ID:               uuid.New(),
		InterviewID:      interviewID,
		Category:         req.Category,
		Industry:         req.Industry,
		Difficulty:       req.Difficulty,
		QuestionText:     req.QuestionText,
		ExpectedKeywords: req.ExpectedKeywords,
		SampleAnswer:     req.SampleAnswer,
		ExpectedAnswer:   req.ExpectedAnswer,
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// UpdateQuestionPatch lists the mutable question fields
type UpdateQuestionPatch struct {
	Category         *string
	Industry         *string
	Difficulty       *string
	QuestionText     *string
	ExpectedKeywords []string
	SampleAnswer     *string
	UserResponse     *string
	AIFeedback       *string
	Score            *float64
	ExpectedAnswer   *string
}

// UpdateQuestion merges the patch into a question. A missing question
// reports ErrQuestionNotFound; a caller who does not own the parent
// interview gets ErrNotOwner. A present, non-null score triggers a
// synchronous analytics recomputation for the owning user.
func (s *InterviewService) UpdateQuestion(ctx context.Context, userID, questionID uuid.UUID, patch UpdateQuestionPatch) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, ErrQuestionNotFound
	}

	interview, err := s.interviewRepo.GetByID(ctx, question.InterviewID)
	if err != nil || interview.UserID != userID {
		return nil, ErrNotOwner
	}

	if patch.Category != nil {
		question.Category = *patch.Category
	}
	if patch.Industry != nil {
		question.Industry = *patch.Industry
	}
	if patch.Difficulty != nil {
		question.Difficulty = *patch.Difficulty
	}
	if patch.QuestionText != nil {
		question.QuestionText = *patch.QuestionText
	}
	if patch.ExpectedKeywords != nil {
		question.ExpectedKeywords = patch.ExpectedKeywords
	}
	if patch.SampleAnswer != nil {
		question.SampleAnswer = patch.SampleAnswer
	}
	if patch.UserResponse != nil {
		question.UserResponse = *patch.UserResponse
	}
	if patch.AIFeedback != nil {
		question.AIFeedback = *patch.AIFeedback
	}
	if patch.Score != nil {
		question.Score = patch.Score
	}
	if patch.ExpectedAnswer != nil {
		question.ExpectedAnswer = *patch.ExpectedAnswer
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	if patch.Score != nil {
		if err := s.RecomputeAnalytics(ctx, userID); err != nil {
			log.Printf("Warning: failed to recompute analytics for user %s: %v", userID, err)
		}
	}

	return question, nil
}

// ScoreQuestion applies a score/feedback/response from a voice event.
// Unlike UpdateQuestion there is no ownership check; the voice vendor is
// trusted via the webhook secret. When userID is set, analytics are
// recomputed for that user.
func (s *InterviewService) ScoreQuestion(ctx context.Context, questionID uuid.UUID, score *float64, feedback, userResponse string, userID *uuid.UUID) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return ErrQuestionNotFound
	}

	question.Score = score
	question.AIFeedback = feedback
	question.UserResponse = userResponse
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return fmt.Errorf("failed to score question: %w", err)
	}

	if userID != nil {
		if err := s.RecomputeAnalytics(ctx, *userID); err != nil {
			log.Printf("Warning: failed to recompute analytics for user %s: %v", *userID, err)
		}
	}
	return nil
}

// CreateVoiceQuestion creates a question from a voice event without an
// ownership check
func (s *InterviewService) CreateVoiceQuestion(ctx context.Context, interviewID uuid.UUID, req CreateQuestionRequest) (*models.Question, error) {
	if _, err := s.interviewRepo.GetByID(ctx, interviewID); err != nil {
		return nil, ErrInterviewNotFound
	}
	return s.createQuestion(ctx, interviewID, req)
}

// AppendTranscript adds a transcript fragment from a voice event to the
// interview, separated from earlier fragments by a newline
func (s *InterviewService) AppendTranscript(ctx context.Context, interviewID uuid.UUID, fragment string) error {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return ErrInterviewNotFound
	}

	if interview.Transcript == nil || *interview.Transcript == "" {
		interview.Transcript = &fragment
	} else {
		combined := *interview.Transcript + "\n" + fragment
		interview.Transcript = &combined
	}

	if err := s.interviewRepo.Update(ctx, interview); err != nil {
		return fmt.Errorf("failed to update transcript: %w", err)
	}
	return nil
}

// CompleteInterview stamps completion from a voice call-ended event
func (s *InterviewService) CompleteInterview(ctx context.Context, interviewID uuid.UUID) error {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return ErrInterviewNotFound
	}
	now := time.Now()
	interview.Status = models.StatusCompleted
	interview.CompletedAt = &now
	if err := s.interviewRepo.Update(ctx, interview); err != nil {
		return fmt.Errorf("failed to complete interview: %w", err)
	}
	return nil
}

// Analytics returns the user's aggregates, or nil when none exist
func (s *InterviewService) Analytics(ctx context.Context, userID uuid.UUID) (*models.Analytics, error) {
	analytics, err := s.analyticsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return analytics, nil
}

// RecomputeAnalytics rebuilds the user's aggregates from the full set of
// their scored questions. Average is the mean of all non-null scores;
// best is the max (0 if none). A full scan per score change is accepted
// at this scale.
func (s *InterviewService) RecomputeAnalytics(ctx context.Context, userID uuid.UUID) error {
	analytics, err := s.analyticsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	interviews, err := s.interviewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}

	var sum, best float64
	var count int
	for _, interview := range interviews {
		questions, err := s.questionRepo.ListByInterviewID(ctx, interview.ID)
		if err != nil {
			return err
		}
		for _, question := range questions {
			if question.Score == nil {
				continue
			}
			sum += *question.Score
			count++
			if *question.Score > best {
				best = *question.Score
			}
		}
	}

	if count > 0 {
		analytics.AverageScore = sum / float64(count)
	} else {
		analytics.AverageScore = 0
	}
	analytics.BestScore = best
	analytics.TotalInterviews = len(interviews)
	now := time.Now()
	analytics.LastInterviewDate = &now

	return s.analyticsRepo.Update(ctx, analytics)
}
