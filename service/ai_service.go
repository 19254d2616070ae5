package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"prepwise-backend/models"
	"prepwise-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrMissingJobRole  = errors.New("job role is required")
	ErrMissingQuestion = errors.New("question and response are required")
)

const defaultQuestionCount = 5

// AIService wraps the generative-language calls for question generation
// and answer feedback. Upstream failures never surface to the caller;
// both operations degrade to fixed fallback content.
type AIService struct {
	generator     TextGenerator
	interviewRepo repository.InterviewRepository
	questionRepo  repository.QuestionRepository
}

// AIServiceOption is a functional option for AIService
type AIServiceOption func(*AIService)

// AIWithGenerator sets the text generator
func AIWithGenerator(g TextGenerator) AIServiceOption {
	return func(s *AIService) {
		s.generator = g
	}
}

// AIWithInterviewRepository sets the interview repository
func AIWithInterviewRepository(repo repository.InterviewRepository) AIServiceOption {
	return func(s *AIService) {
		s.interviewRepo = repo
	}
}

// AIWithQuestionRepository sets the question repository
func AIWithQuestionRepository(repo repository.QuestionRepository) AIServiceOption {
	return func(s *AIService) {
		s.questionRepo = repo
	}
}

// NewAIService creates a new AI service
func NewAIService(opts ...AIServiceOption) *AIService {
	s := &AIService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateQuestionsRequest represents a request to generate interview questions
type GenerateQuestionsRequest struct {
	JobRole     string
	Industry    string
	Difficulty  string
	Count       int
	InterviewID *uuid.UUID
}

// GenerateQuestions asks the model for interview questions and degrades to
// a fixed two-item list when the model fails or returns unparseable text.
// When InterviewID is set, each generated question is persisted under that
// interview as a side effect.
func (s *AIService) GenerateQuestions(ctx context.Context, req GenerateQuestionsRequest) ([]models.GeneratedQuestion, error) {
	if req.JobRole == "" {
		return nil, ErrMissingJobRole
	}
	if req.Count <= 0 {
		req.Count = defaultQuestionCount
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	prompt := buildQuestionsPrompt(req)

	var items []models.GeneratedQuestion
	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Warning: question generation failed, using fallback: %v", err)
		items = fallbackQuestions()
	} else {
		items, err = decodeQuestionList(raw)
		if err != nil {
			log.Printf("Warning: could not parse generated questions, using fallback: %v", err)
			items = fallbackQuestions()
		}
	}

	for i := range items {
		coerceQuestion(&items[i])
	}

	if req.InterviewID != nil {
		s.persistQuestions(ctx, *req.InterviewID, req, items)
	}

	return items, nil
}

func (s *AIService) persistQuestions(ctx context.Context, interviewID uuid.UUID, req GenerateQuestionsRequest, items []models.GeneratedQuestion) {
	if s.interviewRepo == nil || s.questionRepo == nil {
		return
	}
	if _, err := s.interviewRepo.GetByID(ctx, interviewID); err != nil {
		log.Printf("Warning: interview %s not found, skipping question persistence", interviewID)
		return
	}

	for _, item := range items {
		var sampleAnswer *string
		if item.SampleAnswer != "" {
			answer := item.SampleAnswer
			sampleAnswer = &answer
		}
		question := &models.Question{
			ID:               uuid.New(),
			InterviewID:      interviewID,
			Category:         item.Category,
			Industry:         req.Industry,
			Difficulty:       req.Difficulty,
			QuestionText:     item.Question,
			ExpectedKeywords: item.ExpectedKeywords,
			SampleAnswer:     sampleAnswer,
			ExpectedAnswer:   item.ExpectedAnswer,
		}
		if err := s.questionRepo.Create(ctx, question); err != nil {
			log.Printf("Warning: failed to persist generated question: %v", err)
		}
	}
}

// decodeQuestionList parses the model's raw text by locating the first
// balanced JSON array. A decode failure is a first-class outcome; the
// caller substitutes fallback content.
func decodeQuestionList(raw string) ([]models.GeneratedQuestion, error) {
	text, ok := extractJSONArray(raw)
	if !ok {
		return nil, errors.New("no JSON array found in model output")
	}
	var items []models.GeneratedQuestion
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("failed to decode question list: %w", err)
	}
	// A well-formed empty array is a valid answer, not a decode failure
	return items, nil
}

func coerceQuestion(q *models.GeneratedQuestion) {
	if q.Question == "" {
		q.Question = "Please describe your experience with this role."
	}
	if q.Category == "" {
		q.Category = "general"
	}
	if q.ExpectedKeywords == nil {
		q.ExpectedKeywords = []string{}
	}
}

func fallbackQuestions() []models.GeneratedQuestion {
	return []models.GeneratedQuestion{
		{
			Question:         "Tell me about yourself and your experience in this field.",
			Category:         "general",
			ExpectedKeywords: []string{"experience", "skills", "background"},
			ExpectedAnswer:   "A concise summary of relevant experience and skills",
			SampleAnswer:     "I have X years of experience in [field] with expertise in [specific skills]...",
		},
		{
			Question:         "What are your strengths and weaknesses?",
			Category:         "behavioral",
			ExpectedKeywords: []string{"strengths", "weaknesses", "improvement"},
			ExpectedAnswer:   "Honest assessment with examples and improvement plans",
			SampleAnswer:     "My strengths include [specific examples]. For weaknesses, I'm working on [improvement plan]...",
		},
	}
}

func buildQuestionsPrompt(req GenerateQuestionsRequest) string {
	industryClause := ""
	if req.Industry != "" {
		industryClause = fmt.Sprintf(" in the %s industry", req.Industry)
	}

	return fmt.Sprintf(`Generate %d interview questions for a %s level %s position%s.

Please provide questions that are appropriate for the difficulty level and relevant to the role.

For each question, provide:
1. The question text
2. The category (technical, behavioral, situational, general)
3. Expected keywords that should be mentioned
4. A sample answer or key points to cover

Format your response as JSON:
[
  {
    "question": "question text here",
    "category": "technical|behavioral|situational|general",
    "expected_keywords": ["keyword1", "keyword2"],
    "expected_answer": "brief description of what a good answer should include",
    "sample_answer": "example of a good answer"
  }
]`, req.Count, req.Difficulty, req.JobRole, industryClause)
}

// ScoreAnswerRequest represents a request to score an interview answer
type ScoreAnswerRequest struct {
	Question    string
	Response    string
	InterviewID *uuid.UUID
}

// ScoreAnswer asks the model to score an answer and degrades to a fixed
// default when the model fails, returns unparseable text, or produces a
// score outside [1,10]. The returned score is always within [1,10].
// When InterviewID is set, the feedback and score are attached to that
// interview as a side effect.
func (s *AIService) ScoreAnswer(ctx context.Context, req ScoreAnswerRequest) (*models.FeedbackResult, error) {
	if req.Question == "" || req.Response == "" {
		return nil, ErrMissingQuestion
	}

	prompt := buildFeedbackPrompt(req.Question, req.Response)

	var result *models.FeedbackResult
	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Warning: feedback generation failed, using fallback: %v", err)
		result = fallbackFeedback()
	} else {
		result, err = decodeFeedback(raw)
		if err != nil {
			log.Printf("Warning: could not parse feedback, using fallback: %v", err)
			result = fallbackFeedback()
		}
	}

	if result.Score < 1 {
		result.Score = 1
	} else if result.Score > 10 {
		result.Score = 10
	}
	if len(result.Suggestions) == 0 {
		result.Suggestions = defaultSuggestions()
	}

	if req.InterviewID != nil {
		s.attachFeedback(ctx, *req.InterviewID, result)
	}

	return result, nil
}

func (s *AIService) attachFeedback(ctx context.Context, interviewID uuid.UUID, result *models.FeedbackResult) {
	if s.interviewRepo == nil {
		return
	}
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		log.Printf("Warning: interview %s not found, skipping feedback attach", interviewID)
		return
	}
	feedback := result.Feedback
	score := float64(result.Score)
	interview.Feedback = &feedback
	interview.Score = &score
	if err := s.interviewRepo.Update(ctx, interview); err != nil {
		log.Printf("Warning: failed to attach feedback to interview %s: %v", interviewID, err)
	}
}

// decodeFeedback parses the model's raw text by locating the first
// balanced JSON object. A missing, non-numeric, or out-of-range score is
// treated the same as a parse failure.
func decodeFeedback(raw string) (*models.FeedbackResult, error) {
	text, ok := extractJSONObject(raw)
	if !ok {
		return nil, errors.New("no JSON object found in model output")
	}

	var parsed struct {
		Feedback        string                  `json:"feedback"`
		Score           *float64                `json:"score"`
		Suggestions     []string                `json:"suggestions"`
		Strengths       []string                `json:"strengths"`
		Improvements    []string                `json:"improvements"`
		KeywordAnalysis *models.KeywordAnalysis `json:"keyword_analysis"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	if parsed.Score == nil {
		return nil, errors.New("feedback is missing a score")
	}
	if *parsed.Score < 1 || *parsed.Score > 10 {
		return nil, fmt.Errorf("score %v is outside the 1-10 range", *parsed.Score)
	}

	return &models.FeedbackResult{
		Feedback:        parsed.Feedback,
		Score:           int(math.Round(*parsed.Score)),
		Suggestions:     parsed.Suggestions,
		Strengths:       parsed.Strengths,
		Improvements:    parsed.Improvements,
		KeywordAnalysis: parsed.KeywordAnalysis,
	}, nil
}

func fallbackFeedback() *models.FeedbackResult {
	return &models.FeedbackResult{
		Feedback:    "I couldn't analyze your response at this time. Please try again.",
		Score:       5,
		Suggestions: defaultSuggestions(),
	}
}

func defaultSuggestions() []string {
	return []string{
		"Try to be more specific in your answer",
		"Provide concrete examples",
		"Structure your response clearly",
	}
}

func buildFeedbackPrompt(question, response string) string {
	var builder strings.Builder
	builder.WriteString("You are an expert interview coach. Analyze this interview response and provide constructive feedback.\n\n")
	builder.WriteString(fmt.Sprintf("Question: %s\nResponse: %s\n\n", question, response))
	builder.WriteString(`Please provide:
1. A score from 1-10 (where 10 is excellent)
2. Specific feedback on what was good and what could be improved
3. 2-3 actionable suggestions for improvement
4. Keyword analysis of what was mentioned and what was missing

Format your response as JSON:
{
  "feedback": "detailed feedback here",
  "score": number,
  "suggestions": ["suggestion1", "suggestion2", "suggestion3"],
  "strengths": ["strength1", "strength2"],
  "improvements": ["improvement1", "improvement2"],
  "keyword_analysis": {
    "keywords_used": ["keyword1", "keyword2"],
    "keywords_missing": ["missing1", "missing2"]
  }
}`)
	return builder.String()
}
