package service

import (
	"context"
	"errors"
	"testing"

	"prepwise-backend/models"
	"prepwise-backend/repository"

	"github.com/google/uuid"
)

type stubGenerator struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generateFn(ctx, prompt)
}

func fixedOutput(raw string) *stubGenerator {
	return &stubGenerator{
		generateFn: func(ctx context.Context, prompt string) (string, error) {
			return raw, nil
		},
	}
}

func failingGenerator() *stubGenerator {
	return &stubGenerator{
		generateFn: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("upstream unavailable")
		},
	}
}

func TestGenerateQuestionsRequiresJobRole(t *testing.T) {
	svc := NewAIService(AIWithGenerator(fixedOutput("[]")))
	if _, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{}); !errors.Is(err, ErrMissingJobRole) {
		t.Fatalf("expected ErrMissingJobRole, got %v", err)
	}
}

func TestGenerateQuestionsParsesModelOutput(t *testing.T) {
	raw := "Sure, here you go:\n```json\n[" +
		`{"question": "Explain goroutines", "category": "technical", "expected_keywords": ["concurrency"]},` +
		`{"question": "Describe a conflict you resolved"}` +
		"]\n```"
	svc := NewAIService(AIWithGenerator(fixedOutput(raw)))

	items, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{JobRole: "Backend Engineer"})
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(items))
	}
	if items[0].Question != "Explain goroutines" || items[0].Category != "technical" {
		t.Fatalf("unexpected first question: %+v", items[0])
	}
	// missing fields are defaulted
	if items[1].Category != "general" {
		t.Fatalf("expected defaulted category, got %q", items[1].Category)
	}
	if items[1].ExpectedKeywords == nil {
		t.Fatalf("expected non-nil keywords")
	}
}

func TestGenerateQuestionsFallsBackOnBadOutput(t *testing.T) {
	cases := map[string]*stubGenerator{
		"prose only":    fixedOutput("I cannot produce JSON today."),
		"broken json":   fixedOutput(`[{"question": "oops"`),
		"model failure": failingGenerator(),
	}

	for name, gen := range cases {
		svc := NewAIService(AIWithGenerator(gen))
		items, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{JobRole: "Analyst"})
		if err != nil {
			t.Fatalf("%s: expected fallback, got error %v", name, err)
		}
		if len(items) != 2 {
			t.Fatalf("%s: expected 2 fallback questions, got %d", name, len(items))
		}
		if items[0].Question != "Tell me about yourself and your experience in this field." {
			t.Fatalf("%s: unexpected fallback content: %q", name, items[0].Question)
		}
	}
}

func TestGenerateQuestionsAcceptsEmptyList(t *testing.T) {
	svc := NewAIService(AIWithGenerator(fixedOutput("[]")))

	items, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{JobRole: "Analyst"})
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected an empty list to pass through, got %d questions", len(items))
	}
}

func TestGenerateQuestionsPersistsUnderInterview(t *testing.T) {
	interviewRepo := repository.NewMemoryInterviewRepository()
	questionRepo := repository.NewMemoryQuestionRepository()

	interview := &models.Interview{ID: uuid.New(), UserID: uuid.New(), Status: models.StatusInProgress}
	if err := interviewRepo.Create(context.Background(), interview); err != nil {
		t.Fatalf("failed to seed interview: %v", err)
	}

	raw := `[{"question": "Q1", "category": "technical"}, {"question": "Q2"}, {"question": "Q3", "sample_answer": "A3"}]`
	svc := NewAIService(
		AIWithGenerator(fixedOutput(raw)),
		AIWithInterviewRepository(interviewRepo),
		AIWithQuestionRepository(questionRepo),
	)

	_, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{
		JobRole:     "SRE",
		Industry:    "tech",
		InterviewID: &interview.ID,
	})
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}

	stored, err := questionRepo.ListByInterviewID(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("ListByInterviewID failed: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 persisted questions, got %d", len(stored))
	}
	if stored[0].QuestionText != "Q1" || stored[0].Industry != "tech" {
		t.Fatalf("unexpected persisted question: %+v", stored[0])
	}
	if stored[2].SampleAnswer == nil || *stored[2].SampleAnswer != "A3" {
		t.Fatalf("expected sample answer to survive persistence")
	}
}

func TestGenerateQuestionsSkipsPersistenceForMissingInterview(t *testing.T) {
	interviewRepo := repository.NewMemoryInterviewRepository()
	questionRepo := repository.NewMemoryQuestionRepository()
	missing := uuid.New()

	svc := NewAIService(
		AIWithGenerator(fixedOutput(`[{"question": "Q1"}]`)),
		AIWithInterviewRepository(interviewRepo),
		AIWithQuestionRepository(questionRepo),
	)

	items, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{
		JobRole:     "SRE",
		InterviewID: &missing,
	})
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected questions despite missing interview, got %d", len(items))
	}

	stored, _ := questionRepo.ListByInterviewID(context.Background(), missing)
	if len(stored) != 0 {
		t.Fatalf("expected nothing persisted for a missing interview")
	}
}

func TestScoreAnswerRequiresQuestionAndResponse(t *testing.T) {
	svc := NewAIService(AIWithGenerator(fixedOutput("{}")))
	if _, err := svc.ScoreAnswer(context.Background(), ScoreAnswerRequest{Question: "Q"}); !errors.Is(err, ErrMissingQuestion) {
		t.Fatalf("expected ErrMissingQuestion, got %v", err)
	}
	if _, err := svc.ScoreAnswer(context.Background(), ScoreAnswerRequest{Response: "R"}); !errors.Is(err, ErrMissingQuestion) {
		t.Fatalf("expected ErrMissingQuestion, got %v", err)
	}
}

func TestScoreAnswerParsesModelOutput(t *testing.T) {
	raw := `{"feedback": "Solid answer", "score": 8.4, "suggestions": ["more detail"], "keyword_analysis": {"keywords_used": ["scaling"], "keywords_missing": ["latency"]}}`
	svc := NewAIService(AIWithGenerator(fixedOutput(raw)))

	result, err := svc.ScoreAnswer(context.Background(), ScoreAnswerRequest{Question: "Q", Response: "R"})
	if err != nil {
		t.Fatalf("ScoreAnswer failed: %v", err)
	}
	if result.Feedback != "Solid answer" {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
	if result.Score != 8 {
		t.Fatalf("expected rounded score 8, got %d", result.Score)
	}
	if result.KeywordAnalysis == nil || len(result.KeywordAnalysis.KeywordsMissing) != 1 {
		t.Fatalf("expected keyword analysis to survive decoding")
	}
}

func TestScoreAnswerScoreAlwaysInRange(t *testing.T) {
	outputs := []string{
		`{"feedback": "f", "score": 0}`,
		`{"feedback": "f", "score": 57}`,
		`{"feedback": "f", "score": -3}`,
		`{"feedback": "f", "score": "high"}`,
		`{"feedback": "f"}`,
		`not json at all`,
	}

	for _, raw := range outputs {
		svc := NewAIService(AIWithGenerator(fixedOutput(raw)))
		result, err := svc.ScoreAnswer(context.Background(), ScoreAnswerRequest{Question: "Q", Response: "R"})
		if err != nil {
			t.Fatalf("output %q: expected fallback, got error %v", raw, err)
		}
		if result.Score < 1 || result.Score > 10 {
			t.Fatalf("output %q: score %d out of range", raw, result.Score)
		}
		// malformed scores mean the whole result is the fallback
		if result.Score != 5 {
			t.Fatalf("output %q: expected fallback score 5, got %d", raw, result.Score)
		}
		if len(result.Suggestions) == 0 {
			t.Fatalf("output %q: expected default suggestions", raw)
		}
	}
}

func TestScoreAnswerFallbackOnModelFailure(t *testing.T) {
	svc := NewAIService(AIWithGenerator(failingGenerator()))
	result, err := svc.ScoreAnswer(context.Background(), ScoreAnswerRequest{Question: "Q", Response: "R"})
	if err != nil {
		t.Fatalf("expected fallback, got error %v", err)
	}
	if result.Feedback != "I couldn't analyze your response at this time. Please try again." {
		t.Fatalf("unexpected fallback feedback: %q", result.Feedback)
	}
	if result.Score != 5 {
		t.Fatalf("expected fallback score 5, got %d", result.Score)
	}
}

func TestScoreAnswerAttachesToInterview(t *testing.T) {
	interviewRepo := repository.NewMemoryInterviewRepository()
	interview := &models.Interview{ID: uuid.New(), UserID: uuid.New(), Status: models.StatusInProgress}
	if err := interviewRepo.Create(context.Background(), interview); err != nil {
		t.Fatalf("failed to seed interview: %v", err)
	}

	svc := NewAIService(
		AIWithGenerator(fixedOutput(`{"feedback": "Nice", "score": 9}`)),
		AIWithInterviewRepository(interviewRepo),
	)

	_, err := svc.ScoreAnswer(context.Background(), ScoreAnswerRequest{
		Question:    "Q",
		Response:    "R",
		InterviewID: &interview.ID,
	})
	if err != nil {
		t.Fatalf("ScoreAnswer failed: %v", err)
	}

	stored, err := interviewRepo.GetByID(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Feedback == nil || *stored.Feedback != "Nice" {
		t.Fatalf("expected feedback attached to interview")
	}
	if stored.Score == nil || *stored.Score != 9 {
		t.Fatalf("expected score attached to interview")
	}
}
