package handlers

import (
	"errors"
	"net/http"

	"prepwise-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AIHandler handles HTTP requests for AI question generation and answer
// feedback
type AIHandler struct {
	aiService *service.AIService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// GenerateQuestionsRequest represents the request body for question
// generation
type GenerateQuestionsRequest struct {
	JobRole     string  `json:"job_role"`
	Industry    string  `json:"industry"`
	Difficulty  string  `json:"difficulty"`
	Count       int     `json:"count"`
	InterviewID *string `json:"interview_id"`
}

// GenerateQuestions handles POST /api/ai/questions. Model failures do
// not surface as errors; the canned fallback list comes back with 200.
func (h *AIHandler) GenerateQuestions(c *gin.Context) {
	var req GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.GenerateQuestionsRequest{
		JobRole:    req.JobRole,
		Industry:   req.Industry,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	}
	if req.InterviewID != nil {
		interviewID, err := uuid.Parse(*req.InterviewID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ID",
					"message": "Invalid interview_id format",
				},
			})
			return
		}
		serviceReq.InterviewID = &interviewID
	}

	questions, err := h.aiService.GenerateQuestions(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrMissingJobRole) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_JOB_ROLE",
					"message": "job_role is required",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GENERATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"questions": questions},
	})
}

// FeedbackRequest represents the request body for answer feedback
type FeedbackRequest struct {
	Question    string  `json:"question"`
	Response    string  `json:"response"`
	InterviewID *string `json:"interview_id"`
}

// Feedback handles POST /api/ai/feedback. Like question generation,
// model failures degrade to a canned result under a 200.
func (h *AIHandler) Feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.ScoreAnswerRequest{
		Question: req.Question,
		Response: req.Response,
	}
	if req.InterviewID != nil {
		interviewID, err := uuid.Parse(*req.InterviewID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ID",
					"message": "Invalid interview_id format",
				},
			})
			return
		}
		serviceReq.InterviewID = &interviewID
	}

	result, err := h.aiService.ScoreAnswer(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrMissingQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_FIELDS",
					"message": "question and response are required",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FEEDBACK_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
