package handlers

import (
	"errors"
	"net/http"

	"prepwise-backend/models"
	"prepwise-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InterviewHandler handles HTTP requests for interviews, questions, and
// analytics
type InterviewHandler struct {
	interviewService *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewService *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
	}
}

// CreateInterviewRequest represents the request body for creating an
// interview
type CreateInterviewRequest struct {
	Title      string `json:"title"`
	Company    string `json:"company"`
	JobRole    string `json:"job_role"`
	Industry   string `json:"industry"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
	Duration   int    `json:"duration"`
}

// CreateInterview handles POST /api/interviews
func (h *InterviewHandler) CreateInterview(c *gin.Context) {
	var req CreateInterviewRequest
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

	interview, err := h.interviewService.CreateInterview(c.Request.Context(), service.CreateInterviewRequest{
		UserID:     sessionUserID(c),
		Title:      req.Title,
		Company:    req.Company,
		JobRole:    req.JobRole,
		Industry:   req.Industry,
		Difficulty: req.Difficulty,
		Type:       req.Type,
		Duration:   req.Duration,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    interview,
	})
}

// ListInterviews handles GET /api/interviews
func (h *InterviewHandler) ListInterviews(c *gin.Context) {
	interviews, err := h.interviewService.ListInterviews(c.Request.Context(), sessionUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    interviews,
	})
}

// UpdateInterviewRequest represents the request body for updating an
// interview. Pointer fields distinguish omitted from explicit values.
type UpdateInterviewRequest struct {
	Title        *string  `json:"title"`
	Company      *string  `json:"company"`
	JobRole      *string  `json:"job_role"`
	Industry     *string  `json:"industry"`
	Difficulty   *string  `json:"difficulty"`
	Type         *string  `json:"type"`
	Duration     *int     `json:"duration"`
	Score        *float64 `json:"score"`
	Feedback     *string  `json:"feedback"`
	Transcript   *string  `json:"transcript"`
	Status       *string  `json:"status"`
	OverallScore *float64 `json:"overall_score"`
}

// UpdateInterview handles PUT /api/interviews/:id
func (h *InterviewHandler) UpdateInterview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid interview ID format",
			},
		})
		return
	}

	var req UpdateInterviewRequest
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

	patch := service.UpdateInterviewPatch{
		Title:        req.Title,
		Company:      req.Company,
		JobRole:      req.JobRole,
		Industry:     req.Industry,
		Difficulty:   req.Difficulty,
		Type:         req.Type,
		Duration:     req.Duration,
		Score:        req.Score,
		Feedback:     req.Feedback,
		Transcript:   req.Transcript,
		OverallScore: req.OverallScore,
	}
	if req.Status != nil {
		status := models.InterviewStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown interview status",
				},
			})
			return
		}
		patch.Status = &status
	}

	interview, err := h.interviewService.UpdateInterview(c.Request.Context(), sessionUserID(c), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInterviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Interview not found",
				},
			})
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": "Interview status cannot change that way",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPDATE_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    interview,
	})
}

// ListQuestions handles GET /api/interviews/:id/questions
func (h *InterviewHandler) ListQuestions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid interview ID format",
			},
		})
		return
	}

	questions, err := h.interviewService.ListQuestions(c.Request.Context(), sessionUserID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Interview not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questions,
	})
}

// CreateQuestionRequest represents the request body for creating a
// question under an interview
type CreateQuestionRequest struct {
	Category         string   `json:"category"`
	Industry         string   `json:"industry"`
	Difficulty       string   `json:"difficulty"`
	QuestionText     string   `json:"question_text" binding:"required"`
	ExpectedKeywords []string `json:"expected_keywords"`
	SampleAnswer     *string  `json:"sample_answer"`
	ExpectedAnswer   string   `json:"expected_answer"`
}

// CreateQuestion handles POST /api/interviews/:id/questions
func (h *InterviewHandler) CreateQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid interview ID format",
			},
		})
		return
	}

	var req CreateQuestionRequest
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

	question, err := h.interviewService.CreateQuestion(c.Request.Context(), sessionUserID(c), id, service.CreateQuestionRequest{
		Category:         req.Category,
		Industry:         req.Industry,
		Difficulty:       req.Difficulty,
		QuestionText:     req.QuestionText,
		ExpectedKeywords: req.ExpectedKeywords,
		SampleAnswer:     req.SampleAnswer,
		ExpectedAnswer:   req.ExpectedAnswer,
	})
	if err != nil {
		if errors.Is(err, service.ErrInterviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Interview not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    question,
	})
}

// UpdateQuestionRequest represents the request body for updating a
// question
type UpdateQuestionRequest struct {
	Category         *string  `json:"category"`
	Industry         *string  `json:"industry"`
	Difficulty       *string  `json:"difficulty"`
	QuestionText     *string  `json:"question_text"`
	ExpectedKeywords []string `json:"expected_keywords"`
	SampleAnswer     *string  `json:"sample_answer"`
	UserResponse     *string  `json:"user_response"`
	AIFeedback       *string  `json:"ai_feedback"`
	Score            *float64 `json:"score"`
	ExpectedAnswer   *string  `json:"expected_answer"`
}

// UpdateQuestion handles PUT /api/questions/:id. Scoring a question
// through here triggers an analytics recompute for the owner.
func (h *InterviewHandler) UpdateQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid question ID format",
			},
		})
		return
	}

	var req UpdateQuestionRequest
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

	question, err := h.interviewService.UpdateQuestion(c.Request.Context(), sessionUserID(c), id, service.UpdateQuestionPatch{
		Category:         req.Category,
		Industry:         req.Industry,
		Difficulty:       req.Difficulty,
		QuestionText:     req.QuestionText,
		ExpectedKeywords: req.ExpectedKeywords,
		SampleAnswer:     req.SampleAnswer,
		UserResponse:     req.UserResponse,
		AIFeedback:       req.AIFeedback,
		Score:            req.Score,
		ExpectedAnswer:   req.ExpectedAnswer,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Question not found",
				},
			})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Question belongs to another user",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPDATE_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    question,
	})
}

// GetAnalytics handles GET /api/analytics. A user with no analytics
// record gets a null data payload, not an error.
func (h *InterviewHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.interviewService.Analytics(c.Request.Context(), sessionUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    analytics,
	})
}
