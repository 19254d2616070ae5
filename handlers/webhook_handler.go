package handlers

import (
	"log"
	"net/http"

	"prepwise-backend/config"
	"prepwise-backend/models"
	"prepwise-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler handles inbound events from the voice vendor
type WebhookHandler struct {
	interviewService *service.InterviewService
	cfg              *config.Config
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(interviewService *service.InterviewService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		interviewService: interviewService,
		cfg:              cfg,
	}
}

// HandleWebhook handles POST /api/vapi/webhook. A bad signature gets a
// 401; every other problem is logged and acknowledged with 200 so the
// vendor does not retry storms against us.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	if h.cfg.VapiWebhookSecret != "" {
		if c.GetHeader("X-Vapi-Signature") != h.cfg.VapiWebhookSecret {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_SIGNATURE",
					"message": "Webhook signature mismatch",
				},
			})
			return
		}
	}

	var event models.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		log.Printf("Warning: unparseable webhook payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	ctx := c.Request.Context()

	switch models.ParseWebhookEventType(event.Type) {
	case models.EventCallStarted:
		if event.Metadata.InterviewID != "" {
			// caller already holds an interview; nothing to create
			break
		}
		userID, err := uuid.Parse(event.Metadata.UserID)
		if err != nil {
			log.Printf("Warning: call-started with bad userId %q: %v", event.Metadata.UserID, err)
			break
		}
		title := event.Metadata.JobTitle
		if title == "" {
			title = "Voice Interview"
		}
		interview, err := h.interviewService.CreateInterview(ctx, service.CreateInterviewRequest{
			UserID:     userID,
			Title:      title,
			Company:    event.Metadata.Company,
			JobRole:    event.Metadata.JobTitle,
			Industry:   event.Metadata.Industry,
			Difficulty: event.Metadata.Difficulty,
			Type:       "general",
		})
		if err != nil {
			log.Printf("Warning: failed to create interview for call-started: %v", err)
			break
		}
		c.JSON(http.StatusOK, gin.H{"received": true, "interviewId": interview.ID})
		return

	case models.EventTranscript:
		interviewID, err := uuid.Parse(event.Metadata.InterviewID)
		if err != nil {
			log.Printf("Warning: transcript event with bad interviewId %q: %v", event.Metadata.InterviewID, err)
			break
		}
		if err := h.interviewService.AppendTranscript(ctx, interviewID, event.Data.UserResponse); err != nil {
			log.Printf("Warning: failed to append transcript to interview %s: %v", interviewID, err)
		}

	case models.EventQuestionAsked:
		interviewID, err := uuid.Parse(event.Metadata.InterviewID)
		if err != nil {
			log.Printf("Warning: question-asked event with bad interviewId %q: %v", event.Metadata.InterviewID, err)
			break
		}
		_, err = h.interviewService.CreateVoiceQuestion(ctx, interviewID, service.CreateQuestionRequest{
			Category:     event.Data.Category,
			Industry:     event.Data.Industry,
			Difficulty:   event.Data.Difficulty,
			QuestionText: event.Data.Question,
		})
		if err != nil {
			log.Printf("Warning: failed to create question for interview %s: %v", interviewID, err)
		}

	case models.EventQuestionScored:
		questionID, err := uuid.Parse(event.Data.QuestionID)
		if err != nil {
			log.Printf("Warning: question-scored event with bad questionId %q: %v", event.Data.QuestionID, err)
			break
		}
		var userID *uuid.UUID
		if parsed, err := uuid.Parse(event.Metadata.UserID); err == nil {
			userID = &parsed
		}
		if err := h.interviewService.ScoreQuestion(ctx, questionID, event.Data.Score, event.Data.Feedback, event.Data.UserResponse, userID); err != nil {
			log.Printf("Warning: failed to score question %s: %v", questionID, err)
		}

	case models.EventCallEnded:
		interviewID, err := uuid.Parse(event.Metadata.InterviewID)
		if err != nil {
			log.Printf("Warning: call-ended event with bad interviewId %q: %v", event.Metadata.InterviewID, err)
			break
		}
		if err := h.interviewService.CompleteInterview(ctx, interviewID); err != nil {
			log.Printf("Warning: failed to complete interview %s: %v", interviewID, err)
		}

	case models.EventUnknown:
		log.Printf("Warning: ignoring unknown webhook event type %q", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// GetToken handles POST /api/vapi/token. Hands the configured vendor
// key to an authenticated client so the browser can start a call.
func (h *WebhookHandler) GetToken(c *gin.Context) {
	if h.cfg.VapiAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_CONFIGURED",
				"message": "Voice calls are not configured",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"token": h.cfg.VapiAPIKey},
	})
}
