package models

// WebhookEventType identifies a voice-vendor lifecycle event
type WebhookEventType string

const (
	EventCallStarted    WebhookEventType = "call-started"
	EventTranscript     WebhookEventType = "transcript"
	EventQuestionAsked  WebhookEventType = "question-asked"
	EventQuestionScored WebhookEventType = "question-scored"
	EventCallEnded      WebhookEventType = "call-ended"
	EventUnknown        WebhookEventType = "unknown"
)

// ParseWebhookEventType maps the wire tag to a known variant.
// Unrecognized tags collapse to EventUnknown, which handlers treat as a no-op.
func ParseWebhookEventType(s string) WebhookEventType {
	switch WebhookEventType(s) {
	case EventCallStarted, EventTranscript, EventQuestionAsked, EventQuestionScored, EventCallEnded:
		return WebhookEventType(s)
	}
	return EventUnknown
}

// WebhookEvent is the inbound payload from the voice vendor
type WebhookEvent struct {
	Type     string          `json:"type"`
	Data     WebhookData     `json:"data"`
	Metadata WebhookMetadata `json:"metadata"`
}

// WebhookData carries event-specific fields
type WebhookData struct {
	QuestionID   string   `json:"questionId"`
	Question     string   `json:"question"`
	Category     string   `json:"category"`
	Industry     string   `json:"industry"`
	Difficulty   string   `json:"difficulty"`
	Score        *float64 `json:"score"`
	Feedback     string   `json:"feedback"`
	UserResponse string   `json:"user_response"`
}

// WebhookMetadata carries correlation identifiers supplied at call setup
type WebhookMetadata struct {
	UserID      string `json:"userId"`
	InterviewID string `json:"interviewId"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Industry    string `json:"industry"`
	Difficulty  string `json:"difficulty"`
}
