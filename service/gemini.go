package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

const (
	// DefaultGeminiModel is the generation model used for both question
	// generation and answer feedback
	DefaultGeminiModel = "gemini-2.0-flash"

	generationTimeout = 30 * time.Second
)

// TextGenerator produces free-form text for a prompt. The remote model is
// treated as an untrusted text stream; callers parse and fall back on
// their own.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is the Gemini-backed TextGenerator
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator wraps a Gemini client. An empty model selects
// DefaultGeminiModel.
func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}
}

// GenerateText sends the prompt to Gemini with a bounded timeout. The
// inbound request context is propagated so an aborted request cancels the
// outbound call.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	result := builder.String()
	if result == "" {
		return "", errors.New("model returned empty content")
	}
	return result, nil
}
