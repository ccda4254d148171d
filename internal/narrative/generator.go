// Package narrative produces Markdown attendance reports with a text
// generation model. Generation failures never reach callers: each report
// has a fixed fallback text.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrDisabled is returned by DisabledGenerator.
var ErrDisabled = errors.New("text generation is not configured")

// DisabledGenerator is used when no API key is configured.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// GeminiGenerator generates text with the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiGenerator creates a Gemini client for model. Each Generate call
// is bounded by timeout when it is positive.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gemini client: %w", err)
	}
	slog.Info("Gemini API client initialized", "model", model)

	return &GeminiGenerator{
		client:  client,
		model:   client.GenerativeModel(model),
		timeout: timeout,
	}, nil
}

// Generate sends prompt and returns the text parts of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp), nil
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
