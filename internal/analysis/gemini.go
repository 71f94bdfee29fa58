package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
)

// GeminiVision is the alternate provider, selected with VISION_PROVIDER=gemini.
type GeminiVision struct {
	apiKey string
	model  string
}

func NewGeminiVision(apiKey, model string) *GeminiVision {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiVision{apiKey: apiKey, model: model}
}

func (g *GeminiVision) Name() string { return "gemini" }

func (g *GeminiVision) Describe(ctx context.Context, prompt string, images []media.Image) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.7)

	parts := []genai.Part{genai.Text(prompt)}
	for _, img := range images {
		parts = append(parts, genai.ImageData(img.Format(), img.Data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("unexpected response format (no text parts)")
	}
	return b.String(), nil
}
