package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

var ErrNoImageURL = errors.New("could not find image URL in response")

// ImageGenerator asks an external text-to-image endpoint for a projected
// "future" portrait. Unlike Gateway, failures are returned to the caller.
type ImageGenerator struct {
	baseURL    string
	host       string
	apiKey     string
	client     *http.Client
	extractors []URLExtractor
}

func NewImageGenerator(baseURL, host, apiKey string, client *http.Client) *ImageGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageGenerator{
		baseURL:    baseURL,
		host:       host,
		apiKey:     apiKey,
		client:     client,
		extractors: DefaultURLExtractors,
	}
}

func (g *ImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := g.baseURL + "?prompt=" + url.QueryEscape(prompt)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-rapidapi-host", g.host)
	req.Header.Set("x-rapidapi-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("image generation API error: status %d", resp.StatusCode)
	}

	imageURL, ok := ExtractURL(body, g.extractors)
	if !ok {
		return "", ErrNoImageURL
	}
	return imageURL, nil
}

// ProjectionPrompt describes the improved face after the given number of
// months, targeting the fields that scored below 7.
func ProjectionPrompt(face *scoring.FaceScores, months int) string {
	var improvements []string
	if face != nil {
		if face.SkinQuality < 7 {
			improvements = append(improvements, "clearer and more radiant skin")
		}
		if face.Jawline < 7 {
			improvements = append(improvements, "more defined jawline")
		}
		if face.Cheekbones < 7 {
			improvements = append(improvements, "more prominent cheekbones")
		}
		if face.EyeArea < 7 {
			improvements = append(improvements, "brighter more youthful eyes")
		}
	}

	intensity := "significantly"
	switch months {
	case 1:
		intensity = "slightly"
	case 3:
		intensity = "noticeably"
	}

	improvementText := "enhanced facial features and skin quality"
	if len(improvements) > 0 {
		improvementText = strings.Join(improvements, ", ")
	}

	return fmt.Sprintf("Photorealistic portrait of an attractive person with %s improved %s, healthy glowing skin, good lighting, professional photo, high quality, after %d months of skincare and wellness routine",
		intensity, improvementText, months)
}
