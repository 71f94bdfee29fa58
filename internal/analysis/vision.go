package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
)

var ErrNoProvider = errors.New("no vision provider configured")

// VisionProvider sends one prompt plus images to an external model and
// returns its text reply.
type VisionProvider interface {
	Name() string
	Describe(ctx context.Context, prompt string, images []media.Image) (string, error)
}

type visionRequest struct {
	Messages    []visionMessage `json:"messages"`
	WebAccess   bool            `json:"web_access"`
	Temperature float64         `json:"temperature,omitempty"`
}

type visionMessage struct {
	Role    string              `json:"role"`
	Content []visionContentPart `json:"content"`
}

type visionContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionImageURL struct {
	URL string `json:"url"`
}

// RapidAPIVision talks to a chat-style vision endpoint behind RapidAPI.
type RapidAPIVision struct {
	url        string
	host       string
	apiKey     string
	client     *http.Client
	extractors []TextExtractor
}

func NewRapidAPIVision(url, host, apiKey string, client *http.Client) *RapidAPIVision {
	if client == nil {
		client = http.DefaultClient
	}
	return &RapidAPIVision{
		url:        url,
		host:       host,
		apiKey:     apiKey,
		client:     client,
		extractors: DefaultTextExtractors,
	}
}

func (v *RapidAPIVision) Name() string { return "rapidapi" }

func (v *RapidAPIVision) Describe(ctx context.Context, prompt string, images []media.Image) (string, error) {
	parts := []visionContentPart{{Type: "text", Text: prompt}}
	for _, img := range images {
		parts = append(parts, visionContentPart{Type: "image_url", ImageURL: &visionImageURL{URL: img.DataURL()}})
	}

	payload, err := json.Marshal(visionRequest{
		Messages:    []visionMessage{{Role: "user", Content: parts}},
		WebAccess:   false,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-host", v.host)
	req.Header.Set("x-rapidapi-key", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("vision API error: status %d", resp.StatusCode)
	}

	return ExtractText(body, v.extractors), nil
}
