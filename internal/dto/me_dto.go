package dto

import (
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/recommend"
)

// ScanRequest carries photos as data URLs or bare base64.
type ScanRequest struct {
	Image     string `json:"image"`
	SideImage string `json:"side_image,omitempty"`
}

type ActivatePremiumRequest struct {
	Plan profile.Plan `json:"plan"`
}

type FutureRequest struct {
	Months int `json:"months"`
}

type FutureResponse struct {
	ImageURL string `json:"image_url"`
	Months   int    `json:"months"`
}

// ResultsResponse holds either full scores or, when Locked, the preview.
type ResultsResponse struct {
	Locked  bool `json:"locked"`
	Results any  `json:"results"`
}

// ScanResponse is what a fresh scan returns. Results follow the same locking
// rule as ResultsResponse; the plan is always included.
type ScanResponse struct {
	Locked  bool           `json:"locked"`
	Results any            `json:"results"`
	Plan    recommend.Plan `json:"plan"`
}

type HistoryResponse struct {
	Locked  bool                   `json:"locked"`
	History []profile.HistoryEntry `json:"history"`
}

type ScorePreview struct {
	Overall   float64 `json:"overall"`
	Potential float64 `json:"potential"`
}

type OnboardingResponse struct {
	Step           onboarding.Step   `json:"step"`
	Next           []onboarding.Step `json:"next"`
	SetupCompleted bool              `json:"setup_completed"`
	Gender         string            `json:"gender,omitempty"`
	Goals          []string          `json:"goals"`
}

type CoachMessageRequest struct {
	Text string `json:"text"`
}
