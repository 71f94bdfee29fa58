package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
)

var (
	ErrImageGenFailed = errors.New("image generation failed, please try again")
	ErrInvalidHorizon = errors.New("months must be 1, 3 or 6")
	ErrNoFaceResults  = errors.New("complete a face scan first")
)

// ProjectionHorizons are the month counts offered for a future projection.
var ProjectionHorizons = []int{1, 3, 6}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProjectionService renders a "future you" image from the latest face scan.
// Premium gating happens in the HTTP layer.
type ProjectionService struct {
	generator ImageGenerator
	profiles  *profile.Manager
}

func NewProjectionService(generator ImageGenerator, profiles *profile.Manager) *ProjectionService {
	return &ProjectionService{generator: generator, profiles: profiles}
}

func (s *ProjectionService) Project(ctx context.Context, deviceID string, months int) (string, error) {
	if !validHorizon(months) {
		return "", ErrInvalidHorizon
	}
	face := s.profiles.For(deviceID).GetFaceResults(ctx)
	if face == nil {
		return "", ErrNoFaceResults
	}

	url, err := s.generator.Generate(ctx, analysis.ProjectionPrompt(face, months))
	if err != nil {
		slog.Error("image generation failed", "device_id", deviceID, "months", months, "error", err)
		return "", ErrImageGenFailed
	}
	return url, nil
}

func validHorizon(months int) bool {
	for _, m := range ProjectionHorizons {
		if m == months {
			return true
		}
	}
	return false
}
