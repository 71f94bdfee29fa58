package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/recommend"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

// ErrAnalysisFailed is the only failure a scan reports to the device. The
// cause is logged.
var ErrAnalysisFailed = errors.New("analysis failed, please try again")

// Analyzer never fails; see analysis.Gateway.
type Analyzer interface {
	AnalyzeFace(ctx context.Context, front media.Image, side *media.Image) scoring.FaceScores
	AnalyzeBody(ctx context.Context, img media.Image) scoring.BodyScores
}

type FaceScan struct {
	Results scoring.FaceScores `json:"results"`
	Plan    recommend.Plan     `json:"plan"`
}

type BodyScan struct {
	Results scoring.BodyScores `json:"results"`
	Plan    recommend.Plan     `json:"plan"`
}

// ScanService runs capture, analysis and persistence for one photo set.
type ScanService struct {
	analyzer Analyzer
	images   media.Store
	profiles *profile.Manager
}

func NewScanService(analyzer Analyzer, images media.Store, profiles *profile.Manager) *ScanService {
	return &ScanService{analyzer: analyzer, images: images, profiles: profiles}
}

func (s *ScanService) ScanFace(ctx context.Context, deviceID string, front media.Image, side *media.Image) (*FaceScan, error) {
	store := s.profiles.For(deviceID)
	flow := onboarding.New(store)

	refs := profile.Images{}
	var err error
	if refs.Front, err = s.images.Put(ctx, deviceID, "face-front", front); err != nil {
		return nil, s.fail(deviceID, scoring.VariantFace, "storing capture", err)
	}
	if side != nil {
		if refs.Side, err = s.images.Put(ctx, deviceID, "face-side", *side); err != nil {
			return nil, s.fail(deviceID, scoring.VariantFace, "storing capture", err)
		}
	}
	if err := store.SaveFaceImages(ctx, refs); err != nil {
		return nil, s.fail(deviceID, scoring.VariantFace, "saving capture", err)
	}
	if flow.Current(ctx) == onboarding.StepNotificationsPrompted {
		if _, err := flow.Advance(ctx, onboarding.StepFaceCaptured, onboarding.Input{}); err != nil {
			return nil, s.fail(deviceID, scoring.VariantFace, "advancing onboarding", err)
		}
	}

	results := s.analyzer.AnalyzeFace(ctx, front, side)
	if err := store.SaveFaceResult(ctx, results); err != nil {
		return nil, s.fail(deviceID, scoring.VariantFace, "saving result", err)
	}
	if flow.Current(ctx) == onboarding.StepFaceCaptured {
		if _, err := flow.Advance(ctx, onboarding.StepFaceAnalyzed, onboarding.Input{}); err != nil {
			return nil, s.fail(deviceID, scoring.VariantFace, "advancing onboarding", err)
		}
	}

	return &FaceScan{Results: results, Plan: recommend.ForFace(results)}, nil
}

func (s *ScanService) ScanBody(ctx context.Context, deviceID string, img media.Image) (*BodyScan, error) {
	store := s.profiles.For(deviceID)

	ref, err := s.images.Put(ctx, deviceID, "body-front", img)
	if err != nil {
		return nil, s.fail(deviceID, scoring.VariantBody, "storing capture", err)
	}
	if err := store.SaveBodyImages(ctx, profile.Images{Front: ref}); err != nil {
		return nil, s.fail(deviceID, scoring.VariantBody, "saving capture", err)
	}

	results := s.analyzer.AnalyzeBody(ctx, img)
	if err := store.SaveBodyResult(ctx, results); err != nil {
		return nil, s.fail(deviceID, scoring.VariantBody, "saving result", err)
	}

	return &BodyScan{Results: results, Plan: recommend.ForBody(results)}, nil
}

func (s *ScanService) fail(deviceID string, variant scoring.Variant, stage string, err error) error {
	slog.Error("scan failed", "device_id", deviceID, "variant", string(variant), "stage", stage, "error", err)
	sentry.CaptureException(err)
	return ErrAnalysisFailed
}
