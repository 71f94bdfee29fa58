package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

const defaultTimeout = 30 * time.Second

// Gateway obtains scores for captured photos. It never fails: any provider,
// transport or parsing problem degrades to synthetic fallback scores.
type Gateway struct {
	provider VisionProvider
	timeout  time.Duration
	random   scoring.Source
	logger   *slog.Logger
}

type Option func(*Gateway)

// WithRandom fixes the fallback source, mainly for tests.
func WithRandom(src scoring.Source) Option {
	return func(g *Gateway) { g.random = src }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

func NewGateway(provider VisionProvider, timeout time.Duration, opts ...Option) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	g := &Gateway{provider: provider, timeout: timeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AnalyzeFace scores a front photo and, when present, a side profile.
func (g *Gateway) AnalyzeFace(ctx context.Context, front media.Image, side *media.Image) scoring.FaceScores {
	images := []media.Image{front}
	if side != nil && len(side.Data) > 0 {
		images = append(images, *side)
	}
	payload, ok := g.analyze(ctx, scoring.VariantFace, images)
	if !ok {
		return scoring.FallbackFace(g.random)
	}
	return payload.Face()
}

// AnalyzeBody scores a single body photo.
func (g *Gateway) AnalyzeBody(ctx context.Context, img media.Image) scoring.BodyScores {
	payload, ok := g.analyze(ctx, scoring.VariantBody, []media.Image{img})
	if !ok {
		return scoring.FallbackBody(g.random)
	}
	return payload.Body()
}

func (g *Gateway) analyze(ctx context.Context, variant scoring.Variant, images []media.Image) (scoring.RawAnalysisPayload, bool) {
	requestID := uuid.NewString()
	log := g.logger.With("request_id", requestID, "variant", string(variant))

	if g.provider == nil {
		log.Warn("analysis falling back to synthetic scores", "error", ErrNoProvider)
		return scoring.RawAnalysisPayload{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	prompt := BuildPrompt(variant, requestID, len(images) > 1)
	text, err := g.provider.Describe(ctx, prompt, images)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		log.Warn("analysis falling back to synthetic scores", "provider", g.provider.Name(), "error", err, "latency_ms", latency)
		return scoring.RawAnalysisPayload{}, false
	}

	payload, err := DecodePayload(text)
	if err != nil {
		log.Warn("analysis falling back to synthetic scores", "provider", g.provider.Name(), "error", err, "latency_ms", latency)
		return scoring.RawAnalysisPayload{}, false
	}

	log.Info("analysis completed", "provider", g.provider.Name(), "latency_ms", latency)
	return payload, true
}
