package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Feature names one AI tools panel.
type Feature string

const (
	FeatureAdCopy   Feature = "ad_copy"
	FeatureAudience Feature = "audience"
	FeatureForecast Feature = "forecast"
	FeatureInsights Feature = "insights"
)

var Features = []Feature{FeatureAdCopy, FeatureAudience, FeatureForecast, FeatureInsights}

// Recorder receives per-generation observations. The metrics package
// provides the prometheus implementation.
type Recorder interface {
	ObserveGeneration(feature, tier string, elapsed time.Duration)
	ObserveFailure(feature, kind string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(string, string, time.Duration) {}
func (nopRecorder) ObserveFailure(string, string)                   {}

// Generator wires prompts, the completer and response recovery for the four features.
type Generator struct {
	completer       Completer
	fallbacks       Fallbacks
	fallbackEnabled bool
	recorder        Recorder
	log             *zap.Logger
}

type Option func(*Generator)

func WithFallbacks(fb Fallbacks) Option {
	return func(g *Generator) { g.fallbacks = fb }
}

// WithFallbackEnabled controls whether a completion with nothing recoverable
// yields the fallback payload (true) or ErrUnparseable (false).
func WithFallbackEnabled(enabled bool) Option {
	return func(g *Generator) { g.fallbackEnabled = enabled }
}

func WithRecorder(r Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

func NewGenerator(completer Completer, log *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		completer:       completer,
		fallbacks:       DefaultFallbacks(),
		fallbackEnabled: true,
		recorder:        nopRecorder{},
		log:             log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func run[T any](ctx context.Context, g *Generator, feature Feature, prompt string, parse func(string) Outcome[T]) (Outcome[T], error) {
	start := time.Now()

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.recorder.ObserveFailure(string(feature), string(KindOf(err)))
		g.log.Warn("generation failed", zap.String("feature", string(feature)), zap.Error(err))
		return Outcome[T]{}, err
	}

	out := parse(text)
	if out.Tier != TierStrict {
		g.log.Debug("completion was not clean JSON",
			zap.String("feature", string(feature)),
			zap.String("tier", string(out.Tier)),
			zap.String("raw", truncate(text, 2048)),
		)
	}
	if out.Tier == TierFallback && !g.fallbackEnabled {
		g.recorder.ObserveFailure(string(feature), string(KindUnparseable))
		return Outcome[T]{}, ErrUnparseable
	}

	g.recorder.ObserveGeneration(string(feature), string(out.Tier), time.Since(start))
	g.log.Debug("generation completed",
		zap.String("feature", string(feature)),
		zap.String("tier", string(out.Tier)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// ConnectionStatus is the result of TestConnection.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestConnection probes the service with a fixed ad copy request.
func (g *Generator) TestConnection(ctx context.Context) ConnectionStatus {
	_, err := g.GenerateAdCopy(ctx, AdCopyRequest{
		ProductService:    "Test product",
		TargetAudience:    "Test audience",
		CampaignObjective: "Brand Awareness",
		Platform:          "Google Ads",
		Tone:              "Professional",
	})
	if err != nil {
		return ConnectionStatus{Success: false, Message: err.Error()}
	}
	return ConnectionStatus{Success: true, Message: "AI service is working correctly!"}
}
