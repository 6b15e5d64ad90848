package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/events"
	"go.uber.org/zap"
)

var ErrUnknownFeature = errors.New("unknown ai feature")

// AIService runs the four AI tools through their panels and announces each
// outcome on the ai event stream.
type AIService struct {
	gen       *ai.Generator
	panels    ai.Panels
	campaigns *CampaignService
	publisher events.Publisher
	log       *zap.Logger
}

func NewAIService(gen *ai.Generator, campaigns *CampaignService, publisher events.Publisher, log *zap.Logger) *AIService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &AIService{
		gen:       gen,
		panels:    ai.NewPanels(),
		campaigns: campaigns,
		publisher: publisher,
		log:       log,
	}
}

func runPanel[T any](ctx context.Context, s *AIService, feature ai.Feature, fn func() (ai.Outcome[T], error)) (ai.Outcome[T], error) {
	var out ai.Outcome[T]
	start := time.Now()
	err := s.panels[feature].Run(func() (any, ai.Tier, error) {
		var err error
		out, err = fn()
		if err != nil {
			return nil, "", err
		}
		return out.Data, out.Tier, nil
	})

	ev := events.Event{
		Type: events.EventAIGenerationCompleted,
		Payload: map[string]any{
			"feature":    string(feature),
			"elapsed_ms": time.Since(start).Milliseconds(),
		},
	}
	if err != nil {
		ev.Type = events.EventAIGenerationFailed
		ev.Payload["kind"] = string(ai.KindOf(err))
		ev.Payload["error"] = err.Error()
	} else {
		ev.Payload["tier"] = string(out.Tier)
	}
	if perr := s.publisher.Publish(ctx, events.StreamAI, ev); perr != nil {
		s.log.Warn("publish ai event failed", zap.String("feature", string(feature)), zap.Error(perr))
	}
	return out, err
}

func (s *AIService) AdCopy(ctx context.Context, req ai.AdCopyRequest) (ai.Outcome[ai.AdCopy], error) {
	return runPanel(ctx, s, ai.FeatureAdCopy, func() (ai.Outcome[ai.AdCopy], error) {
		return s.gen.GenerateAdCopy(ctx, req)
	})
}

func (s *AIService) Audience(ctx context.Context, req ai.AudienceRequest) (ai.Outcome[ai.AudienceTargets], error) {
	return runPanel(ctx, s, ai.FeatureAudience, func() (ai.Outcome[ai.AudienceTargets], error) {
		return s.gen.GenerateAudience(ctx, req)
	})
}

func (s *AIService) Forecast(ctx context.Context, req ai.ForecastRequest) (ai.Outcome[ai.PerformanceForecast], error) {
	return runPanel(ctx, s, ai.FeatureForecast, func() (ai.Outcome[ai.PerformanceForecast], error) {
		return s.gen.GenerateForecast(ctx, req)
	})
}

// Insights analyses req.CampaignData, or the current dashboard when it is
// empty or null.
func (s *AIService) Insights(ctx context.Context, req ai.InsightsRequest) (ai.Outcome[ai.CampaignInsights], error) {
	if !req.HasData() && s.campaigns != nil {
		data, err := s.dashboardData(ctx)
		if err != nil {
			return ai.Outcome[ai.CampaignInsights]{}, err
		}
		req.CampaignData = data
	}
	return runPanel(ctx, s, ai.FeatureInsights, func() (ai.Outcome[ai.CampaignInsights], error) {
		return s.gen.GenerateInsights(ctx, req)
	})
}

func (s *AIService) dashboardData(ctx context.Context) (json.RawMessage, error) {
	all, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	return json.Marshal(map[string]any{
		"stats":     ComputeStats(all),
		"campaigns": all,
	})
}

func (s *AIService) Status() []ai.PanelSnapshot {
	return s.panels.Snapshots()
}

func (s *AIService) ClearError(feature string) error {
	p, ok := s.panels[ai.Feature(feature)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
	}
	p.ClearError()
	return nil
}

func (s *AIService) TestConnection(ctx context.Context) ai.ConnectionStatus {
	return s.gen.TestConnection(ctx)
}
