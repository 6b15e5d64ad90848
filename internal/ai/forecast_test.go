package ai

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBenchmarkForecast(t *testing.T) {
	tests := []struct {
		budget      float64
		clicks      float64
		impressions float64
		conversions float64
	}{
		{1000, 1176, 47040, 38},
		{500, 588, 23520, 19},
		{85, 100, 4000, 3},
	}

	for _, tt := range tests {
		got := BenchmarkForecast(tt.budget)
		assert.Equal(t, tt.clicks, got.EstimatedClicks, "clicks for budget %v", tt.budget)
		assert.Equal(t, tt.impressions, got.EstimatedImpressions, "impressions for budget %v", tt.budget)
		assert.Equal(t, tt.conversions, got.EstimatedConversions, "conversions for budget %v", tt.budget)
		assert.Equal(t, BenchmarkCTR, got.EstimatedCTR)
		assert.Equal(t, BenchmarkCPC, got.EstimatedCPC)
		assert.Equal(t, BenchmarkROAS, got.EstimatedROAS)
	}
}

func TestParseForecastFallsBackToBenchmarks(t *testing.T) {
	fb := DefaultFallbacks().Forecast

	for _, budget := range []float64{1, 250, 1000, 12345.67} {
		out := ParseForecast("the model said something unhelpful", budget, fb)

		clicks := math.Round(budget / 0.85)
		assert.Equal(t, TierFallback, out.Tier)
		assert.Equal(t, clicks, out.Data.EstimatedClicks)
		assert.Equal(t, math.Round(clicks/0.025), out.Data.EstimatedImpressions)
		assert.Equal(t, math.Round(clicks*0.032), out.Data.EstimatedConversions)
		assert.Equal(t, fb.BudgetRecommendations, out.Data.BudgetRecommendations)
		assert.Equal(t, fb.OptimizationTips, out.Data.OptimizationTips)
	}
}

func TestParseForecastStrict(t *testing.T) {
	text := `{
  "estimatedImpressions": "60,000",
  "estimatedClicks": 1500,
  "estimatedConversions": 45,
  "estimatedCTR": 2.5,
  "estimatedCPC": "$0.67",
  "estimatedROAS": 3.8,
  "budgetRecommendations": ["Shift spend to mornings"],
  "optimizationTips": ["Test video"]
}`

	out := ParseForecast(text, 1000, DefaultFallbacks().Forecast)

	assert.Equal(t, TierStrict, out.Tier)
	assert.Equal(t, 60000.0, out.Data.EstimatedImpressions)
	assert.Equal(t, 0.67, out.Data.EstimatedCPC)
	assert.Equal(t, []string{"Shift spend to mornings"}, out.Data.BudgetRecommendations)
}

func TestParseForecastInvalidNumberUsesBenchmarks(t *testing.T) {
	text := `{
  "estimatedImpressions": "lots",
  "estimatedClicks": 1500,
  "estimatedConversions": 45,
  "estimatedCTR": 2.5,
  "estimatedCPC": 0.67,
  "estimatedROAS": 3.8,
  "budgetRecommendations": [],
  "optimizationTips": []
}`

	out := ParseForecast(text, 1000, DefaultFallbacks().Forecast)

	assert.NotEqual(t, TierStrict, out.Tier)
	assert.Equal(t, 1176.0, out.Data.EstimatedClicks)
}

func TestParseForecastHeuristicLists(t *testing.T) {
	text := `Budget recommendations:
- Spend more on weekends
Optimization tips:
- Refresh creatives weekly
- Narrow the audience`

	out := ParseForecast(text, 1000, DefaultFallbacks().Forecast)

	assert.Equal(t, TierHeuristic, out.Tier)
	assert.Equal(t, []string{"Spend more on weekends"}, out.Data.BudgetRecommendations)
	assert.Equal(t, []string{"Refresh creatives weekly", "Narrow the audience"}, out.Data.OptimizationTips)
	assert.Equal(t, 47040.0, out.Data.EstimatedImpressions)
}

func TestForecastValidation(t *testing.T) {
	g := NewGenerator(&stubCompleter{}, zap.NewNop())
	ctx := context.Background()

	_, err := g.GenerateForecast(ctx, ForecastRequest{Budget: 1000, Duration: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = g.GenerateForecast(ctx, ForecastRequest{TargetAudience: "a", Budget: 0, Duration: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = g.GenerateForecast(ctx, ForecastRequest{TargetAudience: "a", Budget: 100, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestForecastRateLimitedSurfacesOnPanel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	g := NewGenerator(client, zap.NewNop())
	panel := NewPanel(FeatureForecast)

	err := panel.Run(func() (any, Tier, error) {
		out, err := g.GenerateForecast(context.Background(), ForecastRequest{
			CampaignType:   "Search Campaign",
			Budget:         1000,
			Duration:       30,
			TargetAudience: "Small business owners",
			Platform:       "Google Ads",
		})
		if err != nil {
			return nil, "", err
		}
		return out.Data, out.Tier, nil
	})

	require.ErrorIs(t, err, ErrRateLimited)
	snap := panel.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, ErrRateLimited.Message, snap.Error)
	assert.Nil(t, snap.Result, "no fallback forecast should be substituted")
}
