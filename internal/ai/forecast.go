package ai

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Industry averages used when the model's numbers cannot be recovered.
const (
	BenchmarkCPC            = 0.85
	BenchmarkCTR            = 2.5 // percent
	BenchmarkConversionRate = 3.2 // percent
	BenchmarkROAS           = 3.2

	defaultCampaignType = "Search Campaign"
)

type ForecastRequest struct {
	CampaignType   string  `json:"campaignType"`
	Budget         float64 `json:"budget"`
	Duration       int     `json:"duration"`
	TargetAudience string  `json:"targetAudience"`
	Platform       string  `json:"platform"`
}

type PerformanceForecast struct {
	EstimatedImpressions  float64  `json:"estimatedImpressions"`
	EstimatedClicks       float64  `json:"estimatedClicks"`
	EstimatedConversions  float64  `json:"estimatedConversions"`
	EstimatedCTR          float64  `json:"estimatedCTR"`
	EstimatedCPC          float64  `json:"estimatedCPC"`
	EstimatedROAS         float64  `json:"estimatedROAS"`
	BudgetRecommendations []string `json:"budgetRecommendations"`
	OptimizationTips      []string `json:"optimizationTips"`
}

func (r *ForecastRequest) normalize() error {
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
	if r.TargetAudience == "" {
		return invalidInput("Please fill in the target audience field")
	}
	if r.Budget <= 0 || math.IsNaN(r.Budget) || math.IsInf(r.Budget, 0) {
		return invalidInput("Budget must be a positive amount")
	}
	if r.Duration <= 0 {
		return invalidInput("Duration must be at least one day")
	}
	if strings.TrimSpace(r.CampaignType) == "" {
		r.CampaignType = defaultCampaignType
	}
	if strings.TrimSpace(r.Platform) == "" {
		r.Platform = defaultPlatform
	}
	return nil
}

func BuildForecastPrompt(r ForecastRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a performance marketing analyst. Forecast campaign performance based on industry benchmarks.\n\n")
	sb.WriteString("Campaign details:\n")
	fmt.Fprintf(&sb, "- Campaign Type: %s\n", r.CampaignType)
	fmt.Fprintf(&sb, "- Budget: $%s\n", strconv.FormatFloat(r.Budget, 'f', -1, 64))
	fmt.Fprintf(&sb, "- Duration: %d days\n", r.Duration)
	fmt.Fprintf(&sb, "- Target Audience: %s\n", r.TargetAudience)
	fmt.Fprintf(&sb, "- Platform: %s\n\n", r.Platform)
	fmt.Fprintf(&sb, "Base the forecast on realistic %s industry benchmarks. Give 3 budget recommendations and 4 optimization tips.\n\n", r.Platform)
	sb.WriteString("IMPORTANT: Respond ONLY with valid JSON in exactly this shape:\n")
	sb.WriteString(`{
  "estimatedImpressions": 50000,
  "estimatedClicks": 1250,
  "estimatedConversions": 40,
  "estimatedCTR": 2.5,
  "estimatedCPC": 0.85,
  "estimatedROAS": 3.2,
  "budgetRecommendations": ["recommendation1", "recommendation2", "recommendation3"],
  "optimizationTips": ["tip1", "tip2", "tip3", "tip4"]
}`)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnlyFooter)
	return sb.String()
}

var forecastNumberKeys = []string{
	"estimatedImpressions",
	"estimatedClicks",
	"estimatedConversions",
	"estimatedCTR",
	"estimatedCPC",
	"estimatedROAS",
}

var forecastSections = []section{
	{name: "budgetRecommendations", keywords: []string{"budget"}},
	{name: "optimizationTips", keywords: []string{"tip", "optimi"}},
}

// BenchmarkForecast derives the numeric estimates from the budget alone.
func BenchmarkForecast(budget float64) PerformanceForecast {
	clicks := math.Round(budget / BenchmarkCPC)
	impressions := math.Round(clicks / (BenchmarkCTR / 100))
	conversions := math.Round(clicks * (BenchmarkConversionRate / 100))
	return PerformanceForecast{
		EstimatedImpressions: impressions,
		EstimatedClicks:      clicks,
		EstimatedConversions: conversions,
		EstimatedCTR:         BenchmarkCTR,
		EstimatedCPC:         BenchmarkCPC,
		EstimatedROAS:        BenchmarkROAS,
	}
}

// ParseForecast recovers a forecast from a completion. It never fails; the
// numbers fall back to the benchmark derivation for budget.
func ParseForecast(text string, budget float64, fb ForecastFallback) Outcome[PerformanceForecast] {
	keys := append(append([]string{}, forecastNumberKeys...), "budgetRecommendations", "optimizationTips")
	if obj, ok := decodeStrict(text, keys...); ok {
		nums := make([]float64, len(forecastNumberKeys))
		valid := true
		for i, k := range forecastNumberKeys {
			n, ok := numberValue(obj[k])
			if !ok {
				valid = false
				break
			}
			nums[i] = n
		}
		if valid {
			return Outcome[PerformanceForecast]{
				Tier: TierStrict,
				Data: PerformanceForecast{
					EstimatedImpressions:  nums[0],
					EstimatedClicks:       nums[1],
					EstimatedConversions:  nums[2],
					EstimatedCTR:          nums[3],
					EstimatedCPC:          nums[4],
					EstimatedROAS:         nums[5],
					BudgetRecommendations: stringList(obj["budgetRecommendations"], 0),
					OptimizationTips:      stringList(obj["optimizationTips"], 0),
				},
			}
		}
	}

	found := scanSections(text, forecastSections)
	out := BenchmarkForecast(budget)
	out.BudgetRecommendations = orFallback(found["budgetRecommendations"], fb.BudgetRecommendations, 0)
	out.OptimizationTips = orFallback(found["optimizationTips"], fb.OptimizationTips, 0)
	return Outcome[PerformanceForecast]{Tier: tierFor(found), Data: out}
}

func (g *Generator) GenerateForecast(ctx context.Context, req ForecastRequest) (Outcome[PerformanceForecast], error) {
	if err := req.normalize(); err != nil {
		return Outcome[PerformanceForecast]{}, err
	}
	return run(ctx, g, FeatureForecast, BuildForecastPrompt(req), func(text string) Outcome[PerformanceForecast] {
		return ParseForecast(text, req.Budget, g.fallbacks.Forecast)
	})
}
