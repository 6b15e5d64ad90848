package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const defaultTimeframe = "Last 30 days"

type InsightsRequest struct {
	CampaignData json.RawMessage `json:"campaignData"`
	Timeframe    string          `json:"timeframe"`
}

type CampaignInsights struct {
	Summary         string   `json:"summary" yaml:"summary"`
	KeyFindings     []string `json:"keyFindings" yaml:"key_findings"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
	Alerts          []string `json:"alerts" yaml:"alerts"`
}

// HasData reports whether CampaignData carries anything other than blanks or null.
func (r InsightsRequest) HasData() bool {
	trimmed := bytes.TrimSpace(r.CampaignData)
	return len(trimmed) > 0 && string(trimmed) != "null"
}

func (r *InsightsRequest) normalize() error {
	if !r.HasData() {
		return invalidInput("Campaign data is required to generate insights")
	}
	trimmed := bytes.TrimSpace(r.CampaignData)
	if !json.Valid(trimmed) {
		return invalidInput("Campaign data must be valid JSON")
	}
	r.CampaignData = trimmed
	if strings.TrimSpace(r.Timeframe) == "" {
		r.Timeframe = defaultTimeframe
	}
	return nil
}

func BuildInsightsPrompt(r InsightsRequest) string {
	var data bytes.Buffer
	if err := json.Indent(&data, r.CampaignData, "", "  "); err != nil {
		data.Reset()
		data.Write(r.CampaignData)
	}

	var sb strings.Builder
	sb.WriteString("You are a digital marketing analyst. Analyze the campaign performance data and provide actionable insights.\n\n")
	fmt.Fprintf(&sb, "Campaign Data: %s\n", data.String())
	fmt.Fprintf(&sb, "Time Frame: %s\n\n", r.Timeframe)
	sb.WriteString("Give clear, business-friendly insights that non-technical users can act on: a 1-2 sentence summary, 4 key findings, 4 recommendations and up to 2 alerts.\n\n")
	sb.WriteString("IMPORTANT: Respond ONLY with valid JSON in exactly this shape:\n")
	sb.WriteString(`{
  "summary": "Overall performance summary in 1-2 sentences",
  "keyFindings": ["finding1", "finding2", "finding3", "finding4"],
  "recommendations": ["recommendation1", "recommendation2", "recommendation3", "recommendation4"],
  "alerts": ["alert1", "alert2"]
}`)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnlyFooter)
	return sb.String()
}

var insightsSections = []section{
	{name: "keyFindings", keywords: []string{"finding"}},
	{name: "recommendations", keywords: []string{"recommend"}},
	{name: "alerts", keywords: []string{"alert"}},
}

// ParseInsights recovers campaign insights from a completion. It never fails.
func ParseInsights(text string, fb CampaignInsights) Outcome[CampaignInsights] {
	if obj, ok := decodeStrict(text, "summary", "keyFindings", "recommendations", "alerts"); ok {
		summary := stringValue(obj["summary"])
		if summary == "" {
			summary = fb.Summary
		}
		return Outcome[CampaignInsights]{
			Tier: TierStrict,
			Data: CampaignInsights{
				Summary:         summary,
				KeyFindings:     stringList(obj["keyFindings"], 0),
				Recommendations: stringList(obj["recommendations"], 0),
				Alerts:          stringList(obj["alerts"], 0),
			},
		}
	}

	found := scanSections(text, insightsSections)
	return Outcome[CampaignInsights]{
		Tier: tierFor(found),
		Data: CampaignInsights{
			Summary:         fb.Summary,
			KeyFindings:     orFallback(found["keyFindings"], fb.KeyFindings, 0),
			Recommendations: orFallback(found["recommendations"], fb.Recommendations, 0),
			Alerts:          orFallback(found["alerts"], fb.Alerts, 0),
		},
	}
}

func (g *Generator) GenerateInsights(ctx context.Context, req InsightsRequest) (Outcome[CampaignInsights], error) {
	if err := req.normalize(); err != nil {
		return Outcome[CampaignInsights]{}, err
	}
	return run(ctx, g, FeatureInsights, BuildInsightsPrompt(req), func(text string) Outcome[CampaignInsights] {
		return ParseInsights(text, g.fallbacks.Insights)
	})
}
