package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	maxHeadlines     = 5
	maxDescriptions  = 3
	maxCallsToAction = 5

	defaultTone      = "Professional and engaging"
	defaultObjective = "Brand Awareness"
	defaultPlatform  = "Google Ads"
)

type AdCopyRequest struct {
	ProductService    string `json:"productService"`
	TargetAudience    string `json:"targetAudience"`
	CampaignObjective string `json:"campaignObjective"`
	Platform          string `json:"platform"`
	Tone              string `json:"tone,omitempty"`
}

type AdCopy struct {
	Headlines     []string `json:"headlines" yaml:"headlines"`
	Descriptions  []string `json:"descriptions" yaml:"descriptions"`
	CallsToAction []string `json:"callsToAction" yaml:"calls_to_action"`
}

func (r *AdCopyRequest) normalize() error {
	r.ProductService = strings.TrimSpace(r.ProductService)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
	if r.ProductService == "" || r.TargetAudience == "" {
		return invalidInput("Please fill in product/service and target audience fields")
	}
	if strings.TrimSpace(r.CampaignObjective) == "" {
		r.CampaignObjective = defaultObjective
	}
	if strings.TrimSpace(r.Platform) == "" {
		r.Platform = defaultPlatform
	}
	return nil
}

func BuildAdCopyPrompt(r AdCopyRequest) string {
	tone := r.Tone
	if strings.TrimSpace(tone) == "" {
		tone = defaultTone
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert advertising copywriter. Write compelling advertising copy for a %s campaign.\n\n", r.Platform)
	sb.WriteString("Campaign details:\n")
	fmt.Fprintf(&sb, "- Product/Service: %s\n", r.ProductService)
	fmt.Fprintf(&sb, "- Target Audience: %s\n", r.TargetAudience)
	fmt.Fprintf(&sb, "- Campaign Objective: %s\n", r.CampaignObjective)
	fmt.Fprintf(&sb, "- Tone: %s\n", tone)
	fmt.Fprintf(&sb, "- Platform: %s\n\n", r.Platform)
	sb.WriteString("Produce:\n")
	fmt.Fprintf(&sb, "1. %d compelling headlines, each under 30 characters for %s\n", maxHeadlines, r.Platform)
	fmt.Fprintf(&sb, "2. %d detailed descriptions, each under 90 characters\n", maxDescriptions)
	fmt.Fprintf(&sb, "3. %d short, action-oriented call-to-action phrases\n\n", maxCallsToAction)
	sb.WriteString("IMPORTANT: Respond ONLY with valid JSON in exactly this shape:\n")
	sb.WriteString(`{
  "headlines": ["headline1", "headline2", "headline3", "headline4", "headline5"],
  "descriptions": ["description1", "description2", "description3"],
  "callsToAction": ["cta1", "cta2", "cta3", "cta4", "cta5"]
}`)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnlyFooter)
	return sb.String()
}

const jsonOnlyFooter = "Do not include any other text, explanations, or markdown formatting."

var adCopySections = []section{
	{name: "headlines", keywords: []string{"headline"}, max: maxHeadlines},
	{name: "descriptions", keywords: []string{"description"}, max: maxDescriptions},
	{name: "callsToAction", keywords: []string{"call", "cta"}, max: maxCallsToAction},
}

// ParseAdCopy recovers ad copy from a completion. It never fails.
func ParseAdCopy(text string, fb AdCopy) Outcome[AdCopy] {
	if obj, ok := decodeStrict(text, "headlines", "descriptions", "callsToAction"); ok {
		return Outcome[AdCopy]{
			Tier: TierStrict,
			Data: AdCopy{
				Headlines:     stringList(obj["headlines"], maxHeadlines),
				Descriptions:  stringList(obj["descriptions"], maxDescriptions),
				CallsToAction: stringList(obj["callsToAction"], maxCallsToAction),
			},
		}
	}

	found := scanSections(text, adCopySections)
	return Outcome[AdCopy]{
		Tier: tierFor(found),
		Data: AdCopy{
			Headlines:     orFallback(found["headlines"], fb.Headlines, maxHeadlines),
			Descriptions:  orFallback(found["descriptions"], fb.Descriptions, maxDescriptions),
			CallsToAction: orFallback(found["callsToAction"], fb.CallsToAction, maxCallsToAction),
		},
	}
}

// GenerateAdCopy builds the prompt, calls the model and recovers the result.
func (g *Generator) GenerateAdCopy(ctx context.Context, req AdCopyRequest) (Outcome[AdCopy], error) {
	if err := req.normalize(); err != nil {
		return Outcome[AdCopy]{}, err
	}
	return run(ctx, g, FeatureAdCopy, BuildAdCopyPrompt(req), func(text string) Outcome[AdCopy] {
		return ParseAdCopy(text, g.fallbacks.AdCopy)
	})
}
