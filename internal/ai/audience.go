package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	maxInterests = 8
	maxBehaviors = 5

	defaultBusinessType = "B2C"
)

type AudienceRequest struct {
	ProductService    string `json:"productService"`
	CampaignObjective string `json:"campaignObjective"`
	BusinessType      string `json:"businessType"`
	CurrentAudience   string `json:"currentAudience,omitempty"`
}

type Demographics struct {
	AgeRange    string `json:"ageRange" yaml:"age_range"`
	Gender      string `json:"gender" yaml:"gender"`
	IncomeLevel string `json:"incomeLevel" yaml:"income_level"`
	Education   string `json:"education" yaml:"education"`
}

type AudienceTargets struct {
	Demographics Demographics `json:"demographics" yaml:"demographics"`
	Interests    []string     `json:"interests" yaml:"interests"`
	Behaviors    []string     `json:"behaviors" yaml:"behaviors"`
	Suggestions  []string     `json:"suggestions" yaml:"suggestions"`
}

func (r *AudienceRequest) normalize() error {
	r.ProductService = strings.TrimSpace(r.ProductService)
	if r.ProductService == "" {
		return invalidInput("Please fill in the product/service field")
	}
	if strings.TrimSpace(r.CampaignObjective) == "" {
		r.CampaignObjective = defaultObjective
	}
	if strings.TrimSpace(r.BusinessType) == "" {
		r.BusinessType = defaultBusinessType
	}
	r.CurrentAudience = strings.TrimSpace(r.CurrentAudience)
	return nil
}

func BuildAudiencePrompt(r AudienceRequest) string {
	var sb strings.Builder
	sb.WriteString("You are an expert digital marketing strategist. Analyze the business below and suggest optimal audience targeting.\n\n")
	sb.WriteString("Business details:\n")
	fmt.Fprintf(&sb, "- Product/Service: %s\n", r.ProductService)
	fmt.Fprintf(&sb, "- Campaign Objective: %s\n", r.CampaignObjective)
	fmt.Fprintf(&sb, "- Business Type: %s\n", r.BusinessType)
	if r.CurrentAudience != "" {
		fmt.Fprintf(&sb, "- Current Audience: %s\n", r.CurrentAudience)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Provide demographics, %d interests, %d behaviors and 4 targeting suggestions.\n\n", maxInterests, maxBehaviors)
	sb.WriteString("IMPORTANT: Respond ONLY with valid JSON in exactly this shape:\n")
	sb.WriteString(`{
  "demographics": {
    "ageRange": "age range",
    "gender": "gender preference",
    "incomeLevel": "income level",
    "education": "education level"
  },
  "interests": ["interest1", "interest2", "interest3", "interest4", "interest5", "interest6", "interest7", "interest8"],
  "behaviors": ["behavior1", "behavior2", "behavior3", "behavior4", "behavior5"],
  "suggestions": ["suggestion1", "suggestion2", "suggestion3", "suggestion4"]
}`)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnlyFooter)
	return sb.String()
}

var audienceSections = []section{
	{name: "interests", keywords: []string{"interest"}, max: maxInterests},
	{name: "behaviors", keywords: []string{"behavior", "behaviour"}, max: maxBehaviors},
	{name: "suggestions", keywords: []string{"suggestion", "recommend"}},
}

// ParseAudience recovers targeting suggestions from a completion. It never fails.
func ParseAudience(text string, fb AudienceTargets) Outcome[AudienceTargets] {
	if obj, ok := decodeStrict(text, "demographics", "interests", "behaviors", "suggestions"); ok {
		return Outcome[AudienceTargets]{
			Tier: TierStrict,
			Data: AudienceTargets{
				Demographics: demographicsValue(obj["demographics"], fb.Demographics),
				Interests:    stringList(obj["interests"], maxInterests),
				Behaviors:    stringList(obj["behaviors"], maxBehaviors),
				Suggestions:  stringList(obj["suggestions"], 0),
			},
		}
	}

	found := scanSections(text, audienceSections)
	return Outcome[AudienceTargets]{
		Tier: tierFor(found),
		Data: AudienceTargets{
			Demographics: fb.Demographics,
			Interests:    orFallback(found["interests"], fb.Interests, maxInterests),
			Behaviors:    orFallback(found["behaviors"], fb.Behaviors, maxBehaviors),
			Suggestions:  orFallback(found["suggestions"], fb.Suggestions, 0),
		},
	}
}

// demographicsValue fills any missing field from the fallback record.
func demographicsValue(raw json.RawMessage, fb Demographics) Demographics {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fb
	}
	pick := func(key, def string) string {
		if v := stringValue(obj[key]); v != "" {
			return v
		}
		return def
	}
	return Demographics{
		AgeRange:    pick("ageRange", fb.AgeRange),
		Gender:      pick("gender", fb.Gender),
		IncomeLevel: pick("incomeLevel", fb.IncomeLevel),
		Education:   pick("education", fb.Education),
	}
}

func (g *Generator) GenerateAudience(ctx context.Context, req AudienceRequest) (Outcome[AudienceTargets], error) {
	if err := req.normalize(); err != nil {
		return Outcome[AudienceTargets]{}, err
	}
	return run(ctx, g, FeatureAudience, BuildAudiencePrompt(req), func(text string) Outcome[AudienceTargets] {
		return ParseAudience(text, g.fallbacks.Audience)
	})
}
