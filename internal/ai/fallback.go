package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fallbacks holds the content substituted when nothing usable can be
// recovered from a completion.
type Fallbacks struct {
	AdCopy   AdCopy           `yaml:"ad_copy"`
	Audience AudienceTargets  `yaml:"audience"`
	Forecast ForecastFallback `yaml:"forecast"`
	Insights CampaignInsights `yaml:"insights"`
}

// ForecastFallback carries only the lists; the numbers are derived from the budget.
type ForecastFallback struct {
	BudgetRecommendations []string `yaml:"budget_recommendations"`
	OptimizationTips      []string `yaml:"optimization_tips"`
}

func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		AdCopy: AdCopy{
			Headlines:     []string{"Get Started Today", "Limited Time Offer", "Transform Your Business", "Join Thousands", "Discover More"},
			Descriptions:  []string{"Discover amazing results with our proven solution", "Join thousands of satisfied customers worldwide", "Experience the difference starting today"},
			CallsToAction: []string{"Learn More", "Get Started", "Shop Now", "Sign Up", "Contact Us"},
		},
		Audience: AudienceTargets{
			Demographics: Demographics{
				AgeRange:    "25-54",
				Gender:      "All",
				IncomeLevel: "Middle to Upper-Middle Class",
				Education:   "College Educated",
			},
			Interests:   []string{"Technology", "Business", "Marketing", "Entrepreneurship", "Digital Tools", "Productivity", "Innovation", "Growth"},
			Behaviors:   []string{"Online Shoppers", "Business Decision Makers", "Tech Early Adopters", "Mobile Users", "Social Media Active"},
			Suggestions: []string{"Focus on mobile-first targeting", "Use lookalike audiences", "Target business hours for B2B", "Consider geographic targeting"},
		},
		Forecast: ForecastFallback{
			BudgetRecommendations: []string{
				"Consider increasing budget by 20% for better reach",
				"Allocate 60% to top-performing ad sets",
				"Reserve 15% for testing new audiences",
			},
			OptimizationTips: []string{
				"Test multiple ad creatives simultaneously",
				"Monitor performance daily for first week",
				"Adjust targeting based on early results",
				"Use automated bidding for better efficiency",
			},
		},
		Insights: CampaignInsights{
			Summary: "Your campaigns are performing well with strong engagement metrics and positive ROI trends.",
			KeyFindings: []string{
				"Mobile traffic accounts for 70% of total impressions",
				"Conversion rates are highest during weekday business hours",
				"Video ads are outperforming static images by 35%",
				"Cost per acquisition has decreased by 15% this month",
			},
			Recommendations: []string{
				"Increase mobile-optimized ad spend by 25%",
				"Focus budget allocation on weekday scheduling",
				"Expand video ad creative testing",
				"Consider increasing overall budget for high-performing campaigns",
			},
			Alerts: []string{
				"CPC has increased 12% over the past week",
				"One campaign is approaching budget limit",
			},
		},
	}
}

// LoadFallbacks reads overrides from a YAML file on top of the defaults.
// Fields that are absent or empty in the file keep their default value, and
// lists longer than the feature allows are truncated.
func LoadFallbacks(path string) (Fallbacks, error) {
	fb := DefaultFallbacks()
	if path == "" {
		return fb, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fb, fmt.Errorf("read fallbacks file: %w", err)
	}

	var over Fallbacks
	if err := yaml.Unmarshal(data, &over); err != nil {
		return fb, fmt.Errorf("parse fallbacks file: %w", err)
	}

	mergeList(&fb.AdCopy.Headlines, over.AdCopy.Headlines, maxHeadlines)
	mergeList(&fb.AdCopy.Descriptions, over.AdCopy.Descriptions, maxDescriptions)
	mergeList(&fb.AdCopy.CallsToAction, over.AdCopy.CallsToAction, maxCallsToAction)

	mergeString(&fb.Audience.Demographics.AgeRange, over.Audience.Demographics.AgeRange)
	mergeString(&fb.Audience.Demographics.Gender, over.Audience.Demographics.Gender)
	mergeString(&fb.Audience.Demographics.IncomeLevel, over.Audience.Demographics.IncomeLevel)
	mergeString(&fb.Audience.Demographics.Education, over.Audience.Demographics.Education)
	mergeList(&fb.Audience.Interests, over.Audience.Interests, maxInterests)
	mergeList(&fb.Audience.Behaviors, over.Audience.Behaviors, maxBehaviors)
	mergeList(&fb.Audience.Suggestions, over.Audience.Suggestions, 0)

	mergeList(&fb.Forecast.BudgetRecommendations, over.Forecast.BudgetRecommendations, 0)
	mergeList(&fb.Forecast.OptimizationTips, over.Forecast.OptimizationTips, 0)

	mergeString(&fb.Insights.Summary, over.Insights.Summary)
	mergeList(&fb.Insights.KeyFindings, over.Insights.KeyFindings, 0)
	mergeList(&fb.Insights.Recommendations, over.Insights.Recommendations, 0)
	mergeList(&fb.Insights.Alerts, over.Insights.Alerts, 0)

	return fb, nil
}

// mergeList replaces dst with src when src is non-empty, keeping at most
// max items (0 means no limit) so overrides obey the same caps as parsed output.
func mergeList(dst *[]string, src []string, max int) {
	if len(src) == 0 {
		return
	}
	if max > 0 && len(src) > max {
		src = src[:max]
	}
	*dst = src
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
