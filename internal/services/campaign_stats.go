package services

import (
	"context"

	"github.com/adstronaut/backend/internal/models"
)

// ComputeStats aggregates campaigns into dashboard totals. Average ROAS is
// the plain mean over campaigns.
func ComputeStats(campaigns []models.Campaign) models.DashboardStats {
	st := models.DashboardStats{TotalCampaigns: len(campaigns)}
	var roasSum float64
	for _, c := range campaigns {
		if c.Status == models.CampaignStatusActive {
			st.ActiveCampaigns++
		}
		st.TotalBudget += c.Budget
		st.TotalSpent += c.Spent
		st.TotalImpressions += c.Impressions
		st.TotalClicks += c.Clicks
		st.TotalConversions += c.Conversions
		roasSum += c.ROAS
	}
	if len(campaigns) > 0 {
		st.AverageROAS = roasSum / float64(len(campaigns))
	}
	if st.TotalImpressions > 0 {
		st.OverallCTR = float64(st.TotalClicks) / float64(st.TotalImpressions) * 100
	}
	if st.TotalClicks > 0 {
		st.OverallCPC = st.TotalSpent / float64(st.TotalClicks)
	}
	return st
}

func (s *CampaignService) Stats(ctx context.Context) (models.DashboardStats, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return ComputeStats(all), nil
}

// ComparePlatforms groups campaigns by platform in the canonical platform
// order. Platforms without campaigns are omitted.
func ComparePlatforms(campaigns []models.Campaign) []models.PlatformSummary {
	byPlatform := make(map[string]*models.PlatformSummary)
	roasSum := make(map[string]float64)
	var totalSpent float64

	for _, c := range campaigns {
		p, ok := byPlatform[c.Platform]
		if !ok {
			p = &models.PlatformSummary{Platform: c.Platform}
			byPlatform[c.Platform] = p
		}
		p.Campaigns++
		p.Spent += c.Spent
		p.Impressions += c.Impressions
		p.Clicks += c.Clicks
		p.Conversions += c.Conversions
		roasSum[c.Platform] += c.ROAS
		totalSpent += c.Spent
	}

	out := make([]models.PlatformSummary, 0, len(byPlatform))
	for _, name := range models.Platforms {
		p, ok := byPlatform[name]
		if !ok {
			continue
		}
		p.AverageROAS = roasSum[name] / float64(p.Campaigns)
		if p.Impressions > 0 {
			p.CTR = float64(p.Clicks) / float64(p.Impressions) * 100
		}
		if p.Clicks > 0 {
			p.CPC = p.Spent / float64(p.Clicks)
		}
		if totalSpent > 0 {
			p.SpendShare = p.Spent / totalSpent * 100
		}
		out = append(out, *p)
	}
	return out
}

func (s *CampaignService) Platforms(ctx context.Context) ([]models.PlatformSummary, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return ComparePlatforms(all), nil
}

// All returns every campaign, newest first.
func (s *CampaignService) All(ctx context.Context) ([]models.Campaign, error) {
	return s.store.All(ctx)
}
