package models

// DashboardStats aggregates the campaigns shown on the dashboard.
type DashboardStats struct {
	TotalCampaigns   int     `json:"total_campaigns"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	TotalBudget      float64 `json:"total_budget"`
	TotalSpent       float64 `json:"total_spent"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalConversions int64   `json:"total_conversions"`
	AverageROAS      float64 `json:"average_roas"`
	OverallCTR       float64 `json:"overall_ctr"`
	OverallCPC       float64 `json:"overall_cpc"`
}

// PlatformSummary is one row of the cross-platform comparison.
type PlatformSummary struct {
	Platform    string  `json:"platform"`
	Campaigns   int     `json:"campaigns"`
	Spent       float64 `json:"spent"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	AverageROAS float64 `json:"average_roas"`
	SpendShare  float64 `json:"spend_share"` // percent of total spend
}
