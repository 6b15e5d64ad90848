package dto

type CreateCampaignRequest struct {
	Name        string  `json:"name"`
	Platform    string  `json:"platform"`
	Status      string  `json:"status,omitempty"` // defaults to draft
	Budget      float64 `json:"budget"`
	Spent       float64 `json:"spent,omitempty"`
	Impressions int64   `json:"impressions,omitempty"`
	Clicks      int64   `json:"clicks,omitempty"`
	Conversions int64   `json:"conversions,omitempty"`
	ROAS        float64 `json:"roas,omitempty"`
}

type UpdateCampaignRequest struct {
	Name        *string  `json:"name,omitempty"`
	Platform    *string  `json:"platform,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Spent       *float64 `json:"spent,omitempty"`
	Impressions *int64   `json:"impressions,omitempty"`
	Clicks      *int64   `json:"clicks,omitempty"`
	Conversions *int64   `json:"conversions,omitempty"`
	ROAS        *float64 `json:"roas,omitempty"`
}

type BulkCampaignRequest struct {
	Action      string   `json:"action"` // activate / pause / duplicate / delete
	CampaignIDs []string `json:"campaign_ids"`
}

type ExportRequest struct {
	Format    string   `json:"format"`
	DateRange string   `json:"date_range"`
	Metrics   []string `json:"metrics"`
	Campaigns []string `json:"campaigns"` // empty = all
}
