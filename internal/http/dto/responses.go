package dto

import "github.com/adstronaut/backend/internal/models"

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type ListResponse struct {
	Items  any `json:"items"`
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type BulkResponse struct {
	Action    string `json:"action"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Results   any    `json:"results"`
}

// GenerationResponse wraps one AI tools result with the recovery tier that
// produced it.
type GenerationResponse struct {
	Feature string `json:"feature"`
	Tier    string `json:"tier"`
	Result  any    `json:"result"`
}

// CampaignResponse is a campaign plus the spend figures the dashboard draws
// its budget bars from.
type CampaignResponse struct {
	models.Campaign
	SpendPercent    int `json:"spend_percent"`
	SpendBarPercent int `json:"spend_bar_percent"`
}

func NewCampaignResponse(c models.Campaign) CampaignResponse {
	return CampaignResponse{
		Campaign:        c,
		SpendPercent:    c.SpendPercent(),
		SpendBarPercent: c.SpendBarPercent(),
	}
}

func NewCampaignResponses(cs []models.Campaign) []CampaignResponse {
	out := make([]CampaignResponse, len(cs))
	for i, c := range cs {
		out[i] = NewCampaignResponse(c)
	}
	return out
}
