package models

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Campaign platforms
const (
	PlatformGoogleAds = "Google Ads"
	PlatformFacebook  = "Facebook"
	PlatformInstagram = "Instagram"
	PlatformLinkedIn  = "LinkedIn"
	PlatformTwitter   = "Twitter"
	PlatformTikTok    = "TikTok"
	PlatformSnapchat  = "Snapchat"
)

var Platforms = []string{
	PlatformGoogleAds, PlatformFacebook, PlatformInstagram, PlatformLinkedIn,
	PlatformTwitter, PlatformTikTok, PlatformSnapchat,
}

// Campaign statuses
const (
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusDraft     = "draft"
	CampaignStatusCompleted = "completed"
)

var CampaignStatuses = []string{
	CampaignStatusActive, CampaignStatusPaused, CampaignStatusDraft, CampaignStatusCompleted,
}

// Campaign health
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthWarning   = "warning"
	HealthCritical  = "critical"
)

// Valid state transitions: from -> []to
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:     {CampaignStatusActive, CampaignStatusCompleted},
	CampaignStatusActive:    {CampaignStatusPaused, CampaignStatusCompleted},
	CampaignStatusPaused:    {CampaignStatusActive, CampaignStatusCompleted},
	CampaignStatusCompleted: {},
}

func IsValidCampaignTransition(from, to string) bool {
	return slices.Contains(ValidCampaignTransitions[from], to)
}

func IsValidPlatform(p string) bool {
	return slices.Contains(Platforms, p)
}

func IsValidCampaignStatus(s string) bool {
	return slices.Contains(CampaignStatuses, s)
}

type Campaign struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Platform    string    `json:"platform"`
	Status      string    `json:"status"`
	Health      string    `json:"health,omitempty"`
	Budget      float64   `json:"budget"`
	Spent       float64   `json:"spent"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
	CTR         float64   `json:"ctr"`
	CPC         float64   `json:"cpc"`
	ROAS        float64   `json:"roas"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EvaluateHealth derives a health label from spend and return on ad spend.
func EvaluateHealth(c Campaign) string {
	if c.Budget > 0 && c.Spent >= c.Budget {
		return HealthCritical
	}
	switch {
	case c.ROAS >= 4:
		return HealthExcellent
	case c.ROAS >= 3:
		return HealthGood
	case c.ROAS >= 2:
		return HealthWarning
	default:
		return HealthCritical
	}
}

// SpendPercent is spent/budget as a rounded percentage. It may exceed 100.
func (c Campaign) SpendPercent() int {
	if c.Budget <= 0 {
		return 0
	}
	return int(math.Round(c.Spent / c.Budget * 100))
}

// SpendBarPercent is SpendPercent capped at 100 for progress bars.
func (c Campaign) SpendBarPercent() int {
	return min(c.SpendPercent(), 100)
}

// ZeroMetrics clears delivery metrics, used when duplicating.
func (c *Campaign) ZeroMetrics() {
	c.Spent = 0
	c.Impressions = 0
	c.Clicks = 0
	c.Conversions = 0
	c.CTR = 0
	c.CPC = 0
	c.ROAS = 0
}
