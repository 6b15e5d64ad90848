package handlers

import (
	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/http/dto"
	"github.com/adstronaut/backend/internal/models"
	"github.com/adstronaut/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PricingTier struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Period   string   `json:"period"`
	Popular  bool     `json:"popular,omitempty"`
	Features []string `json:"features"`
}

var predefinedObjectives = []string{
	"Brand Awareness",
	"Website Traffic",
	"Lead Generation",
	"Sales Conversion",
	"App Downloads",
}

var predefinedTones = []string{
	"Professional and engaging",
	"Casual and friendly",
	"Urgent and compelling",
	"Luxury and premium",
	"Fun and playful",
}

var predefinedBusinessTypes = []string{"B2C", "B2B", "E-commerce", "SaaS", "Local Business"}

var predefinedCampaignTypes = []string{
	"Search Campaign",
	"Display Campaign",
	"Video Campaign",
	"Shopping Campaign",
	"Social Media Campaign",
}

var productFeatures = []MetaFeature{
	{"AI-Powered Optimization", "Our advanced AI algorithms continuously optimize your campaigns for maximum ROI and performance."},
	{"Multi-Platform Management", "Manage campaigns across Google Ads, Facebook, Instagram, LinkedIn, and more from one dashboard."},
	{"Real-Time Analytics", "Get instant insights into campaign performance with comprehensive analytics and reporting."},
	{"Budget Optimization", "Smart budget allocation and spending recommendations to maximize your advertising ROI."},
	{"Audience Targeting", "Advanced audience segmentation and targeting options to reach your ideal customers."},
	{"Performance Tracking", "Track key metrics and KPIs with detailed performance dashboards and custom reports."},
}

var pricingTiers = []PricingTier{
	{
		Name:   "Starter",
		Price:  "$29",
		Period: "/month",
		Features: []string{
			"Up to 3 campaigns",
			"2 platform integrations",
			"Basic analytics",
			"Email support",
			"Campaign templates",
		},
	},
	{
		Name:    "Professional",
		Price:   "$79",
		Period:  "/month",
		Popular: true,
		Features: []string{
			"Up to 15 campaigns",
			"All platform integrations",
			"Advanced analytics",
			"Priority support",
			"AI optimization",
			"Custom reporting",
			"A/B testing",
		},
	},
	{
		Name:   "Enterprise",
		Price:  "$199",
		Period: "/month",
		Features: []string{
			"Unlimited campaigns",
			"All platform integrations",
			"Advanced AI features",
			"Dedicated support",
			"White-label options",
			"API access",
			"Custom integrations",
		},
	},
}

func (h *MetaHandler) GetPlatforms(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: models.Platforms})
}

func (h *MetaHandler) GetStatuses(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"statuses":    models.CampaignStatuses,
		"transitions": models.ValidCampaignTransitions,
	}})
}

func (h *MetaHandler) GetObjectives(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedObjectives})
}

func (h *MetaHandler) GetTones(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedTones})
}

func (h *MetaHandler) GetBusinessTypes(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedBusinessTypes})
}

func (h *MetaHandler) GetCampaignTypes(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedCampaignTypes})
}

func (h *MetaHandler) GetFeatures(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: productFeatures})
}

func (h *MetaHandler) GetPricing(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: pricingTiers})
}

// GetOptions lists the accepted values for query and export parameters.
func (h *MetaHandler) GetOptions(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"date_ranges":    services.DateRanges,
		"bulk_actions":   services.BulkActions,
		"export_metrics": services.ExportMetrics,
		"export_formats": []string{services.ExportCSV},
		"ai_features":    ai.Features,
	}})
}
