package handlers

import (
	"bytes"
	"fmt"

	"github.com/adstronaut/backend/internal/http/dto"
	"github.com/adstronaut/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	campaignService *services.CampaignService
	log             *zap.Logger
}

func NewAnalyticsHandler(campaignService *services.CampaignService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{campaignService: campaignService, log: log}
}

func (h *AnalyticsHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.campaignService.Stats(c.UserContext())
	if err != nil {
		return failCampaign(c, h.log, "dashboard stats", err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

func (h *AnalyticsHandler) Platforms(c *fiber.Ctx) error {
	platforms, err := h.campaignService.Platforms(c.UserContext())
	if err != nil {
		return failCampaign(c, h.log, "platform comparison", err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: platforms})
}

// Export renders the CSV into memory first so a failure can still be
// reported as JSON.
func (h *AnalyticsHandler) Export(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request")
	}

	ids, err := parseIDs(req.Campaigns)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var buf bytes.Buffer
	n, err := h.campaignService.Export(c.UserContext(), &buf, services.ExportRequest{
		Format:      req.Format,
		DateRange:   req.DateRange,
		Metrics:     req.Metrics,
		CampaignIDs: ids,
	})
	if err != nil {
		return failCampaign(c, h.log, "export", err)
	}

	h.log.Info("campaigns exported", zap.Int("rows", n), zap.Strings("metrics", req.Metrics))

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="campaigns-%s.csv"`, exportRangeLabel(req.DateRange)))
	c.Set("X-Export-Rows", fmt.Sprint(n))
	return c.Send(buf.Bytes())
}

func exportRangeLabel(r string) string {
	if r == "" {
		return services.DateRangeAll
	}
	return r
}
