package handlers

import (
	"strconv"
	"strings"

	"github.com/adstronaut/backend/internal/http/dto"
	"github.com/adstronaut/backend/internal/models"
	"github.com/adstronaut/backend/internal/repositories"
	"github.com/adstronaut/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, log: log}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request")
	}

	campaign := &models.Campaign{
		Name:        req.Name,
		Platform:    req.Platform,
		Status:      req.Status,
		Budget:      req.Budget,
		Spent:       req.Spent,
		Impressions: req.Impressions,
		Clicks:      req.Clicks,
		Conversions: req.Conversions,
		ROAS:        req.ROAS,
	}

	if err := h.campaignService.Create(c.UserContext(), campaign); err != nil {
		return failCampaign(c, h.log, "create campaign", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: dto.NewCampaignResponse(*campaign)})
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}

	campaign, err := h.campaignService.GetByID(c.UserContext(), id)
	if err != nil {
		return failCampaign(c, h.log, "get campaign", err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.NewCampaignResponse(*campaign)})
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	q := services.ListQuery{
		CampaignFilter: repositories.CampaignFilter{
			Search: strings.TrimSpace(c.Query("search")),
			SortBy: c.Query("sort"),
		},
		DateRange: c.Query("date_range"),
	}

	if v := c.Query("platform"); v != "" && v != "all" {
		q.Platform = &v
	}
	if v := c.Query("status"); v != "" && v != "all" {
		q.Status = &v
	}
	switch strings.ToLower(c.Query("order")) {
	case "", "asc":
	case "desc":
		q.SortDesc = true
	default:
		return fail(c, fiber.StatusBadRequest, "order must be asc or desc")
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Offset = n
		}
	}

	campaigns, err := h.campaignService.List(c.UserContext(), q)
	if err != nil {
		return failCampaign(c, h.log, "list campaigns", err)
	}

	limit, offset := q.Page()
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ListResponse{
		Items:  dto.NewCampaignResponses(campaigns),
		Count:  len(campaigns),
		Limit:  limit,
		Offset: offset,
	}})
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}

	var req dto.UpdateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request")
	}

	updated, err := h.campaignService.Update(c.UserContext(), id, services.CampaignUpdate{
		Name:        req.Name,
		Platform:    req.Platform,
		Status:      req.Status,
		Budget:      req.Budget,
		Spent:       req.Spent,
		Impressions: req.Impressions,
		Clicks:      req.Clicks,
		Conversions: req.Conversions,
		ROAS:        req.ROAS,
	})
	if err != nil {
		return failCampaign(c, h.log, "update campaign", err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.NewCampaignResponse(*updated)})
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}

	if err := h.campaignService.Delete(c.UserContext(), id); err != nil {
		return failCampaign(c, h.log, "delete campaign", err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) BulkAction(c *fiber.Ctx) error {
	var req dto.BulkCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request")
	}

	ids, err := parseIDs(req.CampaignIDs)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	results, err := h.campaignService.Bulk(c.UserContext(), req.Action, ids)
	if err != nil {
		return failCampaign(c, h.log, "bulk "+req.Action, err)
	}

	resp := dto.BulkResponse{Action: req.Action, Results: results}
	for _, r := range results {
		if r.OK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: resp})
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid campaign id "+strconv.Quote(s))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (h *CampaignHandler) GetHistory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}

	entries, err := h.campaignService.History(c.UserContext(), id, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return failCampaign(c, h.log, "campaign history", err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}
