package handlers

import (
	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/http/dto"
	"github.com/adstronaut/backend/internal/middleware"
	"github.com/adstronaut/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AIHandler struct {
	aiService *services.AIService
	log       *zap.Logger
}

func NewAIHandler(aiService *services.AIService, log *zap.Logger) *AIHandler {
	return &AIHandler{aiService: aiService, log: log}
}

func (h *AIHandler) AdCopy(c *fiber.Ctx) error {
	var req ai.AdCopyRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request")
	}
	out, err := h.aiService.AdCopy(c.UserContext(), req)
	return h.respond(c, ai.FeatureAdCopy, out.Data, out.Tier, err)
}

func (h *AIHandler) Audience(c *fiber.Ctx) error {
	var req ai.AudienceRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request")
	}
	out, err := h.aiService.Audience(c.UserContext(), req)
	return h.respond(c, ai.FeatureAudience, out.Data, out.Tier, err)
}

func (h *AIHandler) Forecast(c *fiber.Ctx) error {
	var req ai.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request")
	}
	out, err := h.aiService.Forecast(c.UserContext(), req)
	return h.respond(c, ai.FeatureForecast, out.Data, out.Tier, err)
}

func (h *AIHandler) Insights(c *fiber.Ctx) error {
	var req ai.InsightsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid request")
		}
	}
	out, err := h.aiService.Insights(c.UserContext(), req)
	return h.respond(c, ai.FeatureInsights, out.Data, out.Tier, err)
}

func (h *AIHandler) respond(c *fiber.Ctx, feature ai.Feature, data any, tier ai.Tier, err error) error {
	if err != nil {
		status := aiErrorStatus(err)
		if status == fiber.StatusInternalServerError {
			h.log.Error("ai generation failed",
				zap.String("feature", string(feature)),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err),
			)
			return fail(c, status, "internal error")
		}
		return fail(c, status, err.Error())
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.GenerationResponse{
		Feature: string(feature),
		Tier:    string(tier),
		Result:  data,
	}})
}

func (h *AIHandler) Status(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.aiService.Status()})
}

func (h *AIHandler) ClearError(c *fiber.Ctx) error {
	if err := h.aiService.ClearError(c.Params("feature")); err != nil {
		return fail(c, aiErrorStatus(err), err.Error())
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *AIHandler) TestConnection(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.aiService.TestConnection(c.UserContext())})
}
