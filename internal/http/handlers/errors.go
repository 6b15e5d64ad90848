package handlers

import (
	"errors"

	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/http/dto"
	"github.com/adstronaut/backend/internal/middleware"
	"github.com/adstronaut/backend/internal/repositories"
	"github.com/adstronaut/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, RequestID: middleware.GetRequestID(c)})
}

// campaignErrorStatus maps service errors to HTTP statuses. ok is false for
// unexpected errors, which are reported as 500 without detail.
func campaignErrorStatus(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrUnsupportedAction),
		errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrNoCampaignSelected):
		return fiber.StatusBadRequest, true
	}
	return fiber.StatusInternalServerError, false
}

func failCampaign(c *fiber.Ctx, log *zap.Logger, op string, err error) error {
	status, ok := campaignErrorStatus(err)
	if !ok {
		log.Error(op+" failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		return fail(c, status, "internal error")
	}
	if status == fiber.StatusNotFound {
		return fail(c, status, "campaign not found")
	}
	return fail(c, status, err.Error())
}

// aiErrorStatus maps generation failures to HTTP statuses.
func aiErrorStatus(err error) int {
	switch ai.KindOf(err) {
	case ai.KindInvalidInput:
		return fiber.StatusBadRequest
	case ai.KindNotConfigured:
		return fiber.StatusServiceUnavailable
	case ai.KindRateLimited:
		return fiber.StatusTooManyRequests
	case "":
		if errors.Is(err, services.ErrUnknownFeature) {
			return fiber.StatusNotFound
		}
		return fiber.StatusInternalServerError
	}
	return fiber.StatusBadGateway
}
