package http

import (
	"errors"
	"time"

	"github.com/adstronaut/backend/internal/config"
	"github.com/adstronaut/backend/internal/http/dto"
	"github.com/adstronaut/backend/internal/http/handlers"
	"github.com/adstronaut/backend/internal/metrics"
	"github.com/adstronaut/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Campaign  *handlers.CampaignHandler
	Analytics *handlers.AnalyticsHandler
	AI        *handlers.AIHandler
	Meta      *handlers.MetaHandler
	WS        *handlers.WSHub
}

// ErrorHandler renders errors that escape handlers, including recovered
// panics, as dto.ErrorResponse.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.Error("unhandled error", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		}
		return c.Status(code).JSON(dto.ErrorResponse{Error: msg, RequestID: middleware.GetRequestID(c)})
	}
}

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	m *metrics.Metrics,
	h Handlers,
) {
	var onExceeded func(string)
	if m != nil {
		onExceeded = m.IncRateLimitExceeded
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		ExposeHeaders: "X-Request-ID, Content-Disposition, X-Export-Rows",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(metrics.Middleware(m))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "ai_configured": cfg.AIConfigured()})
	})
	if m != nil {
		app.Get("/metrics", metrics.Handler(m))
	}

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, "api", cfg.APIRateLimitPerMin, time.Minute, onExceeded))

	// Meta
	meta := h.Meta
	if meta == nil {
		meta = handlers.NewMetaHandler()
	}
	api.Get("/meta/platforms", meta.GetPlatforms)
	api.Get("/meta/statuses", meta.GetStatuses)
	api.Get("/meta/objectives", meta.GetObjectives)
	api.Get("/meta/tones", meta.GetTones)
	api.Get("/meta/business-types", meta.GetBusinessTypes)
	api.Get("/meta/campaign-types", meta.GetCampaignTypes)
	api.Get("/meta/features", meta.GetFeatures)
	api.Get("/meta/pricing", meta.GetPricing)
	api.Get("/meta/options", meta.GetOptions)

	// Campaigns
	api.Post("/campaigns/bulk", h.Campaign.BulkAction)
	api.Post("/campaigns", h.Campaign.CreateCampaign)
	api.Get("/campaigns", h.Campaign.ListCampaigns)
	api.Get("/campaigns/:id", h.Campaign.GetCampaign)
	api.Put("/campaigns/:id", h.Campaign.UpdateCampaign)
	api.Delete("/campaigns/:id", h.Campaign.DeleteCampaign)
	api.Get("/campaigns/:id/history", h.Campaign.GetHistory)

	// Dashboard & analytics
	api.Get("/dashboard/stats", h.Analytics.DashboardStats)
	api.Get("/analytics/platforms", h.Analytics.Platforms)
	api.Post("/analytics/export", h.Analytics.Export)

	// AI tools
	aiGroup := api.Group("/ai")
	aiGroup.Get("/status", h.AI.Status)
	aiGroup.Delete("/status/:feature/error", h.AI.ClearError)
	// Generation calls hit the upstream model and get their own budget.
	aiLimit := middleware.RateLimitMiddleware(rdb, "ai", cfg.AIRateLimitPerMin, time.Minute, onExceeded)
	aiGroup.Post("/ad-copy", aiLimit, h.AI.AdCopy)
	aiGroup.Post("/audience", aiLimit, h.AI.Audience)
	aiGroup.Post("/forecast", aiLimit, h.AI.Forecast)
	aiGroup.Post("/insights", aiLimit, h.AI.Insights)
	aiGroup.Post("/test-connection", aiLimit, h.AI.TestConnection)

	// WebSocket
	if h.WS != nil {
		app.Use("/ws", handlers.WSUpgradeMiddleware())
		app.Get("/ws", websocket.New(h.WS.HandleWS))
	}
}
