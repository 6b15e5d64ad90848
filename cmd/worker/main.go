package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adstronaut/backend/internal/config"
	"github.com/adstronaut/backend/internal/db"
	"github.com/adstronaut/backend/internal/events"
	apphttp "github.com/adstronaut/backend/internal/http"
	"github.com/adstronaut/backend/internal/metrics"
	"github.com/adstronaut/backend/internal/repositories"
	"github.com/adstronaut/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.HealthRefreshInterval <= 0 {
		log.Fatal("HEALTH_REFRESH_INTERVAL_MINUTES must be positive")
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("worker needs POSTGRES_DSN: campaign health is evaluated against the shared store")
	}

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{MaxConns: 4}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}

	var publisher events.Publisher = events.Nop{}
	if rdb != nil {
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, log)
	} else {
		log.Warn("REDIS_URL not set, health changes will not reach API clients")
	}

	// Services
	m := metrics.New()
	campaignService := services.NewCampaignService(
		repositories.NewCampaignRepo(pool),
		repositories.NewAuditRepo(pool),
		publisher,
		log,
	)

	// Health and metrics endpoint
	app := fiber.New(fiber.Config{
		AppName:               "adstronaut-worker",
		ErrorHandler:          apphttp.ErrorHandler(log),
		DisableStartupMessage: true,
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler(m))
	go func() {
		addr := fmt.Sprintf(":%s", cfg.WorkerPort)
		if err := app.Listen(addr); err != nil {
			log.Error("worker http server stopped", zap.Error(err))
		}
	}()
	defer app.Shutdown()

	log.Info("worker started", zap.Duration("health_refresh_interval", cfg.HealthRefreshInterval))

	// First pass right away so gauges are populated.
	runHealthRefresh(ctx, campaignService, m, log)

	healthTicker := time.NewTicker(cfg.HealthRefreshInterval)
	defer healthTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-healthTicker.C:
			runHealthRefresh(ctx, campaignService, m, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runHealthRefresh(ctx context.Context, campaignService *services.CampaignService, m *metrics.Metrics, log *zap.Logger) {
	start := time.Now()
	report, err := campaignService.RefreshHealth(ctx)
	if err != nil {
		log.Error("health refresh failed", zap.Error(err))
		return
	}
	elapsed := time.Since(start)

	m.SetCampaignCounts(report.Counts)
	m.ObserveHealthRefresh(report.Changed, elapsed)

	log.Info("health refresh done",
		zap.Int("checked", report.Checked),
		zap.Int("changed", report.Changed),
		zap.Duration("elapsed", elapsed),
	)
}
