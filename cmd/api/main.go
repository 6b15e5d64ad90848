package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/config"
	"github.com/adstronaut/backend/internal/db"
	"github.com/adstronaut/backend/internal/events"
	apphttp "github.com/adstronaut/backend/internal/http"
	"github.com/adstronaut/backend/internal/http/handlers"
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
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var (
		store repositories.CampaignStore
		audit repositories.AuditLogger
	)
	if cfg.PostgresDSN != "" {
		pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{}, log)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		store = repositories.NewCampaignRepo(pool)
		audit = repositories.NewAuditRepo(pool)
	} else {
		log.Info("POSTGRES_DSN not set, campaigns are kept in memory")
		store = repositories.NewMemoryCampaignStore()
		audit = repositories.NewMemoryAuditLog()
	}

	if cfg.SeedDemoData {
		n, err := repositories.SeedIfEmpty(ctx, store, time.Now())
		if err != nil {
			log.Fatal("failed to seed demo campaigns", zap.Error(err))
		}
		if n > 0 {
			log.Info("demo campaigns seeded", zap.Int("count", n))
		}
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Events
	var (
		publisher  events.Publisher
		subscriber events.Subscriber
	)
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	} else {
		bus := events.NewMemoryBus(log)
		publisher, subscriber = bus, bus
	}

	m := metrics.New()

	// AI
	fallbacks := ai.DefaultFallbacks()
	if cfg.AIFallbacksFile != "" {
		fallbacks, err = ai.LoadFallbacks(cfg.AIFallbacksFile)
		if err != nil {
			log.Fatal("failed to load AI fallbacks", zap.String("path", cfg.AIFallbacksFile), zap.Error(err))
		}
	}
	client := ai.NewClient(ai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	}, log)
	generator := ai.NewGenerator(client, log,
		ai.WithFallbacks(fallbacks),
		ai.WithFallbackEnabled(cfg.AIFallbackEnabled),
		ai.WithRecorder(m),
	)

	// Services
	campaignService := services.NewCampaignService(store, audit, publisher, log)
	aiService := services.NewAIService(generator, campaignService, publisher, log)

	// Handlers
	wsHub := handlers.NewWSHub(subscriber, m.WSClientsActive, log)
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to start ws hub", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "adstronaut-api",
		ErrorHandler: apphttp.ErrorHandler(log),
	})

	apphttp.SetupRouter(app, cfg, log, rdb, m, apphttp.Handlers{
		Campaign:  handlers.NewCampaignHandler(campaignService, log),
		Analytics: handlers.NewAnalyticsHandler(campaignService, log),
		AI:        handlers.NewAIHandler(aiService, log),
		Meta:      handlers.NewMetaHandler(),
		WS:        wsHub,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server",
		zap.String("addr", addr),
		zap.Bool("ai_configured", client.Configured()),
		zap.String("model", cfg.GeminiModel),
	)
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
