package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adstronaut/backend/internal/config"
	"github.com/adstronaut/backend/internal/db"
	"github.com/adstronaut/backend/internal/events"
	"github.com/adstronaut/backend/internal/notify"
	"go.uber.org/zap"
)

// Notify Bridge: subscribes to campaign and AI events in redis and posts
// alerts (health degraded, campaign deleted, generation failed) to a webhook.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.RedisURL == "" {
		log.Fatal("notify-bridge needs REDIS_URL to receive events")
	}
	if cfg.NotifyWebhookURL == "" {
		log.Fatal("notify-bridge needs NOTIFY_WEBHOOK_URL")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	webhook := notify.NewWebhook(cfg.NotifyWebhookURL, 10*time.Second, log)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down notify-bridge")
		cancel()
	}()

	log.Info("notify-bridge started", zap.Strings("streams", events.Streams))
	if err := webhook.Run(ctx, events.NewRedisSubscriber(rdb, log)); err != nil {
		log.Fatal("subscribe failed", zap.Error(err))
	}
}
