package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sponsorlink/backend/internal/config"
	"github.com/sponsorlink/backend/internal/db"
	"github.com/sponsorlink/backend/internal/events"
	"github.com/sponsorlink/backend/internal/notify"
	"go.uber.org/zap"
)

// Notify bridge: forwards ad request events from Redis to an external webhook.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.NotifyWebhookURL == "" {
		log.Fatal("NOTIFY_WEBHOOK_URL is not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	webhook := notify.NewWebhook(cfg.NotifyWebhookURL, cfg.NotifyWebhookSecret, cfg.NotifyTimeoutMS, log)

	if err := subscriber.Subscribe(ctx, events.StreamAdRequests, webhook.Handler(ctx)); err != nil {
		log.Fatal("failed to subscribe", zap.String("stream", events.StreamAdRequests), zap.Error(err))
	}
	log.Info("notify-bridge started", zap.String("stream", events.StreamAdRequests))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}
