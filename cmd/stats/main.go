package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sponsorlink/backend/internal/config"
	"github.com/sponsorlink/backend/internal/db"
	"github.com/sponsorlink/backend/internal/reach"
	"github.com/sponsorlink/backend/internal/repositories"
	"github.com/sponsorlink/backend/internal/services"
	"go.uber.org/zap"
)

// pause between two channel page fetches
const fetchPause = 2 * time.Second

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{MaxConns: 2}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	reachService := services.NewReachService(
		repositories.NewInfluencerRepo(pool),
		reach.NewParser(cfg.ReachFetchTimeoutMS, cfg.ReachFetchMaxRetries, log),
		reach.NewRedisThrottle(rdb, cfg.ReachRefreshInterval),
		fetchPause,
		log,
	)

	log.Info("reach refresher started", zap.Duration("interval", cfg.ReachRefreshInterval))

	run := func() {
		report, err := reachService.Refresh(ctx)
		if err != nil {
			log.Error("reach refresh aborted", zap.Error(err))
			return
		}
		log.Info("reach refresh done",
			zap.Int("checked", report.Checked),
			zap.Int("updated", report.Updated),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down reach refresher")
		cancel()
	}()

	// Initial run
	run()

	ticker := time.NewTicker(cfg.ReachRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			run()
		case <-ctx.Done():
			return
		}
	}
}
