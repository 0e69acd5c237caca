package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/config"
	"github.com/sponsorlink/backend/internal/db"
	"github.com/sponsorlink/backend/internal/events"
	apphttp "github.com/sponsorlink/backend/internal/http"
	"github.com/sponsorlink/backend/internal/http/handlers"
	"github.com/sponsorlink/backend/internal/repositories"
	"github.com/sponsorlink/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{MaxConns: int32(cfg.PostgresMaxConns)}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis: sessions, rate limits, events
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	sessions := auth.NewSessions(auth.SessionConfig{
		Storage:      db.NewRedisStorage(rdb, "sess:"),
		TTL:          cfg.SessionTTL,
		CookieSecure: cfg.SessionCookieSecure,
	})

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	roleRepo := repositories.NewRoleRepo(pool)
	brandRepo := repositories.NewBrandRepo(pool)
	influencerRepo := repositories.NewInfluencerRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	adRequestRepo := repositories.NewAdRequestRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	authService := services.NewAuthService(userRepo, roleRepo, cfg.BcryptCost, log)
	campaignService := services.NewCampaignService(campaignRepo, brandRepo, auditRepo, log)
	adRequestService := services.NewAdRequestService(services.AdRequestServiceDeps{
		AdRequests:        adRequestRepo,
		Campaigns:         campaignRepo,
		Brands:            brandRepo,
		Influencers:       influencerRepo,
		Roles:             roleRepo,
		Audit:             auditRepo,
		Publisher:         publisher,
		StrictTransitions: cfg.AdRequestStrictTransitions,
		Log:               log,
	})
	adminService := services.NewAdminService(services.AdminServiceDeps{
		Users:       userRepo,
		Roles:       roleRepo,
		Brands:      brandRepo,
		Influencers: influencerRepo,
		Campaigns:   campaignRepo,
		AdRequests:  adRequestRepo,
		Audit:       auditRepo,
		Log:         log,
	})
	homeService := services.NewHomeService(brandRepo, influencerRepo, campaignRepo, adRequestRepo)

	if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("failed to bootstrap admin user", zap.Error(err))
	}

	// Handlers
	wsHub := handlers.NewWSHub(subscriber, log)
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to start ws hub", zap.Error(err))
	}

	app := fiber.New(apphttp.AppConfig(log))
	apphttp.SetupRouter(app, apphttp.RouterConfig{
		Sessions:           sessions,
		Redis:              rdb,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Log:                log,
	}, apphttp.Handlers{
		Auth:      handlers.NewAuthHandler(authService, sessions, log),
		Register:  handlers.NewRegisterHandler(authService, sessions, log),
		Home:      handlers.NewHomeHandler(homeService, sessions),
		Campaign:  handlers.NewCampaignHandler(campaignService, sessions, log),
		AdRequest: handlers.NewAdRequestHandler(adRequestService, sessions, log),
		Admin:     handlers.NewAdminHandler(adminService, sessions),
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
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
