package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/http/handlers"
	"github.com/sponsorlink/backend/internal/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Register  *handlers.RegisterHandler
	Home      *handlers.HomeHandler
	Campaign  *handlers.CampaignHandler
	AdRequest *handlers.AdRequestHandler
	Admin     *handlers.AdminHandler
	Meta      *handlers.MetaHandler
	// WS may be nil; /ws is then not served.
	WS *handlers.WSHub
}

type RouterConfig struct {
	Sessions *auth.Sessions
	// Redis backs the login/registration rate limit. Nil disables it.
	Redis              *redis.Client
	RateLimitPerMinute int
	Log                *zap.Logger
}

func SetupRouter(app *fiber.App, cfg RouterConfig, h Handlers) {
	log := cfg.Log

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.Identity(cfg.Sessions, log))
	app.Use(middleware.LoggerMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	throttle := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.Redis != nil {
		throttle = middleware.RateLimitMiddleware(cfg.Redis, cfg.RateLimitPerMinute, time.Minute, log)
	}

	// Public pages
	app.Get("/", h.Auth.Index)
	app.Get("/login", h.Auth.LoginPage)
	app.Post("/login", throttle, h.Auth.Login)
	app.Get("/logout", h.Auth.Logout)
	app.Get("/register", h.Register.ListRoles)
	app.Get("/register/:role", h.Register.Form)
	app.Post("/register/:role", throttle, h.Register.Register)

	app.Get("/meta/niches", h.Meta.GetNiches)
	app.Get("/meta/ad_request_statuses", h.Meta.GetAdRequestStatuses)

	// WebSocket, authenticated by the session cookie
	if h.WS != nil {
		app.Get("/ws", handlers.WSUpgradeMiddleware(), websocket.New(h.WS.HandleWS))
	}

	// Session required
	requireSession := middleware.RequireSession(cfg.Sessions)
	protected := app.Group("", requireSession)

	protected.Get("/brand_home", h.Home.BrandHome)
	protected.Get("/influencer_home", h.Home.InfluencerHome)
	protected.Get("/admin_dashboard", h.Admin.Dashboard)

	// Campaigns
	protected.Get("/campaigns", h.Campaign.ListCampaigns)
	protected.Get("/campaigns/public", h.Campaign.ListPublic)
	protected.Get("/campaigns/new", h.Campaign.NewForm)
	protected.Post("/campaigns/new", h.Campaign.CreateCampaign)
	protected.Get("/campaigns/update/:id", h.Campaign.EditForm)
	protected.Post("/campaigns/update/:id", h.Campaign.UpdateCampaign)
	protected.Post("/campaigns/delete/:id", h.Campaign.DeleteCampaign)
	protected.Post("/campaigns/:id/ad_requests", h.AdRequest.CreateAdRequest)

	// Ad requests
	protected.Get("/ad_requests", h.AdRequest.ListAdRequests)
	protected.Post("/ad_request/:id/accept", h.AdRequest.Accept)
	protected.Post("/ad_request/:id/reject", h.AdRequest.Reject)
	protected.Get("/ad_request/:id/negotiate", h.AdRequest.NegotiateForm)
	protected.Post("/ad_request/:id/negotiate", h.AdRequest.Negotiate)

	// Moderation
	protected.Post("/admin/brands/:id/flag", h.Admin.FlagBrand)
	protected.Post("/admin/brands/:id/unflag", h.Admin.UnflagBrand)
	protected.Post("/admin/influencers/:id/flag", h.Admin.FlagInfluencer)
	protected.Post("/admin/influencers/:id/unflag", h.Admin.UnflagInfluencer)
	protected.Get("/admin/:entity/:id/history", h.Admin.History)
}

// AppConfig is the fiber configuration of the API. Immutable copies request
// values, so parsed form strings stay valid after the handler returns.
func AppConfig(log *zap.Logger) fiber.Config {
	return fiber.Config{
		Immutable:    true,
		ErrorHandler: ErrorHandler(log),
	}
}

// ErrorHandler renders unexpected errors as JSON with the request id.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			msg = e.Message
		} else {
			log.Error("unhandled error",
				zap.String("request_id", middleware.RequestID(c)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(code).JSON(fiber.Map{"error": msg, "request_id": middleware.RequestID(c)})
	}
}
