package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/services"
)

type HomeHandler struct {
	homeService *services.HomeService
	sessions    *auth.Sessions
}

func NewHomeHandler(homeService *services.HomeService, sessions *auth.Sessions) *HomeHandler {
	return &HomeHandler{homeService: homeService, sessions: sessions}
}

func (h *HomeHandler) BrandHome(c *fiber.Ctx) error {
	home, err := h.homeService.BrandHome(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, h.sessions, err, "/login")
	}
	return render(c, h.sessions, home)
}

func (h *HomeHandler) InfluencerHome(c *fiber.Ctx) error {
	home, err := h.homeService.InfluencerHome(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, h.sessions, err, "/login")
	}
	return render(c, h.sessions, home)
}
