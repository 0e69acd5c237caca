package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
	sessions     *auth.Sessions
}

func NewAdminHandler(adminService *services.AdminService, sessions *auth.Sessions) *AdminHandler {
	return &AdminHandler{adminService: adminService, sessions: sessions}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.adminService.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, h.sessions, d)
}

func (h *AdminHandler) FlagBrand(c *fiber.Ctx) error   { return h.setBrandFlag(c, true) }
func (h *AdminHandler) UnflagBrand(c *fiber.Ctx) error { return h.setBrandFlag(c, false) }

func (h *AdminHandler) FlagInfluencer(c *fiber.Ctx) error   { return h.setInfluencerFlag(c, true) }
func (h *AdminHandler) UnflagInfluencer(c *fiber.Ctx) error { return h.setInfluencerFlag(c, false) }

func (h *AdminHandler) setBrandFlag(c *fiber.Ctx, flagged bool) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.adminService.SetBrandFlag(c.UserContext(), userID(c), id, flagged); err != nil {
		return fail(c, h.sessions, err, "/admin_dashboard")
	}
	return redirectWithFlash(c, h.sessions, "/admin_dashboard", flagMessage("Brand", flagged))
}

func (h *AdminHandler) setInfluencerFlag(c *fiber.Ctx, flagged bool) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.adminService.SetInfluencerFlag(c.UserContext(), userID(c), id, flagged); err != nil {
		return fail(c, h.sessions, err, "/admin_dashboard")
	}
	return redirectWithFlash(c, h.sessions, "/admin_dashboard", flagMessage("Influencer", flagged))
}

// History serves /admin/:entity/:id/history for campaign, ad_request, brand and influencer.
func (h *AdminHandler) History(c *fiber.Ctx) error {
	entity, ok := models.ParseAuditEntity(c.Params("entity"))
	if !ok {
		return fiber.ErrNotFound
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	entries, err := h.adminService.History(c.UserContext(), userID(c), entity, id, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return fail(c, h.sessions, err, "/admin_dashboard")
	}
	return render(c, h.sessions, fiber.Map{"entries": entries})
}

func flagMessage(kind string, flagged bool) string {
	if flagged {
		return kind + " flagged"
	}
	return kind + " unflagged"
}
