package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/http/dto"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/services"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	sessions        *auth.Sessions
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, sessions *auth.Sessions, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, sessions: sessions, log: log}
}

var campaignFields = []dto.FormField{
	{Name: "name", Type: "text", Required: true},
	{Name: "niche", Type: "text", Required: true},
	{Name: "start_date", Type: "date", Required: true},
	{Name: "end_date", Type: "date", Required: true},
	{Name: "budget", Type: "number", Required: true},
	{Name: "is_private", Type: "checkbox"},
	{Name: "description", Type: "textarea"},
	{Name: "requirement", Type: "textarea"},
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.campaignService.List(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, h.sessions, err, "/login")
	}
	if campaigns == nil {
		campaigns = []models.CampaignWithBrand{}
	}
	return render(c, h.sessions, fiber.Map{"campaigns": campaigns})
}

func (h *CampaignHandler) ListPublic(c *fiber.Ctx) error {
	campaigns, err := h.campaignService.ListPublic(c.UserContext(), c.Query("niche"))
	if err != nil {
		return err
	}
	if campaigns == nil {
		campaigns = []models.CampaignWithBrand{}
	}
	return render(c, h.sessions, fiber.Map{"campaigns": campaigns})
}

func (h *CampaignHandler) NewForm(c *fiber.Ctx) error {
	if _, err := h.campaignService.BrandFor(c.UserContext(), userID(c)); err != nil {
		return fail(c, h.sessions, err, "/login")
	}
	return render(c, h.sessions, dto.FormView{Action: "/campaigns/new", Fields: campaignFields})
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	if _, err := h.campaignService.BrandFor(c.UserContext(), userID(c)); err != nil {
		return fail(c, h.sessions, err, "/login")
	}
	in, err := parseCampaignForm(c)
	if err != nil {
		return h.formError(c, err, "/campaigns/new")
	}

	campaign, err := h.campaignService.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return fail(c, h.sessions, err, "/campaigns/new")
	}

	h.log.Info("campaign created", zap.Int64("campaign_id", campaign.ID), zap.Int64("brand_id", campaign.BrandID))
	return redirectWithFlash(c, h.sessions, "/campaigns", "Campaign created successfully")
}

func (h *CampaignHandler) EditForm(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	campaign, err := h.campaignService.Get(c.UserContext(), userID(c), id)
	if err != nil {
		return fail(c, h.sessions, err, "/campaigns")
	}
	return render(c, h.sessions, dto.FormView{
		Action: fmt.Sprintf("/campaigns/update/%d", id),
		Fields: campaignFields,
		Values: campaign,
	})
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/campaigns/update/%d", id)

	// Profile, existence and ownership are checked before the form.
	if _, err := h.campaignService.Get(c.UserContext(), userID(c), id); err != nil {
		return fail(c, h.sessions, err, back)
	}
	in, err := parseCampaignForm(c)
	if err != nil {
		return h.formError(c, err, back)
	}

	if _, err := h.campaignService.Update(c.UserContext(), userID(c), id, in); err != nil {
		return fail(c, h.sessions, err, back)
	}
	return redirectWithFlash(c, h.sessions, "/campaigns", "Campaign updated successfully")
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.campaignService.Delete(c.UserContext(), userID(c), id); err != nil {
		return fail(c, h.sessions, err, "/campaigns")
	}
	return redirectWithFlash(c, h.sessions, "/campaigns", "Campaign deleted successfully")
}

func (h *CampaignHandler) formError(c *fiber.Ctx, err error, back string) error {
	return redirectWithFlash(c, h.sessions, back, err.Error())
}

func parseCampaignForm(c *fiber.Ctx) (services.CampaignInput, error) {
	var form dto.CampaignForm
	if err := c.BodyParser(&form); err != nil {
		return services.CampaignInput{}, errors.New("invalid form")
	}
	if err := dto.Validate(form); err != nil {
		return services.CampaignInput{}, err
	}

	start, err := time.Parse(models.DateLayout, form.StartDate)
	if err != nil {
		return services.CampaignInput{}, errors.New("start_date must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(models.DateLayout, form.EndDate)
	if err != nil {
		return services.CampaignInput{}, errors.New("end_date must be a date in YYYY-MM-DD format")
	}
	budget, err := strconv.ParseFloat(form.Budget, 64)
	if err != nil {
		return services.CampaignInput{}, errors.New("budget must be a number")
	}

	return services.CampaignInput{
		Name:        form.Name,
		Niche:       form.Niche,
		StartDate:   start,
		EndDate:     end,
		Budget:      budget,
		IsPrivate:   form.IsPrivate != "",
		Description: optional(form.Description),
		Requirement: optional(form.Requirement),
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
