package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/http/dto"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/services"
	"go.uber.org/zap"
)

type AdRequestHandler struct {
	adRequestService *services.AdRequestService
	sessions         *auth.Sessions
	log              *zap.Logger
}

func NewAdRequestHandler(adRequestService *services.AdRequestService, sessions *auth.Sessions, log *zap.Logger) *AdRequestHandler {
	return &AdRequestHandler{adRequestService: adRequestService, sessions: sessions, log: log}
}

func (h *AdRequestHandler) ListAdRequests(c *fiber.Ctx) error {
	requests, err := h.adRequestService.List(c.UserContext(), userID(c), c.Query("status"))
	if err != nil {
		return fail(c, h.sessions, err, "/ad_requests")
	}
	if requests == nil {
		requests = []models.AdRequestWithCampaign{}
	}
	return render(c, h.sessions, fiber.Map{"ad_requests": requests})
}

func (h *AdRequestHandler) Accept(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.adRequestService.Accept(c.UserContext(), userID(c), id); err != nil {
		return fail(c, h.sessions, err, "/ad_requests")
	}
	return redirectWithFlash(c, h.sessions, "/ad_requests", "Ad request accepted")
}

func (h *AdRequestHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.adRequestService.Reject(c.UserContext(), userID(c), id); err != nil {
		return fail(c, h.sessions, err, "/ad_requests")
	}
	return redirectWithFlash(c, h.sessions, "/ad_requests", "Ad request rejected")
}

func (h *AdRequestHandler) NegotiateForm(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ar, err := h.adRequestService.GetForNegotiation(c.UserContext(), userID(c), id)
	if err != nil {
		return fail(c, h.sessions, err, "/ad_requests")
	}
	return render(c, h.sessions, dto.FormView{
		Action: fmt.Sprintf("/ad_request/%d/negotiate", id),
		Fields: []dto.FormField{{Name: "payment_amount", Type: "number", Required: true}},
		Values: ar,
	})
}

func (h *AdRequestHandler) Negotiate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/ad_request/%d/negotiate", id)

	var form dto.NegotiateForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithFlash(c, h.sessions, back, "invalid form")
	}
	if err := dto.Validate(form); err != nil {
		return redirectWithFlash(c, h.sessions, back, err.Error())
	}
	amount, err := strconv.ParseFloat(form.PaymentAmount, 64)
	if err != nil {
		return redirectWithFlash(c, h.sessions, back, "payment_amount must be a number")
	}

	if _, err := h.adRequestService.Negotiate(c.UserContext(), userID(c), id, amount); err != nil {
		return fail(c, h.sessions, err, back)
	}
	return redirectWithFlash(c, h.sessions, "/ad_requests", "Payment amount updated")
}

func (h *AdRequestHandler) CreateAdRequest(c *fiber.Ctx) error {
	campaignID, err := paramID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/campaigns/update/%d", campaignID)

	var form dto.AdRequestForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithFlash(c, h.sessions, back, "invalid form")
	}
	if err := dto.Validate(form); err != nil {
		return redirectWithFlash(c, h.sessions, back, err.Error())
	}
	influencerID, err := strconv.ParseInt(form.InfluencerID, 10, 64)
	if err != nil {
		return redirectWithFlash(c, h.sessions, back, "influencer_id must be a number")
	}
	amount, err := strconv.ParseFloat(form.PaymentAmount, 64)
	if err != nil {
		return redirectWithFlash(c, h.sessions, back, "payment_amount must be a number")
	}

	ar, err := h.adRequestService.Create(c.UserContext(), userID(c), services.CreateAdRequestInput{
		CampaignID:    campaignID,
		InfluencerID:  influencerID,
		PaymentAmount: amount,
		Message:       optional(form.Message),
	})
	if err != nil {
		return fail(c, h.sessions, err, back)
	}

	h.log.Info("ad request created", zap.Int64("ad_request_id", ar.ID), zap.Int64("campaign_id", campaignID))
	return redirectWithFlash(c, h.sessions, "/ad_requests", "Ad request sent")
}
