package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/http/dto"
	"github.com/sponsorlink/backend/internal/models"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaNiche struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Niches suggested on campaign and influencer forms. Free text is still accepted.
var predefinedNiches = []MetaNiche{
	{ID: "fashion", Label: "Fashion & Style"},
	{ID: "beauty", Label: "Beauty"},
	{ID: "tech", Label: "Technology"},
	{ID: "gaming", Label: "Gaming"},
	{ID: "finance", Label: "Finance"},
	{ID: "education", Label: "Education"},
	{ID: "lifestyle", Label: "Lifestyle"},
	{ID: "travel", Label: "Travel"},
	{ID: "food", Label: "Food & Cooking"},
	{ID: "health", Label: "Health & Fitness"},
	{ID: "music", Label: "Music"},
	{ID: "sports", Label: "Sports"},
	{ID: "parenting", Label: "Parenting"},
	{ID: "business", Label: "Business"},
	{ID: "other", Label: "Other"},
}

func (h *MetaHandler) GetNiches(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedNiches})
}

func (h *MetaHandler) GetAdRequestStatuses(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: models.AllAdRequestStatuses})
}
