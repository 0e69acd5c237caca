package models

import "time"

// DateLayout is the form and JSON layout of campaign start/end dates.
const DateLayout = "2006-01-02"

type Campaign struct {
	ID          int64     `json:"id"`
	BrandID     int64     `json:"brand_id"`
	Name        string    `json:"name"`
	Niche       string    `json:"niche"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Budget      float64   `json:"budget"`
	IsPrivate   bool      `json:"is_private"`
	Description *string   `json:"description,omitempty"`
	Requirement *string   `json:"requirement,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CampaignWithBrand embeds Campaign and adds the brand name for public listings.
type CampaignWithBrand struct {
	Campaign
	BrandName string `json:"brand_name"`
}
