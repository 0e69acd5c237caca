package services

import (
	"context"

	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/repositories"
)

type HomeService struct {
	brands      BrandStore
	influencers InfluencerStore
	campaigns   CampaignStore
	adRequests  AdRequestStore
}

func NewHomeService(brands BrandStore, influencers InfluencerStore, campaigns CampaignStore, adRequests AdRequestStore) *HomeService {
	return &HomeService{
		brands:      brands,
		influencers: influencers,
		campaigns:   campaigns,
		adRequests:  adRequests,
	}
}

type BrandHome struct {
	Brand     *models.Brand              `json:"brand"`
	Campaigns []models.CampaignWithBrand `json:"campaigns"`
}

type InfluencerHome struct {
	Influencer *models.Influencer             `json:"influencer"`
	Campaigns  []models.CampaignWithBrand     `json:"campaigns"`
	AdRequests []models.AdRequestWithCampaign `json:"ad_requests"`
}

func (s *HomeService) BrandHome(ctx context.Context, userID int64) (*BrandHome, error) {
	brand, err := brandForUser(ctx, s.brands, userID)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.campaigns.List(ctx, repositories.CampaignFilter{BrandID: &brand.ID})
	if err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []models.CampaignWithBrand{}
	}
	return &BrandHome{Brand: brand, Campaigns: campaigns}, nil
}

// InfluencerHome shows public campaigns in the influencer's niche, or all of them
// when the profile has no niche.
func (s *HomeService) InfluencerHome(ctx context.Context, userID int64) (*InfluencerHome, error) {
	inf, err := influencerForUser(ctx, s.influencers, userID)
	if err != nil {
		return nil, err
	}

	f := repositories.CampaignFilter{PublicOnly: true, Limit: 50}
	if inf.Niche != "" {
		f.Niche = &inf.Niche
	}
	campaigns, err := s.campaigns.List(ctx, f)
	if err != nil {
		return nil, err
	}
	requests, err := s.adRequests.List(ctx, repositories.AdRequestFilter{InfluencerID: &inf.ID})
	if err != nil {
		return nil, err
	}

	if campaigns == nil {
		campaigns = []models.CampaignWithBrand{}
	}
	if requests == nil {
		requests = []models.AdRequestWithCampaign{}
	}
	return &InfluencerHome{Influencer: inf, Campaigns: campaigns, AdRequests: requests}, nil
}
