package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/repositories"
	"go.uber.org/zap"
)

type CampaignService struct {
	campaigns CampaignStore
	brands    BrandStore
	audit     AuditStore
	log       *zap.Logger
}

func NewCampaignService(campaigns CampaignStore, brands BrandStore, audit AuditStore, log *zap.Logger) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		brands:    brands,
		audit:     audit,
		log:       log,
	}
}

// CampaignInput carries the mutable campaign fields, already parsed from the form.
type CampaignInput struct {
	Name        string
	Niche       string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	IsPrivate   bool
	Description *string
	Requirement *string
}

func (in CampaignInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Niche) == "" {
		return fmt.Errorf("%w: name and niche are required", ErrValidation)
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrValidation)
	}
	if in.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	return nil
}

func (in CampaignInput) apply(c *models.Campaign) {
	c.Name = strings.TrimSpace(in.Name)
	c.Niche = strings.TrimSpace(in.Niche)
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.Budget = in.Budget
	c.IsPrivate = in.IsPrivate
	c.Description = in.Description
	c.Requirement = in.Requirement
}

// BrandFor resolves the brand profile owned by the session user.
func (s *CampaignService) BrandFor(ctx context.Context, userID int64) (*models.Brand, error) {
	return brandForUser(ctx, s.brands, userID)
}

func (s *CampaignService) List(ctx context.Context, userID int64) ([]models.CampaignWithBrand, error) {
	brand, err := s.BrandFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.campaigns.List(ctx, repositories.CampaignFilter{BrandID: &brand.ID})
}

// ListPublic returns non-private campaigns of unflagged brands, optionally for one niche.
func (s *CampaignService) ListPublic(ctx context.Context, niche string) ([]models.CampaignWithBrand, error) {
	f := repositories.CampaignFilter{PublicOnly: true}
	if niche = strings.TrimSpace(niche); niche != "" {
		f.Niche = &niche
	}
	return s.campaigns.List(ctx, f)
}

func (s *CampaignService) Create(ctx context.Context, userID int64, in CampaignInput) (*models.Campaign, error) {
	brand, err := s.BrandFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := &models.Campaign{BrandID: brand.ID}
	in.apply(c)
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logAudit(ctx, userID, "campaign_created", c.ID, map[string]any{"brand_id": brand.ID, "name": c.Name})
	return c, nil
}

// Get returns a campaign owned by the caller's brand.
func (s *CampaignService) Get(ctx context.Context, userID, id int64) (*models.Campaign, error) {
	_, c, err := s.owned(ctx, userID, id)
	return c, err
}

func (s *CampaignService) Update(ctx context.Context, userID, id int64, in CampaignInput) (*models.Campaign, error) {
	_, c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	in.apply(c)
	if err := s.campaigns.Update(ctx, c); err != nil {
		return nil, translate(err)
	}

	s.logAudit(ctx, userID, "campaign_updated", c.ID, nil)
	return c, nil
}

// Delete removes the campaign and, with it, its ad requests.
func (s *CampaignService) Delete(ctx context.Context, userID, id int64) error {
	_, c, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, c.ID); err != nil {
		return translate(err)
	}

	s.logAudit(ctx, userID, "campaign_deleted", c.ID, map[string]any{"name": c.Name})
	return nil
}

// owned loads a campaign and checks it belongs to the caller's brand.
// Order of checks: brand profile, existence, ownership.
func (s *CampaignService) owned(ctx context.Context, userID, id int64) (*models.Brand, *models.Campaign, error) {
	brand, err := s.BrandFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, nil, translate(err)
	}
	if c.BrandID != brand.ID {
		s.log.Warn("campaign ownership mismatch",
			zap.Int64("campaign_id", id),
			zap.Int64("owner_brand_id", c.BrandID),
			zap.Int64("caller_brand_id", brand.ID),
		)
		return nil, nil, ErrForbidden
	}
	return brand, c, nil
}

func (s *CampaignService) logAudit(ctx context.Context, userID int64, action string, campaignID int64, meta map[string]any) {
	if err := s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   models.ActorUser,
		Action:      action,
		EntityType:  models.EntityCampaign,
		EntityID:    &campaignID,
		Meta:        meta,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func brandForUser(ctx context.Context, brands BrandStore, userID int64) (*models.Brand, error) {
	b, err := brands.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoBrandProfile
		}
		return nil, err
	}
	return b, nil
}

func influencerForUser(ctx context.Context, influencers InfluencerStore, userID int64) (*models.Influencer, error) {
	i, err := influencers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoInfluencer
		}
		return nil, err
	}
	return i, nil
}
