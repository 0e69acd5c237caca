package services

import (
	"context"

	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/rbac"
	"github.com/sponsorlink/backend/internal/repositories"
	"go.uber.org/zap"
)

type AdminService struct {
	users       UserStore
	roles       RoleStore
	brands      BrandStore
	influencers InfluencerStore
	campaigns   CampaignStore
	adRequests  AdRequestStore
	audit       AuditStore
	log         *zap.Logger
}

type AdminServiceDeps struct {
	Users       UserStore
	Roles       RoleStore
	Brands      BrandStore
	Influencers InfluencerStore
	Campaigns   CampaignStore
	AdRequests  AdRequestStore
	Audit       AuditStore
	Log         *zap.Logger
}

func NewAdminService(d AdminServiceDeps) *AdminService {
	return &AdminService{
		users:       d.Users,
		roles:       d.Roles,
		brands:      d.Brands,
		influencers: d.Influencers,
		campaigns:   d.Campaigns,
		adRequests:  d.AdRequests,
		audit:       d.Audit,
		log:         d.Log,
	}
}

type Dashboard struct {
	UserCount              int                            `json:"user_count"`
	PublicCampaigns        int                            `json:"public_campaigns"`
	PrivateCampaigns       int                            `json:"private_campaigns"`
	AdRequests             []models.AdRequestWithCampaign `json:"ad_requests"`
	FlaggedBrandCount      int                            `json:"flagged_brand_count"`
	FlaggedInfluencerCount int                            `json:"flagged_influencer_count"`
}

// Dashboard aggregates platform counters. Any authenticated user may read it.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error

	if d.UserCount, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if d.PublicCampaigns, d.PrivateCampaigns, err = s.campaigns.CountByVisibility(ctx); err != nil {
		return nil, err
	}
	if d.AdRequests, err = s.adRequests.List(ctx, repositories.AdRequestFilter{}); err != nil {
		return nil, err
	}
	if d.FlaggedBrandCount, err = s.brands.CountFlagged(ctx); err != nil {
		return nil, err
	}
	if d.FlaggedInfluencerCount, err = s.influencers.CountFlagged(ctx); err != nil {
		return nil, err
	}
	if d.AdRequests == nil {
		d.AdRequests = []models.AdRequestWithCampaign{}
	}
	return &d, nil
}

func (s *AdminService) SetBrandFlag(ctx context.Context, userID, brandID int64, flagged bool) error {
	if err := s.requireModerator(ctx, userID); err != nil {
		return err
	}
	if err := s.brands.SetFlagged(ctx, brandID, flagged); err != nil {
		return translate(err)
	}
	s.logModeration(ctx, userID, models.EntityBrand, brandID, flagged)
	return nil
}

func (s *AdminService) SetInfluencerFlag(ctx context.Context, userID, influencerID int64, flagged bool) error {
	if err := s.requireModerator(ctx, userID); err != nil {
		return err
	}
	if err := s.influencers.SetFlagged(ctx, influencerID, flagged); err != nil {
		return translate(err)
	}
	s.logModeration(ctx, userID, models.EntityInfluencer, influencerID, flagged)
	return nil
}

// History returns the audit trail of one entity, newest first. Admin only.
func (s *AdminService) History(ctx context.Context, userID int64, entity models.AuditEntity, entityID int64, limit, offset int) ([]models.AuditLog, error) {
	if err := s.requireModerator(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.audit.List(ctx, repositories.AuditFilter{
		EntityType: entity,
		EntityID:   &entityID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	return entries, nil
}

func (s *AdminService) requireModerator(ctx context.Context, userID int64) error {
	roles, err := s.roles.ListForUser(ctx, userID)
	if err != nil {
		return err
	}
	if !rbac.HasAnyPermission(roles, rbac.PermModerate) {
		return ErrForbidden
	}
	return nil
}

func (s *AdminService) logModeration(ctx context.Context, userID int64, entityType models.AuditEntity, entityID int64, flagged bool) {
	action := string(entityType) + "_unflagged"
	if flagged {
		action = string(entityType) + "_flagged"
	}
	s.log.Info("moderation action",
		zap.String("action", action),
		zap.Int64("entity_id", entityID),
		zap.Int64("admin_user_id", userID),
	)
	if err := s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   models.ActorAdmin,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}
