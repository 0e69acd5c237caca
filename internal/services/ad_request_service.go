package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sponsorlink/backend/internal/events"
	"github.com/sponsorlink/backend/internal/metrics"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/rbac"
	"github.com/sponsorlink/backend/internal/repositories"
	"go.uber.org/zap"
)

type AdRequestService struct {
	adRequests  AdRequestStore
	campaigns   CampaignStore
	brands      BrandStore
	influencers InfluencerStore
	roles       RoleStore
	audit       AuditStore
	publisher   events.Publisher
	// strict rejects leaving a terminal status and negotiating settled requests.
	strict bool
	log    *zap.Logger
}

type AdRequestServiceDeps struct {
	AdRequests  AdRequestStore
	Campaigns   CampaignStore
	Brands      BrandStore
	Influencers InfluencerStore
	Roles       RoleStore
	Audit       AuditStore
	// Publisher may be nil; events are then dropped.
	Publisher         events.Publisher
	StrictTransitions bool
	Log               *zap.Logger
}

func NewAdRequestService(d AdRequestServiceDeps) *AdRequestService {
	return &AdRequestService{
		adRequests:  d.AdRequests,
		campaigns:   d.Campaigns,
		brands:      d.Brands,
		influencers: d.Influencers,
		roles:       d.Roles,
		audit:       d.Audit,
		publisher:   d.Publisher,
		strict:      d.StrictTransitions,
		log:         d.Log,
	}
}

func (s *AdRequestService) Accept(ctx context.Context, userID, id int64) (*models.AdRequestWithCampaign, error) {
	return s.transition(ctx, userID, id, models.AdRequestStatusAccepted)
}

func (s *AdRequestService) Reject(ctx context.Context, userID, id int64) (*models.AdRequestWithCampaign, error) {
	return s.transition(ctx, userID, id, models.AdRequestStatusRejected)
}

func (s *AdRequestService) transition(ctx context.Context, userID, id int64, to string) (*models.AdRequestWithCampaign, error) {
	ar, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := ar.Status
	if s.strict && !models.IsValidAdRequestTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	if err := s.adRequests.UpdateStatus(ctx, ar.ID, to); err != nil {
		return nil, translate(err)
	}
	ar.Status = to

	metrics.AdRequestTransitionsTotal.WithLabelValues(from, to).Inc()
	s.log.Info("ad request status changed",
		zap.Int64("ad_request_id", ar.ID),
		zap.String("from", from),
		zap.String("to", to),
		zap.Int64("user_id", userID),
	)
	s.logAudit(ctx, userID, "ad_request_"+to, ar.ID, map[string]any{"from": from, "to": to})
	s.publish(ctx, ar, events.EventAdRequestStatusChanged, map[string]any{
		"ad_request_id": ar.ID,
		"campaign_id":   ar.CampaignID,
		"from":          from,
		"to":            to,
	})
	return ar, nil
}

// GetForNegotiation returns the request so the negotiation form can show the current amount.
func (s *AdRequestService) GetForNegotiation(ctx context.Context, userID, id int64) (*models.AdRequestWithCampaign, error) {
	return s.authorize(ctx, userID, id)
}

// Negotiate overwrites the payment amount. The status is left as is.
func (s *AdRequestService) Negotiate(ctx context.Context, userID, id int64, amount float64) (*models.AdRequestWithCampaign, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: payment amount must not be negative", ErrValidation)
	}

	ar, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s.strict && ar.Status != models.AdRequestStatusPending {
		return nil, fmt.Errorf("%w: cannot negotiate a %s request", ErrInvalidTransition, ar.Status)
	}

	previous := ar.PaymentAmount
	if err := s.adRequests.UpdatePaymentAmount(ctx, ar.ID, amount); err != nil {
		return nil, translate(err)
	}
	ar.PaymentAmount = amount

	s.logAudit(ctx, userID, "ad_request_negotiated", ar.ID, map[string]any{"from": previous, "to": amount})
	s.publish(ctx, ar, events.EventAdRequestNegotiated, map[string]any{
		"ad_request_id":  ar.ID,
		"campaign_id":    ar.CampaignID,
		"payment_amount": amount,
	})
	return ar, nil
}

type CreateAdRequestInput struct {
	CampaignID    int64
	InfluencerID  int64
	PaymentAmount float64
	Message       *string
}

// Create opens a pending request from a campaign owned by the caller to an influencer.
func (s *AdRequestService) Create(ctx context.Context, userID int64, in CreateAdRequestInput) (*models.AdRequest, error) {
	brand, err := brandForUser(ctx, s.brands, userID)
	if err != nil {
		return nil, err
	}
	if in.PaymentAmount < 0 {
		return nil, fmt.Errorf("%w: payment amount must not be negative", ErrValidation)
	}

	campaign, err := s.campaigns.GetByID(ctx, in.CampaignID)
	if err != nil {
		return nil, translate(err)
	}
	if campaign.BrandID != brand.ID {
		return nil, ErrForbidden
	}
	if _, err := s.influencers.GetByID(ctx, in.InfluencerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: influencer %d does not exist", ErrValidation, in.InfluencerID)
		}
		return nil, err
	}

	ar := &models.AdRequest{
		CampaignID:    campaign.ID,
		InfluencerID:  in.InfluencerID,
		PaymentAmount: in.PaymentAmount,
		Status:        models.AdRequestStatusPending,
		Message:       in.Message,
	}
	if err := s.adRequests.Create(ctx, ar); err != nil {
		return nil, err
	}

	s.logAudit(ctx, userID, "ad_request_created", ar.ID, map[string]any{
		"campaign_id":   ar.CampaignID,
		"influencer_id": ar.InfluencerID,
		"amount":        ar.PaymentAmount,
	})
	s.publish(ctx, &models.AdRequestWithCampaign{AdRequest: *ar, CampaignName: campaign.Name, BrandID: brand.ID},
		events.EventAdRequestCreated, map[string]any{
			"ad_request_id":  ar.ID,
			"campaign_id":    ar.CampaignID,
			"payment_amount": ar.PaymentAmount,
		})
	return ar, nil
}

// List returns the ad requests visible to the caller: all of them for admins,
// the requests of its campaigns for a brand, and those addressed to it for an influencer.
func (s *AdRequestService) List(ctx context.Context, userID int64, status string) ([]models.AdRequestWithCampaign, error) {
	f := repositories.AdRequestFilter{}
	if status != "" {
		if !models.IsValidAdRequestStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		f.Status = &status
	}

	roles, err := s.roles.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rbac.HasAnyPermission(roles, rbac.PermViewAllRequests) {
		return s.adRequests.List(ctx, f)
	}

	if brand, err := s.brands.GetByUserID(ctx, userID); err == nil {
		f.BrandID = &brand.ID
		return s.adRequests.List(ctx, f)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	inf, err := influencerForUser(ctx, s.influencers, userID)
	if err != nil {
		if errors.Is(err, ErrNoInfluencer) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	f.InfluencerID = &inf.ID
	return s.adRequests.List(ctx, f)
}

// authorize loads the request and checks the caller owns its campaign's brand
// or is the influencer it targets.
func (s *AdRequestService) authorize(ctx context.Context, userID, id int64) (*models.AdRequestWithCampaign, error) {
	ar, err := s.adRequests.GetByIDWithCampaign(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	b, err := s.brands.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if b.ID == ar.BrandID {
			return ar, nil
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	i, err := s.influencers.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if i.ID == ar.InfluencerID {
			return ar, nil
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	s.log.Warn("ad request access denied", zap.Int64("ad_request_id", id), zap.Int64("user_id", userID))
	return nil, ErrForbidden
}

// participants returns the user ids of the brand owner and the targeted influencer.
func (s *AdRequestService) participants(ctx context.Context, ar *models.AdRequestWithCampaign) []int64 {
	var ids []int64
	if b, err := s.brands.GetByID(ctx, ar.BrandID); err == nil {
		ids = append(ids, b.UserID)
	}
	if i, err := s.influencers.GetByID(ctx, ar.InfluencerID); err == nil {
		ids = append(ids, i.UserID)
	}
	return ids
}

func (s *AdRequestService) publish(ctx context.Context, ar *models.AdRequestWithCampaign, eventType string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.StreamAdRequests, events.Event{
		Type:    eventType,
		Payload: payload,
		UserIDs: s.participants(ctx, ar),
	}); err != nil {
		s.log.Warn("publish ad request event failed", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *AdRequestService) logAudit(ctx context.Context, userID int64, action string, adRequestID int64, meta map[string]any) {
	if err := s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   models.ActorUser,
		Action:      action,
		EntityType:  models.EntityAdRequest,
		EntityID:    &adRequestID,
		Meta:        meta,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}
