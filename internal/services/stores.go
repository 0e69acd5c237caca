package services

import (
	"context"

	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/repositories"
)

// The interfaces below are the subsets of the repositories each service relies on.
// *repositories.XRepo satisfies them in production.

type UserStore interface {
	Register(ctx context.Context, p repositories.RegisterParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type RoleStore interface {
	ListForUser(ctx context.Context, userID int64) ([]string, error)
}

type BrandStore interface {
	GetByID(ctx context.Context, id int64) (*models.Brand, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Brand, error)
	SetFlagged(ctx context.Context, id int64, flagged bool) error
	CountFlagged(ctx context.Context) (int, error)
}

type InfluencerStore interface {
	GetByID(ctx context.Context, id int64) (*models.Influencer, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Influencer, error)
	ListWithChannel(ctx context.Context) ([]models.Influencer, error)
	UpdateReach(ctx context.Context, id int64, reach, avgViews *int) error
	SetFlagged(ctx context.Context, id int64, flagged bool) error
	CountFlagged(ctx context.Context) (int, error)
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repositories.CampaignFilter) ([]models.CampaignWithBrand, error)
	CountByVisibility(ctx context.Context) (public, private int, err error)
}

type AdRequestStore interface {
	Create(ctx context.Context, a *models.AdRequest) error
	GetByIDWithCampaign(ctx context.Context, id int64) (*models.AdRequestWithCampaign, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdatePaymentAmount(ctx context.Context, id int64, amount float64) error
	List(ctx context.Context, f repositories.AdRequestFilter) ([]models.AdRequestWithCampaign, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry models.AuditLog) error
	List(ctx context.Context, f repositories.AuditFilter) ([]models.AuditLog, error)
}
