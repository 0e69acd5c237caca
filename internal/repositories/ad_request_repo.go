package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sponsorlink/backend/internal/models"
)

type AdRequestRepo struct {
	pool *pgxpool.Pool
}

func NewAdRequestRepo(pool *pgxpool.Pool) *AdRequestRepo {
	return &AdRequestRepo{pool: pool}
}

func (r *AdRequestRepo) Create(ctx context.Context, a *models.AdRequest) error {
	if a.Status == "" {
		a.Status = models.AdRequestStatusPending
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO ad_requests (campaign_id, influencer_id, payment_amount, status, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, a.CampaignID, a.InfluencerID, a.PaymentAmount, a.Status, a.Message,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

const adRequestSelect = `
	SELECT a.id, a.campaign_id, a.influencer_id, a.payment_amount, a.status, a.message,
	       a.created_at, a.updated_at, c.name, c.brand_id
	FROM ad_requests a
	JOIN campaigns c ON c.id = a.campaign_id
`

func (r *AdRequestRepo) GetByIDWithCampaign(ctx context.Context, id int64) (*models.AdRequestWithCampaign, error) {
	var a models.AdRequestWithCampaign
	err := r.pool.QueryRow(ctx, adRequestSelect+` WHERE a.id = $1`, id).Scan(
		&a.ID, &a.CampaignID, &a.InfluencerID, &a.PaymentAmount, &a.Status, &a.Message,
		&a.CreatedAt, &a.UpdatedAt, &a.CampaignName, &a.BrandID)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AdRequestRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE ad_requests SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdRequestRepo) UpdatePaymentAmount(ctx context.Context, id int64, amount float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE ad_requests SET payment_amount = $1, updated_at = now() WHERE id = $2`, amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type AdRequestFilter struct {
	BrandID      *int64
	InfluencerID *int64
	Status       *string
	Limit        int
	Offset       int
}

// List returns ad requests matching f, newest first. Limit <= 0 means no limit.
func (r *AdRequestRepo) List(ctx context.Context, f AdRequestFilter) ([]models.AdRequestWithCampaign, error) {
	query := adRequestSelect
	var w where
	if f.BrandID != nil {
		w.add("c.brand_id = $%d", *f.BrandID)
	}
	if f.InfluencerID != nil {
		w.add("a.influencer_id = $%d", *f.InfluencerID)
	}
	if f.Status != nil {
		w.add("a.status = $%d", *f.Status)
	}

	query += w.String() + " ORDER BY a.created_at DESC, a.id DESC" + w.page(f.Limit, f.Offset)
	args := w.args

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AdRequestWithCampaign
	for rows.Next() {
		var a models.AdRequestWithCampaign
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.InfluencerID, &a.PaymentAmount, &a.Status, &a.Message,
			&a.CreatedAt, &a.UpdatedAt, &a.CampaignName, &a.BrandID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
