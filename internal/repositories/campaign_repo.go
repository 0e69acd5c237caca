package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sponsorlink/backend/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (brand_id, name, niche, start_date, end_date, budget, is_private, description, requirement)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, c.BrandID, c.Name, c.Niche, c.StartDate, c.EndDate, c.Budget, c.IsPrivate,
		c.Description, c.Requirement,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	var c models.Campaign
	err := r.pool.QueryRow(ctx, `
		SELECT id, brand_id, name, niche, start_date, end_date, budget, is_private,
		       description, requirement, created_at, updated_at
		FROM campaigns WHERE id = $1
	`, id).Scan(&c.ID, &c.BrandID, &c.Name, &c.Niche, &c.StartDate, &c.EndDate, &c.Budget,
		&c.IsPrivate, &c.Description, &c.Requirement, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Update overwrites every mutable field; brand ownership is never changed.
func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE campaigns SET name = $1, niche = $2, start_date = $3, end_date = $4, budget = $5,
		       is_private = $6, description = $7, requirement = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`, c.Name, c.Niche, c.StartDate, c.EndDate, c.Budget, c.IsPrivate,
		c.Description, c.Requirement, c.ID,
	).Scan(&c.UpdatedAt)
	return notFound(err)
}

// Delete removes the campaign together with its ad requests.
func (r *CampaignRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM ad_requests WHERE campaign_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

type CampaignFilter struct {
	BrandID *int64
	Niche   *string
	// PublicOnly restricts to non-private campaigns of unflagged brands.
	PublicOnly bool
	Limit      int
	Offset     int
}

// List returns campaigns matching f, newest first. Limit <= 0 means no limit.
func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.CampaignWithBrand, error) {
	query := `
		SELECT c.id, c.brand_id, c.name, c.niche, c.start_date, c.end_date, c.budget, c.is_private,
		       c.description, c.requirement, c.created_at, c.updated_at, b.name
		FROM campaigns c
		JOIN brands b ON b.id = c.brand_id
	`
	var w where
	if f.BrandID != nil {
		w.add("c.brand_id = $%d", *f.BrandID)
	}
	if f.Niche != nil {
		w.add("lower(c.niche) = lower($%d)", *f.Niche)
	}
	if f.PublicOnly {
		w.raw("NOT c.is_private")
		w.raw("NOT b.is_flagged")
	}

	query += w.String() + " ORDER BY c.created_at DESC, c.id DESC" + w.page(f.Limit, f.Offset)
	args := w.args

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.CampaignWithBrand
	for rows.Next() {
		var c models.CampaignWithBrand
		if err := rows.Scan(&c.ID, &c.BrandID, &c.Name, &c.Niche, &c.StartDate, &c.EndDate, &c.Budget,
			&c.IsPrivate, &c.Description, &c.Requirement, &c.CreatedAt, &c.UpdatedAt, &c.BrandName); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// CountByVisibility returns the number of public and private campaigns.
func (r *CampaignRepo) CountByVisibility(ctx context.Context) (public, private int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT count(*) FILTER (WHERE NOT is_private), count(*) FILTER (WHERE is_private)
		FROM campaigns
	`).Scan(&public, &private)
	return public, private, err
}
