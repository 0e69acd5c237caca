package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sponsorlink/backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// RegisterParams describes one registration: the user, at most one profile and the role to assign.
type RegisterParams struct {
	Username     string
	Email        string
	PasswordHash string
	RoleName     string
	Brand        *models.Brand
	Influencer   *models.Influencer
}

// Register creates the user, its profile and its role association in one transaction.
// Profile IDs are written back into p.Brand / p.Influencer.
func (r *UserRepo) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u := models.User{Username: p.Username, Email: p.Email, PasswordHash: p.PasswordHash}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, uniqueViolation(err)
	}

	if p.Brand != nil {
		p.Brand.UserID = u.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO brands (user_id, name) VALUES ($1, $2)
			RETURNING id, is_flagged, created_at
		`, u.ID, p.Brand.Name).Scan(&p.Brand.ID, &p.Brand.IsFlagged, &p.Brand.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	if p.Influencer != nil {
		p.Influencer.UserID = u.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO influencers (user_id, name, niche, channel_handle) VALUES ($1, $2, $3, $4)
			RETURNING id, is_flagged, created_at
		`, u.ID, p.Influencer.Name, p.Influencer.Niche, p.Influencer.ChannelHandle,
		).Scan(&p.Influencer.ID, &p.Influencer.IsFlagged, &p.Influencer.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	var roleID int64
	err = tx.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, p.RoleName).Scan(&roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, u.ID, roleID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
