package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/metrics"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/rbac"
	"github.com/sponsorlink/backend/internal/repositories"
	"go.uber.org/zap"
)

type AuthService struct {
	users      UserStore
	roles      RoleStore
	bcryptCost int
	log        *zap.Logger
}

func NewAuthService(users UserStore, roles RoleStore, bcryptCost int, log *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		roles:      roles,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

type LoginResult struct {
	User  *models.User
	Roles []string
	// Role is the role used to pick the landing page.
	Role string
}

// Login verifies credentials and resolves the landing role. A user without any role
// is rejected with ErrNoRole even when the password matches.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	roles, err := s.roles.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	role, ok := rbac.PrimaryRole(roles)
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("no_role").Inc()
		s.log.Warn("login without role", zap.Int64("user_id", user.ID), zap.Strings("roles", roles))
		return nil, ErrNoRole
	}
	if len(roles) > 1 {
		s.log.Warn("user holds several roles, routing by precedence",
			zap.Int64("user_id", user.ID),
			zap.Strings("roles", roles),
			zap.String("landing_role", role),
		)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &LoginResult{User: user, Roles: roles, Role: role}, nil
}

type RegisterInput struct {
	// Role is the registration slug: "brand" or "influencer".
	Role           string
	Username       string
	Email          string
	Password       string
	BrandName      string
	InfluencerName string
	Niche          string
	ChannelHandle  string
}

// Register creates the user, its profile and role association atomically.
// Username is checked before email; the first conflict wins.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	roleName, ok := rbac.RegistrableRole(strings.ToLower(in.Role))
	if !ok {
		return nil, ErrUnknownRole
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	taken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	params := repositories.RegisterParams{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		RoleName:     roleName,
	}
	switch roleName {
	case models.RoleBrand:
		params.Brand = &models.Brand{Name: firstNonEmpty(in.BrandName, in.Username)}
	case models.RoleInfluencer:
		inf := &models.Influencer{
			Name:  firstNonEmpty(in.InfluencerName, in.Username),
			Niche: strings.TrimSpace(in.Niche),
		}
		if h := normalizeHandle(in.ChannelHandle); h != "" {
			inf.ChannelHandle = &h
		}
		params.Influencer = inf
	}

	user, err := s.users.Register(ctx, params)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			s.log.Error("role row missing, registration rolled back", zap.String("role", roleName))
		}
		return nil, translate(err)
	}

	metrics.RegistrationsTotal.WithLabelValues(roleName).Inc()
	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", roleName))
	return &LoginResult{User: user, Roles: []string{roleName}, Role: roleName}, nil
}

// EnsureAdmin creates the bootstrap admin account unless the username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	user, err := s.users.Register(ctx, repositories.RegisterParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleName:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", translate(err))
	}

	s.log.Info("admin user created", zap.Int64("user_id", user.ID), zap.String("username", username))
	return nil
}

// Roles returns the role names of a user.
func (s *AuthService) Roles(ctx context.Context, userID int64) ([]string, error) {
	return s.roles.ListForUser(ctx, userID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// normalizeHandle strips "@" and a t.me URL prefix from a channel handle.
func normalizeHandle(h string) string {
	h = strings.TrimSpace(h)
	for _, prefix := range []string{"https://t.me/", "http://t.me/", "t.me/", "@"} {
		h = strings.TrimPrefix(h, prefix)
	}
	return strings.Trim(h, "/")
}
