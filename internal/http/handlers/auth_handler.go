package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/http/dto"
	"github.com/sponsorlink/backend/internal/middleware"
	"github.com/sponsorlink/backend/internal/rbac"
	"github.com/sponsorlink/backend/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    *auth.Sessions
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, sessions *auth.Sessions, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, log: log}
}

var loginFields = []dto.FormField{
	{Name: "username", Type: "text", Required: true},
	{Name: "password", Type: "password", Required: true},
}

func (h *AuthHandler) Index(c *fiber.Ctx) error {
	return c.Redirect("/login", fiber.StatusFound)
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return render(c, h.sessions, dto.FormView{Action: "/login", Fields: loginFields})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithFlash(c, h.sessions, "/login", "Invalid username or password")
	}

	res, err := h.authService.Login(c.UserContext(), form.Username, form.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return redirectWithFlash(c, h.sessions, "/login", "Invalid username or password")
	case errors.Is(err, services.ErrNoRole):
		return redirectWithFlash(c, h.sessions, "/login", "No role assigned to this account")
	case err != nil:
		return err
	}

	if err := h.sessions.Login(c, res.User.ID); err != nil {
		return err
	}
	h.log.Info("user logged in",
		zap.String("request_id", middleware.RequestID(c)),
		zap.Int64("user_id", res.User.ID),
		zap.String("role", res.Role),
	)
	return c.Redirect(rbac.HomePath(res.Role), fiber.StatusFound)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		return err
	}
	return redirectWithFlash(c, h.sessions, "/login", "You have been logged out.")
}
