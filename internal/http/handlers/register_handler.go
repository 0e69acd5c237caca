package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/http/dto"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/rbac"
	"github.com/sponsorlink/backend/internal/services"
	"go.uber.org/zap"
)

type RegisterHandler struct {
	authService *services.AuthService
	sessions    *auth.Sessions
	log         *zap.Logger
}

func NewRegisterHandler(authService *services.AuthService, sessions *auth.Sessions, log *zap.Logger) *RegisterHandler {
	return &RegisterHandler{authService: authService, sessions: sessions, log: log}
}

var accountFields = []dto.FormField{
	{Name: "username", Type: "text", Required: true},
	{Name: "email", Type: "email", Required: true},
	{Name: "password", Type: "password", Required: true},
}

var profileFields = map[string][]dto.FormField{
	models.RoleBrand: {
		{Name: "brand_name", Type: "text"},
	},
	models.RoleInfluencer: {
		{Name: "influencer_name", Type: "text"},
		{Name: "niche", Type: "text"},
		{Name: "channel_handle", Type: "text"},
	},
}

func (h *RegisterHandler) ListRoles(c *fiber.Ctx) error {
	return render(c, h.sessions, fiber.Map{"roles": rbac.RegistrableSlugs()})
}

func (h *RegisterHandler) Form(c *fiber.Ctx) error {
	slug := roleSlug(c)
	roleName, ok := rbac.RegistrableRole(slug)
	if !ok {
		return fiber.ErrNotFound
	}
	fields := append(append([]dto.FormField{}, accountFields...), profileFields[roleName]...)
	return render(c, h.sessions, dto.FormView{Action: "/register/" + slug, Fields: fields})
}

func (h *RegisterHandler) Register(c *fiber.Ctx) error {
	slug := roleSlug(c)
	if _, ok := rbac.RegistrableRole(slug); !ok {
		return fiber.ErrNotFound
	}
	back := "/register/" + slug

	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithFlash(c, h.sessions, back, "invalid form")
	}
	if err := dto.Validate(form); err != nil {
		return redirectWithFlash(c, h.sessions, back, err.Error())
	}

	res, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Role:           slug,
		Username:       form.Username,
		Email:          form.Email,
		Password:       form.Password,
		BrandName:      form.BrandName,
		InfluencerName: form.InfluencerName,
		Niche:          form.Niche,
		ChannelHandle:  form.ChannelHandle,
	})
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		return redirectWithFlash(c, h.sessions, back, "Username already exists")
	case errors.Is(err, services.ErrEmailTaken):
		return redirectWithFlash(c, h.sessions, back, "Email already exists")
	case errors.Is(err, services.ErrUnknownRole):
		return fiber.ErrNotFound
	case errors.Is(err, services.ErrValidation):
		return redirectWithFlash(c, h.sessions, back, err.Error())
	case err != nil:
		h.log.Error("registration failed", zap.String("role", slug), zap.Error(err))
		return redirectWithFlash(c, h.sessions, back, "Registration failed, please try again")
	}

	// Nothing may touch the session after Login in this request: it regenerates the id.
	if err := h.sessions.Login(c, res.User.ID); err != nil {
		return err
	}
	return c.Redirect(rbac.HomePath(res.Role), fiber.StatusFound)
}

// roleSlug is the lowercased :role parameter, so /register/Brand works too.
func roleSlug(c *fiber.Ctx) string {
	return strings.ToLower(c.Params("role"))
}
