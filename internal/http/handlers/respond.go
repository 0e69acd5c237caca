package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/http/dto"
	"github.com/sponsorlink/backend/internal/middleware"
	"github.com/sponsorlink/backend/internal/services"
)

// render writes a view together with the flashes queued for it.
func render(c *fiber.Ctx, sessions *auth.Sessions, data any) error {
	flashes, err := sessions.PopFlashes(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{OK: true, Flash: flashes, Data: data})
}

func redirectWithFlash(c *fiber.Ctx, sessions *auth.Sessions, path, msg string) error {
	if err := sessions.AddFlash(c, msg); err != nil {
		return err
	}
	return c.Redirect(path, fiber.StatusFound)
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, RequestID: middleware.RequestID(c)})
}

// fail maps a service error onto the response. back is where validation
// failures are sent.
func fail(c *fiber.Ctx, sessions *auth.Sessions, err error, back string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrInvalidTransition):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoBrandProfile), errors.Is(err, services.ErrNoInfluencer):
		return redirectWithFlash(c, sessions, "/login", "Unauthorized")
	case errors.Is(err, services.ErrValidation):
		return redirectWithFlash(c, sessions, back, err.Error())
	}
	return err
}

// userID returns the session user. Routes using it sit behind RequireSession.
func userID(c *fiber.Ctx) int64 {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// paramID parses the :id route parameter. Non-numeric ids are reported as 404
// like any other unknown id.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return id, nil
}
