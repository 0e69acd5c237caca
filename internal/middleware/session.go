package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"go.uber.org/zap"
)

const CtxUserID = "user_id"

// Identity copies the session's user id, when present, into the request locals.
// It never rejects a request.
func Identity(sessions *auth.Sessions, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := sessions.UserID(c)
		if err != nil {
			log.Warn("session load failed", zap.String("request_id", RequestID(c)), zap.Error(err))
			return c.Next()
		}
		if ok {
			c.Locals(CtxUserID, userID)
		}
		return c.Next()
	}
}

// RequireSession redirects anonymous requests to the login page with a message.
func RequireSession(sessions *auth.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); ok {
			return c.Next()
		}
		if err := sessions.AddFlash(c, "Please log in to continue."); err != nil {
			return err
		}
		return c.Redirect("/login", fiber.StatusFound)
	}
}

// CurrentUserID returns the authenticated user id of the request, if any.
func CurrentUserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(CtxUserID).(int64)
	return id, ok
}
