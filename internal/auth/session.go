package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessionUserIDKey = "user_id"
	sessionFlashKey  = "flash"
)

type SessionConfig struct {
	// Storage is nil for fiber's in-memory storage.
	Storage      fiber.Storage
	TTL          time.Duration
	CookieSecure bool
}

// Sessions wraps the server-side session store. The only persisted identity field is the user id.
type Sessions struct {
	store *session.Store
}

func NewSessions(cfg SessionConfig) *Sessions {
	return &Sessions{
		store: session.New(session.Config{
			Storage:        cfg.Storage,
			Expiration:     cfg.TTL,
			KeyLookup:      "cookie:session_id",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.CookieSecure,
			CookieSameSite: "Lax",
		}),
	}
}

// UserID returns the user id stored in the request's session, if any.
func (s *Sessions) UserID(c *fiber.Ctx) (int64, bool, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return 0, false, err
	}
	id, ok := sess.Get(sessionUserIDKey).(int64)
	return id, ok, nil
}

// Login stores the user id in a freshly regenerated session.
func (s *Sessions) Login(c *fiber.Ctx, userID int64) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserIDKey, userID)
	return sess.Save()
}

// Logout removes the user id from the session. It never fails on an anonymous session.
func (s *Sessions) Logout(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	sess.Delete(sessionUserIDKey)
	return sess.Save()
}

// AddFlash queues a one-shot message for the next rendered view.
func (s *Sessions) AddFlash(c *fiber.Ctx, msg string) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	flashes, _ := sess.Get(sessionFlashKey).([]string)
	sess.Set(sessionFlashKey, append(flashes, msg))
	return sess.Save()
}

// PopFlashes returns and clears the queued messages.
func (s *Sessions) PopFlashes(c *fiber.Ctx) ([]string, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return nil, err
	}
	flashes, _ := sess.Get(sessionFlashKey).([]string)
	if len(flashes) == 0 {
		return nil, nil
	}
	sess.Delete(sessionFlashKey)
	return flashes, sess.Save()
}
