package services

import (
	"errors"

	"github.com/sponsorlink/backend/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoRole             = errors.New("no role is assigned to this account")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrNoBrandProfile     = errors.New("unauthorized: no brand profile")
	ErrNoInfluencer       = errors.New("unauthorized: no influencer profile")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid ad request transition")
	ErrValidation         = errors.New("validation failed")
)

// translate maps repository sentinels onto service errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrUsernameExists):
		return ErrUsernameTaken
	case errors.Is(err, repositories.ErrEmailExists):
		return ErrEmailTaken
	}
	return err
}
