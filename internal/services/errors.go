package services

import (
	"errors"

	"foodshare/internal/repositories"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")

	ErrNotFound            = repositories.ErrNotFound
	ErrRequestDecided      = repositories.ErrRequestDecided
	ErrDonationUnavailable = repositories.ErrDonationUnavailable
)
