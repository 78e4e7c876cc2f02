package repositories

import "errors"

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrRequestDecided is returned when a request is no longer pending.
	ErrRequestDecided = errors.New("request already decided")
	// ErrDonationUnavailable is returned when a donation cannot be reserved
	// because it is no longer available.
	ErrDonationUnavailable = errors.New("donation is not available")
)
