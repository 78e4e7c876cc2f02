package repositories

import (
	"context"

	"foodshare/internal/models"
)

// DonationRepository defines the interface for donation data access.
type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	GetByID(ctx context.Context, id uint) (*models.Donation, error)
	ListAvailable(ctx context.Context, filter models.DonationFilter) ([]models.AvailableDonation, error)
	ListByDonor(ctx context.Context, donorID uint) ([]models.Donation, error)
	// UpdateStatus sets the status of a donation owned by donorID. It is a
	// no-op when the donation belongs to someone else.
	UpdateStatus(ctx context.Context, id, donorID uint, status models.DonationStatus) error
}
