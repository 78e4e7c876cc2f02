package services

import (
	"context"
	"fmt"

	"foodshare/internal/models"
	"foodshare/internal/repositories"
)

// DonationService handles business logic related to donations.
type DonationService struct {
	repo repositories.DonationRepository
}

// NewDonationService creates a new DonationService.
func NewDonationService(repo repositories.DonationRepository) *DonationService {
	return &DonationService{
		repo: repo,
	}
}

// CreateDonation lists a new donation for donorID. New donations are always
// available.
func (s *DonationService) CreateDonation(ctx context.Context, donorID uint, donation *models.Donation) error {
	donation.ID = 0
	donation.DonorID = donorID
	donation.Status = models.DonationAvailable
	return s.repo.Create(ctx, donation)
}

// ListAvailable returns the public listing of available donations.
func (s *DonationService) ListAvailable(ctx context.Context, filter models.DonationFilter) ([]models.AvailableDonation, error) {
	return s.repo.ListAvailable(ctx, filter)
}

// ListOwned returns all donations of a donor regardless of status, newest first.
func (s *DonationService) ListOwned(ctx context.Context, donorID uint) ([]models.Donation, error) {
	return s.repo.ListByDonor(ctx, donorID)
}

// SetStatus changes the status of a donation owned by ownerID. Calls for a
// donation owned by someone else succeed without effect, and the transition
// itself is not checked against the current status.
func (s *DonationService) SetStatus(ctx context.Context, donationID, ownerID uint, status models.DonationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid donation status %q", ErrValidation, status)
	}
	return s.repo.UpdateStatus(ctx, donationID, ownerID, status)
}
