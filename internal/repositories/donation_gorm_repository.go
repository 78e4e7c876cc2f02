package repositories

import (
	"context"
	"errors"
	"fmt"

	"foodshare/internal/models"

	"gorm.io/gorm"
)

// GORMDonationRepository is a GORM implementation of DonationRepository.
type GORMDonationRepository struct {
	db *gorm.DB
}

// NewGORMDonationRepository creates a new instance of GORMDonationRepository.
func NewGORMDonationRepository(db *gorm.DB) *GORMDonationRepository {
	return &GORMDonationRepository{
		db: db,
	}
}

// Create inserts a new donation.
func (r *GORMDonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	if err := r.db.WithContext(ctx).Create(donation).Error; err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

// GetByID retrieves a single donation by its ID.
func (r *GORMDonationRepository) GetByID(ctx context.Context, id uint) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).First(&donation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("donation with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get donation by ID %d: %w", id, err)
	}
	return &donation, nil
}

// ListAvailable returns available donations joined with the donor's name and
// phone, narrowed by the exact-match filter fields that are set.
func (r *GORMDonationRepository) ListAvailable(ctx context.Context, filter models.DonationFilter) ([]models.AvailableDonation, error) {
	q := r.db.WithContext(ctx).
		Table("donations").
		Select("donations.*, users.name AS donor_name, users.phone AS donor_phone").
		Joins("JOIN users ON users.id = donations.donor_id").
		Where("donations.status = ?", models.DonationAvailable)
	if filter.City != "" {
		q = q.Where("donations.city = ?", filter.City)
	}
	if filter.State != "" {
		q = q.Where("donations.state = ?", filter.State)
	}

	donations := []models.AvailableDonation{}
	if err := q.Scan(&donations).Error; err != nil {
		return nil, fmt.Errorf("failed to list available donations: %w", err)
	}
	return donations, nil
}

// ListByDonor returns every donation of a donor, newest first.
func (r *GORMDonationRepository) ListByDonor(ctx context.Context, donorID uint) ([]models.Donation, error) {
	donations := []models.Donation{}
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").Order("id DESC").
		Find(&donations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list donations of donor %d: %w", donorID, err)
	}
	return donations, nil
}

// UpdateStatus sets the status of a donation owned by donorID.
func (r *GORMDonationRepository) UpdateStatus(ctx context.Context, id, donorID uint, status models.DonationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ? AND donor_id = ?", id, donorID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of donation %d: %w", id, res.Error)
	}
	return nil
}
