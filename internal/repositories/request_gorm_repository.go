package repositories

import (
	"context"
	"errors"
	"fmt"

	"foodshare/internal/models"

	"gorm.io/gorm"
)

// GORMRequestRepository is a GORM implementation of RequestRepository.
type GORMRequestRepository struct {
	db *gorm.DB
}

// NewGORMRequestRepository creates a new instance of GORMRequestRepository.
func NewGORMRequestRepository(db *gorm.DB) *GORMRequestRepository {
	return &GORMRequestRepository{
		db: db,
	}
}

// Create inserts a new request.
func (r *GORMRequestRepository) Create(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetByID retrieves a single request by its ID.
func (r *GORMRequestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get request by ID %d: %w", id, err)
	}
	return &request, nil
}

// ListReceivedBy returns the requests made against a donor's donations,
// newest first.
func (r *GORMRequestRepository) ListReceivedBy(ctx context.Context, donorID uint) ([]models.ReceivedRequest, error) {
	requests := []models.ReceivedRequest{}
	err := r.db.WithContext(ctx).
		Table("requests").
		Select(`requests.*, donations.food_type, donations.quantity,
			users.name AS receiver_name, users.email AS receiver_email, users.phone AS receiver_phone`).
		Joins("JOIN donations ON donations.id = requests.donation_id").
		Joins("JOIN users ON users.id = requests.receiver_id").
		Where("donations.donor_id = ?", donorID).
		Order("requests.created_at DESC").Order("requests.id DESC").
		Scan(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests received by donor %d: %w", donorID, err)
	}
	return requests, nil
}

// ListSentBy returns the requests made by a receiver, newest first.
func (r *GORMRequestRepository) ListSentBy(ctx context.Context, receiverID uint) ([]models.SentRequest, error) {
	requests := []models.SentRequest{}
	err := r.db.WithContext(ctx).
		Table("requests").
		Select(`requests.*, donations.food_type, donations.quantity, donations.address,
			users.name AS donor_name, users.phone AS donor_phone`).
		Joins("JOIN donations ON donations.id = requests.donation_id").
		Joins("JOIN users ON users.id = donations.donor_id").
		Where("requests.receiver_id = ?", receiverID).
		Order("requests.created_at DESC").Order("requests.id DESC").
		Scan(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests sent by receiver %d: %w", receiverID, err)
	}
	return requests, nil
}

// GetPickupDetails loads the request together with the donation and both
// parties' contact fields.
func (r *GORMRequestRepository) GetPickupDetails(ctx context.Context, id uint) (*models.PickupDetails, error) {
	var row struct {
		ID            uint
		OTP           *string `gorm:"column:otp"`
		FoodType      string
		Quantity      string
		Address       string
		ReceiverName  string
		ReceiverEmail string
		DonorName     string
		DonorEmail    string
	}
	res := r.db.WithContext(ctx).
		Table("requests").
		Select(`requests.id, requests.otp, donations.food_type, donations.quantity, donations.address,
			receivers.name AS receiver_name, receivers.email AS receiver_email,
			donors.name AS donor_name, donors.email AS donor_email`).
		Joins("JOIN donations ON donations.id = requests.donation_id").
		Joins("JOIN users receivers ON receivers.id = requests.receiver_id").
		Joins("JOIN users donors ON donors.id = donations.donor_id").
		Where("requests.id = ?", id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to load pickup details for request %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("pickup details for request %d: %w", id, ErrNotFound)
	}

	details := &models.PickupDetails{
		RequestID:     row.ID,
		FoodType:      row.FoodType,
		Quantity:      row.Quantity,
		Address:       row.Address,
		ReceiverName:  row.ReceiverName,
		ReceiverEmail: row.ReceiverEmail,
		DonorName:     row.DonorName,
		DonorEmail:    row.DonorEmail,
	}
	if row.OTP != nil {
		details.OTP = *row.OTP
	}
	return details, nil
}

// Accept records the acceptance and reserves the donation in one transaction.
// Both updates are conditional on the current status, so a request can only
// be decided once and a donation can only be reserved by one request.
func (r *GORMRequestRepository) Accept(ctx context.Context, id, donationID uint, otp string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", id, models.RequestPending).
			Updates(map[string]interface{}{"status": models.RequestAccepted, "otp": otp})
		if res.Error != nil {
			return fmt.Errorf("failed to accept request %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("request %d: %w", id, ErrRequestDecided)
		}

		res = tx.Model(&models.Donation{}).
			Where("id = ? AND status = ?", donationID, models.DonationAvailable).
			Update("status", models.DonationReserved)
		if res.Error != nil {
			return fmt.Errorf("failed to reserve donation %d: %w", donationID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("donation %d: %w", donationID, ErrDonationUnavailable)
		}
		return nil
	})
}

// Reject marks a pending request as rejected.
func (r *GORMRequestRepository) Reject(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.RequestPending).
		Update("status", models.RequestRejected)
	if res.Error != nil {
		return fmt.Errorf("failed to reject request %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request %d: %w", id, ErrRequestDecided)
	}
	return nil
}

// GORMNotificationLogRepository is a GORM implementation of NotificationLogRepository.
type GORMNotificationLogRepository struct {
	db *gorm.DB
}

func NewGORMNotificationLogRepository(db *gorm.DB) *GORMNotificationLogRepository {
	return &GORMNotificationLogRepository{db: db}
}

// Record stores one delivery outcome.
func (r *GORMNotificationLogRepository) Record(ctx context.Context, entry *models.NotificationLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record notification outcome: %w", err)
	}
	return nil
}

// ListByRequest returns the delivery outcomes recorded for a request, oldest first.
func (r *GORMNotificationLogRepository) ListByRequest(ctx context.Context, requestID uint) ([]models.NotificationLog, error) {
	entries := []models.NotificationLog{}
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications of request %d: %w", requestID, err)
	}
	return entries, nil
}
