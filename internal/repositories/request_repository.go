package repositories

import (
	"context"

	"foodshare/internal/models"
)

// RequestRepository defines the interface for request data access.
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	ListReceivedBy(ctx context.Context, donorID uint) ([]models.ReceivedRequest, error)
	ListSentBy(ctx context.Context, receiverID uint) ([]models.SentRequest, error)
	GetPickupDetails(ctx context.Context, id uint) (*models.PickupDetails, error)
	// Accept moves the request from pending to accepted with otp and the
	// donation from available to reserved, atomically.
	Accept(ctx context.Context, id, donationID uint, otp string) error
	// Reject moves the request from pending to rejected.
	Reject(ctx context.Context, id uint) error
}

// NotificationLogRepository stores delivery outcomes of notification emails.
type NotificationLogRepository interface {
	Record(ctx context.Context, entry *models.NotificationLog) error
	ListByRequest(ctx context.Context, requestID uint) ([]models.NotificationLog, error)
}
