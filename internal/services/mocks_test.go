package services_test

import (
	"context"
	"sync"

	"foodshare/internal/models"
	"foodshare/internal/notify"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockDonationRepository is a mock implementation of repositories.DonationRepository
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id uint) (*models.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListAvailable(ctx context.Context, filter models.DonationFilter) ([]models.AvailableDonation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailableDonation), args.Error(1)
}

func (m *MockDonationRepository) ListByDonor(ctx context.Context, donorID uint) ([]models.Donation, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Donation), args.Error(1)
}

func (m *MockDonationRepository) UpdateStatus(ctx context.Context, id, donorID uint, status models.DonationStatus) error {
	args := m.Called(ctx, id, donorID, status)
	return args.Error(0)
}

// MockRequestRepository is a mock implementation of repositories.RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, request *models.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) ListReceivedBy(ctx context.Context, donorID uint) ([]models.ReceivedRequest, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReceivedRequest), args.Error(1)
}

func (m *MockRequestRepository) ListSentBy(ctx context.Context, receiverID uint) ([]models.SentRequest, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SentRequest), args.Error(1)
}

func (m *MockRequestRepository) GetPickupDetails(ctx context.Context, id uint) (*models.PickupDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickupDetails), args.Error(1)
}

func (m *MockRequestRepository) Accept(ctx context.Context, id, donationID uint, otp string) error {
	args := m.Called(ctx, id, donationID, otp)
	return args.Error(0)
}

func (m *MockRequestRepository) Reject(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationLogRepository is a mock implementation of repositories.NotificationLogRepository
type MockNotificationLogRepository struct {
	mock.Mock
}

func (m *MockNotificationLogRepository) Record(ctx context.Context, entry *models.NotificationLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockNotificationLogRepository) ListByRequest(ctx context.Context, requestID uint) ([]models.NotificationLog, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotificationLog), args.Error(1)
}

// recordingDispatcher keeps every dispatched notification.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, notifications ...notify.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, notifications...)
}

func (d *recordingDispatcher) Sent() []notify.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Notification(nil), d.sent...)
}
