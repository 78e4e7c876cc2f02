package services_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"foodshare/internal/models"
	"foodshare/internal/repositories"
	"foodshare/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var otpPattern = regexp.MustCompile(`^\d{6}$`)

type requestServiceDeps struct {
	requests   *MockRequestRepository
	donations  *MockDonationRepository
	logs       *MockNotificationLogRepository
	dispatcher *recordingDispatcher
	service    *services.RequestService
}

func newRequestService() *requestServiceDeps {
	d := &requestServiceDeps{
		requests:   new(MockRequestRepository),
		donations:  new(MockDonationRepository),
		logs:       new(MockNotificationLogRepository),
		dispatcher: &recordingDispatcher{},
	}
	d.service = services.NewRequestService(d.requests, d.donations, d.logs, d.dispatcher)
	return d
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := services.GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, otpPattern, otp)
		assert.NotEqual(t, byte('0'), otp[0])
	}
}

func TestRequestService_SubmitRequest(t *testing.T) {
	ctx := context.Background()
	d := newRequestService()

	// status of the donation is not checked
	d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1, Status: models.DonationReserved}, nil).Once()
	d.requests.On("Create", ctx, mock.AnythingOfType("*models.Request")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Request).ID = 11 }).
		Return(nil).Once()

	request, err := d.service.SubmitRequest(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(11), request.ID)
	assert.Equal(t, uint(7), request.DonationID)
	assert.Equal(t, uint(3), request.ReceiverID)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Nil(t, request.OTP)

	// unknown donation
	d.donations.On("GetByID", ctx, uint(99)).Return(nil, fmt.Errorf("donation: %w", repositories.ErrNotFound)).Once()
	_, err = d.service.SubmitRequest(ctx, 99, 3)
	assert.ErrorIs(t, err, services.ErrNotFound)

	d.donations.AssertExpectations(t)
	d.requests.AssertExpectations(t)
}

func TestRequestService_DecideAccepted(t *testing.T) {
	ctx := context.Background()
	d := newRequestService()

	d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7, ReceiverID: 3, Status: models.RequestPending}, nil).Once()
	d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1, Status: models.DonationAvailable}, nil).Once()
	d.requests.On("Accept", ctx, uint(11), uint(7), mock.MatchedBy(otpPattern.MatchString)).Return(nil).Once()
	d.requests.On("GetPickupDetails", ctx, uint(11)).Return(&models.PickupDetails{
		RequestID: 11, FoodType: "Rice", Quantity: "5 kg", Address: "1 Main St", OTP: "123456",
		ReceiverEmail: "ravi@example.org", DonorEmail: "dana@example.org",
	}, nil).Once()

	request, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestAccepted, DonationID: 7})
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, request.Status)
	require.NotNil(t, request.OTP)
	assert.Regexp(t, otpPattern, *request.OTP)

	sent := d.dispatcher.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "ravi@example.org", sent[0].To)
	assert.Equal(t, "dana@example.org", sent[1].To)

	d.requests.AssertExpectations(t)
	d.donations.AssertExpectations(t)
}

func TestRequestService_DecideAcceptedDerivesDonation(t *testing.T) {
	ctx := context.Background()
	d := newRequestService()

	d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7, Status: models.RequestPending}, nil).Once()
	d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1}, nil).Once()
	d.requests.On("Accept", ctx, uint(11), uint(7), mock.Anything).Return(nil).Once()
	// notification lookup failure does not fail the decision
	d.requests.On("GetPickupDetails", ctx, uint(11)).Return(nil, assert.AnError).Once()

	request, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestAccepted})
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, request.Status)
	assert.Empty(t, d.dispatcher.Sent())
	d.requests.AssertExpectations(t)
}

func TestRequestService_DecideRejectedLeavesDonation(t *testing.T) {
	ctx := context.Background()
	d := newRequestService()

	d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7, Status: models.RequestPending}, nil).Once()
	d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1}, nil).Once()
	d.requests.On("Reject", ctx, uint(11)).Return(nil).Once()

	request, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestRejected, DonationID: 7})
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, request.Status)
	assert.Nil(t, request.OTP)
	assert.Empty(t, d.dispatcher.Sent())

	d.requests.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	d.donations.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	d.requests.AssertExpectations(t)
}

func TestRequestService_DecideErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid status", func(t *testing.T) {
		d := newRequestService()
		_, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestPending})
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("unknown request", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(11)).Return(nil, repositories.ErrNotFound).Once()
		_, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestAccepted})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("donation mismatch", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7}, nil).Once()
		_, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestAccepted, DonationID: 8})
		assert.ErrorIs(t, err, services.ErrValidation)
		d.requests.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not the owner", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7}, nil).Once()
		d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 2}, nil).Once()
		_, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestRejected})
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("already decided", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7, Status: models.RequestAccepted}, nil).Once()
		d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1}, nil).Once()
		d.requests.On("Accept", ctx, uint(11), uint(7), mock.Anything).Return(fmt.Errorf("request 11: %w", repositories.ErrRequestDecided)).Once()
		_, err := d.service.Decide(ctx, services.Decision{RequestID: 11, DonorID: 1, Status: models.RequestAccepted})
		assert.ErrorIs(t, err, services.ErrRequestDecided)
		assert.Empty(t, d.dispatcher.Sent())
	})

	t.Run("donation already reserved", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(12)).Return(&models.Request{ID: 12, DonationID: 7, Status: models.RequestPending}, nil).Once()
		d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1, Status: models.DonationReserved}, nil).Once()
		d.requests.On("Accept", ctx, uint(12), uint(7), mock.Anything).Return(repositories.ErrDonationUnavailable).Once()
		_, err := d.service.Decide(ctx, services.Decision{RequestID: 12, DonorID: 1, Status: models.RequestAccepted})
		assert.ErrorIs(t, err, services.ErrDonationUnavailable)
	})
}

func TestRequestService_NotificationHistory(t *testing.T) {
	ctx := context.Background()
	entries := []models.NotificationLog{{ID: 1, RequestID: 11, Status: models.DeliverySent}}

	t.Run("receiver", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7, ReceiverID: 3}, nil).Once()
		d.logs.On("ListByRequest", ctx, uint(11)).Return(entries, nil).Once()
		got, err := d.service.NotificationHistory(ctx, 11, 3)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("donor", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7, ReceiverID: 3}, nil).Once()
		d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1}, nil).Once()
		d.logs.On("ListByRequest", ctx, uint(11)).Return(entries, nil).Once()
		_, err := d.service.NotificationHistory(ctx, 11, 1)
		require.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		d := newRequestService()
		d.requests.On("GetByID", ctx, uint(11)).Return(&models.Request{ID: 11, DonationID: 7, ReceiverID: 3}, nil).Once()
		d.donations.On("GetByID", ctx, uint(7)).Return(&models.Donation{ID: 7, DonorID: 1}, nil).Once()
		_, err := d.service.NotificationHistory(ctx, 11, 5)
		assert.ErrorIs(t, err, services.ErrForbidden)
		d.logs.AssertNotCalled(t, "ListByRequest", mock.Anything, mock.Anything)
	})
}
