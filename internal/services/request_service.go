package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"foodshare/internal/models"
	"foodshare/internal/notify"
	"foodshare/internal/repositories"
	"foodshare/pkg/logger"
)

// Decision is the donor's answer to a pending request.
type Decision struct {
	RequestID uint
	DonorID   uint
	Status    models.RequestStatus // accepted or rejected
	// DonationID is the donation the caller expects to reserve. Zero means
	// "the request's own donation"; any other value must match it.
	DonationID uint
}

// RequestService drives the request workflow: receivers submit requests,
// donors accept or reject them.
type RequestService struct {
	requestRepo  repositories.RequestRepository
	donationRepo repositories.DonationRepository
	logRepo      repositories.NotificationLogRepository
	dispatcher   notify.Dispatcher
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repositories.RequestRepository,
	donationRepo repositories.DonationRepository,
	logRepo repositories.NotificationLogRepository,
	dispatcher notify.Dispatcher,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		donationRepo: donationRepo,
		logRepo:      logRepo,
		dispatcher:   dispatcher,
	}
}

// GenerateOTP returns a uniformly random 6-digit pickup code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SubmitRequest records a receiver's interest in a donation. The donation
// must exist; its status and earlier requests by the same receiver are not
// checked, the decision step guards against double booking.
func (s *RequestService) SubmitRequest(ctx context.Context, donationID, receiverID uint) (*models.Request, error) {
	if _, err := s.donationRepo.GetByID(ctx, donationID); err != nil {
		return nil, err
	}

	request := &models.Request{
		DonationID: donationID,
		ReceiverID: receiverID,
		Status:     models.RequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Decide applies a donor's decision to a pending request. Accepting assigns
// a pickup code, reserves the donation in the same transaction and queues the
// confirmation emails; email failures never fail the decision.
func (s *RequestService) Decide(ctx context.Context, d Decision) (*models.Request, error) {
	if d.Status != models.RequestAccepted && d.Status != models.RequestRejected {
		return nil, fmt.Errorf("%w: status must be accepted or rejected", ErrValidation)
	}

	request, err := s.requestRepo.GetByID(ctx, d.RequestID)
	if err != nil {
		return nil, err
	}
	if d.DonationID != 0 && d.DonationID != request.DonationID {
		return nil, fmt.Errorf("%w: donation %d does not match request %d", ErrValidation, d.DonationID, request.ID)
	}

	donation, err := s.donationRepo.GetByID(ctx, request.DonationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != d.DonorID {
		return nil, fmt.Errorf("%w: donation %d belongs to another donor", ErrForbidden, donation.ID)
	}

	if d.Status == models.RequestRejected {
		if err := s.requestRepo.Reject(ctx, request.ID); err != nil {
			return nil, err
		}
		request.Status = models.RequestRejected
		return request, nil
	}

	otp, err := GenerateOTP()
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Accept(ctx, request.ID, donation.ID, otp); err != nil {
		return nil, err
	}
	request.Status = models.RequestAccepted
	request.OTP = &otp

	s.notifyPickup(ctx, request.ID)
	return request, nil
}

func (s *RequestService) notifyPickup(ctx context.Context, requestID uint) {
	details, err := s.requestRepo.GetPickupDetails(ctx, requestID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load pickup details, notifications skipped", "request_id", requestID, "error", err)
		return
	}
	s.dispatcher.Dispatch(ctx, notify.PickupConfirmation(details)...)
}

// ListReceived returns the requests made against a donor's donations.
func (s *RequestService) ListReceived(ctx context.Context, donorID uint) ([]models.ReceivedRequest, error) {
	return s.requestRepo.ListReceivedBy(ctx, donorID)
}

// ListSent returns the requests made by a receiver.
func (s *RequestService) ListSent(ctx context.Context, receiverID uint) ([]models.SentRequest, error) {
	return s.requestRepo.ListSentBy(ctx, receiverID)
}

// NotificationHistory returns the delivery log of a request. Only the
// request's receiver and the donation's donor may read it.
func (s *RequestService) NotificationHistory(ctx context.Context, requestID, userID uint) ([]models.NotificationLog, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != userID {
		donation, err := s.donationRepo.GetByID(ctx, request.DonationID)
		if err != nil {
			return nil, err
		}
		if donation.DonorID != userID {
			return nil, fmt.Errorf("%w: request %d", ErrForbidden, requestID)
		}
	}
	return s.logRepo.ListByRequest(ctx, requestID)
}
