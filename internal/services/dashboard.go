package services

import (
	"context"
	"fmt"

	"foodshare/internal/models"
)

// DashboardView is the landing data for a signed-in user. Only the sections
// relevant to the user's role are filled.
type DashboardView struct {
	Role      models.Role                `json:"type"`
	Donations []models.Donation          `json:"donations,omitempty"`
	Received  []models.ReceivedRequest   `json:"received_requests,omitempty"`
	Available []models.AvailableDonation `json:"available_donations,omitempty"`
	Sent      []models.SentRequest       `json:"sent_requests,omitempty"`
}

// Dashboard builds the landing view for one role.
type Dashboard interface {
	Build(ctx context.Context, user *models.User) (*DashboardView, error)
}

type donorDashboard struct {
	donations *DonationService
	requests  *RequestService
}

// Build lists the donor's own donations and the requests received for them.
func (d donorDashboard) Build(ctx context.Context, user *models.User) (*DashboardView, error) {
	donations, err := d.donations.ListOwned(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	received, err := d.requests.ListReceived(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &DashboardView{Role: models.RoleDonor, Donations: donations, Received: received}, nil
}

type receiverDashboard struct {
	donations *DonationService
	requests  *RequestService
}

// Build lists available donations near the receiver and the receiver's own
// requests.
func (d receiverDashboard) Build(ctx context.Context, user *models.User) (*DashboardView, error) {
	available, err := d.donations.ListAvailable(ctx, models.DonationFilter{City: user.City, State: user.State})
	if err != nil {
		return nil, err
	}
	sent, err := d.requests.ListSent(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &DashboardView{Role: models.RoleReceiver, Available: available, Sent: sent}, nil
}

// DashboardService resolves the dashboard implementation for a role.
type DashboardService struct {
	byRole map[models.Role]Dashboard
}

func NewDashboardService(donations *DonationService, requests *RequestService) *DashboardService {
	return &DashboardService{
		byRole: map[models.Role]Dashboard{
			models.RoleDonor:    donorDashboard{donations: donations, requests: requests},
			models.RoleReceiver: receiverDashboard{donations: donations, requests: requests},
		},
	}
}

// For returns the dashboard of role.
func (s *DashboardService) For(role models.Role) (Dashboard, error) {
	d, ok := s.byRole[role]
	if !ok {
		return nil, fmt.Errorf("%w: no dashboard for user type %q", ErrValidation, role)
	}
	return d, nil
}

// Build renders the dashboard of user.
func (s *DashboardService) Build(ctx context.Context, user *models.User) (*DashboardView, error) {
	d, err := s.For(user.Role)
	if err != nil {
		return nil, err
	}
	return d.Build(ctx, user)
}
