// Package notify delivers pickup emails outside the request path. Every
// notification gets exactly one delivery attempt and its outcome is recorded.
package notify

import (
	"context"
	"fmt"

	"foodshare/internal/models"

	"github.com/google/uuid"
)

type Kind string

const (
	KindPickupReceiver Kind = "pickup_receiver"
	KindPickupDonor    Kind = "pickup_donor"
)

const pickupSubject = "Food Pickup Confirmed"

// Notification is one email to one recipient.
type Notification struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	RequestID uint   `json:"request_id"`
	To        string `json:"to"`
	ToName    string `json:"to_name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Dispatcher hands notifications off for asynchronous delivery. It never
// blocks on delivery and never reports delivery errors to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, notifications ...Notification)
}

// PickupConfirmation builds the receiver and donor emails sent when a request
// is accepted.
func PickupConfirmation(d *models.PickupDetails) []Notification {
	body := fmt.Sprintf(`Pickup Confirmation

Food: %s
Quantity: %s
Pickup Address: %s

Verification OTP: %s

Please use this OTP during pickup.
`, d.FoodType, d.Quantity, d.Address, d.OTP)

	return []Notification{
		{
			ID:        uuid.NewString(),
			Kind:      KindPickupReceiver,
			RequestID: d.RequestID,
			To:        d.ReceiverEmail,
			ToName:    d.ReceiverName,
			Subject:   pickupSubject,
			Body:      body,
		},
		{
			ID:        uuid.NewString(),
			Kind:      KindPickupDonor,
			RequestID: d.RequestID,
			To:        d.DonorEmail,
			ToName:    d.DonorName,
			Subject:   pickupSubject,
			Body:      body,
		},
	}
}
