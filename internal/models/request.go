package models

import "time"

// RequestStatus is the state of a receiver's request. Both accepted and
// rejected are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Request is a receiver's claim on a donation. OTP is only set once the
// donor accepts it.
type Request struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	DonationID uint          `json:"donation_id" gorm:"index;not null"`
	ReceiverID uint          `json:"receiver_id" gorm:"index;not null"`
	Status     RequestStatus `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	OTP        *string       `json:"otp" gorm:"column:otp;type:varchar(6)"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ReceivedRequest is a request as seen by the donor who owns the donation.
type ReceivedRequest struct {
	Request
	FoodType      string `json:"food_type"`
	Quantity      string `json:"quantity"`
	ReceiverName  string `json:"receiver_name"`
	ReceiverEmail string `json:"receiver_email"`
	ReceiverPhone string `json:"receiver_phone"`
}

// SentRequest is a request as seen by the receiver who made it.
type SentRequest struct {
	Request
	FoodType   string `json:"food_type"`
	Quantity   string `json:"quantity"`
	Address    string `json:"address"`
	DonorName  string `json:"donor_name"`
	DonorPhone string `json:"donor_phone"`
}

// PickupDetails carries everything the pickup confirmation emails need.
type PickupDetails struct {
	RequestID     uint
	FoodType      string
	Quantity      string
	Address       string
	OTP           string
	ReceiverName  string
	ReceiverEmail string
	DonorName     string
	DonorEmail    string
}
