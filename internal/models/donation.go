package models

import "time"

// DonationStatus is the lifecycle of a listed donation:
// available -> reserved -> completed.
type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationReserved  DonationStatus = "reserved"
	DonationCompleted DonationStatus = "completed"
)

// Valid reports whether s is a known donation status.
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationAvailable, DonationReserved, DonationCompleted:
		return true
	}
	return false
}

// Donation is a batch of surplus food offered by a donor.
type Donation struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	DonorID   uint           `json:"donor_id" gorm:"index;not null"`
	FoodType  string         `json:"food_type" gorm:"not null"`
	Quantity  string         `json:"quantity" gorm:"not null"`
	ShelfLife string         `json:"shelf_life" gorm:"not null"`
	PhotoURL  *string        `json:"photo_url"`
	Address   string         `json:"address" gorm:"not null"`
	City      string         `json:"city" gorm:"type:varchar(100);index;not null"`
	State     string         `json:"state" gorm:"type:varchar(100);index;not null"`
	Status    DonationStatus `json:"status" gorm:"type:varchar(16);index;not null;default:available"`
	CreatedAt time.Time      `json:"created_at"`
}

// AvailableDonation is a public listing row: the donation plus the donor's
// display fields.
type AvailableDonation struct {
	Donation
	DonorName  string `json:"donor_name"`
	DonorPhone string `json:"donor_phone"`
}

// DonationFilter narrows the public listing. Empty fields are unconstrained.
type DonationFilter struct {
	City  string `query:"city"`
	State string `query:"state"`
}
