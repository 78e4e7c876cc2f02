package models

import "time"

// Role tags a user as either side of the marketplace.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleReceiver
}

// User is a registered donor or receiver. Email is the login identifier.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // never serialized
	Phone        string    `json:"phone" gorm:"type:varchar(32);not null"`
	Role         Role      `json:"type" gorm:"type:varchar(16);not null"`
	Address      string    `json:"address" gorm:"not null"`
	City         string    `json:"city" gorm:"type:varchar(100);not null"`
	State        string    `json:"state" gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `json:"created_at"`
}
