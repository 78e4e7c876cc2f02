package models

import "time"

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// NotificationLog records the single delivery attempt made for one email.
type NotificationLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	MessageID string         `json:"message_id" gorm:"type:varchar(36);index"`
	RequestID uint           `json:"request_id" gorm:"index"`
	Kind      string         `json:"kind" gorm:"type:varchar(32)"`
	Recipient string         `json:"recipient"`
	Subject   string         `json:"subject"`
	Status    DeliveryStatus `json:"status" gorm:"type:varchar(16)"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
