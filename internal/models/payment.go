package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is a mock record; no real gateway is involved. The transaction
// reference is generated locally and captures succeed immediately.
type Payment struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"not null;index"`
	Order   *Order
	UserID  uint `gorm:"not null;index"`
	User    *User

	Amount        float64       `gorm:"not null"`
	Method        string        `gorm:"size:50"`
	Status        PaymentStatus `gorm:"size:20;not null"`
	TransactionID string        `gorm:"size:50;uniqueIndex"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
