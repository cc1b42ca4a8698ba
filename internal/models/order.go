package models

import "time"

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded" // only reachable through a payment refund
)

type Order struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index"`
	User      *User
	VendorID  uint `gorm:"not null;index"`
	Vendor    *Vendor
	PartnerID *uint // worker assigned to carry the order out
	Partner   *User `gorm:"foreignKey:PartnerID"`
	PaymentID *uint // nil until paid

	Status              OrderStatus `gorm:"size:20;not null;index"`
	TotalAmount         float64     `gorm:"not null"`
	DeliveryAddress     string      `gorm:"size:255"`
	DeliveryDate        *time.Time
	DeliveryTime        string `gorm:"size:20"` // "07:30" style slot
	SpecialInstructions string `gorm:"size:255"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Items []OrderItem
}

type OrderItem struct {
	ID         uint `gorm:"primaryKey"`
	OrderID    uint `gorm:"not null;index"`
	ProductID  uint `gorm:"not null"`
	Product    *Product
	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"not null"`
	TotalPrice float64 `gorm:"not null"`
	CreatedAt  time.Time
}

// OrderStatusChange is the append-only history of lifecycle transitions.
// Rows are written in the same transaction as the status update itself.
type OrderStatusChange struct {
	ID        uint        `gorm:"primaryKey"`
	OrderID   uint        `gorm:"not null;index"`
	From      OrderStatus `gorm:"size:20;not null"`
	To        OrderStatus `gorm:"size:20;not null"`
	ChangedBy uint        `gorm:"not null"`
	CreatedAt time.Time
}
