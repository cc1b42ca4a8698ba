package models

import "time"

type LaundryOrderStatus string

const (
	LaundryStatusPending   LaundryOrderStatus = "pending"
	LaundryStatusConfirmed LaundryOrderStatus = "confirmed"
	LaundryStatusPickedUp  LaundryOrderStatus = "picked_up"
	LaundryStatusInProcess LaundryOrderStatus = "in_process"
	LaundryStatusReady     LaundryOrderStatus = "ready"
	LaundryStatusDelivered LaundryOrderStatus = "delivered"
	LaundryStatusCancelled LaundryOrderStatus = "cancelled"
)

// LaundryVendor is the type-specific profile behind a vendor of type laundry:
// pickup window, charges and service coverage on top of the base Vendor row.
type LaundryVendor struct {
	ID       uint `gorm:"primaryKey"`
	VendorID uint `gorm:"not null;uniqueIndex"`
	Vendor   *Vendor

	BusinessName       string  `gorm:"size:100;not null"`
	Description        string  `gorm:"size:255"`
	PickupTimeStart    string  `gorm:"size:10;not null;default:'08:00'"`
	PickupTimeEnd      string  `gorm:"size:10;not null;default:'18:00'"`
	DeliveryTimeHours  int     `gorm:"not null;default:24"`
	MinimumOrderAmount float64 `gorm:"not null;default:100"`
	PickupCharge       float64 `gorm:"not null;default:20"`
	DeliveryCharge     float64 `gorm:"not null;default:30"`
	ServiceAreas       string  `gorm:"size:500"` // comma separated area names
	IsActive           bool    `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Items []LaundryItem
}

type LaundryItem struct {
	ID              uint `gorm:"primaryKey"`
	LaundryVendorID uint `gorm:"not null;index"`

	Name               string  `gorm:"size:100;not null"`
	Description        string  `gorm:"size:255"`
	Category           string  `gorm:"size:50;not null"` // wash, iron, dry_clean vs.
	PricePerPiece      float64 `gorm:"not null"`
	EstimatedTimeHours int     `gorm:"not null;default:24"`
	ImageURL           string  `gorm:"size:255"`
	IsAvailable        bool    `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type LaundryOrder struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"not null;index"`
	User            *User
	LaundryVendorID uint `gorm:"not null;index"`
	LaundryVendor   *LaundryVendor

	OrderNumber          string `gorm:"size:30;uniqueIndex;not null"`
	PickupAddress        string `gorm:"size:255;not null"`
	PickupDate           time.Time
	PickupTimeSlot       string `gorm:"size:20;not null"`
	PickupInstructions   string `gorm:"size:255"`
	DeliveryAddress      string `gorm:"size:255"`
	DeliveryInstructions string `gorm:"size:255"`

	Status         LaundryOrderStatus `gorm:"size:20;not null;default:'pending'"`
	Subtotal       float64            `gorm:"not null"`
	PickupCharge   float64            `gorm:"not null"`
	DeliveryCharge float64            `gorm:"not null"`
	TaxAmount      float64            `gorm:"not null"`
	TotalAmount    float64            `gorm:"not null"`

	PaymentStatus    string `gorm:"size:20;not null;default:'pending'"`
	PaymentMethod    string `gorm:"size:50"`
	PaymentReference string `gorm:"size:60"`

	ConfirmedAt *time.Time
	PickedUpAt  *time.Time
	ReadyAt     *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []LaundryOrderItem
}

type LaundryOrderItem struct {
	ID             uint `gorm:"primaryKey"`
	LaundryOrderID uint `gorm:"not null;index"`
	LaundryItemID  uint `gorm:"not null"`
	LaundryItem    *LaundryItem

	Quantity            int     `gorm:"not null"`
	UnitPrice           float64 `gorm:"not null"`
	TotalPrice          float64 `gorm:"not null"`
	SpecialInstructions string  `gorm:"size:255"`
	CreatedAt           time.Time
}
