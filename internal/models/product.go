package models

import "time"

type Product struct {
	ID          uint `gorm:"primaryKey"`
	VendorID    uint `gorm:"not null;index"`
	Vendor      *Vendor
	Name        string  `gorm:"size:100;not null"`
	Description string  `gorm:"size:255"`
	Price       float64 `gorm:"not null"`
	Unit        string  `gorm:"size:20"` // litre, piece, plate vs.
	ImageURL    string  `gorm:"size:255"`
	IsAvailable bool    `gorm:"not null;default:true"` // delete is soft: flag flips to false
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
