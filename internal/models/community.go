package models

import "time"

type Community struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null"`
	Code       string `gorm:"size:20;uniqueIndex;not null"` // join token shared with residents
	Address    string `gorm:"size:255"`
	AdminName  string `gorm:"size:100"`
	AdminEmail string `gorm:"size:100"`
	AdminPhone string `gorm:"size:50"`
	IsActive   bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Users   []User
	Vendors []Vendor
}
