package models

import "time"

type UserRole string

const (
	RoleMaster  UserRole = "master"
	RoleAdmin   UserRole = "admin"
	RolePartner UserRole = "partner"
	RoleUser    UserRole = "user"
	RoleVendor  UserRole = "vendor"
)

type User struct {
	ID              uint `gorm:"primaryKey"`
	CommunityID     *uint
	Community       *Community
	Email           string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash    string   `gorm:"size:255;not null"`
	FirstName       string   `gorm:"size:100;not null"`
	LastName        string   `gorm:"size:100;not null"`
	Phone           string   `gorm:"size:50"` // optional contact number
	Role            UserRole `gorm:"size:20;not null"`
	ApartmentNumber string   `gorm:"size:50"`
	IsActive        bool     `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
