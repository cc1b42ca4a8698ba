package vendors

import (
	"errors"
	"strings"

	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	loginEmailDomain = "@vendor.test"

	// Demo-only weakness, on purpose: every auto-provisioned vendor account
	// gets this fixed password. This system is a non-production demo; a real
	// deployment would generate and deliver a credential out of band.
	defaultVendorPassword = "test"
)

// LoginEmail derives the vendor login address from the display name:
// lower-cased, whitespace runs collapsed to a single underscore, fixed
// domain appended. Deterministic, so creating the same name twice collides
// on the user table's unique email index.
func LoginEmail(vendorName string) string {
	return strings.Join(strings.Fields(strings.ToLower(vendorName)), "_") + loginEmailDomain
}

// provisionLogin creates the standalone login for vendor types that require
// one and links it as the vendor's owning admin. It runs on the caller's
// transaction: a collision rolls back the vendor row too.
func provisionLogin(tx *gorm.DB, vendor *models.Vendor) error {
	email := LoginEmail(vendor.Name)

	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not check vendor login")
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "A login already exists for this vendor name")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultVendorPassword), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not hash vendor password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    vendor.Name,
		LastName:     "Vendor",
		Role:         models.RoleVendor,
		CommunityID:  &vendor.CommunityID,
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		// Concurrent provisioning of the same name loses the race on the
		// unique email index; that is still a conflict, not a server fault.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "A login already exists for this vendor name")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Could not create vendor login")
	}

	if err := tx.Model(vendor).Update("admin_id", user.ID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not link vendor login")
	}
	vendor.AdminID = &user.ID
	return nil
}
