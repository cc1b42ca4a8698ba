package vendors

import (
	"strings"
	"time"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateVendorRequest struct {
	Name        string            `json:"name"`
	Type        models.VendorType `json:"type"`
	CommunityID uint              `json:"community_id"`
	AdminID     *uint             `json:"admin_id"`
	Description string            `json:"description"`
}

type UpdateVendorRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type VendorResponse struct {
	ID             uint              `json:"id"`
	Name           string            `json:"name"`
	Type           models.VendorType `json:"type"`
	CommunityID    uint              `json:"community_id"`
	AdminID        *uint             `json:"admin_id"`
	Description    string            `json:"description"`
	DeliveryWindow string            `json:"delivery_window"`
	IsActive       bool              `json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func toVendorResponse(v *models.Vendor) VendorResponse {
	info := v.Type.Info()
	return VendorResponse{
		ID:             v.ID,
		Name:           v.Name,
		Type:           v.Type,
		CommunityID:    v.CommunityID,
		AdminID:        v.AdminID,
		Description:    v.Description,
		DeliveryWindow: info.DeliveryWindowStart + "-" + info.DeliveryWindowEnd,
		IsActive:       v.IsActive,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// POST /vendors/ — master only (route gate). Vendor creation and credential
// provisioning are one atomic unit: both succeed or both roll back.
func CreateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.CommunityID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Name and community_id are required")
		}
		if !body.Type.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown vendor type")
		}

		var community models.Community
		if err := database.DB.First(&community, body.CommunityID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Community not found")
		}

		// A pre-assigned admin must belong to the vendor's community.
		if body.AdminID != nil {
			var admin models.User
			if err := database.DB.First(&admin, *body.AdminID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Admin user not found")
			}
			if admin.CommunityID == nil || *admin.CommunityID != community.ID {
				return fiber.NewError(fiber.StatusBadRequest, "Vendor admin must belong to the vendor's community")
			}
		}

		vendor := models.Vendor{
			Name:        body.Name,
			Type:        body.Type,
			CommunityID: community.ID,
			AdminID:     body.AdminID,
			Description: body.Description,
			IsActive:    true,
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&vendor).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create vendor")
			}
			if vendor.Type.Info().RequiresLogin {
				if err := provisionLogin(tx, &vendor); err != nil {
					return err
				}
				// Laundry vendors also get their type profile up front so the
				// operator can log in and start filling the catalog.
				if vendor.Type == models.VendorTypeLaundry {
					profile := models.LaundryVendor{
						VendorID:     vendor.ID,
						BusinessName: vendor.Name,
						Description:  vendor.Description,
						IsActive:     true,
					}
					if err := tx.Create(&profile).Error; err != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "Could not create laundry profile")
					}
				}
			}
			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create vendor")
		}

		return c.Status(fiber.StatusCreated).JSON(toVendorResponse(&vendor))
	}
}

// GET /vendors/ — master sees all, everyone else their community's vendors.
func ListVendorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Vendor{}).Order("name asc")
		if actor.Role != models.RoleMaster {
			if actor.CommunityID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "User not associated with any community")
			}
			dbq = dbq.Where("community_id = ?", *actor.CommunityID)
		}

		var vendors []models.Vendor
		if err := dbq.Find(&vendors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list vendors")
		}

		res := make([]VendorResponse, 0, len(vendors))
		for i := range vendors {
			res = append(res, toVendorResponse(&vendors[i]))
		}
		return c.JSON(res)
	}
}

// GET /vendors/:id
func GetVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}

		if actor.Role != models.RoleMaster &&
			(actor.CommunityID == nil || *actor.CommunityID != vendor.CommunityID) {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized to view this vendor")
		}

		return c.JSON(toVendorResponse(&vendor))
	}
}

// PUT /vendors/:id — master, or the admin who owns exactly this vendor.
func UpdateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}

		if actor.Role != models.RoleMaster {
			if vendor.AdminID == nil || *vendor.AdminID != actor.UserID {
				return fiber.NewError(fiber.StatusForbidden, "Not authorized to update this vendor")
			}
		}

		var body UpdateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			vendor.Name = name
		}
		if body.Description != nil {
			vendor.Description = *body.Description
		}
		if body.IsActive != nil {
			// only master may deactivate a vendor
			if actor.Role != models.RoleMaster {
				return fiber.NewError(fiber.StatusForbidden, "Only a master may change vendor active state")
			}
			vendor.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update vendor")
		}

		return c.JSON(toVendorResponse(&vendor))
	}
}
