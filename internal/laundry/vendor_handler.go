package laundry

import (
	"strings"
	"time"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLaundryVendorRequest struct {
	VendorID           uint     `json:"vendor_id"`
	BusinessName       string   `json:"business_name"`
	Description        string   `json:"description"`
	PickupTimeStart    string   `json:"pickup_time_start"`
	PickupTimeEnd      string   `json:"pickup_time_end"`
	DeliveryTimeHours  int      `json:"delivery_time_hours"`
	MinimumOrderAmount *float64 `json:"minimum_order_amount"`
	PickupCharge       *float64 `json:"pickup_charge"`
	DeliveryCharge     *float64 `json:"delivery_charge"`
	ServiceAreas       []string `json:"service_areas"`
}

type UpdateLaundryVendorRequest struct {
	BusinessName       *string  `json:"business_name"`
	Description        *string  `json:"description"`
	PickupTimeStart    *string  `json:"pickup_time_start"`
	PickupTimeEnd      *string  `json:"pickup_time_end"`
	DeliveryTimeHours  *int     `json:"delivery_time_hours"`
	MinimumOrderAmount *float64 `json:"minimum_order_amount"`
	PickupCharge       *float64 `json:"pickup_charge"`
	DeliveryCharge     *float64 `json:"delivery_charge"`
	ServiceAreas       []string `json:"service_areas"`
	IsActive           *bool    `json:"is_active"`
}

type LaundryVendorResponse struct {
	ID                 uint      `json:"id"`
	VendorID           uint      `json:"vendor_id"`
	BusinessName       string    `json:"business_name"`
	Description        string    `json:"description"`
	PickupTimeStart    string    `json:"pickup_time_start"`
	PickupTimeEnd      string    `json:"pickup_time_end"`
	DeliveryTimeHours  int       `json:"delivery_time_hours"`
	MinimumOrderAmount float64   `json:"minimum_order_amount"`
	PickupCharge       float64   `json:"pickup_charge"`
	DeliveryCharge     float64   `json:"delivery_charge"`
	ServiceAreas       []string  `json:"service_areas"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toLaundryVendorResponse(v *models.LaundryVendor) LaundryVendorResponse {
	areas := []string{}
	if v.ServiceAreas != "" {
		areas = strings.Split(v.ServiceAreas, ",")
	}
	return LaundryVendorResponse{
		ID:                 v.ID,
		VendorID:           v.VendorID,
		BusinessName:       v.BusinessName,
		Description:        v.Description,
		PickupTimeStart:    v.PickupTimeStart,
		PickupTimeEnd:      v.PickupTimeEnd,
		DeliveryTimeHours:  v.DeliveryTimeHours,
		MinimumOrderAmount: v.MinimumOrderAmount,
		PickupCharge:       v.PickupCharge,
		DeliveryCharge:     v.DeliveryCharge,
		ServiceAreas:       areas,
		IsActive:           v.IsActive,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

// requireProfileOwnership loads the laundry profile and checks the actor may
// manage it: master always, otherwise the owner of the backing vendor.
func requireProfileOwnership(actor auth.Actor, laundryVendorID string) (*models.LaundryVendor, error) {
	var profile models.LaundryVendor
	if err := database.DB.First(&profile, "id = ?", laundryVendorID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Laundry vendor not found")
	}
	if actor.Role == models.RoleMaster {
		return &profile, nil
	}
	var vendor models.Vendor
	if err := database.DB.First(&vendor, profile.VendorID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load vendor")
	}
	if vendor.AdminID == nil || *vendor.AdminID != actor.UserID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
	return &profile, nil
}

// POST /laundry/vendors — masters or the vendor operator themselves.
func CreateLaundryVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}
		if actor.Role != models.RoleMaster && actor.Role != models.RoleVendor {
			return fiber.NewError(fiber.StatusForbidden, "Only masters and vendors can create laundry vendor profiles")
		}

		var body CreateLaundryVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.VendorID == 0 || strings.TrimSpace(body.BusinessName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_id and business_name are required")
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, body.VendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}
		if vendor.Type != models.VendorTypeLaundry {
			return fiber.NewError(fiber.StatusBadRequest, "Vendor is not a laundry vendor")
		}
		if actor.Role == models.RoleVendor && (vendor.AdminID == nil || *vendor.AdminID != actor.UserID) {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}

		var existing int64
		database.DB.Model(&models.LaundryVendor{}).Where("vendor_id = ?", vendor.ID).Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, "Laundry profile already exists for this vendor")
		}

		info := models.VendorTypeLaundry.Info()
		profile := models.LaundryVendor{
			VendorID:           vendor.ID,
			BusinessName:       strings.TrimSpace(body.BusinessName),
			Description:        body.Description,
			PickupTimeStart:    info.DeliveryWindowStart,
			PickupTimeEnd:      info.DeliveryWindowEnd,
			DeliveryTimeHours:  24,
			MinimumOrderAmount: 100,
			PickupCharge:       20,
			DeliveryCharge:     30,
			ServiceAreas:       strings.Join(body.ServiceAreas, ","),
			IsActive:           true,
		}
		if body.PickupTimeStart != "" {
			profile.PickupTimeStart = body.PickupTimeStart
		}
		if body.PickupTimeEnd != "" {
			profile.PickupTimeEnd = body.PickupTimeEnd
		}
		if body.DeliveryTimeHours > 0 {
			profile.DeliveryTimeHours = body.DeliveryTimeHours
		}
		if body.MinimumOrderAmount != nil {
			profile.MinimumOrderAmount = *body.MinimumOrderAmount
		}
		if body.PickupCharge != nil {
			profile.PickupCharge = *body.PickupCharge
		}
		if body.DeliveryCharge != nil {
			profile.DeliveryCharge = *body.DeliveryCharge
		}

		if err := database.DB.Create(&profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create laundry vendor")
		}

		return c.Status(fiber.StatusCreated).JSON(toLaundryVendorResponse(&profile))
	}
}

// GET /laundry/vendors — users see their community's vendors, masters all.
func ListLaundryVendorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.LaundryVendor{}).Where("is_active = ?", true)

		communityID := c.Query("community_id")
		if communityID != "" {
			dbq = dbq.Where("vendor_id IN (?)",
				database.DB.Model(&models.Vendor{}).Select("id").Where("community_id = ?", communityID))
		} else if actor.Role == models.RoleUser && actor.CommunityID != nil {
			dbq = dbq.Where("vendor_id IN (?)",
				database.DB.Model(&models.Vendor{}).Select("id").Where("community_id = ?", *actor.CommunityID))
		}

		var profiles []models.LaundryVendor
		if err := dbq.Find(&profiles).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list laundry vendors")
		}

		res := make([]LaundryVendorResponse, 0, len(profiles))
		for i := range profiles {
			res = append(res, toLaundryVendorResponse(&profiles[i]))
		}
		return c.JSON(res)
	}
}

// GET /laundry/vendors/:id
func GetLaundryVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var profile models.LaundryVendor
		if err := database.DB.First(&profile, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Laundry vendor not found")
		}
		return c.JSON(toLaundryVendorResponse(&profile))
	}
}

// PUT /laundry/vendors/:id
func UpdateLaundryVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		profile, err := requireProfileOwnership(actor, c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateLaundryVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.BusinessName != nil {
			name := strings.TrimSpace(*body.BusinessName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "business_name cannot be empty")
			}
			profile.BusinessName = name
		}
		if body.Description != nil {
			profile.Description = *body.Description
		}
		if body.PickupTimeStart != nil {
			profile.PickupTimeStart = *body.PickupTimeStart
		}
		if body.PickupTimeEnd != nil {
			profile.PickupTimeEnd = *body.PickupTimeEnd
		}
		if body.DeliveryTimeHours != nil {
			profile.DeliveryTimeHours = *body.DeliveryTimeHours
		}
		if body.MinimumOrderAmount != nil {
			profile.MinimumOrderAmount = *body.MinimumOrderAmount
		}
		if body.PickupCharge != nil {
			profile.PickupCharge = *body.PickupCharge
		}
		if body.DeliveryCharge != nil {
			profile.DeliveryCharge = *body.DeliveryCharge
		}
		if body.ServiceAreas != nil {
			profile.ServiceAreas = strings.Join(body.ServiceAreas, ",")
		}
		if body.IsActive != nil {
			profile.IsActive = *body.IsActive
		}

		if err := database.DB.Save(profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update laundry vendor")
		}

		return c.JSON(toLaundryVendorResponse(profile))
	}
}
