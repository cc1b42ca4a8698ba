package laundry

import (
	"strings"
	"time"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLaundryItemRequest struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	PricePerPiece      float64 `json:"price_per_piece"`
	EstimatedTimeHours int     `json:"estimated_time_hours"`
	ImageURL           string  `json:"image_url"`
}

type UpdateLaundryItemRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Category           *string  `json:"category"`
	PricePerPiece      *float64 `json:"price_per_piece"`
	EstimatedTimeHours *int     `json:"estimated_time_hours"`
	ImageURL           *string  `json:"image_url"`
	IsAvailable        *bool    `json:"is_available"`
}

type LaundryItemResponse struct {
	ID                 uint      `json:"id"`
	LaundryVendorID    uint      `json:"laundry_vendor_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	PricePerPiece      float64   `json:"price_per_piece"`
	EstimatedTimeHours int       `json:"estimated_time_hours"`
	ImageURL           string    `json:"image_url"`
	IsAvailable        bool      `json:"is_available"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toLaundryItemResponse(i *models.LaundryItem) LaundryItemResponse {
	return LaundryItemResponse{
		ID:                 i.ID,
		LaundryVendorID:    i.LaundryVendorID,
		Name:               i.Name,
		Description:        i.Description,
		Category:           i.Category,
		PricePerPiece:      i.PricePerPiece,
		EstimatedTimeHours: i.EstimatedTimeHours,
		ImageURL:           i.ImageURL,
		IsAvailable:        i.IsAvailable,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

// POST /laundry/vendors/:id/items
func CreateLaundryItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		profile, err := requireProfileOwnership(actor, c.Params("id"))
		if err != nil {
			return err
		}

		var body CreateLaundryItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Category = strings.TrimSpace(body.Category)
		if body.Name == "" || body.Category == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and category are required")
		}
		if body.PricePerPiece <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price_per_piece must be positive")
		}

		item := models.LaundryItem{
			LaundryVendorID:    profile.ID,
			Name:               body.Name,
			Description:        body.Description,
			Category:           body.Category,
			PricePerPiece:      body.PricePerPiece,
			EstimatedTimeHours: body.EstimatedTimeHours,
			ImageURL:           body.ImageURL,
			IsAvailable:        true,
		}
		if item.EstimatedTimeHours <= 0 {
			item.EstimatedTimeHours = 24
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create laundry item")
		}

		return c.Status(fiber.StatusCreated).JSON(toLaundryItemResponse(&item))
	}
}

// GET /laundry/vendors/:id/items?category=&is_available=
func ListLaundryItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.LaundryItem{}).
			Where("laundry_vendor_id = ?", c.Params("id")).
			Order("name asc")

		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}
		if c.Query("is_available") != "false" {
			dbq = dbq.Where("is_available = ?", true)
		}

		var items []models.LaundryItem
		if err := dbq.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list laundry items")
		}

		res := make([]LaundryItemResponse, 0, len(items))
		for i := range items {
			res = append(res, toLaundryItemResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// PUT /laundry/vendors/:id/items/:itemID
func UpdateLaundryItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		profile, err := requireProfileOwnership(actor, c.Params("id"))
		if err != nil {
			return err
		}

		var item models.LaundryItem
		if err := database.DB.
			Where("id = ? AND laundry_vendor_id = ?", c.Params("itemID"), profile.ID).
			First(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Laundry item not found")
		}

		var body UpdateLaundryItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			item.Name = name
		}
		if body.Description != nil {
			item.Description = *body.Description
		}
		if body.Category != nil {
			item.Category = strings.TrimSpace(*body.Category)
		}
		if body.PricePerPiece != nil {
			if *body.PricePerPiece <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price_per_piece must be positive")
			}
			item.PricePerPiece = *body.PricePerPiece
		}
		if body.EstimatedTimeHours != nil {
			item.EstimatedTimeHours = *body.EstimatedTimeHours
		}
		if body.ImageURL != nil {
			item.ImageURL = *body.ImageURL
		}
		if body.IsAvailable != nil {
			item.IsAvailable = *body.IsAvailable
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update laundry item")
		}

		return c.JSON(toLaundryItemResponse(&item))
	}
}

// DELETE /laundry/vendors/:id/items/:itemID
func DeleteLaundryItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		profile, err := requireProfileOwnership(actor, c.Params("id"))
		if err != nil {
			return err
		}

		result := database.DB.
			Where("id = ? AND laundry_vendor_id = ?", c.Params("itemID"), profile.ID).
			Delete(&models.LaundryItem{})
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete laundry item")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Laundry item not found")
		}

		return c.JSON(fiber.Map{"message": "Laundry item deleted successfully"})
	}
}
