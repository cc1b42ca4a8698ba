package products

import (
	"strings"
	"time"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	VendorID    uint    `json:"vendor_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"image_url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	ImageURL    *string  `json:"image_url"`
	IsAvailable *bool    `json:"is_available"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	VendorID    uint      `json:"vendor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit"`
	ImageURL    string    `json:"image_url"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Unit:        p.Unit,
		ImageURL:    p.ImageURL,
		IsAvailable: p.IsAvailable,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// requireVendorOwnership loads the vendor and checks the actor may manage
// its catalog: master always, admin only when they own the vendor.
func requireVendorOwnership(actor auth.Actor, vendorID uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := database.DB.First(&vendor, vendorID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Vendor not found")
	}
	if actor.Role == models.RoleMaster {
		return &vendor, nil
	}
	if vendor.AdminID == nil || *vendor.AdminID != actor.UserID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Not authorized to manage products for this vendor")
	}
	return &vendor, nil
}

// POST /products/
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.VendorID == 0 || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_id and name are required")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
		}

		vendor, err := requireVendorOwnership(actor, body.VendorID)
		if err != nil {
			return err
		}

		unit := strings.TrimSpace(body.Unit)
		if unit == "" {
			unit = vendor.Type.Info().DefaultUnit
		}

		p := models.Product{
			VendorID:    vendor.ID,
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			Unit:        unit,
			ImageURL:    body.ImageURL,
			IsAvailable: true,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&p))
	}
}

// GET /products/vendor/:id — available catalog of one vendor.
func ListVendorProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.
			Where("vendor_id = ? AND is_available = ?", c.Params("id"), true).
			Order("name asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// GET /products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.JSON(toProductResponse(&p))
	}
}

// PUT /products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		if _, err := requireVendorOwnership(actor, p.VendorID); err != nil {
			return err
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			p.Name = name
		}
		if body.Description != nil {
			p.Description = *body.Description
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
			}
			p.Price = *body.Price
		}
		if body.Unit != nil {
			p.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.ImageURL != nil {
			p.ImageURL = *body.ImageURL
		}
		if body.IsAvailable != nil {
			p.IsAvailable = *body.IsAvailable
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		return c.JSON(toProductResponse(&p))
	}
}

// DELETE /products/:id — soft delete, the product just stops being offered.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		if _, err := requireVendorOwnership(actor, p.VendorID); err != nil {
			return err
		}

		if err := database.DB.Model(&p).Update("is_available", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		return c.JSON(fiber.Map{"message": "Product deleted successfully"})
	}
}
