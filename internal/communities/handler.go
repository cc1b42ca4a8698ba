package communities

import (
	"sort"
	"strings"
	"time"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateCommunityRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	AdminName  string `json:"admin_name"`
	AdminEmail string `json:"admin_email"`
	AdminPhone string `json:"admin_phone"`
}

type UpdateCommunityRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	AdminName  *string `json:"admin_name"`
	AdminEmail *string `json:"admin_email"`
	AdminPhone *string `json:"admin_phone"`
	IsActive   *bool   `json:"is_active"`
}

type CommunityResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"community_code"`
	Address    string    `json:"address"`
	AdminName  string    `json:"admin_name"`
	AdminEmail string    `json:"admin_email"`
	AdminPhone string    `json:"admin_phone"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CommunityStats struct {
	CommunityID   uint    `json:"community_id"`
	CommunityName string  `json:"community_name"`
	VendorCount   int64   `json:"vendor_count"`
	UserCount     int64   `json:"user_count"`
	OrderCount    int64   `json:"order_count"`
	Revenue       float64 `json:"revenue"`
}

func toCommunityResponse(cm *models.Community) CommunityResponse {
	return CommunityResponse{
		ID:         cm.ID,
		Name:       cm.Name,
		Code:       cm.Code,
		Address:    cm.Address,
		AdminName:  cm.AdminName,
		AdminEmail: cm.AdminEmail,
		AdminPhone: cm.AdminPhone,
		IsActive:   cm.IsActive,
		CreatedAt:  cm.CreatedAt,
		UpdatedAt:  cm.UpdatedAt,
	}
}

func newJoinCode() string {
	return "COM" + strings.ToUpper(uuid.NewString()[:8])
}

// POST /communities/ — master only (route gate). The join code is generated
// here and shared with residents out of band.
func CreateCommunityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCommunityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		community := models.Community{
			Name:       body.Name,
			Code:       newJoinCode(),
			Address:    body.Address,
			AdminName:  body.AdminName,
			AdminEmail: body.AdminEmail,
			AdminPhone: body.AdminPhone,
			IsActive:   true,
		}

		if err := database.DB.Create(&community).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Could not create community, code collision")
		}

		return c.Status(fiber.StatusCreated).JSON(toCommunityResponse(&community))
	}
}

// GET /communities/
func ListCommunitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var communities []models.Community
		if err := database.DB.Order("created_at desc").Find(&communities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list communities")
		}

		res := make([]CommunityResponse, 0, len(communities))
		for i := range communities {
			res = append(res, toCommunityResponse(&communities[i]))
		}
		return c.JSON(res)
	}
}

// GET /communities/stats — per-community counts plus completed-order
// revenue, sorted by revenue descending.
func CommunityStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var communities []models.Community
		if err := database.DB.Where("is_active = ?", true).Find(&communities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load communities")
		}

		stats := make([]CommunityStats, 0, len(communities))
		for _, community := range communities {
			var vendorCount, userCount, orderCount int64
			var revenue float64

			database.DB.Model(&models.Vendor{}).
				Where("community_id = ? AND is_active = ?", community.ID, true).
				Count(&vendorCount)
			database.DB.Model(&models.User{}).
				Where("community_id = ? AND is_active = ?", community.ID, true).
				Count(&userCount)

			vendorIDs := database.DB.Model(&models.Vendor{}).Select("id").Where("community_id = ?", community.ID)
			database.DB.Model(&models.Order{}).Where("vendor_id IN (?)", vendorIDs).Count(&orderCount)
			database.DB.Model(&models.Order{}).
				Where("vendor_id IN (?) AND status = ?", vendorIDs, models.OrderStatusCompleted).
				Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue)

			stats = append(stats, CommunityStats{
				CommunityID:   community.ID,
				CommunityName: community.Name,
				VendorCount:   vendorCount,
				UserCount:     userCount,
				OrderCount:    orderCount,
				Revenue:       revenue,
			})
		}

		sort.Slice(stats, func(i, j int) bool { return stats[i].Revenue > stats[j].Revenue })
		return c.JSON(stats)
	}
}

// GET /communities/:id
func GetCommunityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var community models.Community
		if err := database.DB.First(&community, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Community not found")
		}
		return c.JSON(toCommunityResponse(&community))
	}
}

// PUT /communities/:id — master only (route gate).
func UpdateCommunityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.CurrentActor(c); err != nil {
			return err
		}

		var community models.Community
		if err := database.DB.First(&community, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Community not found")
		}

		var body UpdateCommunityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			community.Name = name
		}
		if body.Address != nil {
			community.Address = *body.Address
		}
		if body.AdminName != nil {
			community.AdminName = *body.AdminName
		}
		if body.AdminEmail != nil {
			community.AdminEmail = *body.AdminEmail
		}
		if body.AdminPhone != nil {
			community.AdminPhone = *body.AdminPhone
		}
		if body.IsActive != nil {
			community.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&community).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update community")
		}

		return c.JSON(toCommunityResponse(&community))
	}
}
