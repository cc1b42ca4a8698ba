package auth

import (
	"errors"
	"strings"

	"communityexpress-backend/internal/config"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	ApartmentNumber string `json:"apartment_number"`
	CommunityCode   string `json:"community_code"` // optional, joins at signup
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID              uint            `json:"id"`
	Email           string          `json:"email"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Phone           string          `json:"phone"`
	Role            models.UserRole `json:"role"`
	CommunityID     *uint           `json:"community_id"`
	ApartmentNumber string          `json:"apartment_number"`
	IsActive        bool            `json:"is_active"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Role:            u.Role,
		CommunityID:     u.CommunityID,
		ApartmentNumber: u.ApartmentNumber,
		IsActive:        u.IsActive,
	}
}

// POST /auth/register — always creates a plain user; privileged roles are
// never self-assignable through registration.
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.FirstName == "" || body.LastName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email, password, first name and last name are required")
		}

		var count int64
		if err := database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check email")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Email already registered")
		}

		var communityID *uint
		if body.CommunityCode != "" {
			var community models.Community
			if err := database.DB.Where("code = ?", body.CommunityCode).First(&community).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Invalid community code")
			}
			communityID = &community.ID
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Email:           body.Email,
			PasswordHash:    string(hash),
			FirstName:       body.FirstName,
			LastName:        body.LastName,
			Phone:           body.Phone,
			Role:            models.RoleUser,
			CommunityID:     communityID,
			ApartmentNumber: body.ApartmentNumber,
			IsActive:        true,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			// Two racing registrations for the same address: the loser hits
			// the unique email index after the pre-check passed.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Email already registered")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
	}
}

// POST /auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"access_token": token,
			"token_type":   "bearer",
			"user":         toUserResponse(&user),
		})
	}
}

// GET /auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return err
		}

		var user models.User
		if dbErr := database.DB.First(&user, actor.UserID).Error; dbErr == nil {
			response := toUserResponse(&user)
			if user.CommunityID != nil {
				var community models.Community
				if err := database.DB.First(&community, *user.CommunityID).Error; err == nil {
					return c.JSON(fiber.Map{
						"user": response,
						"community": fiber.Map{
							"id":      community.ID,
							"name":    community.Name,
							"code":    community.Code,
							"address": community.Address,
						},
					})
				}
			}
			return c.JSON(fiber.Map{"user": response})
		}

		// Fallback for synthetic testing identities with no backing row
		return c.JSON(fiber.Map{
			"user": fiber.Map{
				"id":           actor.UserID,
				"role":         actor.Role,
				"community_id": actor.CommunityID,
			},
		})
	}
}

type JoinCommunityRequest struct {
	CommunityCode string `json:"community_code"`
}

// POST /auth/join-community — a user belongs to at most one community; a
// valid code moves them, an invalid one is 404.
func JoinCommunityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return err
		}

		var body JoinCommunityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(body.CommunityCode) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "community_code is required")
		}

		var community models.Community
		if err := database.DB.Where("code = ?", body.CommunityCode).First(&community).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Invalid community code")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not look up community")
		}

		result := database.DB.Model(&models.User{}).
			Where("id = ?", actor.UserID).
			Update("community_id", community.ID)
		if result.Error != nil || result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not join community")
		}

		return c.JSON(fiber.Map{
			"message":        "Successfully joined community",
			"community_name": community.Name,
		})
	}
}
