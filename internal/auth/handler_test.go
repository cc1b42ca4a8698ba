package auth

import (
	"net/http/httptest"
	"strings"
	"testing"

	"communityexpress-backend/internal/config"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Community{}, &models.User{}); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}
	database.DB = db
	return db
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	db := setupTestDB(t, "auth_register_dup")

	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	app := fiber.New()
	app.Post("/auth/register", RegisterHandler(cfg))

	body := `{"email":"resident@example.com","password":"secret","first_name":"Ravi","last_name":"Nair"}`
	send := func() int {
		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp.StatusCode
	}

	if code := send(); code != fiber.StatusCreated {
		t.Fatalf("first registration: got status %d, want %d", code, fiber.StatusCreated)
	}
	if code := send(); code != fiber.StatusConflict {
		t.Errorf("duplicate registration: got status %d, want %d", code, fiber.StatusConflict)
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", "resident@example.com").Count(&count)
	if count != 1 {
		t.Errorf("user rows for the address = %d, want 1", count)
	}
}
