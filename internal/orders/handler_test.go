package orders

import (
	"net/http/httptest"
	"strings"
	"testing"

	"communityexpress-backend/internal/auth"
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
	if err := db.AutoMigrate(
		&models.Community{},
		&models.User{},
		&models.Vendor{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusChange{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}
	database.DB = db
	return db
}

func TestApplyStatusChangeConflict(t *testing.T) {
	db := setupTestDB(t, "orders_cas_conflict")

	order := models.Order{UserID: 7, VendorID: 1, Status: models.OrderStatusCreated, TotalAmount: 100}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("could not seed order: %v", err)
	}

	// Two actors read the same row. The first write wins.
	stale := order
	if err := applyStatusChange(db, &order, models.OrderStatusConfirmed, 1); err != nil {
		t.Fatalf("first transition rejected: %v", err)
	}

	// The second write still carries the status it read (created), so the
	// compare-and-set must miss and surface a conflict.
	err := applyStatusChange(db, &stale, models.OrderStatusCancelled, 7)
	if err == nil {
		t.Fatal("conflicting write on a stale read was accepted")
	}
	fe, ok := err.(*fiber.Error)
	if !ok {
		t.Fatalf("expected a fiber error, got %T: %v", err, err)
	}
	if fe.Code != fiber.StatusConflict {
		t.Errorf("conflicting write: got status %d, want %d", fe.Code, fiber.StatusConflict)
	}

	// State is whatever the winner wrote, and only the winner left history.
	var current models.Order
	if err := db.First(&current, order.ID).Error; err != nil {
		t.Fatalf("could not reload order: %v", err)
	}
	if current.Status != models.OrderStatusConfirmed {
		t.Errorf("order status = %q, want %q", current.Status, models.OrderStatusConfirmed)
	}
	var history int64
	db.Model(&models.OrderStatusChange{}).Where("order_id = ?", order.ID).Count(&history)
	if history != 1 {
		t.Errorf("history rows = %d, want 1", history)
	}
}

func TestUpdateOrderStatusDoubleSubmission(t *testing.T) {
	db := setupTestDB(t, "orders_double_submit")

	admin := models.User{Email: "admin@test.local", PasswordHash: "x", FirstName: "A", LastName: "B", Role: models.RoleAdmin, IsActive: true}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("could not seed admin: %v", err)
	}
	vendor := models.Vendor{CommunityID: 1, AdminID: &admin.ID, Name: "Daily Milk", Type: models.VendorTypeMilk, IsActive: true}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("could not seed vendor: %v", err)
	}
	order := models.Order{UserID: 7, VendorID: vendor.ID, Status: models.OrderStatusCreated, TotalAmount: 50}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("could not seed order: %v", err)
	}

	var actorID uint
	var actorRole models.UserRole

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, actorID)
		c.Locals(auth.CtxUserRoleKey, actorRole)
		c.Locals(auth.CtxCommunityIDKey, (*uint)(nil))
		return c.Next()
	})
	app.Put("/orders/:id/status", UpdateOrderStatusHandler(auth.DefaultPermissions()))

	send := func(status models.OrderStatus) int {
		req := httptest.NewRequest("PUT", "/orders/1/status", strings.NewReader(`{"status":"`+string(status)+`"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp.StatusCode
	}

	// The placing user cancels first.
	actorID, actorRole = 7, models.RoleUser
	if code := send(models.OrderStatusCancelled); code != fiber.StatusOK {
		t.Fatalf("cancel by placer: got status %d, want %d", code, fiber.StatusOK)
	}

	// The vendor admin's conflicting confirm arrives second; the re-read
	// sees the cancelled row and the edge is rejected without a write.
	actorID, actorRole = admin.ID, models.RoleAdmin
	if code := send(models.OrderStatusConfirmed); code != fiber.StatusBadRequest {
		t.Errorf("conflicting confirm: got status %d, want %d", code, fiber.StatusBadRequest)
	}

	var current models.Order
	if err := db.First(&current, order.ID).Error; err != nil {
		t.Fatalf("could not reload order: %v", err)
	}
	if current.Status != models.OrderStatusCancelled {
		t.Errorf("order status = %q, want %q", current.Status, models.OrderStatusCancelled)
	}
	var history int64
	db.Model(&models.OrderStatusChange{}).Where("order_id = ?", order.ID).Count(&history)
	if history != 1 {
		t.Errorf("history rows = %d, want 1", history)
	}
}
