package dashboard

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

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
		&models.Order{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}
	database.DB = db
	return db
}

func TestVendorPerformanceHandler(t *testing.T) {
	db := setupTestDB(t, "dashboard_vendor_perf")

	community := models.Community{Name: "Green Meadows", Code: "COMTEST0002", IsActive: true}
	if err := db.Create(&community).Error; err != nil {
		t.Fatalf("could not seed community: %v", err)
	}
	milk := models.Vendor{CommunityID: community.ID, Name: "Daily Milk", Type: models.VendorTypeMilk, IsActive: true}
	food := models.Vendor{CommunityID: community.ID, Name: "Hot Plates", Type: models.VendorTypeFood, IsActive: true}
	if err := db.Create(&milk).Error; err != nil {
		t.Fatalf("could not seed vendor: %v", err)
	}
	if err := db.Create(&food).Error; err != nil {
		t.Fatalf("could not seed vendor: %v", err)
	}

	orders := []models.Order{
		{UserID: 1, VendorID: milk.ID, Status: models.OrderStatusCompleted, TotalAmount: 100},
		{UserID: 1, VendorID: milk.ID, Status: models.OrderStatusCompleted, TotalAmount: 200},
		{UserID: 1, VendorID: food.ID, Status: models.OrderStatusCreated, TotalAmount: 500},
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("could not seed orders: %v", err)
	}

	app := fiber.New()
	app.Get("/dashboard/vendor-performance", VendorPerformanceHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/dashboard/vendor-performance", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var perf []VendorPerformance
	if err := json.NewDecoder(resp.Body).Decode(&perf); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if len(perf) != 2 {
		t.Fatalf("vendors in report = %d, want 2", len(perf))
	}

	// Revenue counts completed orders only, and sorts the report.
	if perf[0].Name != "Daily Milk" {
		t.Errorf("top vendor = %q, want %q", perf[0].Name, "Daily Milk")
	}
	if perf[0].Revenue != 300 {
		t.Errorf("top revenue = %v, want 300", perf[0].Revenue)
	}
	if perf[0].OrderCount != 2 {
		t.Errorf("top order count = %d, want 2", perf[0].OrderCount)
	}
	if perf[0].AvgOrderValue != 150 {
		t.Errorf("top avg order value = %v, want 150", perf[0].AvgOrderValue)
	}
	if perf[0].CommunityName != "Green Meadows" {
		t.Errorf("community name = %q, want %q", perf[0].CommunityName, "Green Meadows")
	}
	if perf[1].Revenue != 0 {
		t.Errorf("second revenue = %v, want 0 (no completed orders)", perf[1].Revenue)
	}
	if perf[1].OrderCount != 1 {
		t.Errorf("second order count = %d, want 1", perf[1].OrderCount)
	}
}

func TestRecentActivitiesHandler(t *testing.T) {
	db := setupTestDB(t, "dashboard_recent_activities")

	community := models.Community{Name: "Green Meadows", Code: "COMTEST0003", IsActive: true}
	if err := db.Create(&community).Error; err != nil {
		t.Fatalf("could not seed community: %v", err)
	}
	user := models.User{Email: "new@example.com", PasswordHash: "x", FirstName: "Asha", LastName: "Rao", Role: models.RoleUser, CommunityID: &community.ID, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("could not seed user: %v", err)
	}
	vendor := models.Vendor{CommunityID: community.ID, Name: "Daily Milk", Type: models.VendorTypeMilk, IsActive: true}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("could not seed vendor: %v", err)
	}
	order := models.Order{UserID: user.ID, VendorID: vendor.ID, Status: models.OrderStatusCreated, TotalAmount: 80}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("could not seed order: %v", err)
	}
	payment := models.Payment{OrderID: order.ID, UserID: user.ID, Amount: 80, Status: models.PaymentStatusCompleted, TransactionID: "TX_TEST0001"}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("could not seed payment: %v", err)
	}

	app := fiber.New()
	app.Get("/dashboard/recent-activities", RecentActivitiesHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/dashboard/recent-activities", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if len(activities) != 4 {
		t.Fatalf("activities = %d, want 4 (user, order, vendor, payment)", len(activities))
	}

	seen := map[string]bool{}
	for _, a := range activities {
		seen[a.Type] = true
	}
	for _, want := range []string{"new_user", "new_order", "vendor_active", "payment"} {
		if !seen[want] {
			t.Errorf("missing activity type %q", want)
		}
	}
	for i := 1; i < len(activities); i++ {
		if activities[i].Timestamp.After(activities[i-1].Timestamp) {
			t.Errorf("activities are not sorted newest first at index %d", i)
		}
	}

	// The limit parameter truncates the merged feed.
	resp, err = app.Test(httptest.NewRequest("GET", "/dashboard/recent-activities?limit=2", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if len(activities) != 2 {
		t.Errorf("limited activities = %d, want 2", len(activities))
	}
}
