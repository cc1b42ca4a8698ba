package vendors

import (
	"testing"

	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLoginEmail(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"QuickWash Laundry", "quickwash_laundry@vendor.test"},
		{"quickwash laundry", "quickwash_laundry@vendor.test"},
		{"  Sparkle   Clean  ", "sparkle_clean@vendor.test"},
		{"MilkCo", "milkco@vendor.test"},
		{"A B C", "a_b_c@vendor.test"},
	}

	for _, tc := range cases {
		if got := LoginEmail(tc.name); got != tc.want {
			t.Errorf("LoginEmail(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLoginEmailDeterministic(t *testing.T) {
	// Same display name must always map to the same address so a duplicate
	// vendor name collides on the unique email index instead of silently
	// producing a second login.
	a := LoginEmail("Fresh Fold Laundry")
	b := LoginEmail("Fresh Fold Laundry")
	if a != b {
		t.Fatalf("LoginEmail is not deterministic: %q vs %q", a, b)
	}
}

func TestProvisionLoginDuplicateNameConflict(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:vendors_provision_dup?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Community{}, &models.User{}, &models.Vendor{}); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}

	community := models.Community{Name: "Green Meadows", Code: "COMTEST0001", IsActive: true}
	if err := db.Create(&community).Error; err != nil {
		t.Fatalf("could not seed community: %v", err)
	}

	first := models.Vendor{CommunityID: community.ID, Name: "QuickWash Laundry", Type: models.VendorTypeLaundry, IsActive: true}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("could not seed vendor: %v", err)
	}
	if err := provisionLogin(db, &first); err != nil {
		t.Fatalf("provisioning rejected: %v", err)
	}
	if first.AdminID == nil {
		t.Fatal("provisioning did not link the login as vendor admin")
	}

	var login models.User
	if err := db.First(&login, *first.AdminID).Error; err != nil {
		t.Fatalf("could not load provisioned login: %v", err)
	}
	if login.Email != "quickwash_laundry@vendor.test" {
		t.Errorf("login email = %q, want %q", login.Email, "quickwash_laundry@vendor.test")
	}
	if login.Role != models.RoleVendor {
		t.Errorf("login role = %q, want %q", login.Role, models.RoleVendor)
	}
	if login.CommunityID == nil || *login.CommunityID != community.ID {
		t.Error("login is not attached to the vendor's community")
	}

	// Same display name again derives the same address and must collide.
	second := models.Vendor{CommunityID: community.ID, Name: "quickwash  LAUNDRY", Type: models.VendorTypeLaundry, IsActive: true}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("could not seed second vendor: %v", err)
	}
	err = provisionLogin(db, &second)
	if err == nil {
		t.Fatal("duplicate provisioning was accepted")
	}
	fe, ok := err.(*fiber.Error)
	if !ok {
		t.Fatalf("expected a fiber error, got %T: %v", err, err)
	}
	if fe.Code != fiber.StatusConflict {
		t.Errorf("duplicate provisioning: got status %d, want %d", fe.Code, fiber.StatusConflict)
	}
}
