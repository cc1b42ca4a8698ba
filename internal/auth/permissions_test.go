package auth

import (
	"testing"

	"communityexpress-backend/internal/models"
)

func TestDefaultPermissions(t *testing.T) {
	perms := DefaultPermissions()

	cases := []struct {
		role   models.UserRole
		action Action
		want   bool
	}{
		{models.RoleMaster, ActionCommunityCreate, true},
		{models.RoleMaster, ActionVendorCreate, true},
		{models.RoleMaster, ActionOrderCancel, true},
		{models.RoleMaster, ActionPaymentRefund, true},
		{models.RoleMaster, ActionOrderCreate, false},

		{models.RoleAdmin, ActionProductCreate, true},
		{models.RoleAdmin, ActionOrderAdvance, true},
		{models.RoleAdmin, ActionCommunityCreate, false},
		{models.RoleAdmin, ActionVendorCreate, false},

		{models.RolePartner, ActionOrderAdvance, true},
		{models.RolePartner, ActionOrderCancel, false},
		{models.RolePartner, ActionProductUpdate, false},

		{models.RoleUser, ActionOrderCreate, true},
		{models.RoleUser, ActionOrderCancel, true},
		{models.RoleUser, ActionPaymentCreate, true},
		{models.RoleUser, ActionPaymentRefund, true},
		{models.RoleUser, ActionVendorCreate, false},
		{models.RoleUser, ActionOrderAdvance, false},

		{models.RoleVendor, ActionLaundryManage, true},
		{models.RoleVendor, ActionOrderAdvance, true},
		{models.RoleVendor, ActionVendorCreate, false},
		{models.RoleVendor, ActionOrderCreate, false},
	}

	for _, tc := range cases {
		if got := perms.Allows(tc.role, tc.action); got != tc.want {
			t.Errorf("Allows(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestUnknownRoleDeniedEverything(t *testing.T) {
	perms := DefaultPermissions()
	for _, action := range []Action{ActionCommunityCreate, ActionOrderCreate, ActionLaundryManage} {
		if perms.Allows(models.UserRole("ghost"), action) {
			t.Errorf("unknown role was allowed %q", action)
		}
	}
}
