package orders

import (
	"testing"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/models"
)

var allStatuses = []models.OrderStatus{
	models.OrderStatusCreated,
	models.OrderStatusConfirmed,
	models.OrderStatusInProgress,
	models.OrderStatusCompleted,
	models.OrderStatusCancelled,
	models.OrderStatusRefunded,
}

func TestCanTransitionGraph(t *testing.T) {
	allowed := map[[2]models.OrderStatus]bool{
		{models.OrderStatusCreated, models.OrderStatusConfirmed}:    true,
		{models.OrderStatusCreated, models.OrderStatusCancelled}:    true,
		{models.OrderStatusConfirmed, models.OrderStatusInProgress}: true,
		{models.OrderStatusConfirmed, models.OrderStatusCancelled}:  true,
		{models.OrderStatusInProgress, models.OrderStatusCompleted}: true,
		{models.OrderStatusCompleted, models.OrderStatusRefunded}:   true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]models.OrderStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusRefunded} {
		for _, to := range allStatuses {
			if CanTransition(from, to) {
				t.Errorf("terminal status %q has exit to %q", from, to)
			}
		}
	}
}

func TestRefundedNotSettableDirectly(t *testing.T) {
	if CanRequest(models.OrderStatusRefunded) {
		t.Fatal("refunded must not be settable through the status endpoint")
	}

	perms := auth.DefaultPermissions()
	actor := ActorContext{Role: models.RoleMaster, IsVendorAdmin: true, IsAssignedPartner: true, IsPlacer: true}
	err := Authorize(perms, actor, models.OrderStatusCompleted, models.OrderStatusRefunded)
	if err == nil {
		t.Fatal("Authorize allowed a direct move to refunded")
	}
	if err.Status != 400 {
		t.Errorf("direct refunded request: got status %d, want 400", err.Status)
	}
}

func TestAuthorizeForwardActors(t *testing.T) {
	perms := auth.DefaultPermissions()

	cases := []struct {
		name    string
		actor   ActorContext
		wantErr bool
	}{
		{"vendor admin", ActorContext{Role: models.RoleAdmin, IsVendorAdmin: true}, false},
		{"vendor operator login", ActorContext{Role: models.RoleVendor, IsVendorAdmin: true}, false},
		{"assigned partner", ActorContext{Role: models.RolePartner, IsAssignedPartner: true}, false},
		{"unassigned partner", ActorContext{Role: models.RolePartner}, true},
		{"placing user", ActorContext{Role: models.RoleUser, IsPlacer: true}, true},
		{"master without relation", ActorContext{Role: models.RoleMaster}, true},
	}

	for _, tc := range cases {
		err := Authorize(perms, tc.actor, models.OrderStatusCreated, models.OrderStatusConfirmed)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected forward move to be rejected", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: forward move rejected: %v", tc.name, err)
		}
		if tc.wantErr && err != nil && err.Status != 403 {
			t.Errorf("%s: got status %d, want 403", tc.name, err.Status)
		}
	}
}

func TestAuthorizeCancellation(t *testing.T) {
	perms := auth.DefaultPermissions()
	placer := ActorContext{Role: models.RoleUser, IsPlacer: true}
	master := ActorContext{Role: models.RoleMaster}
	vendorAdmin := ActorContext{Role: models.RoleAdmin, IsVendorAdmin: true}

	for _, from := range []models.OrderStatus{models.OrderStatusCreated, models.OrderStatusConfirmed} {
		if err := Authorize(perms, placer, from, models.OrderStatusCancelled); err != nil {
			t.Errorf("placer cancel from %q rejected: %v", from, err)
		}
		if err := Authorize(perms, master, from, models.OrderStatusCancelled); err != nil {
			t.Errorf("master cancel from %q rejected: %v", from, err)
		}
		if err := Authorize(perms, vendorAdmin, from, models.OrderStatusCancelled); err == nil {
			t.Errorf("vendor admin cancel from %q allowed", from)
		}
	}

	// Work started: nobody cancels, not even a master.
	err := Authorize(perms, master, models.OrderStatusInProgress, models.OrderStatusCancelled)
	if err == nil {
		t.Fatal("cancel from in_progress allowed")
	}
	if err.Status != 400 {
		t.Errorf("cancel from in_progress: got status %d, want 400", err.Status)
	}
}

func TestAuthorizeSkippingStatesRejected(t *testing.T) {
	perms := auth.DefaultPermissions()
	actor := ActorContext{Role: models.RoleAdmin, IsVendorAdmin: true}

	err := Authorize(perms, actor, models.OrderStatusCreated, models.OrderStatusCompleted)
	if err == nil {
		t.Fatal("jump created → completed allowed")
	}
	if err.Status != 400 {
		t.Errorf("skipping states: got status %d, want 400", err.Status)
	}

	if err := Authorize(perms, actor, models.OrderStatusConfirmed, models.OrderStatusCreated); err == nil {
		t.Fatal("backward move confirmed → created allowed")
	}
}
