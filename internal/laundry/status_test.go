package laundry

import (
	"math"
	"testing"

	"communityexpress-backend/internal/models"
)

func TestCanTransitionForwardChain(t *testing.T) {
	chain := []models.LaundryOrderStatus{
		models.LaundryStatusPending,
		models.LaundryStatusConfirmed,
		models.LaundryStatusPickedUp,
		models.LaundryStatusInProcess,
		models.LaundryStatusReady,
		models.LaundryStatusDelivered,
	}

	for i := 0; i < len(chain)-1; i++ {
		if !CanTransition(chain[i], chain[i+1]) {
			t.Errorf("adjacent move %q → %q rejected", chain[i], chain[i+1])
		}
	}

	// No skipping, no backward moves.
	for i := range chain {
		for j := range chain {
			if j == i+1 {
				continue
			}
			if CanTransition(chain[i], chain[j]) {
				t.Errorf("non-adjacent move %q → %q allowed", chain[i], chain[j])
			}
		}
	}
}

func TestCanTransitionCancellation(t *testing.T) {
	if !CanTransition(models.LaundryStatusPending, models.LaundryStatusCancelled) {
		t.Error("cancel from pending rejected")
	}
	if !CanTransition(models.LaundryStatusConfirmed, models.LaundryStatusCancelled) {
		t.Error("cancel from confirmed rejected")
	}

	for _, from := range []models.LaundryOrderStatus{
		models.LaundryStatusPickedUp,
		models.LaundryStatusInProcess,
		models.LaundryStatusReady,
		models.LaundryStatusDelivered,
		models.LaundryStatusCancelled,
	} {
		if CanTransition(from, models.LaundryStatusCancelled) {
			t.Errorf("cancel from %q allowed", from)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	all := []models.LaundryOrderStatus{
		models.LaundryStatusPending,
		models.LaundryStatusConfirmed,
		models.LaundryStatusPickedUp,
		models.LaundryStatusInProcess,
		models.LaundryStatusReady,
		models.LaundryStatusDelivered,
		models.LaundryStatusCancelled,
	}
	for _, from := range []models.LaundryOrderStatus{models.LaundryStatusDelivered, models.LaundryStatusCancelled} {
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("terminal status %q has exit to %q", from, to)
			}
		}
	}
}

func TestComputeTotals(t *testing.T) {
	tax, total := ComputeTotals(200, 20, 30)

	wantTax := 45.0 // (200 + 20 + 30) * 0.18
	wantTotal := 295.0
	if math.Abs(tax-wantTax) > 1e-9 {
		t.Errorf("tax = %v, want %v", tax, wantTax)
	}
	if math.Abs(total-wantTotal) > 1e-9 {
		t.Errorf("total = %v, want %v", total, wantTotal)
	}
}

func TestComputeTotalsZeroCharges(t *testing.T) {
	tax, total := ComputeTotals(100, 0, 0)
	if math.Abs(tax-18.0) > 1e-9 {
		t.Errorf("tax = %v, want 18", tax)
	}
	if math.Abs(total-118.0) > 1e-9 {
		t.Errorf("total = %v, want 118", total)
	}
}
