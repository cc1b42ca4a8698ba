package laundry

import "communityexpress-backend/internal/models"

// Laundry orders walk their own chain:
// pending → confirmed → picked_up → in_process → ready → delivered,
// with cancellation possible until the clothes are picked up.
var statusRank = map[models.LaundryOrderStatus]int{
	models.LaundryStatusPending:   0,
	models.LaundryStatusConfirmed: 1,
	models.LaundryStatusPickedUp:  2,
	models.LaundryStatusInProcess: 3,
	models.LaundryStatusReady:     4,
	models.LaundryStatusDelivered: 5,
}

func CanTransition(from, to models.LaundryOrderStatus) bool {
	if from == models.LaundryStatusCancelled || from == models.LaundryStatusDelivered {
		return false
	}
	if to == models.LaundryStatusCancelled {
		return statusRank[from] <= statusRank[models.LaundryStatusConfirmed]
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// taxRate is GST applied on top of subtotal plus charges.
const taxRate = 0.18

func ComputeTotals(subtotal, pickupCharge, deliveryCharge float64) (taxAmount, totalAmount float64) {
	taxAmount = (subtotal + pickupCharge + deliveryCharge) * taxRate
	totalAmount = subtotal + pickupCharge + deliveryCharge + taxAmount
	return taxAmount, totalAmount
}
