package laundry

import (
	"fmt"
	"strings"
	"time"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LaundryOrderItemRequest struct {
	LaundryItemID       uint   `json:"laundry_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

type CreateLaundryOrderRequest struct {
	LaundryVendorID      uint                      `json:"laundry_vendor_id"`
	PickupAddress        string                    `json:"pickup_address"`
	PickupDate           string                    `json:"pickup_date"` // "2025-12-09"
	PickupTimeSlot       string                    `json:"pickup_time_slot"`
	PickupInstructions   string                    `json:"pickup_instructions"`
	DeliveryAddress      string                    `json:"delivery_address"`
	DeliveryInstructions string                    `json:"delivery_instructions"`
	Items                []LaundryOrderItemRequest `json:"items"`
}

type UpdateLaundryOrderRequest struct {
	Status               *models.LaundryOrderStatus `json:"status"`
	PickupInstructions   *string                    `json:"pickup_instructions"`
	DeliveryAddress      *string                    `json:"delivery_address"`
	DeliveryInstructions *string                    `json:"delivery_instructions"`
}

type LaundryPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type LaundryOrderItemResponse struct {
	ID                  uint    `json:"id"`
	LaundryItemID       uint    `json:"laundry_item_id"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`
	SpecialInstructions string  `json:"special_instructions"`
	ItemName            string  `json:"item_name"`
	ItemCategory        string  `json:"item_category"`
}

type LaundryOrderResponse struct {
	ID                   uint                       `json:"id"`
	UserID               uint                       `json:"user_id"`
	LaundryVendorID      uint                       `json:"laundry_vendor_id"`
	OrderNumber          string                     `json:"order_number"`
	PickupAddress        string                     `json:"pickup_address"`
	PickupDate           time.Time                  `json:"pickup_date"`
	PickupTimeSlot       string                     `json:"pickup_time_slot"`
	PickupInstructions   string                     `json:"pickup_instructions"`
	DeliveryAddress      string                     `json:"delivery_address"`
	DeliveryInstructions string                     `json:"delivery_instructions"`
	Status               models.LaundryOrderStatus  `json:"status"`
	Subtotal             float64                    `json:"subtotal"`
	PickupCharge         float64                    `json:"pickup_charge"`
	DeliveryCharge       float64                    `json:"delivery_charge"`
	TaxAmount            float64                    `json:"tax_amount"`
	TotalAmount          float64                    `json:"total_amount"`
	PaymentStatus        string                     `json:"payment_status"`
	PaymentMethod        string                     `json:"payment_method"`
	PaymentReference     string                     `json:"payment_reference"`
	ConfirmedAt          *time.Time                 `json:"confirmed_at"`
	PickedUpAt           *time.Time                 `json:"picked_up_at"`
	ReadyAt              *time.Time                 `json:"ready_at"`
	DeliveredAt          *time.Time                 `json:"delivered_at"`
	CancelledAt          *time.Time                 `json:"cancelled_at"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
	Items                []LaundryOrderItemResponse `json:"items"`
}

func toLaundryOrderResponse(o *models.LaundryOrder) LaundryOrderResponse {
	items := make([]LaundryOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		res := LaundryOrderItemResponse{
			ID:                  it.ID,
			LaundryItemID:       it.LaundryItemID,
			Quantity:            it.Quantity,
			UnitPrice:           it.UnitPrice,
			TotalPrice:          it.TotalPrice,
			SpecialInstructions: it.SpecialInstructions,
		}
		if it.LaundryItem != nil {
			res.ItemName = it.LaundryItem.Name
			res.ItemCategory = it.LaundryItem.Category
		}
		items = append(items, res)
	}
	return LaundryOrderResponse{
		ID:                   o.ID,
		UserID:               o.UserID,
		LaundryVendorID:      o.LaundryVendorID,
		OrderNumber:          o.OrderNumber,
		PickupAddress:        o.PickupAddress,
		PickupDate:           o.PickupDate,
		PickupTimeSlot:       o.PickupTimeSlot,
		PickupInstructions:   o.PickupInstructions,
		DeliveryAddress:      o.DeliveryAddress,
		DeliveryInstructions: o.DeliveryInstructions,
		Status:               o.Status,
		Subtotal:             o.Subtotal,
		PickupCharge:         o.PickupCharge,
		DeliveryCharge:       o.DeliveryCharge,
		TaxAmount:            o.TaxAmount,
		TotalAmount:          o.TotalAmount,
		PaymentStatus:        o.PaymentStatus,
		PaymentMethod:        o.PaymentMethod,
		PaymentReference:     o.PaymentReference,
		ConfirmedAt:          o.ConfirmedAt,
		PickedUpAt:           o.PickedUpAt,
		ReadyAt:              o.ReadyAt,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
		Items:                items,
	}
}

func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("LND-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}

// POST /laundry/orders — users only. Prices and charges come from the item
// and profile rows; the 18% tax is applied on top of subtotal plus charges.
func CreateLaundryOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}
		if actor.Role != models.RoleUser {
			return fiber.NewError(fiber.StatusForbidden, "Only users can create laundry orders")
		}

		var body CreateLaundryOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.LaundryVendorID == 0 || len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "laundry_vendor_id and items are required")
		}
		if strings.TrimSpace(body.PickupAddress) == "" || body.PickupTimeSlot == "" {
			return fiber.NewError(fiber.StatusBadRequest, "pickup_address and pickup_time_slot are required")
		}

		pickupDate, err := time.Parse("2006-01-02", body.PickupDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "pickup_date must be YYYY-MM-DD")
		}

		var order models.LaundryOrder

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var profile models.LaundryVendor
			if err := tx.First(&profile, body.LaundryVendorID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Laundry vendor not found")
			}
			if !profile.IsActive {
				return fiber.NewError(fiber.StatusBadRequest, "Laundry vendor is not active")
			}

			var subtotal float64
			orderItems := make([]models.LaundryOrderItem, 0, len(body.Items))
			for _, it := range body.Items {
				if it.Quantity <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Item quantity must be positive")
				}
				var item models.LaundryItem
				if err := tx.Where("id = ? AND laundry_vendor_id = ? AND is_available = ?",
					it.LaundryItemID, profile.ID, true).First(&item).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Laundry item not found for this vendor")
				}
				lineTotal := item.PricePerPiece * float64(it.Quantity)
				subtotal += lineTotal
				orderItems = append(orderItems, models.LaundryOrderItem{
					LaundryItemID:       item.ID,
					Quantity:            it.Quantity,
					UnitPrice:           item.PricePerPiece,
					TotalPrice:          lineTotal,
					SpecialInstructions: it.SpecialInstructions,
				})
			}

			if subtotal < profile.MinimumOrderAmount {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Order subtotal is below the vendor minimum of %.2f", profile.MinimumOrderAmount))
			}

			taxAmount, totalAmount := ComputeTotals(subtotal, profile.PickupCharge, profile.DeliveryCharge)

			deliveryAddress := body.DeliveryAddress
			if deliveryAddress == "" {
				deliveryAddress = body.PickupAddress
			}

			order = models.LaundryOrder{
				UserID:               actor.UserID,
				LaundryVendorID:      profile.ID,
				OrderNumber:          newOrderNumber(time.Now()),
				PickupAddress:        body.PickupAddress,
				PickupDate:           pickupDate,
				PickupTimeSlot:       body.PickupTimeSlot,
				PickupInstructions:   body.PickupInstructions,
				DeliveryAddress:      deliveryAddress,
				DeliveryInstructions: body.DeliveryInstructions,
				Status:               models.LaundryStatusPending,
				Subtotal:             subtotal,
				PickupCharge:         profile.PickupCharge,
				DeliveryCharge:       profile.DeliveryCharge,
				TaxAmount:            taxAmount,
				TotalAmount:          totalAmount,
				PaymentStatus:        "pending",
			}
			if err := tx.Create(&order).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create laundry order")
			}
			for i := range orderItems {
				orderItems[i].LaundryOrderID = order.ID
			}
			if err := tx.Create(&orderItems).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create laundry order items")
			}
			order.Items = orderItems
			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create laundry order")
		}

		return c.Status(fiber.StatusCreated).JSON(toLaundryOrderResponse(&order))
	}
}

// GET /laundry/orders?status=&vendor_id=
func ListLaundryOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Items.LaundryItem").Order("created_at desc")

		switch actor.Role {
		case models.RoleUser:
			dbq = dbq.Where("user_id = ?", actor.UserID)
		case models.RoleVendor, models.RoleAdmin:
			dbq = dbq.Where("laundry_vendor_id IN (?)",
				database.DB.Model(&models.LaundryVendor{}).Select("id").Where("vendor_id IN (?)",
					database.DB.Model(&models.Vendor{}).Select("id").Where("admin_id = ?", actor.UserID)))
		case models.RoleMaster:
			if vendorID := c.Query("vendor_id"); vendorID != "" {
				dbq = dbq.Where("laundry_vendor_id = ?", vendorID)
			}
		default:
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var orders []models.LaundryOrder
		if err := dbq.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list laundry orders")
		}

		res := make([]LaundryOrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toLaundryOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// GET /laundry/orders/:id
func GetLaundryOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var order models.LaundryOrder
		if err := database.DB.Preload("Items.LaundryItem").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Laundry order not found")
		}

		if err := checkLaundryOrderAccess(actor, &order); err != nil {
			return err
		}

		return c.JSON(toLaundryOrderResponse(&order))
	}
}

// PUT /laundry/orders/:id — status moves forward only, one step at a time;
// users may only cancel their own order before pickup.
func UpdateLaundryOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var order models.LaundryOrder
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Laundry order not found")
		}

		if err := checkLaundryOrderAccess(actor, &order); err != nil {
			return err
		}

		var body UpdateLaundryOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.PickupInstructions != nil {
			order.PickupInstructions = *body.PickupInstructions
		}
		if body.DeliveryAddress != nil {
			order.DeliveryAddress = *body.DeliveryAddress
		}
		if body.DeliveryInstructions != nil {
			order.DeliveryInstructions = *body.DeliveryInstructions
		}

		if body.Status != nil {
			newStatus := *body.Status
			if actor.Role == models.RoleUser && newStatus != models.LaundryStatusCancelled {
				return fiber.NewError(fiber.StatusForbidden, "Users may only cancel their orders")
			}
			if !CanTransition(order.Status, newStatus) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("cannot move laundry order from %q to %q", order.Status, newStatus))
			}
			order.Status = newStatus
			now := time.Now()
			switch newStatus {
			case models.LaundryStatusConfirmed:
				order.ConfirmedAt = &now
			case models.LaundryStatusPickedUp:
				order.PickedUpAt = &now
			case models.LaundryStatusReady:
				order.ReadyAt = &now
			case models.LaundryStatusDelivered:
				order.DeliveredAt = &now
			case models.LaundryStatusCancelled:
				order.CancelledAt = &now
			}
		}

		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update laundry order")
		}

		return c.JSON(toLaundryOrderResponse(&order))
	}
}

// POST /laundry/orders/:id/payment — dummy gateway, marks the order paid.
func ProcessLaundryPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var order models.LaundryOrder
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Laundry order not found")
		}

		if actor.Role == models.RoleUser && order.UserID != actor.UserID {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		if order.PaymentStatus == "paid" {
			return fiber.NewError(fiber.StatusConflict, "Order is already paid")
		}

		var body LaundryPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.PaymentMethod == "" {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method is required")
		}

		reference := fmt.Sprintf("PAY-LND-%s-%s",
			time.Now().Format("20060102150405"), strings.ToUpper(uuid.NewString()[:8]))

		updates := map[string]interface{}{
			"payment_status":    "paid",
			"payment_method":    body.PaymentMethod,
			"payment_reference": reference,
		}
		if err := database.DB.Model(&order).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not process payment")
		}

		return c.JSON(fiber.Map{
			"success":           true,
			"payment_reference": reference,
			"message":           "Payment processed successfully (dummy implementation)",
		})
	}
}

func checkLaundryOrderAccess(actor auth.Actor, order *models.LaundryOrder) error {
	switch actor.Role {
	case models.RoleMaster:
		return nil
	case models.RoleUser:
		if order.UserID != actor.UserID {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		return nil
	case models.RoleVendor, models.RoleAdmin:
		var profile models.LaundryVendor
		if err := database.DB.First(&profile, order.LaundryVendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		var vendor models.Vendor
		if err := database.DB.First(&vendor, profile.VendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		if vendor.AdminID == nil || *vendor.AdminID != actor.UserID {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "Access denied")
}
