package orders

import (
	"time"

	"communityexpress-backend/internal/audit"
	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	VendorID            uint               `json:"vendor_id"`
	Items               []OrderItemRequest `json:"items"`
	DeliveryAddress     string             `json:"delivery_address"`
	DeliveryDate        string             `json:"delivery_date"` // "2025-12-09"
	DeliveryTime        string             `json:"delivery_time"` // "07:30"
	SpecialInstructions string             `json:"special_instructions"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderItemResponse struct {
	ID         uint    `json:"id"`
	ProductID  uint    `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type OrderResponse struct {
	ID                  uint                `json:"id"`
	UserID              uint                `json:"user_id"`
	VendorID            uint                `json:"vendor_id"`
	PartnerID           *uint               `json:"partner_id"`
	PaymentID           *uint               `json:"payment_id"`
	Status              models.OrderStatus  `json:"status"`
	TotalAmount         float64             `json:"total_amount"`
	DeliveryAddress     string              `json:"delivery_address"`
	DeliveryDate        *time.Time          `json:"delivery_date"`
	DeliveryTime        string              `json:"delivery_time"`
	SpecialInstructions string              `json:"special_instructions"`
	Items               []OrderItemResponse `json:"items"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return OrderResponse{
		ID:                  o.ID,
		UserID:              o.UserID,
		VendorID:            o.VendorID,
		PartnerID:           o.PartnerID,
		PaymentID:           o.PaymentID,
		Status:              o.Status,
		TotalAmount:         o.TotalAmount,
		DeliveryAddress:     o.DeliveryAddress,
		DeliveryDate:        o.DeliveryDate,
		DeliveryTime:        o.DeliveryTime,
		SpecialInstructions: o.SpecialInstructions,
		Items:               items,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

// POST /orders/ — a user orders from a vendor in their own community.
// Prices come from the product rows, never from the client.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.VendorID == 0 || len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_id and items are required")
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, body.VendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}
		if !vendor.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Vendor is not active")
		}
		if actor.CommunityID == nil || *actor.CommunityID != vendor.CommunityID {
			return fiber.NewError(fiber.StatusForbidden, "You can only order from vendors in your own community")
		}

		var deliveryDate *time.Time
		if body.DeliveryDate != "" {
			d, err := time.Parse("2006-01-02", body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "delivery_date must be YYYY-MM-DD")
			}
			deliveryDate = &d
		}

		order := models.Order{
			UserID:              actor.UserID,
			VendorID:            vendor.ID,
			Status:              models.OrderStatusCreated,
			DeliveryAddress:     body.DeliveryAddress,
			DeliveryDate:        deliveryDate,
			DeliveryTime:        body.DeliveryTime,
			SpecialInstructions: body.SpecialInstructions,
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var total float64
			orderItems := make([]models.OrderItem, 0, len(body.Items))
			for _, it := range body.Items {
				if it.Quantity <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Item quantity must be positive")
				}
				var product models.Product
				if err := tx.Where("id = ? AND vendor_id = ? AND is_available = ?", it.ProductID, vendor.ID, true).
					First(&product).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Product not found for this vendor")
				}
				lineTotal := product.Price * float64(it.Quantity)
				total += lineTotal
				orderItems = append(orderItems, models.OrderItem{
					ProductID:  product.ID,
					Quantity:   it.Quantity,
					UnitPrice:  product.Price,
					TotalPrice: lineTotal,
				})
			}

			order.TotalAmount = total
			if err := tx.Create(&order).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create order")
			}
			for i := range orderItems {
				orderItems[i].OrderID = order.ID
			}
			if err := tx.Create(&orderItems).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create order items")
			}
			order.Items = orderItems
			return nil
		})
		if txErr != nil {
			return txErr
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(&order))
	}
}

// GET /orders/ — users see their own orders, admins their vendor's orders,
// partners their assigned orders, masters everything.
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Items").Order("created_at desc")

		switch actor.Role {
		case models.RoleUser:
			dbq = dbq.Where("user_id = ?", actor.UserID)
		case models.RoleAdmin:
			dbq = dbq.Where("vendor_id IN (?)",
				database.DB.Model(&models.Vendor{}).Select("id").Where("admin_id = ?", actor.UserID))
		case models.RolePartner:
			dbq = dbq.Where("partner_id = ?", actor.UserID)
		case models.RoleMaster:
			// no filter
		default:
			return fiber.NewError(fiber.StatusForbidden, "You are not allowed to list orders")
		}

		var orders []models.Order
		if err := dbq.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		res := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// GET /orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		if !canViewOrder(actor, &order) {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized to view this order")
		}

		return c.JSON(toOrderResponse(&order))
	}
}

// GET /orders/:id/history
func OrderHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		if !canViewOrder(actor, &order) {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized to view this order")
		}

		var changes []models.OrderStatusChange
		if err := database.DB.Where("order_id = ?", order.ID).Order("created_at asc").Find(&changes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load order history")
		}
		return c.JSON(changes)
	}
}

// applyStatusChange performs the compare-and-set write for one validated
// transition and appends the history row on the same transaction. The WHERE
// carries the status the caller read, so a concurrent conflicting transition
// makes RowsAffected come back zero instead of silently overwriting.
func applyStatusChange(tx *gorm.DB, order *models.Order, to models.OrderStatus, changedBy uint) error {
	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", to)
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update order status")
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "Order status changed concurrently, retry")
	}
	return audit.RecordStatusChange(tx, order.ID, order.Status, to, changedBy)
}

// PUT /orders/:id/status — validates the edge and the actor, then applies
// the write through applyStatusChange inside one transaction.
func UpdateOrderStatusHandler(perms *auth.Permissions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status is required")
		}

		orderID := c.Params("id")

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Order not found")
			}

			var vendor models.Vendor
			if err := tx.First(&vendor, order.VendorID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load vendor")
			}

			actorCtx := ActorContext{
				Role:              actor.Role,
				IsVendorAdmin:     vendor.AdminID != nil && *vendor.AdminID == actor.UserID,
				IsAssignedPartner: order.PartnerID != nil && *order.PartnerID == actor.UserID,
				IsPlacer:          order.UserID == actor.UserID,
			}

			if terr := Authorize(perms, actorCtx, order.Status, body.Status); terr != nil {
				return fiber.NewError(terr.Status, terr.Message)
			}

			return applyStatusChange(tx, &order, body.Status, actor.UserID)
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update order status")
		}

		return c.JSON(fiber.Map{"message": "Order status updated successfully"})
	}
}

type AssignPartnerRequest struct {
	PartnerID uint `json:"partner_id"`
}

// PUT /orders/:id/partner — the vendor admin assigns a partner to work the
// order. The partner must hold the partner role.
func AssignPartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body AssignPartnerRequest
		if err := c.BodyParser(&body); err != nil || body.PartnerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "partner_id is required")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, order.VendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load vendor")
		}
		if actor.Role != models.RoleMaster && (vendor.AdminID == nil || *vendor.AdminID != actor.UserID) {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized to assign partners for this order")
		}

		var partner models.User
		if err := database.DB.First(&partner, body.PartnerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Partner not found")
		}
		if partner.Role != models.RolePartner {
			return fiber.NewError(fiber.StatusBadRequest, "User is not a partner")
		}

		if err := database.DB.Model(&order).Update("partner_id", partner.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not assign partner")
		}

		return c.JSON(fiber.Map{"message": "Partner assigned successfully"})
	}
}

func canViewOrder(actor auth.Actor, order *models.Order) bool {
	switch actor.Role {
	case models.RoleMaster:
		return true
	case models.RoleUser:
		return order.UserID == actor.UserID
	case models.RolePartner:
		return order.PartnerID != nil && *order.PartnerID == actor.UserID
	case models.RoleAdmin:
		var vendor models.Vendor
		if err := database.DB.First(&vendor, order.VendorID).Error; err != nil {
			return false
		}
		return vendor.AdminID != nil && *vendor.AdminID == actor.UserID
	}
	return false
}
