package payments

import (
	"strings"
	"time"

	"communityexpress-backend/internal/audit"
	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	OrderID uint   `json:"order_id"`
	Method  string `json:"method"`
}

type PaymentResponse struct {
	ID            uint                 `json:"id"`
	OrderID       uint                 `json:"order_id"`
	UserID        uint                 `json:"user_id"`
	Amount        float64              `json:"amount"`
	Method        string               `json:"method"`
	Status        models.PaymentStatus `json:"status"`
	TransactionID string               `json:"transaction_id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func toPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newTransactionID() string {
	return "TX_" + strings.ToUpper(uuid.NewString()[:8])
}

// POST /payments/ — mock gateway: the capture succeeds immediately. The
// amount is the order total; clients do not supply it. Paying a freshly
// created order also confirms it, in the same transaction.
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.OrderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "order_id is required")
		}

		method := body.Method
		if method == "" {
			method = "mock_payment"
		}

		var payment models.Payment

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, body.OrderID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Order not found")
			}
			if order.UserID != actor.UserID {
				return fiber.NewError(fiber.StatusForbidden, "Not authorized to pay for this order")
			}

			// At most one completed payment per order.
			var count int64
			tx.Model(&models.Payment{}).
				Where("order_id = ? AND status = ?", order.ID, models.PaymentStatusCompleted).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Order already has a completed payment")
			}

			payment = models.Payment{
				OrderID:       order.ID,
				UserID:        actor.UserID,
				Amount:        order.TotalAmount,
				Method:        method,
				Status:        models.PaymentStatusCompleted, // mock capture
				TransactionID: newTransactionID(),
			}
			if err := tx.Create(&payment).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create payment")
			}

			if err := tx.Model(&order).Update("payment_id", payment.ID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not link payment to order")
			}

			if order.Status == models.OrderStatusCreated {
				result := tx.Model(&models.Order{}).
					Where("id = ? AND status = ?", order.ID, models.OrderStatusCreated).
					Update("status", models.OrderStatusConfirmed)
				if result.Error != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Could not confirm order")
				}
				if result.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusConflict, "Order status changed concurrently, retry")
				}
				if err := audit.RecordStatusChange(tx, order.ID, models.OrderStatusCreated, models.OrderStatusConfirmed, actor.UserID); err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create payment")
		}

		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(&payment))
	}
}

// GET /payments/
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Payment{}).Order("created_at desc")
		switch actor.Role {
		case models.RoleUser:
			dbq = dbq.Where("user_id = ?", actor.UserID)
		case models.RoleAdmin:
			dbq = dbq.Where("order_id IN (?)",
				database.DB.Model(&models.Order{}).Select("id").Where("vendor_id IN (?)",
					database.DB.Model(&models.Vendor{}).Select("id").Where("admin_id = ?", actor.UserID)))
		case models.RoleMaster:
			// no filter
		default:
			return fiber.NewError(fiber.StatusForbidden, "You are not allowed to list payments")
		}

		var payments []models.Payment
		if err := dbq.Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payments")
		}

		res := make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			res = append(res, toPaymentResponse(&payments[i]))
		}
		return c.JSON(res)
	}
}

// GET /payments/:id
func GetPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}

		if actor.Role == models.RoleUser && payment.UserID != actor.UserID {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized to view this payment")
		}

		return c.JSON(toPaymentResponse(&payment))
	}
}

// POST /payments/:id/refund — only a completed payment on a completed order
// can be refunded. The payment flips to refunded and the order moves
// completed → refunded in the same transaction; refunded is not reachable
// any other way.
func RefundPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var payment models.Payment

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Payment not found")
			}

			if actor.Role != models.RoleMaster && payment.UserID != actor.UserID {
				return fiber.NewError(fiber.StatusForbidden, "Not authorized to refund this payment")
			}
			if payment.Status != models.PaymentStatusCompleted {
				return fiber.NewError(fiber.StatusBadRequest, "Only completed payments can be refunded")
			}

			var order models.Order
			if err := tx.First(&order, payment.OrderID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load order")
			}
			if order.Status != models.OrderStatusCompleted {
				return fiber.NewError(fiber.StatusBadRequest, "Only payments on completed orders can be refunded")
			}

			if err := tx.Model(&payment).Update("status", models.PaymentStatusRefunded).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not refund payment")
			}

			result := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", order.ID, models.OrderStatusCompleted).
				Update("status", models.OrderStatusRefunded)
			if result.Error != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update order status")
			}
			if result.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusConflict, "Order status changed concurrently, retry")
			}

			return audit.RecordStatusChange(tx, order.ID, models.OrderStatusCompleted, models.OrderStatusRefunded, actor.UserID)
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not refund payment")
		}

		return c.JSON(fiber.Map{
			"message":        "Payment refunded successfully",
			"transaction_id": payment.TransactionID,
		})
	}
}
