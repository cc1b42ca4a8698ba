package audit

import (
	"fmt"

	"communityexpress-backend/internal/models"

	"gorm.io/gorm"
)

// RecordStatusChange appends one row of order history. It takes the caller's
// transaction handle so the history row commits or rolls back together with
// the status write itself.
func RecordStatusChange(tx *gorm.DB, orderID uint, from, to models.OrderStatus, changedBy uint) error {
	change := models.OrderStatusChange{
		OrderID:   orderID,
		From:      from,
		To:        to,
		ChangedBy: changedBy,
	}
	if err := tx.Create(&change).Error; err != nil {
		return fmt.Errorf("could not record status change: %w", err)
	}
	return nil
}
