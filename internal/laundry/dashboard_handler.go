package laundry

import (
	"time"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type VendorDashboard struct {
	TotalOrders     int64                  `json:"total_orders"`
	OrdersByStatus  map[string]int64       `json:"orders_by_status"`
	TodayRevenue    float64                `json:"today_revenue"`
	MonthlyRevenue  float64                `json:"monthly_revenue"`
	ActiveItemCount int64                  `json:"active_item_count"`
	RecentOrders    []LaundryOrderResponse `json:"recent_orders"`
}

type UserDashboard struct {
	TotalOrders    int64                  `json:"total_orders"`
	ActiveOrders   int64                  `json:"active_orders"`
	TotalSpent     float64                `json:"total_spent"`
	FavoriteVendor string                 `json:"favorite_vendor"`
	RecentOrders   []LaundryOrderResponse `json:"recent_orders"`
}

// GET /laundry/vendors/:id/dashboard — operator view: order counts by status,
// revenue for today and the current month (delivered orders only), item count
// and the latest orders.
func VendorDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		profile, err := requireProfileOwnership(actor, c.Params("id"))
		if err != nil {
			return err
		}

		dash := VendorDashboard{OrdersByStatus: map[string]int64{}}

		database.DB.Model(&models.LaundryOrder{}).
			Where("laundry_vendor_id = ?", profile.ID).
			Count(&dash.TotalOrders)

		for status := range statusRank {
			var n int64
			database.DB.Model(&models.LaundryOrder{}).
				Where("laundry_vendor_id = ? AND status = ?", profile.ID, status).
				Count(&n)
			dash.OrdersByStatus[string(status)] = n
		}
		var cancelled int64
		database.DB.Model(&models.LaundryOrder{}).
			Where("laundry_vendor_id = ? AND status = ?", profile.ID, models.LaundryStatusCancelled).
			Count(&cancelled)
		dash.OrdersByStatus[string(models.LaundryStatusCancelled)] = cancelled

		now := time.Now()
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		database.DB.Model(&models.LaundryOrder{}).
			Where("laundry_vendor_id = ? AND status = ? AND delivered_at >= ?",
				profile.ID, models.LaundryStatusDelivered, todayStart).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&dash.TodayRevenue)
		database.DB.Model(&models.LaundryOrder{}).
			Where("laundry_vendor_id = ? AND status = ? AND delivered_at >= ?",
				profile.ID, models.LaundryStatusDelivered, monthStart).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&dash.MonthlyRevenue)

		database.DB.Model(&models.LaundryItem{}).
			Where("laundry_vendor_id = ? AND is_available = ?", profile.ID, true).
			Count(&dash.ActiveItemCount)

		var recent []models.LaundryOrder
		database.DB.Preload("Items.LaundryItem").
			Where("laundry_vendor_id = ?", profile.ID).
			Order("created_at desc").Limit(5).Find(&recent)
		dash.RecentOrders = make([]LaundryOrderResponse, 0, len(recent))
		for i := range recent {
			dash.RecentOrders = append(dash.RecentOrders, toLaundryOrderResponse(&recent[i]))
		}

		return c.JSON(dash)
	}
}

// GET /laundry/users/dashboard — resident view of their own laundry activity.
func UserDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		dash := UserDashboard{}

		database.DB.Model(&models.LaundryOrder{}).
			Where("user_id = ?", actor.UserID).
			Count(&dash.TotalOrders)
		database.DB.Model(&models.LaundryOrder{}).
			Where("user_id = ? AND status NOT IN ?", actor.UserID,
				[]models.LaundryOrderStatus{models.LaundryStatusDelivered, models.LaundryStatusCancelled}).
			Count(&dash.ActiveOrders)
		database.DB.Model(&models.LaundryOrder{}).
			Where("user_id = ? AND status = ?", actor.UserID, models.LaundryStatusDelivered).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&dash.TotalSpent)

		// Favorite vendor = the one with the most orders from this user.
		var fav struct {
			LaundryVendorID uint
			Cnt             int64
		}
		row := database.DB.Model(&models.LaundryOrder{}).
			Select("laundry_vendor_id, COUNT(*) as cnt").
			Where("user_id = ?", actor.UserID).
			Group("laundry_vendor_id").
			Order("cnt desc").Limit(1).Scan(&fav)
		if row.Error == nil && fav.LaundryVendorID != 0 {
			var profile models.LaundryVendor
			if err := database.DB.First(&profile, fav.LaundryVendorID).Error; err == nil {
				dash.FavoriteVendor = profile.BusinessName
			}
		}

		var recent []models.LaundryOrder
		database.DB.Preload("Items.LaundryItem").
			Where("user_id = ?", actor.UserID).
			Order("created_at desc").Limit(5).Find(&recent)
		dash.RecentOrders = make([]LaundryOrderResponse, 0, len(recent))
		for i := range recent {
			dash.RecentOrders = append(dash.RecentOrders, toLaundryOrderResponse(&recent[i]))
		}

		return c.JSON(dash)
	}
}
