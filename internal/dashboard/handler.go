package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PlatformStats struct {
	TotalCommunities int64   `json:"total_communities"`
	TotalVendors     int64   `json:"total_vendors"`
	TotalUsers       int64   `json:"total_users"`
	ActiveUsers      int64   `json:"active_users"`
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	CompletedOrders  int64   `json:"completed_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
}

type TrendPoint struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type Activity struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
}

type VendorPerformance struct {
	VendorID      uint              `json:"vendor_id"`
	Name          string            `json:"name"`
	Type          models.VendorType `json:"type"`
	CommunityName string            `json:"community_name"`
	IsActive      bool              `json:"is_active"`
	OrderCount    int64             `json:"order_count"`
	Revenue       float64           `json:"revenue"`
	AvgOrderValue float64           `json:"avg_order_value"`
}

// GET /dashboard/stats — master only (route gate). Platform-wide counters;
// revenue counts completed orders only.
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats := PlatformStats{}

		database.DB.Model(&models.Community{}).Count(&stats.TotalCommunities)
		database.DB.Model(&models.Vendor{}).Count(&stats.TotalVendors)
		database.DB.Model(&models.User{}).Count(&stats.TotalUsers)
		database.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers)
		database.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
		database.DB.Model(&models.Order{}).
			Where("status IN ?", []models.OrderStatus{
				models.OrderStatusCreated, models.OrderStatusConfirmed, models.OrderStatusInProgress,
			}).
			Count(&stats.PendingOrders)
		database.DB.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusCompleted).
			Count(&stats.CompletedOrders)
		database.DB.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusCompleted).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue)

		return c.JSON(stats)
	}
}

// GET /dashboard/order-trends?days=N — one point per calendar day, oldest
// first. Days is clamped to [1, 90] and defaults to 7.
func OrderTrendsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := 7
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "days must be an integer")
			}
			days = n
		}
		if days < 1 {
			days = 1
		}
		if days > 90 {
			days = 90
		}

		now := time.Now()
		points := make([]TrendPoint, 0, days)
		for i := days - 1; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
			dayEnd := dayStart.AddDate(0, 0, 1)

			var orders int64
			var revenue float64
			database.DB.Model(&models.Order{}).
				Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
				Count(&orders)
			database.DB.Model(&models.Order{}).
				Where("created_at >= ? AND created_at < ? AND status = ?",
					dayStart, dayEnd, models.OrderStatusCompleted).
				Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue)

			points = append(points, TrendPoint{
				Date:    dayStart.Format("2006-01-02"),
				Orders:  orders,
				Revenue: revenue,
			})
		}

		return c.JSON(points)
	}
}

// GET /dashboard/recent-activities?limit=N — a merged feed of what happened
// lately: registrations from the last week, orders, vendor activations and
// captured payments from the last day, newest first.
func RecentActivitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 10
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
			}
			limit = n
		}

		now := time.Now()
		weekAgo := now.AddDate(0, 0, -7)
		dayAgo := now.AddDate(0, 0, -1)

		activities := make([]Activity, 0, limit)

		var users []models.User
		database.DB.Preload("Community").
			Where("created_at >= ?", weekAgo).
			Order("created_at desc").Limit(3).Find(&users)
		for _, u := range users {
			communityName := "no community"
			if u.Community != nil {
				communityName = u.Community.Name
			}
			activities = append(activities, Activity{
				ID:        u.ID,
				Type:      "new_user",
				Message:   fmt.Sprintf("New user %s %s registered in %s", u.FirstName, u.LastName, communityName),
				Timestamp: u.CreatedAt,
				Icon:      "person-add",
				Color:     "#22c55e",
			})
		}

		var orders []models.Order
		database.DB.Preload("Vendor").
			Where("created_at >= ?", dayAgo).
			Order("created_at desc").Limit(3).Find(&orders)
		for _, o := range orders {
			vendorName := "unknown vendor"
			if o.Vendor != nil {
				vendorName = o.Vendor.Name
			}
			activities = append(activities, Activity{
				ID:        o.ID,
				Type:      "new_order",
				Message:   fmt.Sprintf("Order #%d placed for %s", o.ID, vendorName),
				Timestamp: o.CreatedAt,
				Icon:      "bag",
				Color:     "#3b82f6",
			})
		}

		var vendors []models.Vendor
		database.DB.
			Where("is_active = ? AND updated_at >= ?", true, dayAgo).
			Order("updated_at desc").Limit(2).Find(&vendors)
		for _, v := range vendors {
			activities = append(activities, Activity{
				ID:        v.ID,
				Type:      "vendor_active",
				Message:   fmt.Sprintf("%s went online", v.Name),
				Timestamp: v.UpdatedAt,
				Icon:      "checkmark-circle",
				Color:     "#10b981",
			})
		}

		var payments []models.Payment
		database.DB.
			Where("status = ? AND created_at >= ?", models.PaymentStatusCompleted, dayAgo).
			Order("created_at desc").Limit(2).Find(&payments)
		for _, p := range payments {
			activities = append(activities, Activity{
				ID:        p.ID,
				Type:      "payment",
				Message:   fmt.Sprintf("Payment of %.2f received", p.Amount),
				Timestamp: p.CreatedAt,
				Icon:      "card",
				Color:     "#f59e0b",
			})
		}

		sort.Slice(activities, func(i, j int) bool {
			return activities[i].Timestamp.After(activities[j].Timestamp)
		})
		if len(activities) > limit {
			activities = activities[:limit]
		}

		return c.JSON(activities)
	}
}

// GET /dashboard/vendor-performance — per-vendor order count, completed
// revenue and average order value, sorted by revenue descending.
func VendorPerformanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vendors []models.Vendor
		if err := database.DB.Preload("Community").Find(&vendors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load vendors")
		}

		performance := make([]VendorPerformance, 0, len(vendors))
		for _, vendor := range vendors {
			var orderCount int64
			var revenue float64

			database.DB.Model(&models.Order{}).
				Where("vendor_id = ?", vendor.ID).
				Count(&orderCount)
			database.DB.Model(&models.Order{}).
				Where("vendor_id = ? AND status = ?", vendor.ID, models.OrderStatusCompleted).
				Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue)

			avg := 0.0
			if orderCount > 0 {
				avg = revenue / float64(orderCount)
			}

			communityName := ""
			if vendor.Community != nil {
				communityName = vendor.Community.Name
			}

			performance = append(performance, VendorPerformance{
				VendorID:      vendor.ID,
				Name:          vendor.Name,
				Type:          vendor.Type,
				CommunityName: communityName,
				IsActive:      vendor.IsActive,
				OrderCount:    orderCount,
				Revenue:       revenue,
				AvgOrderValue: avg,
			})
		}

		sort.Slice(performance, func(i, j int) bool { return performance[i].Revenue > performance[j].Revenue })
		return c.JSON(performance)
	}
}
