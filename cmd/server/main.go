package main

import (
	"log"
	"strings"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/communities"
	"communityexpress-backend/internal/config"
	"communityexpress-backend/internal/dashboard"
	"communityexpress-backend/internal/database"
	"communityexpress-backend/internal/laundry"
	"communityexpress-backend/internal/models"
	"communityexpress-backend/internal/orders"
	"communityexpress-backend/internal/payments"
	"communityexpress-backend/internal/products"
	"communityexpress-backend/internal/vendors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	// CORS origins come as a comma separated string from the environment
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Testing",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	perms := auth.DefaultPermissions()

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.AuthMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/join-community", auth.JoinCommunityHandler())

	// Communities
	protected.Post("/communities", auth.RequirePermission(perms, auth.ActionCommunityCreate), communities.CreateCommunityHandler())
	protected.Get("/communities", communities.ListCommunitiesHandler())
	protected.Get("/communities/stats", auth.RequireRole(models.RoleMaster), communities.CommunityStatsHandler())
	protected.Get("/communities/:id", communities.GetCommunityHandler())
	protected.Put("/communities/:id", auth.RequirePermission(perms, auth.ActionCommunityUpdate), communities.UpdateCommunityHandler())

	// Vendors
	protected.Post("/vendors", auth.RequirePermission(perms, auth.ActionVendorCreate), vendors.CreateVendorHandler())
	protected.Get("/vendors", vendors.ListVendorsHandler())
	protected.Get("/vendors/:id", vendors.GetVendorHandler())
	protected.Put("/vendors/:id", auth.RequirePermission(perms, auth.ActionVendorUpdate), vendors.UpdateVendorHandler())

	// Products
	protected.Post("/products", auth.RequirePermission(perms, auth.ActionProductCreate), products.CreateProductHandler())
	protected.Get("/products/vendor/:id", products.ListVendorProductsHandler())
	protected.Get("/products/:id", products.GetProductHandler())
	protected.Put("/products/:id", auth.RequirePermission(perms, auth.ActionProductUpdate), products.UpdateProductHandler())
	protected.Delete("/products/:id", auth.RequirePermission(perms, auth.ActionProductDelete), products.DeleteProductHandler())

	// Orders. Status updates are not permission-gated here: the handler
	// decides per transition who may take which edge.
	protected.Post("/orders", auth.RequirePermission(perms, auth.ActionOrderCreate), orders.CreateOrderHandler())
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Get("/orders/:id/history", orders.OrderHistoryHandler())
	protected.Put("/orders/:id/status", orders.UpdateOrderStatusHandler(perms))
	protected.Put("/orders/:id/partner", orders.AssignPartnerHandler())

	// Payments
	protected.Post("/payments", auth.RequirePermission(perms, auth.ActionPaymentCreate), payments.CreatePaymentHandler())
	protected.Get("/payments", payments.ListPaymentsHandler())
	protected.Get("/payments/:id", payments.GetPaymentHandler())
	protected.Post("/payments/:id/refund", auth.RequirePermission(perms, auth.ActionPaymentRefund), payments.RefundPaymentHandler())

	// Laundry vendors and their catalogs
	protected.Post("/laundry/vendors", auth.RequirePermission(perms, auth.ActionLaundryManage), laundry.CreateLaundryVendorHandler())
	protected.Get("/laundry/vendors", laundry.ListLaundryVendorsHandler())
	protected.Get("/laundry/vendors/:id", laundry.GetLaundryVendorHandler())
	protected.Put("/laundry/vendors/:id", auth.RequirePermission(perms, auth.ActionLaundryManage), laundry.UpdateLaundryVendorHandler())
	protected.Post("/laundry/vendors/:id/items", auth.RequirePermission(perms, auth.ActionLaundryManage), laundry.CreateLaundryItemHandler())
	protected.Get("/laundry/vendors/:id/items", laundry.ListLaundryItemsHandler())
	protected.Put("/laundry/vendors/:id/items/:itemID", auth.RequirePermission(perms, auth.ActionLaundryManage), laundry.UpdateLaundryItemHandler())
	protected.Delete("/laundry/vendors/:id/items/:itemID", auth.RequirePermission(perms, auth.ActionLaundryManage), laundry.DeleteLaundryItemHandler())
	protected.Get("/laundry/vendors/:id/dashboard", laundry.VendorDashboardHandler())

	// Laundry orders
	protected.Post("/laundry/orders", auth.RequirePermission(perms, auth.ActionOrderCreate), laundry.CreateLaundryOrderHandler())
	protected.Get("/laundry/orders", laundry.ListLaundryOrdersHandler())
	protected.Get("/laundry/orders/:id", laundry.GetLaundryOrderHandler())
	protected.Put("/laundry/orders/:id", laundry.UpdateLaundryOrderHandler())
	protected.Post("/laundry/orders/:id/payment", laundry.ProcessLaundryPaymentHandler())
	protected.Get("/laundry/users/dashboard", laundry.UserDashboardHandler())

	// Platform dashboard
	protected.Get("/dashboard/stats", auth.RequireRole(models.RoleMaster), dashboard.StatsHandler())
	protected.Get("/dashboard/order-trends", auth.RequireRole(models.RoleMaster), dashboard.OrderTrendsHandler())
	protected.Get("/dashboard/recent-activities", auth.RequireRole(models.RoleMaster), dashboard.RecentActivitiesHandler())
	protected.Get("/dashboard/vendor-performance", auth.RequireRole(models.RoleMaster), dashboard.VendorPerformanceHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
