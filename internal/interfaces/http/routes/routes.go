// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/handlers"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	Auth      *handlers.AuthHandler
	Product   *handlers.ProductHandler
	Category  *handlers.CategoryHandler
	Profile   *handlers.UserProfileHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Order     *handlers.OrderHandler
	Invoice   *handlers.InvoiceHandler
	Payment   *handlers.PaymentHandler
	Analytics *handlers.AnalyticsHandler
	Customers *handlers.UserAdminHandler
	Inventory *handlers.InventoryHandler
	Settings  *handlers.SettingsHandler
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)

		protected := auth.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/me", h.Auth.GetProfile)
			protected.PUT("/me", h.Profile.UpdateProfile)
			protected.PUT("/password", h.Profile.ChangePassword)
		}
	}
}

// SetupProductRoutes sets up the public catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/:slug", h.Product.GetProduct)
		products.POST("/:slug/reviews", middleware.RequireAuth(), h.Product.CreateReview)
	}

	rg.GET("/categories", h.Category.GetCategories)
}

// SetupCartRoutes sets up cart routes. None require a session.
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/validate", h.Cart.ValidateCart)

		session := cart.Group("/session")
		{
			session.GET("", h.Cart.GetSessionCart)
			session.DELETE("", h.Cart.ClearSessionCart)
			session.POST("/items", h.Cart.AddSessionItem)
			session.PUT("/items/:productId", h.Cart.UpdateSessionItem)
			session.DELETE("/items/:productId", h.Cart.RemoveSessionItem)
		}
	}
}

// SetupOrderRoutes sets up customer order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers) {
	orders := rg.Group("/orders")
	orders.Use(middleware.RequireAuth())
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.GetOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PUT("/:id/cancel", h.Order.CancelOrder)
	}
}

// SetupCheckoutRoutes sets up checkout pricing routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *Handlers) {
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.RequireAuth())
	{
		checkout.POST("/quote", h.Checkout.GetCheckoutSummary)
	}
}

// SetupWebhookRoutes sets up payment gateway callbacks. They authenticate
// by signature, not by session.
func SetupWebhookRoutes(rg *gin.RouterGroup, h *Handlers) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/stripe", h.Payment.StripeWebhook)
	}
}

// SetupAdminRoutes sets up the back-office routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		orders := admin.Group("/orders")
		{
			orders.GET("", h.Order.AdminGetOrders)
			orders.GET("/:id", h.Order.AdminGetOrder)
			orders.PATCH("/:id/status", h.Order.AdminUpdateOrderStatus)
			orders.GET("/:id/invoice", h.Invoice.GenerateInvoice)
		}

		products := admin.Group("/products")
		{
			products.GET("", h.Product.AdminGetProducts)
			products.POST("", h.Product.CreateProduct)
			products.GET("/:id", h.Product.AdminGetProduct)
			products.PUT("/:id", h.Product.UpdateProduct)
			products.DELETE("/:id", h.Product.DeleteProduct)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", h.Category.AdminGetCategories)
			categories.POST("", h.Category.CreateCategory)
			categories.GET("/:id", h.Category.AdminGetCategory)
			categories.PUT("/:id", h.Category.UpdateCategory)
			categories.DELETE("/:id", h.Category.DeleteCategory)
		}

		customers := admin.Group("/customers")
		{
			customers.GET("", h.Customers.GetCustomers)
			customers.GET("/:id", h.Customers.GetCustomer)
		}

		inventory := admin.Group("/inventory")
		{
			inventory.GET("/low-stock", h.Inventory.GetLowStock)
			inventory.POST("/:id/adjust", h.Inventory.AdjustStock)
		}

		analytics := admin.Group("/analytics")
		{
			analytics.GET("/dashboard", h.Analytics.GetDashboard)
			analytics.GET("/sales", h.Analytics.GetSales)
		}

		admin.GET("/settings", h.Settings.GetSettings)
		admin.PUT("/settings", h.Settings.UpdateSettings)
	}
}

// SetupRoutes mounts every route group
func SetupRoutes(rg *gin.RouterGroup, h *Handlers) {
	SetupAuthRoutes(rg, h)
	SetupProductRoutes(rg, h)
	SetupCartRoutes(rg, h)
	SetupOrderRoutes(rg, h)
	SetupCheckoutRoutes(rg, h)
	SetupWebhookRoutes(rg, h)
	SetupAdminRoutes(rg, h)
}
