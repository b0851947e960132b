// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/analytics"
	"github.com/zozagateway/snack-backend/internal/domain/notification"
	"github.com/zozagateway/snack-backend/internal/domain/order"
	"github.com/zozagateway/snack-backend/internal/domain/payment"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/domain/settings"
	"github.com/zozagateway/snack-backend/internal/domain/user"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/handlers"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/routes"
	"github.com/zozagateway/snack-backend/internal/pkg/auth"
	"github.com/zozagateway/snack-backend/internal/pkg/email"
	"github.com/zozagateway/snack-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// HealthChecker is a dependency probed by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
	logger      *logrus.Logger
	checks      map[string]HealthChecker
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance with every route mounted
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *logrus.Logger, checks map[string]HealthChecker) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:      cfg,
		gin:         gin.New(),
		db:          db,
		redisClient: redisClient,
		logger:      logger,
		checks:      checks,
		startedAt:   time.Now(),
	}

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			logger.WithError(err).Warn("invalid trusted proxies, ignoring")
		}
	} else {
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infof("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	s.logger.Infof("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redisClient, s.logger))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))

	// session resolution runs for every request; protection only acts on
	// the configured prefixes
	s.gin.Use(middleware.Authenticate(s.config, auth.NewJWTManager(s.config)))
	s.gin.Use(middleware.RouteProtection(s.config))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.buildHandlers())

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"auth":       "/api/v1/auth",
					"products":   "/api/v1/products",
					"categories": "/api/v1/categories",
					"cart":       "/api/v1/cart",
					"orders":     "/api/v1/orders",
					"checkout":   "/api/v1/checkout",
					"webhooks":   "/api/v1/webhooks",
					"admin":      "/api/v1/admin",
				},
			})
		})
	}
}

// buildHandlers wires services to handlers
func (s *Server) buildHandlers() *routes.Handlers {
	cfg, db, log := s.config, s.db, s.logger

	products := product.NewService(db, cfg)
	categories := product.NewCategoryService(db, cfg)
	reviews := product.NewReviewService(db)
	storeSettings := settings.NewService(db, s.redisClient, cfg, log)

	mailer := email.NewEmailService(cfg, email.NewSMTPSender(cfg), log)
	notifier := notification.NewOrderNotifier(mailer, storeSettings, cfg.App.SiteURL, log)
	orders := order.NewService(order.NewGormRepository(db), products, storeSettings, notifier, log)

	verifier := payment.NewStripeVerifier(cfg.External.Stripe.WebhookSecret)
	processor := payment.NewProcessor(orders, log)
	users := user.NewService(db, cfg)

	return &routes.Handlers{
		Auth:      handlers.NewAuthHandler(users, cfg, log),
		Profile:   handlers.NewUserProfileHandler(users, log),
		Product:   handlers.NewProductHandler(products, reviews, log),
		Category:  handlers.NewCategoryHandler(categories, log),
		Cart:      handlers.NewCartHandler(products, s.redisClient, storeSettings, cfg, log),
		Checkout:  handlers.NewCheckoutHandler(orders, log),
		Order:     handlers.NewOrderHandler(orders, log),
		Invoice:   handlers.NewInvoiceHandler(orders, pdf.NewService(cfg), storeSettings, log),
		Payment:   handlers.NewPaymentHandler(verifier, processor, log),
		Analytics: handlers.NewAnalyticsHandler(analytics.NewService(db, products, storeSettings), log),
		Customers: handlers.NewUserAdminHandler(user.NewAdminService(db, cfg), log),
		Inventory: handlers.NewInventoryHandler(products, storeSettings, log),
		Settings:  handlers.NewSettingsHandler(storeSettings, log),
	}
}

// healthCheck probes every dependency
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck reports that routes are mounted
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
