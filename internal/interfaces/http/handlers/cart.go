// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/cart"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
)

// PolicySource supplies the delivery fee policy in force
type PolicySource interface {
	PricingPolicy(ctx context.Context) pricing.Policy
}

// CartHandler handles cart endpoints. The storefront keeps its cart on the
// client; the session endpoints mirror it in Redis for returning visitors.
type CartHandler struct {
	validator   *cart.Validator
	products    cart.ProductLookup
	redisClient *redis.Client
	policy      PolicySource
	config      *config.Config
	logger      logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(products cart.ProductLookup, redisClient *redis.Client, policy PolicySource, cfg *config.Config, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		validator:   cart.NewValidator(products),
		products:    products,
		redisClient: redisClient,
		policy:      policy,
		config:      cfg,
		logger:      logger,
	}
}

// CartView is the cart as returned to the client
type CartView struct {
	Items     []cart.Item     `json:"items"`
	ItemCount int             `json:"itemCount"`
	Summary   pricing.Summary `json:"summary"`
}

// SessionItemRequest adds or re-quantifies a session cart line
type SessionItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// GetCart handles GET /cart. The server holds no cart for anonymous
// clients, so this is always the empty structure.
func (h *CartHandler) GetCart(c *gin.Context) {
	respondOK(c, http.StatusOK, "Cart retrieved successfully", h.view(c.Request.Context(), nil))
}

// ValidateCart handles POST /cart/validate
func (h *CartHandler) ValidateCart(c *gin.Context) {
	var req cart.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.validator.Validate(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to validate cart")
		return
	}

	respondOK(c, http.StatusOK, "Cart validated", result)
}

// GetSessionCart handles GET /cart/session
func (h *CartHandler) GetSessionCart(c *gin.Context) {
	store := h.sessionStore(c)
	respondOK(c, http.StatusOK, "Cart retrieved successfully", h.view(c.Request.Context(), store))
}

// AddSessionItem handles POST /cart/session/items
func (h *CartHandler) AddSessionItem(c *gin.Context) {
	var req SessionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.ProductID == 0 || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A product and a positive quantity are required",
		})
		return
	}

	ctx := c.Request.Context()
	products, err := h.products.GetPublishedByIDs(ctx, []uint{req.ProductID})
	if err != nil {
		respondError(c, h.logger, err, "Failed to add item to cart")
		return
	}
	p, ok := products[req.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	store := h.sessionStore(c)
	wanted := req.Quantity
	if existing, ok := store.Item(p.ID); ok {
		wanted += existing.Quantity
	}
	if !p.InStock(wanted) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Only %d of %s left in stock", p.Stock, p.Name),
		})
		return
	}

	store.AddItem(ctx, cart.Snapshot(p), req.Quantity)
	respondOK(c, http.StatusOK, "Item added to cart", h.view(ctx, store))
}

// UpdateSessionItem handles PUT /cart/session/items/:productId
func (h *CartHandler) UpdateSessionItem(c *gin.Context) {
	productID, ok := parseID(c, "productId", "product")
	if !ok {
		return
	}

	var req SessionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	store := h.sessionStore(c)
	if _, found := store.Item(productID); !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not in cart",
		})
		return
	}

	if req.Quantity > 0 {
		// the snapshot stock in the cart may be stale
		products, err := h.products.GetPublishedByIDs(ctx, []uint{productID})
		if err != nil {
			respondError(c, h.logger, err, "Failed to update cart")
			return
		}
		p, ok := products[productID]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		if p.Stock < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("%s is out of stock", p.Name),
			})
			return
		}
		if req.Quantity > p.Stock {
			req.Quantity = p.Stock
		}
	}

	store.UpdateQuantity(ctx, productID, req.Quantity)
	respondOK(c, http.StatusOK, "Cart updated", h.view(ctx, store))
}

// RemoveSessionItem handles DELETE /cart/session/items/:productId
func (h *CartHandler) RemoveSessionItem(c *gin.Context) {
	productID, ok := parseID(c, "productId", "product")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	store := h.sessionStore(c)
	store.RemoveItem(ctx, productID)
	respondOK(c, http.StatusOK, "Item removed from cart", h.view(ctx, store))
}

// ClearSessionCart handles DELETE /cart/session
func (h *CartHandler) ClearSessionCart(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.sessionStore(c)
	store.Clear(ctx)
	respondOK(c, http.StatusOK, "Cart cleared successfully", h.view(ctx, store))
}

func (h *CartHandler) sessionStore(c *gin.Context) *cart.Store {
	persister := cart.NewRedisPersister(h.redisClient, h.sessionID(c), h.config.Session.CartTTL)
	return cart.NewStore(c.Request.Context(), persister, h.logger)
}

// sessionID reads the cart cookie, issuing a fresh one when it is missing
// or not a uuid
func (h *CartHandler) sessionID(c *gin.Context) string {
	name := h.config.Session.CartCookieName
	if sessionID, err := c.Cookie(name); err == nil {
		if _, err := uuid.Parse(sessionID); err == nil {
			return sessionID
		}
	}

	sessionID := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, sessionID, int(h.config.Session.CartTTL.Seconds()), "/", "", h.config.Session.CookieSecure, true)
	return sessionID
}

func (h *CartHandler) view(ctx context.Context, store *cart.Store) CartView {
	policy := h.policy.PricingPolicy(ctx)
	if store == nil {
		return CartView{
			Items:   []cart.Item{},
			Summary: policy.Calculate(nil),
		}
	}
	return CartView{
		Items:     store.Items(),
		ItemCount: store.ItemCount(),
		Summary:   store.Summary(policy),
	}
}
