// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/order"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
	"github.com/zozagateway/snack-backend/internal/pkg/pagination"
)

// OrderService is the order behaviour the HTTP layer needs
type OrderService interface {
	Checkout(ctx context.Context, userID uint, req order.CheckoutRequest) (*order.Order, error)
	GetForUser(ctx context.Context, id, userID uint, isAdmin bool) (*order.Order, error)
	ListForUser(ctx context.Context, userID uint, paging pagination.Query) (*pagination.Page[order.Order], error)
	CancelByCustomer(ctx context.Context, id, userID uint) (*order.Order, error)
	Get(ctx context.Context, id uint) (*order.Order, error)
	AdminList(ctx context.Context, params order.AdminListParams) (*pagination.Page[order.Order], error)
	UpdateStatus(ctx context.Context, id uint, update order.StatusUpdate, actorID uint) (*order.Order, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService OrderService
	logger       logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orderService: orders,
		logger:       logger,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.orderService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create order")
		return
	}

	respondOK(c, http.StatusCreated, "Order created successfully", created)
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var paging pagination.Query
	if err := c.ShouldBindQuery(&paging); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.orderService.ListForUser(c.Request.Context(), userID, paging)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve orders")
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", page)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	o, err := h.orderService.GetForUser(c.Request.Context(), id, userID, middleware.IsAdminFromContext(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", o)
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	o, err := h.orderService.CancelByCustomer(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to cancel order")
		return
	}

	respondOK(c, http.StatusOK, "Order cancelled successfully", o)
}

// AdminGetOrders handles GET /admin/orders
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	var params order.AdminListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.orderService.AdminList(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve orders")
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", page)
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	o, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", o.AdminView())
}

// AdminUpdateOrderStatus handles PATCH /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req order.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	o, err := h.orderService.UpdateStatus(c.Request.Context(), id, req, adminID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update order status")
		return
	}

	respondOK(c, http.StatusOK, "Order status updated successfully", o.AdminView())
}
