// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/user"
)

// UserAdminHandler handles the admin customer endpoints
type UserAdminHandler struct {
	adminService *user.AdminService
	logger       logrus.FieldLogger
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(service *user.AdminService, logger logrus.FieldLogger) *UserAdminHandler {
	return &UserAdminHandler{
		adminService: service,
		logger:       logger,
	}
}

// GetCustomers handles GET /admin/customers
func (h *UserAdminHandler) GetCustomers(c *gin.Context) {
	var params user.CustomerListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.adminService.ListCustomers(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve customers")
		return
	}

	respondOK(c, http.StatusOK, "Customers retrieved successfully", page)
}

// GetCustomer handles GET /admin/customers/:id
func (h *UserAdminHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.adminService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve customer")
		return
	}

	respondOK(c, http.StatusOK, "Customer retrieved successfully", customer)
}
