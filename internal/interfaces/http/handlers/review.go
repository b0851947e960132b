// internal/interfaces/http/handlers/review.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
)

// CreateReview handles POST /products/:slug/reviews
func (h *ProductHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var input product.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, c.Param("slug"), input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create review")
		return
	}

	respondOK(c, http.StatusCreated, "Review created successfully", review)
}
