// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/product"
)

// CategoryHandler serves categories to both the storefront and the admin
type CategoryHandler struct {
	categoryService *product.CategoryService
	logger          logrus.FieldLogger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *product.CategoryService, logger logrus.FieldLogger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categories,
		logger:          logger,
	}
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve categories")
		return
	}

	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// AdminGetCategories handles GET /admin/categories
func (h *CategoryHandler) AdminGetCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), false)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve categories")
		return
	}

	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// AdminGetCategory handles GET /admin/categories/:id
func (h *CategoryHandler) AdminGetCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve category")
		return
	}

	respondOK(c, http.StatusOK, "Category retrieved successfully", category)
}

// CreateCategory handles POST /admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input product.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create category")
		return
	}

	respondOK(c, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	var input product.CategoryUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update category")
		return
	}

	respondOK(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}
