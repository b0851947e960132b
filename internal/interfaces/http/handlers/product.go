// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/product"
)

// ProductHandler handles the public catalog endpoints
type ProductHandler struct {
	productService *product.Service
	reviewService  *product.ReviewService
	logger         logrus.FieldLogger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service, reviews *product.ReviewService, logger logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		productService: products,
		reviewService:  reviews,
		logger:         logger,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var params product.CatalogParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.productService.ListCatalog(c.Request.Context(), params.ToQuery())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve products")
		return
	}

	respondOK(c, http.StatusOK, "Products retrieved successfully", page)
}

// GetProduct handles GET /products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product slug is required",
		})
		return
	}

	detail, err := h.productService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve product")
		return
	}

	respondOK(c, http.StatusOK, "Product retrieved successfully", detail)
}

// AdminGetProducts handles GET /admin/products
func (h *ProductHandler) AdminGetProducts(c *gin.Context) {
	var params product.AdminListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.productService.AdminList(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve products")
		return
	}

	respondOK(c, http.StatusOK, "Products retrieved successfully", page)
}

// AdminGetProduct handles GET /admin/products/:id
func (h *ProductHandler) AdminGetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	p, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve product")
		return
	}

	respondOK(c, http.StatusOK, "Product retrieved successfully", p)
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input product.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create product")
		return
	}

	respondOK(c, http.StatusCreated, "Product created successfully", p)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var input product.ProductUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.productService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}

	respondOK(c, http.StatusOK, "Product updated successfully", p)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}
