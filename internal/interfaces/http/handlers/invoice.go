// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/order"
	"github.com/zozagateway/snack-backend/internal/domain/settings"
	"github.com/zozagateway/snack-backend/internal/pkg/pdf"
)

// InvoiceRenderer turns an order into an invoice document
type InvoiceRenderer interface {
	GenerateInvoice(o *order.Order, store pdf.Store) (*bytes.Buffer, error)
	InvoiceHTML(o *order.Order, store pdf.Store) (string, error)
}

// StoreSettingsReader returns the store settings in force
type StoreSettingsReader interface {
	Current(ctx context.Context) settings.StoreSettings
}

// InvoiceHandler handles invoice-related endpoints
type InvoiceHandler struct {
	orderService OrderService
	renderer     InvoiceRenderer
	settings     StoreSettingsReader
	logger       logrus.FieldLogger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orders OrderService, renderer InvoiceRenderer, store StoreSettingsReader, logger logrus.FieldLogger) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orders,
		renderer:     renderer,
		settings:     store,
		logger:       logger,
	}
}

// GenerateInvoice handles GET /admin/orders/:id/invoice. With format=html
// the rendered page is returned instead of the PDF, for previews.
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	o, err := h.orderService.Get(ctx, id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	current := h.settings.Current(ctx)
	store := pdf.Store{Name: current.StoreName, Currency: current.Currency}

	if c.Query("format") == "html" {
		page, err := h.renderer.InvoiceHTML(o, store)
		if err != nil {
			respondError(c, h.logger, err, "Failed to generate invoice")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}

	pdfBuffer, err := h.renderer.GenerateInvoice(o, store)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate invoice")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
