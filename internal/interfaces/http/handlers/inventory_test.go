package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

type fakeStock struct {
	products  map[uint]*product.Product
	threshold int
}

func (f *fakeStock) LowStock(_ context.Context, threshold int) ([]product.Product, error) {
	f.threshold = threshold
	var out []product.Product
	for _, p := range f.products {
		if p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStock) AdjustStock(_ context.Context, id uint, delta int) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperror.NotFound("product")
	}
	if p.Stock+delta < 0 {
		return nil, apperror.Invalid("cannot remove %d units, only %d in stock", -delta, p.Stock)
	}
	p.Stock += delta
	return p, nil
}

type fixedThreshold int

func (t fixedThreshold) LowStockThreshold(context.Context) int { return int(t) }

func inventoryRouter() (*gin.Engine, *fakeStock, *test.Hook) {
	stock := &fakeStock{products: map[uint]*product.Product{
		1: {ID: 1, Name: "Crispy Samosa", Stock: 10},
		2: {ID: 2, Name: "Mango Lassi", Stock: 1},
	}}
	logger, hook := nullLogger()
	h := NewInventoryHandler(stock, fixedThreshold(5), logger)

	r := newRouter()
	r.GET("/admin/inventory/low-stock", h.GetLowStock)
	r.POST("/admin/inventory/:id/adjust", h.AdjustStock)
	return r, stock, hook
}

func TestGetLowStock(t *testing.T) {
	r, stock, _ := inventoryRouter()

	w := perform(t, r, request{method: http.MethodGet, path: "/admin/inventory/low-stock", as: "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, stock.threshold)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 5, data["threshold"])
	assert.Len(t, data["products"], 1)

	w = perform(t, r, request{method: http.MethodGet, path: "/admin/inventory/low-stock?threshold=20", as: "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, stock.threshold)

	w = perform(t, r, request{method: http.MethodGet, path: "/admin/inventory/low-stock?threshold=-1", as: "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustStock(t *testing.T) {
	r, stock, hook := inventoryRouter()

	w := perform(t, r, request{method: http.MethodPost, path: "/admin/inventory/2/adjust", as: "admin", body: gin.H{"delta": 24, "reason": "delivery"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 25, stock.products[2].Stock)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, uint(1), hook.LastEntry().Data["admin_id"])

	w = perform(t, r, request{method: http.MethodPost, path: "/admin/inventory/1/adjust", as: "admin", body: gin.H{"delta": -11}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot remove 11 units, only 10 in stock", decode(t, w)["error"])

	w = perform(t, r, request{method: http.MethodPost, path: "/admin/inventory/99/adjust", as: "admin", body: gin.H{"delta": 1}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(t, r, request{method: http.MethodPost, path: "/admin/inventory/abc/adjust", as: "admin", body: gin.H{"delta": 1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid product ID", decode(t, w)["error"])
}
