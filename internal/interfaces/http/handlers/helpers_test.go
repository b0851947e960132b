package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
	"github.com/zozagateway/snack-backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "snack-backend"},
		JWT: config.JWTConfig{AccessTokenExpiry: time.Hour},
		Session: config.SessionConfig{
			CookieName:     "session_token",
			CartCookieName: "cart_session",
			CartTTL:        24 * time.Hour,
		},
	}
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

// stubTokens accepts "Bearer customer" and "Bearer admin"
type stubTokens struct{}

func (stubTokens) ValidateToken(tokenString string) (*auth.Claims, error) {
	switch tokenString {
	case "customer":
		return &auth.Claims{UserID: 7, Email: "ada@example.com", Role: auth.RoleCustomer}, nil
	case "admin":
		return &auth.Claims{UserID: 1, Email: "admin@example.com", Role: auth.RoleAdmin}, nil
	}
	return nil, errors.New("invalid token")
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Authenticate(testConfig(), stubTokens{}))
	return r
}

type request struct {
	method string
	path   string
	body   interface{}
	raw    []byte
	as     string
	header map[string]string
	cookie *http.Cookie
}

func perform(t *testing.T, r http.Handler, req request) *httptest.ResponseRecorder {
	t.Helper()

	body := req.raw
	if req.body != nil {
		var err error
		body, err = json.Marshal(req.body)
		require.NoError(t, err)
	}

	httpReq := httptest.NewRequest(req.method, req.path, bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	if req.as != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.as)
	}
	for k, v := range req.header {
		httpReq.Header.Set(k, v)
	}
	if req.cookie != nil {
		httpReq.AddCookie(req.cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type fakeProducts map[uint]product.Product

func (f fakeProducts) GetPublishedByIDs(_ context.Context, ids []uint) (map[uint]product.Product, error) {
	out := make(map[uint]product.Product)
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fixedPolicy struct{}

func (fixedPolicy) PricingPolicy(context.Context) pricing.Policy {
	return pricing.Policy{
		DeliveryFee:           decimal.RequireFromString("2.99"),
		FreeDeliveryThreshold: decimal.NewFromInt(25),
	}
}

func menu() fakeProducts {
	return fakeProducts{
		1: {ID: 1, Name: "Crispy Samosa", Slug: "crispy-samosa", Price: decimal.RequireFromString("4.50"), Stock: 10, Published: true},
		2: {ID: 2, Name: "Mango Lassi", Slug: "mango-lassi", Price: decimal.RequireFromString("3.25"), Stock: 1, Published: true},
	}
}
