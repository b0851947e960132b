package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "field validation",
			err:     apperror.NewValidation("phone", "Valid phone number is required"),
			status:  http.StatusBadRequest,
			message: "Validation failed",
		},
		{
			name:    "free-form validation",
			err:     apperror.Invalid("insufficient stock for %s", "Crispy Samosa"),
			status:  http.StatusBadRequest,
			message: "Insufficient stock for Crispy Samosa",
		},
		{
			name:    "not found",
			err:     fmt.Errorf("failed to load: %w", apperror.NotFound("order")),
			status:  http.StatusNotFound,
			message: "Failed to load: order not found",
		},
		{
			name:    "unauthorized",
			err:     fmt.Errorf("%w: invalid email or password", apperror.ErrUnauthorized),
			status:  http.StatusUnauthorized,
			message: "Invalid email or password",
		},
		{
			name:    "forbidden",
			err:     apperror.ErrForbidden,
			status:  http.StatusForbidden,
			message: "Access denied",
		},
		{
			name:    "conflict",
			err:     apperror.Conflict("email already registered"),
			status:  http.StatusConflict,
			message: "Email already registered",
		},
		{
			name:    "unexpected",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			message: "Something failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := nullLogger()
			r := gin.New()
			r.GET("/", func(c *gin.Context) { respondError(c, logger, tt.err, "Something failed") })

			w := perform(t, r, request{method: http.MethodGet, path: "/"})
			body := decode(t, w)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, body["error"])
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "pq:")
				assert.Len(t, hook.Entries, 1)
			} else {
				assert.Empty(t, hook.Entries)
			}
		})
	}
}

func TestRespondErrorValidationDetails(t *testing.T) {
	logger, _ := nullLogger()
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		v := &apperror.ValidationError{}
		v.Add("name", "Name must be at least 2 characters").Add("email", "Invalid email address")
		respondError(c, logger, v, "unused")
	})

	w := perform(t, r, request{method: http.MethodGet, path: "/"})
	body := decode(t, w)
	assert.Equal(t, map[string]interface{}{
		"name":  "Name must be at least 2 characters",
		"email": "Invalid email address",
	}, body["details"])
}

func TestParseID(t *testing.T) {
	r := gin.New()
	r.GET("/:id", func(c *gin.Context) {
		if id, ok := parseID(c, "id", "order"); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	assert.Equal(t, http.StatusOK, perform(t, r, request{method: http.MethodGet, path: "/42"}).Code)
	for _, bad := range []string{"/abc", "/0", "/-3"} {
		w := perform(t, r, request{method: http.MethodGet, path: bad})
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Equal(t, "Invalid order ID", decode(t, w)["error"])
	}
}
