// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// respondOK writes the standard success envelope
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}

// respondError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and answered with fallback only.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error, fallback string) {
	var validation *apperror.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": validation.Fields,
		})
	case errors.Is(err, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": message(err, apperror.ErrValidation),
		})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": capitalize(err.Error()),
		})
	case errors.Is(err, apperror.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": message(err, apperror.ErrUnauthorized),
		})
	case errors.Is(err, apperror.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": message(err, apperror.ErrForbidden),
		})
	case errors.Is(err, apperror.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": message(err, apperror.ErrConflict),
		})
	default:
		logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fallback,
		})
	}
}

// respondBindError answers a malformed body or query
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

// parseID reads a numeric path parameter, answering 400 when it is not one
func parseID(c *gin.Context, param, entity string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + entity + " ID",
		})
		return 0, false
	}
	return uint(id), true
}

// message strips the sentinel prefix, leaving the specific reason
func message(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	return capitalize(msg)
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
