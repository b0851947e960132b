// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// probe paths are hit every few seconds by the orchestrator
var quietPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// Logger writes one logrus entry per request. Probes log at debug.
func Logger(logger logrus.FieldLogger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := logrus.Fields{
			"request_id":  param.Keys["request_id"],
			"method":      param.Method,
			"path":        param.Path,
			"status_code": param.StatusCode,
			"latency_ms":  param.Latency.Round(time.Microsecond).Seconds() * 1000,
			"client_ip":   param.ClientIP,
			"bytes":       param.BodySize,
		}
		if userID, ok := param.Keys["user_id"]; ok {
			fields["user_id"] = userID
		}
		if ua := param.Request.UserAgent(); ua != "" {
			fields["user_agent"] = ua
		}
		entry := logger.WithFields(fields)
		if param.ErrorMessage != "" {
			entry = entry.WithField("error", param.ErrorMessage)
		}

		switch {
		case param.StatusCode >= 500:
			entry.Error("request failed")
		case param.StatusCode >= 400:
			entry.Warn("request rejected")
		case quietPaths[param.Path]:
			entry.Debug("probe")
		default:
			entry.Info("request served")
		}
		return ""
	})
}
