// internal/pkg/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
)

// New builds the application logger from the logging config
func New(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	// Set log format based on config
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
