package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/email"
	"github.com/zozagateway/snack-backend/internal/pkg/logger"
)

// Sends one message through the configured SMTP relay. Defaults to the
// admin notification address.
func main() {
	to := flag.String("to", "", "recipient (defaults to ADMIN_NOTIFY_EMAIL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg)

	recipient := *to
	if recipient == "" {
		recipient = cfg.External.Email.AdminEmail
	}
	if recipient == "" {
		log.Fatal("No recipient: pass -to or set ADMIN_NOTIFY_EMAIL")
	}

	// bypass the EMAIL_ENABLED switch so the relay is exercised either way
	sender := email.NewSMTPSender(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = sender.Send(ctx, &email.Email{
		To:          []string{recipient},
		Subject:     cfg.External.Email.FromName + " mail check",
		HTMLContent: "<h1>It works</h1><p>SMTP delivery is configured correctly.</p>",
		Type:        email.EmailTypeTest,
	})
	if err != nil {
		log.WithError(err).Fatal("❌ Send failed")
	}

	log.WithField("to", recipient).Info("✅ Email sent successfully")
}
