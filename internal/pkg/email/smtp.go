// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/zozagateway/snack-backend/internal/config"
)

// Sender delivers a rendered email
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SMTPSender sends email through an SMTP relay with STARTTLS when offered
type SMTPSender struct {
	config *config.Config
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{config: cfg}
}

// Send sends email using SMTP
func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	cfg := s.config.External.Email
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	msg := buildMessage(formatFrom(cfg.FromName, cfg.FromEmail), email)

	if err := smtp.SendMail(serverAddr, auth, cfg.FromEmail, email.To, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// buildMessage renders headers in a stable order followed by the HTML body
func buildMessage(from string, email *Email) []byte {
	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(email.To, ", "),
		"Subject":      email.Subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"utf-8\"",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg bytes.Buffer
	for _, key := range keys {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", key, headers[key]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)
	return msg.Bytes()
}
