// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
)

var templates = template.Must(template.New("order_placed").Parse(orderPlacedTemplate))

func init() {
	template.Must(templates.New("order_cancelled").Parse(orderCancelledTemplate))
	template.Must(templates.New("order_lines").Parse(orderLinesTemplate))
}

// EmailService renders and sends store emails
type EmailService struct {
	config *config.Config
	sender Sender
	logger logrus.FieldLogger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, sender Sender, logger logrus.FieldLogger) *EmailService {
	return &EmailService{
		config: cfg,
		sender: sender,
		logger: logger,
	}
}

// SendEmail sends an email, or only logs it when email is disabled
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if !s.config.External.Email.Enabled {
		s.logger.WithFields(logrus.Fields{
			"type":    email.Type,
			"to":      email.To,
			"subject": email.Subject,
		}).Debug("email disabled, not sending")
		return nil
	}
	return s.sender.Send(ctx, email)
}

// SendOrderPlaced sends the order confirmation to the customer, copying the
// store's admin address when one is configured
func (s *EmailService) SendOrderPlaced(ctx context.Context, to string, data OrderEmailData) error {
	html, err := s.renderTemplate("order_placed", data)
	if err != nil {
		return fmt.Errorf("failed to render order placed template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          s.recipients(to),
		Subject:     fmt.Sprintf("Order Confirmation - %s", data.OrderNumber),
		HTMLContent: html,
		Type:        EmailTypeOrderPlaced,
	})
}

// SendOrderCancelled tells the customer their order was cancelled
func (s *EmailService) SendOrderCancelled(ctx context.Context, to string, data OrderEmailData) error {
	html, err := s.renderTemplate("order_cancelled", data)
	if err != nil {
		return fmt.Errorf("failed to render order cancelled template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          s.recipients(to),
		Subject:     fmt.Sprintf("Order Cancelled - %s", data.OrderNumber),
		HTMLContent: html,
		Type:        EmailTypeOrderCancelled,
	})
}

func (s *EmailService) recipients(to string) []string {
	out := []string{to}
	if admin := s.config.External.Email.AdminEmail; admin != "" && admin != to {
		out = append(out, admin)
	}
	return out
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const orderLinesTemplate = `<table width="100%" cellpadding="6" style="border-collapse:collapse">
{{range .Items}}<tr><td>{{.Name}} &times; {{.Quantity}}</td><td align="right">{{$.Currency}} {{.Total}}</td></tr>
{{end}}<tr><td>Subtotal</td><td align="right">{{.Currency}} {{.Subtotal}}</td></tr>
<tr><td>Delivery</td><td align="right">{{.Currency}} {{.DeliveryFee}}</td></tr>
{{if .HasDiscount}}<tr><td>Discount</td><td align="right">-{{.Currency}} {{.Discount}}</td></tr>
{{end}}<tr><td><strong>Total</strong></td><td align="right"><strong>{{.Currency}} {{.Total}}</strong></td></tr>
</table>`

const orderPlacedTemplate = `<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#333">
<h2>Thanks for your order, {{.CustomerName}}!</h2>
<p>We have received order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
{{if .Address}}<p>Delivering to: {{.Address}}</p>{{else}}<p>Your order will be ready for pickup.</p>{{end}}
{{template "order_lines" .}}
<p><a href="{{.OrderURL}}">Track your order</a></p>
<p style="color:#888;font-size:12px">&copy; {{.Year}} {{.StoreName}}</p>
</body></html>`

const orderCancelledTemplate = `<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#333">
<h2>Order {{.OrderNumber}} was cancelled</h2>
<p>Hi {{.CustomerName}}, your order placed on {{.OrderDate}} has been cancelled. If you were charged, the payment will be refunded.</p>
{{template "order_lines" .}}
<p style="color:#888;font-size:12px">&copy; {{.Year}} {{.StoreName}}</p>
</body></html>`
