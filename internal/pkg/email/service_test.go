package email

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/config"
)

type recordingSender struct {
	emails []*Email
	err    error
}

func (r *recordingSender) Send(_ context.Context, email *Email) error {
	r.emails = append(r.emails, email)
	return r.err
}

func newTestService(enabled bool, sender Sender) *EmailService {
	cfg := &config.Config{}
	cfg.External.Email.Enabled = enabled
	cfg.External.Email.AdminEmail = "orders@snackhut.example"

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEmailService(cfg, sender, log)
}

func sampleData() OrderEmailData {
	return OrderEmailData{
		StoreName:    "Snack Hut",
		CustomerName: "Ada <script>",
		OrderNumber:  "ZG-MJUOHS00-AB12",
		OrderDate:    "March 15, 2026",
		Items:        []OrderLine{{Name: "Chin Chin", Quantity: 2, Total: "7.00"}},
		Subtotal:     "7.00",
		DeliveryFee:  "3.99",
		Discount:     "0.00",
		Total:        "10.99",
		Currency:     "USD",
		OrderURL:     "https://shop.example/orders/42",
	}
}

func TestSendOrderPlaced(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(true, sender)

	require.NoError(t, svc.SendOrderPlaced(context.Background(), "ada@example.com", sampleData()))

	require.Len(t, sender.emails, 1)
	sentEmail := sender.emails[0]
	assert.Equal(t, []string{"ada@example.com", "orders@snackhut.example"}, sentEmail.To)
	assert.Equal(t, "Order Confirmation - ZG-MJUOHS00-AB12", sentEmail.Subject)
	assert.Equal(t, EmailTypeOrderPlaced, sentEmail.Type)
	assert.Contains(t, sentEmail.HTMLContent, "Chin Chin &times; 2")
	assert.Contains(t, sentEmail.HTMLContent, "USD 10.99")
	assert.Contains(t, sentEmail.HTMLContent, "ready for pickup")
	assert.Contains(t, sentEmail.HTMLContent, "Ada &lt;script&gt;")
	assert.NotContains(t, sentEmail.HTMLContent, "Discount")
}

func TestSendOrderCancelled_ShowsDiscount(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(true, sender)
	data := sampleData()
	data.Discount = "0.70"

	require.NoError(t, svc.SendOrderCancelled(context.Background(), "orders@snackhut.example", data))

	require.Len(t, sender.emails, 1)
	assert.Equal(t, []string{"orders@snackhut.example"}, sender.emails[0].To)
	assert.Contains(t, sender.emails[0].HTMLContent, "-USD 0.70")
}

func TestSendEmail_DisabledDoesNotSend(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(false, sender)

	require.NoError(t, svc.SendOrderPlaced(context.Background(), "ada@example.com", sampleData()))
	assert.Empty(t, sender.emails)
}

func TestSendEmail_SenderErrorReturned(t *testing.T) {
	sender := &recordingSender{err: errors.New("dial tcp: refused")}
	svc := newTestService(true, sender)

	err := svc.SendOrderPlaced(context.Background(), "ada@example.com", sampleData())
	assert.EqualError(t, err, "dial tcp: refused")
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage(formatFrom("Snack Hut", "no-reply@snackhut.example"), &Email{
		To:          []string{"a@example.com", "b@example.com"},
		Subject:     "Hello",
		HTMLContent: "<p>hi</p>",
	}))

	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, "<p>hi</p>", body)
	assert.Equal(t, []string{
		"Content-Type: text/html; charset=\"utf-8\"",
		"From: Snack Hut <no-reply@snackhut.example>",
		"MIME-Version: 1.0",
		"Subject: Hello",
		"To: a@example.com, b@example.com",
	}, strings.Split(head, "\r\n"))
}

func TestSMTPSender_RequiresHost(t *testing.T) {
	err := NewSMTPSender(&config.Config{}).Send(context.Background(), &Email{To: []string{"a@example.com"}})
	assert.ErrorContains(t, err, "missing host")
}
