// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/order"
)

var invoice = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"label": statusLabel,
}).Parse(invoiceTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	if path := cfg.External.PDF.WkhtmltopdfPath; path != "" {
		wkhtmltopdf.SetPath(path)
	}
	return &Service{
		config: cfg,
	}
}

// Store is the seller shown on the invoice
type Store struct {
	Name     string
	Currency string
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	Store         Store
	Website       string
}

// GenerateInvoice renders an order invoice as a PDF
func (s *Service) GenerateInvoice(o *order.Order, store Store) (*bytes.Buffer, error) {
	htmlContent, err := s.InvoiceHTML(o, store)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// InvoiceHTML renders the invoice page that GenerateInvoice converts
func (s *Service) InvoiceHTML(o *order.Order, store Store) (string, error) {
	if store.Name == "" {
		store.Name = s.config.App.CompanyName
	}

	data := InvoiceData{
		InvoiceNumber: "INV-" + o.OrderNumber,
		InvoiceDate:   o.CreatedAt.Format("January 2, 2006"),
		Order:         o,
		Store:         store,
		Website:       s.config.App.SiteURL,
	}

	var buf bytes.Buffer
	if err := invoice.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to generate HTML: %w", err)
	}
	return buf.String(), nil
}

func statusLabel(v interface{}) string {
	return strings.ReplaceAll(fmt.Sprint(v), "_", " ")
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; overflow: hidden; }
        .company-info { float: left; }
        .invoice-info { float: right; text-align: right; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #c2410c; }
        .section-title { font-weight: bold; margin-bottom: 6px; text-transform: uppercase; font-size: 12px; color: #666; }
        .items-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .items-table th { background: #f8f8f8; text-align: left; padding: 10px; border-bottom: 2px solid #ddd; }
        .items-table td { padding: 10px; border-bottom: 1px solid #eee; }
        .qty-col, .price-col, .total-col { text-align: right; }
        .totals { float: right; width: 300px; }
        .totals td { padding: 6px 10px; }
        .totals .amount { text-align: right; }
        .total-row td { font-weight: bold; font-size: 16px; border-top: 2px solid #333; }
        .status-badge { display: inline-block; padding: 3px 8px; border-radius: 3px; font-size: 11px; font-weight: bold; }
        .status-paid { background: #dcfce7; color: #166534; }
        .status-pending { background: #fef9c3; color: #854d0e; }
        .footer { clear: both; margin-top: 60px; text-align: center; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <div class="invoice-title">{{.Store.Name}}</div>
            {{if .Website}}<p>{{.Website}}</p>{{end}}
        </div>
        <div class="invoice-info">
            <h2>INVOICE</h2>
            <p><strong>{{.InvoiceNumber}}</strong></p>
            <p>Date: {{.InvoiceDate}}</p>
            <p>Order: {{.Order.OrderNumber}}</p>
            <p>Status: {{label .Order.Status}}</p>
            <p>Payment:
                <span class="status-badge {{if eq (print .Order.PaymentStatus) "PAID"}}status-paid{{else}}status-pending{{end}}">{{label .Order.PaymentStatus}}</span>
            </p>
        </div>
    </div>

    <div>
        <div class="section-title">Bill To</div>
        {{with .Order.Customer}}<p>{{.Name}}<br>{{.Email}}</p>{{end}}
        <p>Phone: {{.Order.Phone}}</p>
        {{if eq (print .Order.DeliveryType) "DELIVERY"}}
        <div class="section-title">Deliver To</div>
        <p>{{with .Order.Address}}{{.}}{{end}}{{with .Order.City}}, {{.}}{{end}}</p>
        {{else}}
        <p>Store pickup</p>
        {{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td><strong>{{.ProductName}}</strong></td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{$.Store.Currency}} {{.UnitPrice.StringFixed 2}}</td>
                <td class="total-col">{{$.Store.Currency}} {{.TotalPrice.StringFixed 2}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Store.Currency}} {{.Order.Subtotal.StringFixed 2}}</td>
            </tr>
            <tr>
                <td class="label">Delivery:</td>
                <td class="amount">{{.Store.Currency}} {{.Order.DeliveryFee.StringFixed 2}}</td>
            </tr>
            {{if .Order.Discount.IsPositive}}
            <tr>
                <td class="label">Discount{{with .Order.PromoCode}} ({{.}}){{end}}:</td>
                <td class="amount">-{{.Store.Currency}} {{.Order.Discount.StringFixed 2}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.Store.Currency}} {{.Order.Total.StringFixed 2}}</td>
            </tr>
        </table>
    </div>

    <div class="footer">
        <p>Thank you for snacking with {{.Store.Name}}!</p>
    </div>
</body>
</html>
`
