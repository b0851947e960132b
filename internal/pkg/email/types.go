// internal/pkg/email/types.go
package email

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderPlaced    EmailType = "order_placed"
	EmailTypeOrderCancelled EmailType = "order_cancelled"
	EmailTypeTest           EmailType = "test"
)

// Email represents an email message
type Email struct {
	To          []string
	Subject     string
	HTMLContent string
	Type        EmailType
}

// OrderEmailData is the template data for order emails. Money values are
// preformatted strings.
type OrderEmailData struct {
	StoreName    string
	CustomerName string
	OrderNumber  string
	OrderDate    string
	DeliveryType string
	Address      string
	Items        []OrderLine
	Subtotal     string
	DeliveryFee  string
	Discount     string
	Total        string
	Currency     string
	OrderURL     string
	Year         int
}

// OrderLine is one item row in an order email
type OrderLine struct {
	Name     string
	Quantity int
	Total    string
}

// HasDiscount reports whether the discount row should be shown
func (d OrderEmailData) HasDiscount() bool {
	return d.Discount != "" && d.Discount != "0.00"
}
