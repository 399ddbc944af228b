// internal/domain/order/message.go
package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// SummaryText renders the order as the plain-text message sent to the shop.
func SummaryText(o Order) string {
	var b strings.Builder
	cur := o.Totals.Currency

	fmt.Fprintf(&b, "New order %s\n\n", o.Number)
	for _, li := range o.Lines {
		line := decimal.NewFromFloat(li.Product.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
		fmt.Fprintf(&b, "- %s x%d = %s %s\n", li.Product.Name, li.Quantity, line.StringFixed(2), cur)
	}

	fmt.Fprintf(&b, "\nSubtotal: %s %s\n", o.Totals.Subtotal.StringFixed(2), cur)
	if o.Totals.FreeShipping {
		b.WriteString("Shipping: free\n")
	} else {
		fmt.Fprintf(&b, "Shipping: %s %s\n", o.Totals.Shipping.StringFixed(2), cur)
	}
	fmt.Fprintf(&b, "Total: %s %s\n", o.Totals.Total.StringFixed(2), cur)

	c := o.Customer
	fmt.Fprintf(&b, "\nCustomer: %s\nPhone: %s\nAddress: %s", c.Name, c.Phone, c.Address)
	if c.City != "" {
		fmt.Fprintf(&b, ", %s", c.City)
	}
	if c.Email != "" {
		fmt.Fprintf(&b, "\nEmail: %s", c.Email)
	}
	if c.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", c.Notes)
	}
	if o.InvoiceURL != "" {
		fmt.Fprintf(&b, "\nInvoice: %s", o.InvoiceURL)
	}
	return b.String()
}

// WhatsAppURL builds a click-to-chat link to phone with text prefilled.
// Returns "" when phone has no digits.
func WhatsAppURL(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	q := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + q
}
