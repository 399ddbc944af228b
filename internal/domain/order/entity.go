// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
)

// Errors
var (
	ErrEmptyCart       = errors.New("order: cart is empty")
	ErrInvalidCustomer = errors.New("order: invalid customer")
	ErrNotFound        = errors.New("order: not found")
)

// Status of an order. Payment is settled outside the storefront,
// so an order starts as pending until the shop confirms it by message.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Customer is the contact/shipping block of the checkout form.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Normalize trims every field.
func (c Customer) Normalize() Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		City:    strings.TrimSpace(c.City),
		Notes:   strings.TrimSpace(c.Notes),
	}
}

// Validate requires name, phone and address.
func (c Customer) Validate() error {
	c = c.Normalize()
	if c.Name == "" || c.Phone == "" || c.Address == "" {
		return ErrInvalidCustomer
	}
	return nil
}

// Order is the record written at checkout.
type Order struct {
	ID         string             `json:"id"`
	Number     string             `json:"number"`
	UserID     string             `json:"userId,omitempty"`
	Customer   Customer           `json:"customer"`
	Lines      []cartdom.LineItem `json:"lines"`
	Totals     cartdom.Totals     `json:"totals"`
	Status     Status             `json:"status"`
	InvoiceURL string             `json:"invoiceUrl,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// New builds a pending order from a cart snapshot.
// Lines with an invalid price are left out; they were never charged.
func New(id, userID string, customer Customer, items []cartdom.LineItem, pricing cartdom.PricingPolicy, now time.Time) (Order, error) {
	if err := customer.Validate(); err != nil {
		return Order{}, err
	}

	lines := make([]cartdom.LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 && it.Product.HasValidPrice() {
			lines = append(lines, it)
		}
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	id = strings.TrimSpace(id)
	return Order{
		ID:        id,
		Number:    NumberFromID(id),
		UserID:    strings.TrimSpace(userID),
		Customer:  customer.Normalize(),
		Lines:     lines,
		Totals:    cartdom.ComputeTotals(lines, pricing),
		Status:    StatusPending,
		CreatedAt: now.UTC(),
	}, nil
}

// NumberFromID derives the short human-facing order number.
func NumberFromID(id string) string {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(id), "-", ""))
	if len(s) > 8 {
		s = s[:8]
	}
	return "ORD-" + s
}
