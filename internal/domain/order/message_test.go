package order

import (
	"errors"
	"strings"
	"testing"
	"time"

	cartdom "storefront/internal/domain/cart"
)

func sampleItems() []cartdom.LineItem {
	return []cartdom.LineItem{
		{Product: cartdom.ProductRef{ID: "a", Name: "Rose Balm", Price: 10}, Quantity: 2},
		{Product: cartdom.ProductRef{ID: "b", Name: "Clay Mask", Price: 5}, Quantity: 1},
	}
}

func sampleCustomer() Customer {
	return Customer{Name: " Ana ", Phone: "+1 555 0100", Address: "1 Main St", City: "Lisbon"}
}

func TestNew_ComputesTotalsAndNumber(t *testing.T) {
	o, err := New("3f2a9c1e-0000-4000-8000-000000000000", "u1", sampleCustomer(), sampleItems(), cartdom.DefaultPricing(), time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if o.Number != "ORD-3F2A9C1E" {
		t.Fatalf("number: %s", o.Number)
	}
	if o.Totals.Total.StringFixed(2) != "30.99" {
		t.Fatalf("total: %s", o.Totals.Total)
	}
	if o.Customer.Name != "Ana" {
		t.Fatalf("customer not normalized: %+v", o.Customer)
	}
	if o.Status != StatusPending {
		t.Fatalf("status: %s", o.Status)
	}
}

func TestNew_Rejects(t *testing.T) {
	if _, err := New("x", "", sampleCustomer(), nil, cartdom.DefaultPricing(), time.Now()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if _, err := New("x", "", Customer{Name: "A"}, sampleItems(), cartdom.DefaultPricing(), time.Now()); !errors.Is(err, ErrInvalidCustomer) {
		t.Fatalf("expected ErrInvalidCustomer, got %v", err)
	}
}

func TestSummaryTextAndWhatsAppURL(t *testing.T) {
	o, _ := New("abc", "", sampleCustomer(), sampleItems(), cartdom.DefaultPricing(), time.Now())
	text := SummaryText(o)

	for _, want := range []string{"Rose Balm x2 = 20.00 USD", "Shipping: 5.99 USD", "Total: 30.99 USD", "Lisbon"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}

	u := WhatsAppURL("+1 555-0100", "hi there")
	if u != "https://wa.me/15550100?text=hi%20there" {
		t.Fatalf("unexpected url: %s", u)
	}
	if WhatsAppURL("n/a", "x") != "" {
		t.Fatalf("expected empty url for phone without digits")
	}
}
