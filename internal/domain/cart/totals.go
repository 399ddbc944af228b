// internal/domain/cart/totals.go
package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PricingPolicy holds the shipping rule applied to every cart.
type PricingPolicy struct {
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	FlatShippingCost      decimal.Decimal `json:"flatShippingCost"`
	Currency              string          `json:"currency"`
}

// DefaultPricing is the storefront's standard rule: free shipping from 50, else 5.99.
func DefaultPricing() PricingPolicy {
	return PricingPolicy{
		FreeShippingThreshold: decimal.NewFromInt(50),
		FlatShippingCost:      decimal.RequireFromString("5.99"),
		Currency:              "USD",
	}
}

// Totals is the derived view of a cart.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Total        decimal.Decimal `json:"total"`
	TotalItems   int             `json:"totalItems"`
	FreeShipping bool            `json:"freeShipping"`
	Currency     string          `json:"currency"`
}

// ComputeTotals derives subtotal, shipping and total from items.
// Lines whose snapshot price is not a finite number are skipped for both
// money and item count, but they stay in the cart.
func ComputeTotals(items []LineItem, p PricingPolicy) Totals {
	subtotal := decimal.Zero
	count := 0

	for _, it := range items {
		if it.Quantity <= 0 || !it.Product.HasValidPrice() {
			continue
		}
		line := decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
		count += it.Quantity
	}

	shipping := p.FlatShippingCost
	free := subtotal.GreaterThanOrEqual(p.FreeShippingThreshold)
	if free {
		shipping = decimal.Zero
	}

	currency := strings.TrimSpace(p.Currency)
	if currency == "" {
		currency = "USD"
	}

	return Totals{
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        subtotal.Add(shipping),
		TotalItems:   count,
		FreeShipping: free,
		Currency:     currency,
	}
}
