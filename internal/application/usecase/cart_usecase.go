// internal/application/usecase/cart_usecase.go
package usecase

import (
	"strings"

	"storefront/internal/application/syncstore"
	cartdom "storefront/internal/domain/cart"
)

// CartBinding wires the cart codecs into the sync engine.
func CartBinding() syncstore.Binding[cartdom.LineItem] {
	return syncstore.Binding[cartdom.LineItem]{
		Name:         "cart",
		LocalKey:     cartdom.LocalKey,
		RemoteField:  cartdom.RemoteField,
		DecodeLocal:  cartdom.DecodeLocal,
		EncodeLocal:  cartdom.EncodeLocal,
		DecodeRemote: cartdom.DecodeRemote,
		EncodeRemote: cartdom.EncodeRemote,
		Merge:        cartdom.Merge,
	}
}

// CartStore is the cart as seen by handlers.
// Mutations apply in memory immediately; persistence is the collection's job
// and never surfaces an error here.
type CartStore struct {
	col     *syncstore.Collection[cartdom.LineItem]
	pricing cartdom.PricingPolicy
}

func NewCartStore(col *syncstore.Collection[cartdom.LineItem], pricing cartdom.PricingPolicy) *CartStore {
	return &CartStore{col: col, pricing: pricing}
}

// Add puts one unit of ref into the cart.
func (s *CartStore) Add(ref cartdom.ProductRef) []cartdom.LineItem {
	return s.col.Update(func(items []cartdom.LineItem) []cartdom.LineItem {
		return cartdom.Add(items, ref)
	}).Items
}

// Remove drops the line for productID.
func (s *CartStore) Remove(productID string) []cartdom.LineItem {
	id := strings.TrimSpace(productID)
	return s.col.Update(func(items []cartdom.LineItem) []cartdom.LineItem {
		return cartdom.Remove(items, id)
	}).Items
}

// SetQuantity replaces the quantity; n <= 0 removes the line.
func (s *CartStore) SetQuantity(productID string, n int) []cartdom.LineItem {
	id := strings.TrimSpace(productID)
	return s.col.Update(func(items []cartdom.LineItem) []cartdom.LineItem {
		return cartdom.SetQuantity(items, id, n)
	}).Items
}

func (s *CartStore) Clear() {
	s.col.Update(func([]cartdom.LineItem) []cartdom.LineItem {
		return []cartdom.LineItem{}
	})
}

func (s *CartStore) Items() []cartdom.LineItem { return s.col.Items() }

func (s *CartStore) Loaded() bool { return s.col.Loaded() }

func (s *CartStore) Totals() cartdom.Totals {
	return cartdom.ComputeTotals(s.col.Items(), s.pricing)
}

// Count is the number of units counted toward the totals.
func (s *CartStore) Count() int { return s.Totals().TotalItems }

func (s *CartStore) Pricing() cartdom.PricingPolicy { return s.pricing }

func (s *CartStore) Snapshot() syncstore.Snapshot[cartdom.LineItem] { return s.col.Snapshot() }
