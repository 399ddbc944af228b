// internal/domain/cart/entity.go
package cart

import (
	"encoding/json"
	"math"
	"strings"
)

// ProductRef is the product snapshot taken when an item is added.
// It is never refreshed from the catalog; later price changes do not
// reach items already in a cart.
type ProductRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	Category string  `json:"category,omitempty"`
	Size     string  `json:"size,omitempty"`
}

// HasValidPrice reports whether the snapshot carries a finite price.
// Snapshots decoded from malformed data keep NaN here.
func (p ProductRef) HasValidPrice() bool {
	return !math.IsNaN(p.Price) && !math.IsInf(p.Price, 0)
}

// MarshalJSON writes an invalid price as null.
func (p ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(LineItem{Product: p}).Product)
}

// LineItem is one product in a cart.
// Uniqueness is defined by Product.ID; Quantity is always >= 1.
type LineItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// Key returns the identity of the line item inside a cart.
func (li LineItem) Key() string { return strings.TrimSpace(li.Product.ID) }

// Add puts one unit of ref into items.
// An existing line gets quantity+1, otherwise a new line with quantity 1 is appended.
// Blank ids are ignored.
func Add(items []LineItem, ref ProductRef) []LineItem {
	out := clone(items)

	id := strings.TrimSpace(ref.ID)
	if id == "" {
		return out
	}
	ref.ID = id

	if idx := indexOf(out, id); idx >= 0 {
		out[idx].Quantity++
		return out
	}
	return append(out, LineItem{Product: ref, Quantity: 1})
}

// Remove drops the line for productID. Absent ids are a no-op.
func Remove(items []LineItem, productID string) []LineItem {
	out := clone(items)

	idx := indexOf(out, strings.TrimSpace(productID))
	if idx < 0 {
		return out
	}
	return append(out[:idx], out[idx+1:]...)
}

// SetQuantity replaces the quantity of productID.
// n <= 0 removes the line. Setting the quantity of an absent product is a no-op
// because there is no snapshot to create the line from.
func SetQuantity(items []LineItem, productID string, n int) []LineItem {
	if n <= 0 {
		return Remove(items, productID)
	}

	out := clone(items)
	if idx := indexOf(out, strings.TrimSpace(productID)); idx >= 0 {
		out[idx].Quantity = n
	}
	return out
}

// Merge unions remote and local by product id.
// Quantities of products present on both sides are summed. Remote lines keep
// their position and snapshot; local-only lines follow in local order.
func Merge(remote, local []LineItem) []LineItem {
	out := normalize(remote)

	for _, it := range normalize(local) {
		if idx := indexOf(out, it.Key()); idx >= 0 {
			out[idx].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	return out
}

// Find returns the line for productID.
func Find(items []LineItem, productID string) (LineItem, bool) {
	idx := indexOf(items, strings.TrimSpace(productID))
	if idx < 0 {
		return LineItem{}, false
	}
	return items[idx], true
}

// ----------------------------
// Helpers
// ----------------------------

func indexOf(items []LineItem, id string) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if items[i].Key() == id {
			return i
		}
	}
	return -1
}

// normalize drops invalid lines and folds duplicates (quantities summed),
// keeping first-seen order.
func normalize(src []LineItem) []LineItem {
	out := make([]LineItem, 0, len(src))
	for _, it := range src {
		id := it.Key()
		if id == "" || it.Quantity <= 0 {
			continue
		}
		it.Product.ID = id

		if idx := indexOf(out, id); idx >= 0 {
			out[idx].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	return out
}

func clone(src []LineItem) []LineItem {
	out := make([]LineItem, len(src))
	copy(out, src)
	return out
}
