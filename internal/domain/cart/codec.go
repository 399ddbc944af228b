// internal/domain/cart/codec.go
package cart

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Storage keys shared by the local and remote backends.
const (
	LocalKey    = "cart"
	RemoteField = "cartItems"
)

// lineItemWire is the persisted shape of a LineItem.
// Price is a pointer so that a NaN snapshot is written as null instead of
// failing the whole encode.
type lineItemWire struct {
	Product  productWire `json:"product" firestore:"product"`
	Quantity int         `json:"quantity" firestore:"quantity"`
}

type productWire struct {
	ID       string   `json:"id" firestore:"id"`
	Name     string   `json:"name" firestore:"name"`
	Price    *float64 `json:"price" firestore:"price"`
	Image    string   `json:"image,omitempty" firestore:"image,omitempty"`
	Brand    string   `json:"brand,omitempty" firestore:"brand,omitempty"`
	Category string   `json:"category,omitempty" firestore:"category,omitempty"`
	Size     string   `json:"size,omitempty" firestore:"size,omitempty"`
}

// EncodeLocal serializes items for the device-scoped local store.
func EncodeLocal(items []LineItem) ([]byte, error) {
	wire := make([]lineItemWire, 0, len(items))
	for _, it := range items {
		wire = append(wire, toWire(it))
	}
	return json.Marshal(wire)
}

// DecodeLocal parses the local store blob.
// Absent or malformed data yields an empty cart; individual bad entries are dropped.
func DecodeLocal(b []byte) []LineItem {
	if len(strings.TrimSpace(string(b))) == 0 {
		return []LineItem{}
	}

	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return []LineItem{}
	}
	return decodeList(raw)
}

// EncodeRemote converts items into the value stored under the cartItems field.
// Plain maps are used because Firestore MergeAll rejects struct data.
func EncodeRemote(items []LineItem) any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		w := toWire(it)

		product := map[string]any{
			"id":   w.Product.ID,
			"name": w.Product.Name,
		}
		if w.Product.Price != nil {
			product["price"] = *w.Product.Price
		} else {
			product["price"] = nil
		}
		if w.Product.Image != "" {
			product["image"] = w.Product.Image
		}
		if w.Product.Brand != "" {
			product["brand"] = w.Product.Brand
		}
		if w.Product.Category != "" {
			product["category"] = w.Product.Category
		}
		if w.Product.Size != "" {
			product["size"] = w.Product.Size
		}

		out = append(out, map[string]any{
			"product":  product,
			"quantity": int64(w.Quantity),
		})
	}
	return out
}

// DecodeRemote parses the cartItems field of a user document.
// Anything that is not a list yields an empty cart.
func DecodeRemote(v any) []LineItem {
	raw, ok := v.([]any)
	if !ok {
		return []LineItem{}
	}
	return decodeList(raw)
}

// ----------------------------
// Helpers
// ----------------------------

func toWire(it LineItem) lineItemWire {
	var price *float64
	if it.Product.HasValidPrice() {
		p := it.Product.Price
		price = &p
	}
	return lineItemWire{
		Product: productWire{
			ID:       strings.TrimSpace(it.Product.ID),
			Name:     it.Product.Name,
			Price:    price,
			Image:    it.Product.Image,
			Brand:    it.Product.Brand,
			Category: it.Product.Category,
			Size:     it.Product.Size,
		},
		Quantity: it.Quantity,
	}
}

func decodeList(raw []any) []LineItem {
	out := make([]LineItem, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		it, ok := decodeLineItem(m)
		if !ok {
			continue
		}
		out = append(out, it)
	}
	return normalize(out)
}

// decodeLineItem accepts both {product:{...}, quantity} and the flattened
// {id, name, price, ..., quantity} shape.
func decodeLineItem(m map[string]any) (LineItem, bool) {
	pm, ok := m["product"].(map[string]any)
	if !ok {
		pm = m
	}

	id := strings.TrimSpace(asString(pm["id"]))
	if id == "" {
		return LineItem{}, false
	}

	qty, ok := asInt(m["quantity"])
	if !ok || qty <= 0 {
		return LineItem{}, false
	}

	price, ok := asFloat(pm["price"])
	if !ok {
		price = math.NaN()
	}

	return LineItem{
		Product: ProductRef{
			ID:       id,
			Name:     asString(pm["name"]),
			Price:    price,
			Image:    asString(pm["image"]),
			Brand:    asString(pm["brand"]),
			Category: asString(pm["category"]),
			Size:     asString(pm["size"]),
		},
		Quantity: qty,
	}, true
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// asFloat accepts numeric kinds only; numeric-looking strings are rejected.
func asFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
