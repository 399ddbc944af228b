// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
)

// OrderRepositoryFS stores checkout orders.
//
// - collection: orders
// - docId: order id (uuid)
// - money fields are stored as decimal strings
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) Save(ctx context.Context, o orderdom.Order) error {
	if r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(o.ID)
	if id == "" {
		return errors.New("order_repository_fs: order id is empty")
	}
	_, err := r.col().Doc(id).Set(ctx, orderToDoc(o))
	return err
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return docToOrder(snap), nil
}

// ------------------------------
// mapping
// ------------------------------

func orderToDoc(o orderdom.Order) map[string]any {
	c := o.Customer
	return map[string]any{
		"number": o.Number,
		"userId": o.UserID,
		"status": string(o.Status),
		"customer": map[string]any{
			"name":    c.Name,
			"email":   c.Email,
			"phone":   c.Phone,
			"address": c.Address,
			"city":    c.City,
			"notes":   c.Notes,
		},
		"lines": cartdom.EncodeRemote(o.Lines),
		"totals": map[string]any{
			"subtotal":     o.Totals.Subtotal.StringFixed(2),
			"shipping":     o.Totals.Shipping.StringFixed(2),
			"total":        o.Totals.Total.StringFixed(2),
			"totalItems":   int64(o.Totals.TotalItems),
			"freeShipping": o.Totals.FreeShipping,
			"currency":     o.Totals.Currency,
		},
		"invoiceUrl": o.InvoiceURL,
		"createdAt":  o.CreatedAt.UTC(),
	}
}

func docToOrder(snap *firestore.DocumentSnapshot) orderdom.Order {
	data := snap.Data()

	o := orderdom.Order{
		ID:         snap.Ref.ID,
		Number:     asString(data["number"]),
		UserID:     asString(data["userId"]),
		Status:     orderdom.Status(asString(data["status"])),
		Lines:      cartdom.DecodeRemote(data["lines"]),
		InvoiceURL: asString(data["invoiceUrl"]),
	}
	if t, ok := asTime(data["createdAt"]); ok {
		o.CreatedAt = t.UTC()
	}

	if m, ok := data["customer"].(map[string]any); ok {
		o.Customer = orderdom.Customer{
			Name:    asString(m["name"]),
			Email:   asString(m["email"]),
			Phone:   asString(m["phone"]),
			Address: asString(m["address"]),
			City:    asString(m["city"]),
			Notes:   asString(m["notes"]),
		}
	}

	if m, ok := data["totals"].(map[string]any); ok {
		o.Totals = cartdom.Totals{
			Subtotal:     asDecimal(m["subtotal"]),
			Shipping:     asDecimal(m["shipping"]),
			Total:        asDecimal(m["total"]),
			TotalItems:   asInt(m["totalItems"]),
			FreeShipping: asBool(m["freeShipping"]),
			Currency:     asString(m["currency"]),
		}
	}
	return o
}

func asDecimal(v any) decimal.Decimal {
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(t)
	case int64:
		return decimal.NewFromInt(t)
	default:
		return decimal.Zero
	}
}
