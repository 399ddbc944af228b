// internal/domain/order/repository_port.go
package order

import "context"

// Repository is a persistence port for Order (Firestore "orders", docId = order id).
type Repository interface {
	Save(ctx context.Context, o Order) error
	GetByID(ctx context.Context, id string) (Order, error)
}
