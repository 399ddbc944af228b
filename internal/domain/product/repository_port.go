// internal/domain/product/repository_port.go
package product

import "context"

// Repository is a persistence port for Product (Firestore "products").
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	// Save creates (empty ID) or upserts a product.
	Save(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
}
