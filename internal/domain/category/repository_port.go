// internal/domain/category/repository_port.go
package category

import "context"

// Repository is a persistence port for Category.
//
// Implementations:
// - Firestore: collection "categories", docId = category id
// - Postgres: table "categories"
type Repository interface {
	// List returns every category. Order is whatever the backend returns.
	List(ctx context.Context) ([]Category, error)

	// GetByID returns ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (Category, error)

	// Create assigns an id when c.ID is empty. Returns ErrConflict on duplicate id.
	Create(ctx context.Context, c Category) (Category, error)

	// Update overwrites an existing category. Returns ErrNotFound when missing.
	Update(ctx context.Context, c Category) (Category, error)

	// Delete removes a single category. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
