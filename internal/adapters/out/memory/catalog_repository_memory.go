// internal/adapters/out/memory/catalog_repository_memory.go
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	catdom "storefront/internal/domain/category"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

// CategoryRepositoryMemory keeps categories in insertion order.
type CategoryRepositoryMemory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]catdom.Category
}

func NewCategoryRepositoryMemory(seed ...catdom.Category) *CategoryRepositoryMemory {
	r := &CategoryRepositoryMemory{byID: map[string]catdom.Category{}}
	for _, c := range seed {
		r.order = append(r.order, c.ID)
		r.byID[c.ID] = c
	}
	return r
}

func (r *CategoryRepositoryMemory) List(_ context.Context) ([]catdom.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catdom.Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *CategoryRepositoryMemory) GetByID(_ context.Context, id string) (catdom.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return catdom.Category{}, catdom.ErrNotFound
	}
	return c, nil
}

func (r *CategoryRepositoryMemory) Create(_ context.Context, c catdom.Category) (catdom.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := r.byID[c.ID]; ok {
		return catdom.Category{}, catdom.ErrConflict
	}
	r.order = append(r.order, c.ID)
	r.byID[c.ID] = c
	return c, nil
}

func (r *CategoryRepositoryMemory) Update(_ context.Context, c catdom.Category) (catdom.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return catdom.Category{}, catdom.ErrNotFound
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *CategoryRepositoryMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = strings.TrimSpace(id)
	if _, ok := r.byID[id]; !ok {
		return nil
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ProductRepositoryMemory keeps products in insertion order.
type ProductRepositoryMemory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]productdom.Product
}

func NewProductRepositoryMemory(seed ...productdom.Product) *ProductRepositoryMemory {
	r := &ProductRepositoryMemory{byID: map[string]productdom.Product{}}
	for _, p := range seed {
		r.order = append(r.order, p.ID)
		r.byID[p.ID] = p
	}
	return r
}

func (r *ProductRepositoryMemory) List(_ context.Context) ([]productdom.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]productdom.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *ProductRepositoryMemory) GetByID(_ context.Context, id string) (productdom.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepositoryMemory) Save(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *ProductRepositoryMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = strings.TrimSpace(id)
	if _, ok := r.byID[id]; !ok {
		return nil
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// OrderRepositoryMemory is the order sink when Firestore is not configured.
type OrderRepositoryMemory struct {
	mu   sync.RWMutex
	byID map[string]orderdom.Order
}

func NewOrderRepositoryMemory() *OrderRepositoryMemory {
	return &OrderRepositoryMemory{byID: map[string]orderdom.Order{}}
}

func (r *OrderRepositoryMemory) Save(_ context.Context, o orderdom.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[o.ID] = o
	return nil
}

func (r *OrderRepositoryMemory) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}
