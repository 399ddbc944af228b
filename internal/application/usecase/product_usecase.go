// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"strings"

	productdom "storefront/internal/domain/product"
)

// ProductUsecase orchestrates catalog operations.
type ProductUsecase struct {
	repo       productdom.Repository
	categories *CategoryUsecase
	clock      Clock
}

func NewProductUsecase(repo productdom.Repository, categories *CategoryUsecase) *ProductUsecase {
	return &ProductUsecase{repo: repo, categories: categories, clock: systemClock{}}
}

// BrowseQuery is what the catalog page sends.
type BrowseQuery struct {
	// CategoryID includes the whole subtree when set.
	CategoryID   string
	Query        string
	MinPrice     *float64
	MaxPrice     *float64
	InStockOnly  bool
	FeaturedOnly bool
	Sort         productdom.SortKey
}

// Queries

func (u *ProductUsecase) Browse(ctx context.Context, q BrowseQuery) ([]productdom.Product, error) {
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	f := productdom.Filter{
		Query:        q.Query,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		InStockOnly:  q.InStockOnly,
		FeaturedOnly: q.FeaturedOnly,
	}
	if cid := strings.TrimSpace(q.CategoryID); cid != "" {
		ids := []string{cid}
		if u.categories != nil {
			sub, err := u.categories.SubtreeIDs(ctx, cid)
			if err != nil {
				return nil, err
			}
			ids = sub
		}
		f.CategoryIDs = ids
	}

	return productdom.Sort(productdom.Apply(all, f), q.Sort), nil
}

func (u *ProductUsecase) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrInvalidID
	}
	return u.repo.GetByID(ctx, id)
}

// Commands

// Save creates or replaces a product. CreatedAt is kept from the stored copy.
func (u *ProductUsecase) Save(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	if p.ID != "" {
		if existing, err := u.repo.GetByID(ctx, p.ID); err == nil {
			p.CreatedAt = existing.CreatedAt
		}
	}

	now := u.clock.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return u.repo.Save(ctx, p)
}

func (u *ProductUsecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.ErrInvalidID
	}
	return u.repo.Delete(ctx, id)
}
