// internal/application/usecase/product_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	productdom "storefront/internal/domain/product"
)

type memProductRepo struct {
	items []productdom.Product
}

func (r *memProductRepo) List(context.Context) ([]productdom.Product, error) {
	return append([]productdom.Product(nil), r.items...), nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	for _, p := range r.items {
		if p.ID == id {
			return p, nil
		}
	}
	return productdom.Product{}, productdom.ErrNotFound
}

func (r *memProductRepo) Save(_ context.Context, p productdom.Product) (productdom.Product, error) {
	if p.ID == "" {
		p.ID = "generated"
	}
	for i, e := range r.items {
		if e.ID == p.ID {
			r.items[i] = p
			return p, nil
		}
	}
	r.items = append(r.items, p)
	return p, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	for i, e := range r.items {
		if e.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func productIDs(ps []productdom.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestProductUsecase_BrowseIncludesSubcategories(t *testing.T) {
	repo := &memProductRepo{items: []productdom.Product{
		{ID: "p1", Name: "Liquid Foundation", Price: 30, CategoryID: "foundation", Stock: 3},
		{ID: "p2", Name: "Mascara", Price: 12, CategoryID: "eyes", Stock: 0},
		{ID: "p3", Name: "Cleanser", Price: 18, CategoryID: "skincare", Stock: 9},
	}}
	uc := NewProductUsecase(repo, NewCategoryUsecase(seededCategories()))

	got, err := uc.Browse(context.Background(), BrowseQuery{CategoryID: "makeup", Sort: productdom.SortPriceAsc})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ids := productIDs(got); !reflect.DeepEqual(ids, []string{"p2", "p1"}) {
		t.Fatalf("browse=%v", ids)
	}

	got, _ = uc.Browse(context.Background(), BrowseQuery{CategoryID: "makeup", InStockOnly: true})
	if ids := productIDs(got); !reflect.DeepEqual(ids, []string{"p1"}) {
		t.Fatalf("in stock=%v", ids)
	}
}

func TestProductUsecase_SaveValidatesAndStamps(t *testing.T) {
	repo := &memProductRepo{}
	uc := NewProductUsecase(repo, nil)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	uc.clock = fixedClock{now}

	if _, err := uc.Save(context.Background(), productdom.Product{Name: "Bad", Price: -1}); !errors.Is(err, productdom.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	p, err := uc.Save(context.Background(), productdom.Product{ID: " lip-1 ", Name: " Lip Tint ", Price: 9.5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ID != "lip-1" || p.Name != "Lip Tint" || !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Fatalf("saved=%+v", p)
	}
}

func TestProductUsecase_GetRejectsBlankID(t *testing.T) {
	uc := NewProductUsecase(&memProductRepo{}, nil)
	if _, err := uc.GetByID(context.Background(), " "); !errors.Is(err, productdom.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
