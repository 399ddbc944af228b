// internal/domain/product/filter.go
package product

import (
	"sort"
	"strings"
)

// Filter narrows a product list. Zero value matches everything.
type Filter struct {
	// CategoryIDs already includes descendants when browsing a parent category.
	CategoryIDs  []string
	Query        string
	MinPrice     *float64
	MaxPrice     *float64
	InStockOnly  bool
	FeaturedOnly bool
}

// SortKey selects the listing order.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortName      SortKey = "name"
)

// ParseSortKey falls back to SortFeatured for unknown input.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortName:
		return SortName
	default:
		return SortFeatured
	}
}

// Apply returns the products matching f, preserving input order.
func Apply(products []Product, f Filter) []Product {
	cats := map[string]bool{}
	for _, id := range f.CategoryIDs {
		if id = strings.TrimSpace(id); id != "" {
			cats[id] = true
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if len(cats) > 0 && !cats[strings.TrimSpace(p.CategoryID)] {
			continue
		}
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.InStockOnly && !p.InStock() {
			continue
		}
		if f.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort returns a sorted copy. Ties keep the input order.
func Sort(products []Product, key SortKey) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	var less func(a, b Product) bool
	switch key {
	case SortNewest:
		less = func(a, b Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case SortName:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b Product) bool { return a.Featured && !b.Featured }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func matchesQuery(p Product, q string) bool {
	for _, s := range []string{p.Name, p.Description, p.Brand} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
