package product

import (
	"testing"
	"time"
)

func catalog() []Product {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Product{
		{ID: "1", Name: "Velvet Lipstick", Price: 18, CategoryID: "lipstick", Stock: 3, CreatedAt: t0},
		{ID: "2", Name: "Hydra Serum", Price: 42, CategoryID: "serum", Stock: 0, Featured: true, CreatedAt: t0.Add(time.Hour)},
		{ID: "3", Name: "Lip Gloss", Brand: "Velvet", Price: 12, CategoryID: "gloss", Stock: 5, CreatedAt: t0.Add(2 * time.Hour)},
	}
}

func ids(ps []Product) string {
	s := ""
	for _, p := range ps {
		s += p.ID
	}
	return s
}

func TestApply_CategoryAndQuery(t *testing.T) {
	got := Apply(catalog(), Filter{CategoryIDs: []string{"lipstick", "gloss"}})
	if ids(got) != "13" {
		t.Fatalf("category filter: %s", ids(got))
	}

	got = Apply(catalog(), Filter{Query: "velvet"})
	if ids(got) != "13" {
		t.Fatalf("query matches name or brand: %s", ids(got))
	}
}

func TestApply_PriceAndStock(t *testing.T) {
	min, max := 15.0, 50.0
	got := Apply(catalog(), Filter{MinPrice: &min, MaxPrice: &max})
	if ids(got) != "12" {
		t.Fatalf("price range: %s", ids(got))
	}

	got = Apply(catalog(), Filter{InStockOnly: true})
	if ids(got) != "13" {
		t.Fatalf("in stock: %s", ids(got))
	}
}

func TestSort(t *testing.T) {
	cases := map[SortKey]string{
		SortPriceAsc:  "312",
		SortPriceDesc: "213",
		SortNewest:    "321",
		SortName:      "231",
		SortFeatured:  "213",
	}
	for key, want := range cases {
		if got := ids(Sort(catalog(), key)); got != want {
			t.Fatalf("Sort(%s) = %s want %s", key, got, want)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey(" PRICE_ASC ") != SortPriceAsc {
		t.Fatalf("expected price_asc")
	}
	if ParseSortKey("weird") != SortFeatured {
		t.Fatalf("expected fallback")
	}
}

func TestRef_UsesFirstImageFallback(t *testing.T) {
	p := Product{ID: " 9 ", Name: "Mask", Price: 7, Images: []string{"a.jpg", "b.jpg"}}
	r := p.Ref()
	if r.ID != "9" || r.Image != "a.jpg" || r.Price != 7 {
		t.Fatalf("unexpected ref: %+v", r)
	}
}
