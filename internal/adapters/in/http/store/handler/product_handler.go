// internal/adapters/in/http/store/handler/product_handler.go
package storeHandler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	usecase "storefront/internal/application/usecase"
	productdom "storefront/internal/domain/product"
)

// ProductHandler serves /store/products and /admin/products.
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusServiceUnavailable, "product handler is not configured")
		return
	}
	path := cleanPath(r.URL.Path)

	switch {
	case path == "/store/products":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.browse(w, r)

	case strings.HasPrefix(path, "/store/products/"):
		id, rest := pathID(path, "/store/products")
		if rest != "" {
			notFound(w)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		p, err := h.uc.GetByID(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case path == "/admin/products":
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.save(w, r)

	case strings.HasPrefix(path, "/admin/products/"):
		id, rest := pathID(path, "/admin/products")
		if rest != "" {
			notFound(w)
			return
		}
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		if err := h.uc.Delete(r.Context(), id); err != nil {
			writeDomainErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		notFound(w)
	}
}

func (h *ProductHandler) browse(w http.ResponseWriter, r *http.Request) {
	q, err := parseBrowseQuery(r.URL.Query())
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.uc.Browse(r.Context(), q)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if items == nil {
		items = []productdom.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *ProductHandler) save(w http.ResponseWriter, r *http.Request) {
	var p productdom.Product
	if err := readJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	saved, err := h.uc.Save(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// parseBrowseQuery reads ?categoryId=&q=&minPrice=&maxPrice=&inStock=&featured=&sort=
func parseBrowseQuery(v url.Values) (usecase.BrowseQuery, error) {
	q := usecase.BrowseQuery{
		CategoryID:   strings.TrimSpace(v.Get("categoryId")),
		Query:        strings.TrimSpace(v.Get("q")),
		InStockOnly:  parseBool(v.Get("inStock")),
		FeaturedOnly: parseBool(v.Get("featured")),
		Sort:         productdom.ParseSortKey(v.Get("sort")),
	}
	var err error
	if q.MinPrice, err = parsePrice(v.Get("minPrice")); err != nil {
		return q, err
	}
	if q.MaxPrice, err = parsePrice(v.Get("maxPrice")); err != nil {
		return q, err
	}
	return q, nil
}

func parsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil, &queryError{param: "price", value: s}
	}
	return &f, nil
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}

type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return "invalid " + e.param + ": " + strconv.Quote(e.value)
}
