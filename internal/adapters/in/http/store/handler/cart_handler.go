// internal/adapters/in/http/store/handler/cart_handler.go
package storeHandler

import (
	"context"
	"log"
	"net/http"
	"strings"

	"storefront/internal/application/session"
	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

// ProductGetter snapshots catalog products into cart lines.
type ProductGetter interface {
	GetByID(ctx context.Context, id string) (productdom.Product, error)
}

// CartHandler serves /store/cart.
type CartHandler struct {
	sessions SessionResolver
	products ProductGetter
}

func NewCartHandler(sessions SessionResolver, products ProductGetter) http.Handler {
	return &CartHandler{sessions: sessions, products: products}
}

type cartResponse struct {
	Items  []cartdom.LineItem `json:"items"`
	Totals cartdom.Totals     `json:"totals"`
	Loaded bool               `json:"loaded"`
	State  string             `json:"state"`
}

type cartItemRequest struct {
	ProductID string              `json:"productId"`
	Quantity  *int                `json:"quantity,omitempty"`
	Product   *cartdom.ProductRef `json:"product,omitempty"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := cleanPath(r.URL.Path)

	switch {
	case path == "/store/cart":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r)
		case http.MethodDelete:
			h.clear(w, r)
		default:
			methodNotAllowed(w)
		}
	case path == "/store/cart/items":
		switch r.Method {
		case http.MethodPost:
			h.addItem(w, r)
		case http.MethodPut:
			h.setQuantity(w, r)
		case http.MethodDelete:
			h.removeItem(w, r)
		default:
			methodNotAllowed(w)
		}
	default:
		notFound(w)
	}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	s := resolveSession(w, r, h.sessions)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, cartView(s))
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	s := resolveSession(w, r, h.sessions)
	if s == nil {
		return
	}
	s.Cart.Clear()
	writeJSON(w, http.StatusOK, cartView(s))
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	ref, ok := h.snapshot(w, r, req)
	if !ok {
		return
	}

	s := resolveSession(w, r, h.sessions)
	if s == nil {
		return
	}
	s.Cart.Add(ref)
	log.Printf("[store_cart_handler] add device=%s product=%s count=%d", s.DeviceID, ref.ID, s.Cart.Count())
	writeJSON(w, http.StatusOK, cartView(s))
}

// snapshot takes the product from the catalog when one is wired,
// otherwise from the request body.
func (h *CartHandler) snapshot(w http.ResponseWriter, r *http.Request, req cartItemRequest) (cartdom.ProductRef, bool) {
	id := strings.TrimSpace(req.ProductID)
	if id == "" && req.Product != nil {
		id = strings.TrimSpace(req.Product.ID)
	}
	if id == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return cartdom.ProductRef{}, false
	}

	if h.products == nil {
		if req.Product == nil {
			writeErr(w, http.StatusBadRequest, "product is required")
			return cartdom.ProductRef{}, false
		}
		ref := *req.Product
		ref.ID = id
		return ref, true
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return cartdom.ProductRef{}, false
	}
	return p.Ref(), true
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	id := strings.TrimSpace(req.ProductID)
	if id == "" || req.Quantity == nil {
		writeErr(w, http.StatusBadRequest, "productId and quantity are required")
		return
	}

	s := resolveSession(w, r, h.sessions)
	if s == nil {
		return
	}
	s.Cart.SetQuantity(id, *req.Quantity)
	writeJSON(w, http.StatusOK, cartView(s))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("productId"))
	if id == "" && r.ContentLength > 0 {
		var req cartItemRequest
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		id = strings.TrimSpace(req.ProductID)
	}
	if id == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	s := resolveSession(w, r, h.sessions)
	if s == nil {
		return
	}
	s.Cart.Remove(id)
	writeJSON(w, http.StatusOK, cartView(s))
}

func cartView(s *session.Session) cartResponse {
	snap := s.Cart.Snapshot()
	items := snap.Items
	if items == nil {
		items = []cartdom.LineItem{}
	}
	return cartResponse{
		Items:  items,
		Totals: cartdom.ComputeTotals(items, s.Cart.Pricing()),
		Loaded: snap.Loaded,
		State:  snap.State.String(),
	}
}
