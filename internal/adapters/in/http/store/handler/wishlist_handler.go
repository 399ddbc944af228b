// internal/adapters/in/http/store/handler/wishlist_handler.go
package storeHandler

import (
	"net/http"
	"strings"

	"storefront/internal/application/session"
)

// WishlistHandler serves /store/wishlist.
type WishlistHandler struct {
	sessions SessionResolver
}

func NewWishlistHandler(sessions SessionResolver) http.Handler {
	return &WishlistHandler{sessions: sessions}
}

type wishlistResponse struct {
	Items  []string `json:"items"`
	Count  int      `json:"count"`
	Loaded bool     `json:"loaded"`
}

type wishlistItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *WishlistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := cleanPath(r.URL.Path)

	switch {
	case path == "/store/wishlist" && r.Method == http.MethodGet:
		h.withSession(w, r, func(s *session.Session) {
			writeJSON(w, http.StatusOK, wishlistView(s))
		})
	case path == "/store/wishlist" && r.Method == http.MethodDelete:
		h.withSession(w, r, func(s *session.Session) {
			s.Wishlist.Clear()
			writeJSON(w, http.StatusOK, wishlistView(s))
		})
	case path == "/store/wishlist/items" && r.Method == http.MethodPost:
		h.withProduct(w, r, func(s *session.Session, id string) {
			s.Wishlist.Add(id)
			writeJSON(w, http.StatusOK, wishlistView(s))
		})
	case path == "/store/wishlist/items" && r.Method == http.MethodDelete:
		h.withProduct(w, r, func(s *session.Session, id string) {
			s.Wishlist.Remove(id)
			writeJSON(w, http.StatusOK, wishlistView(s))
		})
	case path == "/store/wishlist/toggle" && r.Method == http.MethodPost:
		h.withProduct(w, r, func(s *session.Session, id string) {
			in := s.Wishlist.Toggle(id)
			writeJSON(w, http.StatusOK, map[string]any{
				"productId":  id,
				"inWishlist": in,
				"wishlist":   wishlistView(s),
			})
		})
	case path == "/store/wishlist" || path == "/store/wishlist/items" || path == "/store/wishlist/toggle":
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

func (h *WishlistHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session)) {
	if s := resolveSession(w, r, h.sessions); s != nil {
		fn(s)
	}
}

// withProduct reads productId from the query string or the JSON body.
func (h *WishlistHandler) withProduct(w http.ResponseWriter, r *http.Request, fn func(*session.Session, string)) {
	id := strings.TrimSpace(r.URL.Query().Get("productId"))
	if id == "" && r.ContentLength != 0 {
		var req wishlistItemRequest
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
	h.withSession(w, r, func(s *session.Session) { fn(s, id) })
}

func wishlistView(s *session.Session) wishlistResponse {
	items := s.Wishlist.Items()
	if items == nil {
		items = []string{}
	}
	return wishlistResponse{Items: items, Count: len(items), Loaded: s.Wishlist.Loaded()}
}
