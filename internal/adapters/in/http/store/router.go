// internal/adapters/in/http/store/router.go
package store

import (
	"log"
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
)

// Deps is the storefront handler set.
type Deps struct {
	Me       http.Handler
	Cart     http.Handler
	Wishlist http.Handler
	Category http.Handler
	Product  http.Handler
	Checkout http.Handler
	Pricing  http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[store.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

func adminOnly(h http.Handler) http.Handler {
	if h == nil {
		return nil
	}
	return middleware.RequireAdmin(h)
}

// Register registers storefront and back-office routes onto mux.
// Identity and device id must already be on the request context.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	handleSafe(mux, "/store/me", deps.Me, "Me")

	// cart
	handleSafe(mux, "/store/cart", deps.Cart, "Cart")
	handleSafe(mux, "/store/cart/", deps.Cart, "Cart")

	// wishlist
	handleSafe(mux, "/store/wishlist", deps.Wishlist, "Wishlist")
	handleSafe(mux, "/store/wishlist/", deps.Wishlist, "Wishlist")

	// catalog
	handleSafe(mux, "/store/categories", deps.Category, "Category")
	handleSafe(mux, "/store/categories/", deps.Category, "Category")
	handleSafe(mux, "/store/products", deps.Product, "Product")
	handleSafe(mux, "/store/products/", deps.Product, "Product")

	handleSafe(mux, "/store/pricing", deps.Pricing, "Pricing")
	handleSafe(mux, "/store/checkout", deps.Checkout, "Checkout")

	// back-office
	handleSafe(mux, "/admin/categories", adminOnly(deps.Category), "Category(admin)")
	handleSafe(mux, "/admin/categories/", adminOnly(deps.Category), "Category(admin)")
	handleSafe(mux, "/admin/products", adminOnly(deps.Product), "Product(admin)")
	handleSafe(mux, "/admin/products/", adminOnly(deps.Product), "Product(admin)")
}

// NewHandler builds the full storefront handler:
// CORS → Recover → DeviceID → UserAuth → routes. /healthz skips the chain.
func NewHandler(deps Deps, auth *middleware.UserAuthMiddleware, allowedOrigin string) http.Handler {
	routes := http.NewServeMux()
	Register(routes, deps)

	if auth == nil {
		auth = &middleware.UserAuthMiddleware{}
	}
	chained := middleware.Chain(routes,
		middleware.CORS(allowedOrigin),
		middleware.Recover,
		middleware.DeviceID,
		auth.Handler,
	)

	root := http.NewServeMux()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Handle("/", chained)
	return root
}
