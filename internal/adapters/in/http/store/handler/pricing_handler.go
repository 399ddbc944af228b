// internal/adapters/in/http/store/handler/pricing_handler.go
package storeHandler

import (
	"net/http"

	cartdom "storefront/internal/domain/cart"
)

// NewPricingHandler serves GET /store/pricing.
func NewPricingHandler(p cartdom.PricingPolicy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cleanPath(r.URL.Path) != "/store/pricing" {
			notFound(w)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
}
