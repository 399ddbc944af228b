// internal/platform/di/store/register.go
package store

import (
	"log"
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
	storehttp "storefront/internal/adapters/in/http/store"
	storeHandler "storefront/internal/adapters/in/http/store/handler"
)

// Handler builds the full storefront handler from the container.
// Pure DI: construct handlers and hand them to the router.
func Handler(cont *Container) http.Handler {
	if cont == nil || cont.Infra == nil {
		return http.NotFoundHandler()
	}
	settings := cont.Infra.Settings

	auth := &middleware.UserAuthMiddleware{}
	if cont.Infra.FirebaseAuth != nil {
		auth.Verifier = cont.Infra.FirebaseAuth
	} else {
		log.Printf("[store.register] WARN: FirebaseAuth is nil (every caller is a guest; admin routes return 401)")
	}

	// an unset *UserDocumentStoreFS must not become a non-nil interface
	var profiles storeHandler.ProfileReader
	if cont.UserDocs != nil {
		profiles = cont.UserDocs
	}

	deps := storehttp.Deps{
		Me:       storeHandler.NewMeHandler(cont.Registry, profiles),
		Cart:     storeHandler.NewCartHandler(cont.Registry, cont.Products),
		Wishlist: storeHandler.NewWishlistHandler(cont.Registry),
		Category: storeHandler.NewCategoryHandler(cont.Categories),
		Product:  storeHandler.NewProductHandler(cont.Products),
		Checkout: storeHandler.NewCheckoutHandler(cont.Registry, cont.Checkout),
		Pricing:  storeHandler.NewPricingHandler(settings.Pricing),
	}

	return storehttp.NewHandler(deps, auth, settings.CORSAllowedOrigin)
}
