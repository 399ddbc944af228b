// internal/adapters/in/http/store/handler/checkout_handler.go
package storeHandler

import (
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
)

// CheckoutHandler serves POST /store/checkout.
type CheckoutHandler struct {
	sessions SessionResolver
	uc       *usecase.CheckoutUsecase
}

func NewCheckoutHandler(sessions SessionResolver, uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{sessions: sessions, uc: uc}
}

type checkoutRequest struct {
	Customer orderdom.Customer `json:"customer"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if cleanPath(r.URL.Path) != "/store/checkout" {
		notFound(w)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.uc == nil {
		writeErr(w, http.StatusServiceUnavailable, "checkout is not configured")
		return
	}

	var req checkoutRequest
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	s := resolveSession(w, r, h.sessions)
	if s == nil {
		return
	}

	customer := req.Customer
	if customer.Email == "" {
		if email, ok := middleware.CurrentUserEmail(r); ok {
			customer.Email = email
		}
	}

	receipt, err := h.uc.PlaceOrder(r.Context(), s.Cart, middleware.CurrentIdentity(r), customer)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
