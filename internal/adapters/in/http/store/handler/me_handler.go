// internal/adapters/in/http/store/handler/me_handler.go
package storeHandler

import (
	"context"
	"log"
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/domain/identity"
)

// ProfileReader reads the display fields of a signed-in user.
type ProfileReader interface {
	GetProfile(ctx context.Context, uid string) (map[string]any, error)
}

// MeHandler serves GET /store/me. Guests get 200 with authenticated=false.
type MeHandler struct {
	sessions SessionResolver
	profiles ProfileReader
}

func NewMeHandler(sessions SessionResolver, profiles ProfileReader) http.Handler {
	return &MeHandler{sessions: sessions, profiles: profiles}
}

type meResponse struct {
	Identity      identity.Identity `json:"identity"`
	DeviceID      string            `json:"deviceId"`
	Email         string            `json:"email,omitempty"`
	FullName      string            `json:"fullName,omitempty"`
	Admin         bool              `json:"admin"`
	Profile       map[string]any    `json:"profile,omitempty"`
	CartCount     int               `json:"cartCount"`
	WishlistCount int               `json:"wishlistCount"`
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if cleanPath(r.URL.Path) != "/store/me" {
		notFound(w)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	s := resolveSession(w, r, h.sessions)
	if s == nil {
		return
	}

	resp := meResponse{
		Identity:      middleware.CurrentIdentity(r),
		DeviceID:      s.DeviceID,
		Admin:         middleware.IsAdmin(r),
		CartCount:     s.Cart.Count(),
		WishlistCount: s.Wishlist.Count(),
	}
	resp.Email, _ = middleware.CurrentUserEmail(r)
	resp.FullName, _ = middleware.CurrentUserFullName(r)

	if uid, ok := middleware.CurrentUserUID(r); ok && h.profiles != nil {
		profile, err := h.profiles.GetProfile(r.Context(), uid)
		if err != nil {
			log.Printf("[store_me_handler] WARN: profile read failed uid=%s err=%v", uid, err)
		} else if len(profile) > 0 {
			resp.Profile = profile
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
