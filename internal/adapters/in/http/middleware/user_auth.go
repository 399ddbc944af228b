// internal/adapters/in/http/middleware/user_auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"storefront/internal/domain/identity"
)

// UserAuthMiddleware verifies "Authorization: Bearer <ID_TOKEN>" when present.
// A missing or invalid token is not an error: the request continues as a guest,
// so the cart and wishlist keep working before sign-in.
type UserAuthMiddleware struct {
	Verifier TokenVerifier
}

func (m *UserAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithIdentity(r.Context(), identity.Guest())

		idToken := bearerToken(r)
		if idToken == "" || m == nil || m.Verifier == nil {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil || token == nil || strings.TrimSpace(token.UID) == "" {
			log.Printf("[user_auth] WARN: token rejected, continuing as guest path=%s err=%v", r.URL.Path, err)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		ctx = WithIdentity(r.Context(), identity.User(token.UID))
		if email := claimString(token.Claims, "email"); email != "" {
			ctx = context.WithValue(ctx, ctxKeyEmail, email)
		}
		if name := claimString(token.Claims, "name"); name != "" {
			ctx = context.WithValue(ctx, ctxKeyFullName, name)
		}
		if admin, _ := token.Claims["admin"].(bool); admin {
			ctx = WithAdmin(ctx)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose token lacks the admin claim.
// It must run after UserAuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := CurrentUserUID(r); !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !IsAdmin(r) {
			writeJSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
