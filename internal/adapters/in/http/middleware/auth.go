// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"storefront/internal/domain/identity"
)

// FirebaseAuthClient is the firebase auth client; DI hands it over as *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// TokenVerifier is the part of FirebaseAuthClient the middleware needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// typed context keys (SA1029)
type ctxKey struct{ name string }

var (
	ctxKeyIdentity = ctxKey{name: "identity"}
	ctxKeyEmail    = ctxKey{name: "email"}
	ctxKeyFullName = ctxKey{name: "fullName"}
	ctxKeyAdmin    = ctxKey{name: "admin"}
	ctxKeyDeviceID = ctxKey{name: "deviceId"}
)

// bearerToken returns the token of "Authorization: Bearer <token>", or "".
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

// CurrentIdentity returns the identity resolved by OptionalUserAuth (guest if none).
func CurrentIdentity(r *http.Request) identity.Identity {
	if v, ok := r.Context().Value(ctxKeyIdentity).(identity.Identity); ok {
		return v
	}
	return identity.Guest()
}

// CurrentUserUID returns the verified uid, if any.
func CurrentUserUID(r *http.Request) (string, bool) {
	id := CurrentIdentity(r)
	if !id.IsIdentified() {
		return "", false
	}
	return id.ID, true
}

// CurrentUserEmail returns the email claim, if any.
func CurrentUserEmail(r *http.Request) (string, bool) {
	v, ok := r.Context().Value(ctxKeyEmail).(string)
	return v, ok && v != ""
}

// CurrentUserFullName returns the name claim, if any.
func CurrentUserFullName(r *http.Request) (string, bool) {
	v, ok := r.Context().Value(ctxKeyFullName).(string)
	return v, ok && v != ""
}

// IsAdmin reports whether the verified token carries admin=true.
func IsAdmin(r *http.Request) bool {
	v, _ := r.Context().Value(ctxKeyAdmin).(bool)
	return v
}

// WithIdentity stores id in ctx. Used by tests and by OptionalUserAuth.
func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// WithAdmin marks ctx as carrying an admin token.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyAdmin, true)
}

func claimString(claims map[string]interface{}, key string) string {
	if claims == nil {
		return ""
	}
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}
