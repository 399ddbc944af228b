// internal/adapters/in/http/middleware/device_id.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DeviceIDHeader = "X-Device-Id"
	DeviceIDCookie = "sf_device"

	maxDeviceIDLen  = 128
	deviceCookieTTL = 365 * 24 * time.Hour
)

// DeviceID resolves the caller's device id from the X-Device-Id header or the
// device cookie. A request with neither gets a fresh id, returned both as a
// cookie and as a response header.
func DeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		id := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
		if id == "" {
			if c, err := r.Cookie(DeviceIDCookie); err == nil {
				id = strings.TrimSpace(c.Value)
			}
		}
		if len(id) > maxDeviceIDLen {
			writeJSONError(w, http.StatusBadRequest, "invalid device id")
			return
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     DeviceIDCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(deviceCookieTTL / time.Second),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(DeviceIDHeader, id)

		next.ServeHTTP(w, r.WithContext(WithDeviceID(r.Context(), id)))
	})
}

// WithDeviceID stores id in ctx.
func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyDeviceID, id)
}

// CurrentDeviceID returns the id resolved by DeviceID.
func CurrentDeviceID(r *http.Request) (string, bool) {
	v, ok := r.Context().Value(ctxKeyDeviceID).(string)
	return v, ok && v != ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
