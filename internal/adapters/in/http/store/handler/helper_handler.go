// internal/adapters/in/http/store/handler/helper_handler.go
package storeHandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/session"
	catdom "storefront/internal/domain/category"
	"storefront/internal/domain/identity"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

const maxBodyBytes = 1 << 20

// SessionResolver hands out the caller's device session.
type SessionResolver interface {
	Resolve(ctx context.Context, deviceID string, id identity.Identity) (*session.Session, error)
}

// resolveSession binds the request's device and identity to a session.
// It writes the error response itself and returns nil on failure.
func resolveSession(w http.ResponseWriter, r *http.Request, sessions SessionResolver) *session.Session {
	if sessions == nil {
		writeErr(w, http.StatusServiceUnavailable, "sessions are not configured")
		return nil
	}
	deviceID, _ := middleware.CurrentDeviceID(r)
	s, err := sessions.Resolve(r.Context(), deviceID, middleware.CurrentIdentity(r))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return nil
	}
	return s
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "not found")
}

// readJSON decodes a size-limited body. An empty body is an error.
func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, catdom.ErrNotFound),
		errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catdom.ErrConflict),
		errors.Is(err, productdom.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, catdom.ErrInvalidID),
		errors.Is(err, catdom.ErrInvalidName),
		errors.Is(err, catdom.ErrInvalidParent),
		errors.Is(err, catdom.ErrCycle),
		errors.Is(err, productdom.ErrInvalidID),
		errors.Is(err, productdom.ErrInvalidName),
		errors.Is(err, productdom.ErrInvalidPrice),
		errors.Is(err, productdom.ErrInvalidStock),
		errors.Is(err, orderdom.ErrEmptyCart),
		errors.Is(err, orderdom.ErrInvalidCustomer),
		errors.Is(err, session.ErrInvalidDeviceID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainErr hides internal error text behind a generic message.
func writeDomainErr(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		writeErr(w, code, "internal error")
		return
	}
	writeErr(w, code, err.Error())
}

// cleanPath trims the trailing slash; "" becomes "/".
func cleanPath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// pathID returns the segment after prefix, e.g. "/store/products/" + "abc".
// rest holds whatever follows the id ("" or "/path").
func pathID(path, prefix string) (id, rest string) {
	s := strings.TrimPrefix(path, prefix)
	if s == path {
		return "", ""
	}
	s = strings.TrimPrefix(s, "/")
	if i := strings.Index(s, "/"); i >= 0 {
		return strings.TrimSpace(s[:i]), s[i:]
	}
	return strings.TrimSpace(s), ""
}
