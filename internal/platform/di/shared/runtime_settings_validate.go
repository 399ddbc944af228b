// internal/platform/di/shared/runtime_settings_validate.go
package shared

import (
	"fmt"
	"strings"
)

// Validate fails fast on values that would cause undefined behavior,
// while allowing optional features to remain disabled when settings are empty.
func (s RuntimeSettings) Validate() error {
	switch s.CategoryBackend {
	case CategoryBackendFirestore, CategoryBackendPostgres:
	default:
		return fmt.Errorf("shared.runtime_settings: CATEGORY_BACKEND must be %q or %q (got %q)",
			CategoryBackendFirestore, CategoryBackendPostgres, s.CategoryBackend)
	}

	if s.Pricing.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("shared.runtime_settings: FREE_SHIPPING_THRESHOLD is negative")
	}
	if s.Pricing.FlatShippingCost.IsNegative() {
		return fmt.Errorf("shared.runtime_settings: FLAT_SHIPPING_COST is negative")
	}
	if len(s.Pricing.Currency) != 3 {
		return fmt.Errorf("shared.runtime_settings: CURRENCY must be a 3-letter code (got %q)", s.Pricing.Currency)
	}

	for name, d := range map[string]int64{
		"SYNC_DEBOUNCE":    int64(s.Sync.Debounce),
		"SYNC_ECHO_WINDOW": int64(s.Sync.EchoWindow),
		"SYNC_TIMEOUT":     int64(s.Sync.Timeout),
		"SESSION_IDLE_TTL": int64(s.SessionIdleTTL),
	} {
		if d < 0 {
			return fmt.Errorf("shared.runtime_settings: %s is negative", name)
		}
	}

	// GCS bucket names cannot contain spaces.
	if strings.ContainsAny(s.InvoiceBucket, " \t\r\n") {
		return fmt.Errorf("shared.runtime_settings: INVOICE_BUCKET contains whitespace (got %q)", s.InvoiceBucket)
	}

	if u := s.OrderWebhookURL; u != "" && !(strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")) {
		return fmt.Errorf("shared.runtime_settings: ORDER_WEBHOOK_URL must start with http:// or https:// (got %q)", u)
	}

	if o := s.CORSAllowedOrigin; o != "*" && !(strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://")) {
		return fmt.Errorf("shared.runtime_settings: CORS_ALLOWED_ORIGIN must be * or an http(s) origin (got %q)", o)
	}

	return nil
}
