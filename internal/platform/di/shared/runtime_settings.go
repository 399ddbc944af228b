// internal/platform/di/shared/runtime_settings.go
package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/application/syncstore"
	cartdom "storefront/internal/domain/cart"
	appcfg "storefront/internal/infra/config"
)

const (
	CategoryBackendFirestore = "firestore"
	CategoryBackendPostgres  = "postgres"

	defaultSweepInterval = time.Minute
)

// RuntimeSettings is env/config-resolved runtime settings (normalized once).
// It contains only values (no external clients).
type RuntimeSettings struct {
	Pricing cartdom.PricingPolicy
	Sync    syncstore.Options

	SessionIdleTTL time.Duration
	SweepInterval  time.Duration

	CategoryBackend string
	InvoiceBucket   string

	OrderFromEmail   string
	OrderFromName    string
	OrderNotifyEmail string
	OrderWebhookURL  string
	WhatsAppNumber   string
	ShopName         string
	ShopContact      string

	CORSAllowedOrigin string
}

// ResolveRuntimeSettings parses cfg. Unparseable values are errors;
// missing optional features come back as warnings.
func ResolveRuntimeSettings(cfg *appcfg.Config) (RuntimeSettings, []string, error) {
	if cfg == nil {
		return RuntimeSettings{}, nil, errors.New("shared.runtime_settings: cfg is nil")
	}

	var warns []string
	var s RuntimeSettings
	var err error

	// pricing
	threshold, err := decimal.NewFromString(strings.TrimSpace(cfg.FreeShippingThreshold))
	if err != nil {
		return s, nil, fmt.Errorf("shared.runtime_settings: FREE_SHIPPING_THRESHOLD: %w", err)
	}
	flat, err := decimal.NewFromString(strings.TrimSpace(cfg.FlatShippingCost))
	if err != nil {
		return s, nil, fmt.Errorf("shared.runtime_settings: FLAT_SHIPPING_COST: %w", err)
	}
	s.Pricing = cartdom.PricingPolicy{
		FreeShippingThreshold: threshold,
		FlatShippingCost:      flat,
		Currency:              strings.ToUpper(strings.TrimSpace(cfg.Currency)),
	}

	// sync timings
	if s.Sync.Debounce, err = parseDuration("SYNC_DEBOUNCE", cfg.SyncDebounce); err != nil {
		return s, nil, err
	}
	if s.Sync.EchoWindow, err = parseDuration("SYNC_ECHO_WINDOW", cfg.SyncEchoWindow); err != nil {
		return s, nil, err
	}
	if s.Sync.Timeout, err = parseDuration("SYNC_TIMEOUT", cfg.SyncTimeout); err != nil {
		return s, nil, err
	}
	if s.SessionIdleTTL, err = parseDuration("SESSION_IDLE_TTL", cfg.SessionIdleTTL); err != nil {
		return s, nil, err
	}
	s.SweepInterval = defaultSweepInterval
	if s.SessionIdleTTL > 0 && s.SessionIdleTTL < s.SweepInterval {
		s.SweepInterval = s.SessionIdleTTL
	}

	s.CategoryBackend = strings.ToLower(strings.TrimSpace(cfg.CategoryBackend))
	if s.CategoryBackend == "" {
		s.CategoryBackend = CategoryBackendFirestore
	}

	s.InvoiceBucket = strings.TrimSpace(cfg.InvoiceBucket)
	if s.InvoiceBucket == "" {
		warns = append(warns, "INVOICE_BUCKET is empty (invoices will not be stored)")
	}

	s.OrderFromEmail = strings.TrimSpace(cfg.OrderFromEmail)
	s.OrderFromName = strings.TrimSpace(cfg.OrderFromName)
	s.OrderNotifyEmail = strings.TrimSpace(cfg.OrderNotifyEmail)
	if s.OrderFromEmail == "" || s.OrderNotifyEmail == "" {
		warns = append(warns, "ORDER_FROM_EMAIL/ORDER_NOTIFY_EMAIL is empty (order emails disabled)")
	}
	s.OrderWebhookURL = strings.TrimSpace(cfg.OrderWebhookURL)
	s.WhatsAppNumber = strings.TrimSpace(cfg.WhatsAppNumber)
	if s.WhatsAppNumber == "" {
		warns = append(warns, "WHATSAPP_NUMBER is empty (checkout returns no WhatsApp link)")
	}
	s.ShopName = strings.TrimSpace(cfg.ShopName)
	s.ShopContact = strings.TrimSpace(cfg.ShopContact)

	s.CORSAllowedOrigin = strings.TrimSpace(cfg.CORSAllowedOrigin)
	if s.CORSAllowedOrigin == "" {
		s.CORSAllowedOrigin = "*"
	}
	if s.CORSAllowedOrigin == "*" {
		warns = append(warns, "CORS_ALLOWED_ORIGIN is * (development only)")
	}

	return s, warns, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("shared.runtime_settings: %s: %w", key, err)
	}
	return d, nil
}
