// internal/platform/di/shared/runtime_settings_test.go
package shared

import (
	"strings"
	"testing"
	"time"

	appcfg "storefront/internal/infra/config"
)

func baseConfig() *appcfg.Config {
	return &appcfg.Config{
		CategoryBackend:       "Firestore",
		FreeShippingThreshold: "50",
		FlatShippingCost:      "5.99",
		Currency:              "usd",
		SyncDebounce:          "500ms",
		SyncEchoWindow:        "1500ms",
		SyncTimeout:           "10s",
		SessionIdleTTL:        "30s",
		CORSAllowedOrigin:     "https://shop.example.com",
		InvoiceBucket:         "shop-invoices",
		OrderFromEmail:        "shop@example.com",
		OrderNotifyEmail:      "owner@example.com",
		WhatsAppNumber:        "+1 555 0199",
	}
}

func TestResolveRuntimeSettings(t *testing.T) {
	s, warns, err := ResolveRuntimeSettings(baseConfig())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if s.CategoryBackend != CategoryBackendFirestore || s.Pricing.Currency != "USD" {
		t.Fatalf("not normalized: %+v", s)
	}
	if s.Pricing.FlatShippingCost.String() != "5.99" || s.Sync.EchoWindow != 1500*time.Millisecond {
		t.Fatalf("unexpected values: %+v", s)
	}
	if s.SweepInterval != 30*time.Second {
		t.Fatalf("sweep interval must not exceed the idle ttl: %s", s.SweepInterval)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestResolveRuntimeSettings_BadValues(t *testing.T) {
	cfg := baseConfig()
	cfg.SyncDebounce = "soon"
	if _, _, err := ResolveRuntimeSettings(cfg); err == nil || !strings.Contains(err.Error(), "SYNC_DEBOUNCE") {
		t.Fatalf("expected SYNC_DEBOUNCE error, got %v", err)
	}

	cfg = baseConfig()
	cfg.FlatShippingCost = "free"
	if _, _, err := ResolveRuntimeSettings(cfg); err == nil {
		t.Fatalf("expected FLAT_SHIPPING_COST error")
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *appcfg.Config){
		"backend":  func(c *appcfg.Config) { c.CategoryBackend = "mysql" },
		"currency": func(c *appcfg.Config) { c.Currency = "dollars" },
		"negative": func(c *appcfg.Config) { c.FlatShippingCost = "-1" },
		"bucket":   func(c *appcfg.Config) { c.InvoiceBucket = "my bucket" },
		"origin":   func(c *appcfg.Config) { c.CORSAllowedOrigin = "shop.example.com" },
	}
	for name, mutate := range cases {
		cfg := baseConfig()
		mutate(cfg)
		s, _, err := ResolveRuntimeSettings(cfg)
		if err != nil {
			t.Fatalf("%s: resolve: %v", name, err)
		}
		if err := s.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
