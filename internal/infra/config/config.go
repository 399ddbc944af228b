// internal/infra/config/config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the raw environment settings.
// platform/di/shared.RuntimeSettings parses and validates them once.
type Config struct {
	Port string

	GCPProjectID             string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string
	GCPCreds                 string

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	DatabaseURL     string
	CategoryBackend string

	InvoiceBucket string

	SendGridAPIKey     string
	SendGridSecretName string
	OrderFromEmail     string
	OrderFromName      string
	OrderNotifyEmail   string
	OrderWebhookURL    string
	WhatsAppNumber     string
	ShopName           string
	ShopContact        string

	FreeShippingThreshold string
	FlatShippingCost      string
	Currency              string

	SyncDebounce   string
	SyncEchoWindow string
	SyncTimeout    string
	SessionIdleTTL string

	CORSAllowedOrigin string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] .env not loaded (%v); using process environment", err)
	}

	defaultProject := getenvDefault("GCP_PROJECT_ID", "")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		GCPProjectID:             defaultProject,
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CategoryBackend: getenvDefault("CATEGORY_BACKEND", "firestore"),

		InvoiceBucket: os.Getenv("INVOICE_BUCKET"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),
		OrderFromEmail:     os.Getenv("ORDER_FROM_EMAIL"),
		OrderFromName:      getenvDefault("ORDER_FROM_NAME", "Storefront"),
		OrderNotifyEmail:   os.Getenv("ORDER_NOTIFY_EMAIL"),
		OrderWebhookURL:    os.Getenv("ORDER_WEBHOOK_URL"),
		WhatsAppNumber:     os.Getenv("WHATSAPP_NUMBER"),
		ShopName:           getenvDefault("SHOP_NAME", "Storefront"),
		ShopContact:        os.Getenv("SHOP_CONTACT"),

		FreeShippingThreshold: getenvDefault("FREE_SHIPPING_THRESHOLD", "50"),
		FlatShippingCost:      getenvDefault("FLAT_SHIPPING_COST", "5.99"),
		Currency:              getenvDefault("CURRENCY", "USD"),

		SyncDebounce:   getenvDefault("SYNC_DEBOUNCE", "500ms"),
		SyncEchoWindow: getenvDefault("SYNC_ECHO_WINDOW", "1500ms"),
		SyncTimeout:    getenvDefault("SYNC_TIMEOUT", "10s"),
		SessionIdleTTL: getenvDefault("SESSION_IDLE_TTL", "30m"),

		CORSAllowedOrigin: getenvDefault("CORS_ALLOWED_ORIGIN", "*"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
