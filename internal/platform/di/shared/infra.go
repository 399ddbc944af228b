// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	goredis "github.com/redis/go-redis/v9"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/database"
	redisinfra "storefront/internal/infra/redis"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/FirebaseAuth/GCS/SecretManager/Redis/Postgres)
// - owns env/config-resolved runtime settings
//
// Every client except Postgres (when CATEGORY_BACKEND=postgres) is optional:
// the storefront degrades to guest-only carts and in-memory catalog storage.
type Infra struct {
	// Config
	Config    *appcfg.Config
	ProjectID string
	Settings  RuntimeSettings

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Redis         *goredis.Client
	DB            *database.DB

	// Resolved secrets
	SendGridAPIKey string
}

// NewInfra initializes shared infra.
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	settings, warns, err := ResolveRuntimeSettings(cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range warns {
		log.Printf("[shared.infra] WARN: %s", w)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: resolveProjectID(cfg),
		Settings:  settings,
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds) // GOOGLE_APPLICATION_CREDENTIALS
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Redis (optional; device-scoped guest collections)
	inf.Redis = redisinfra.NewClient(ctx, cfg.RedisURL, cfg.RedisAddr, cfg.RedisPassword)

	// 2) Postgres (required only for the postgres category backend)
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		db, err := database.NewConnection(ctx, dsn)
		if err != nil {
			if settings.CategoryBackend == CategoryBackendPostgres {
				_ = inf.Close()
				return nil, fmt.Errorf("shared.infra: postgres: %w", err)
			}
			log.Printf("[shared.infra] WARN: postgres unavailable: %v", err)
		} else {
			inf.DB = db
		}
	} else if settings.CategoryBackend == CategoryBackendPostgres {
		_ = inf.Close()
		return nil, errors.New("shared.infra: CATEGORY_BACKEND=postgres requires DATABASE_URL")
	}

	if inf.ProjectID == "" {
		log.Printf("[shared.infra] WARN: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID); running without Google Cloud clients")
		return inf, nil
	}

	// 3) Firestore (strict once a project is configured)
	{
		fsClient, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: firestore.NewClient failed (project=%s): %w", inf.ProjectID, err)
		}
		inf.Firestore = fsClient
		log.Printf("[shared.infra] Firestore connected project=%s", inf.ProjectID)
	}

	// 4) GCS (best-effort; invoices only)
	if settings.InvoiceBucket != "" {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: storage.NewClient failed: %v (invoices disabled)", err)
		} else {
			inf.GCS = gcsClient
			log.Printf("[shared.infra] GCS storage client initialized bucket=%s", settings.InvoiceBucket)
		}
	}

	// 5) Firebase App/Auth (best-effort; without it every caller is a guest)
	{
		fbCfg := &firebase.Config{ProjectID: strings.TrimSpace(cfg.FirebaseProjectID)}
		if fbCfg.ProjectID == "" {
			fbCfg.ProjectID = inf.ProjectID
		}
		fbApp, err := firebase.NewApp(ctx, fbCfg, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: firebase app init failed: %v", err)
		} else {
			inf.FirebaseApp = fbApp
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				log.Printf("[shared.infra] WARN: firebase auth init failed: %v", err)
			} else {
				inf.FirebaseAuth = authClient
				log.Printf("[shared.infra] Firebase Auth initialized")
			}
		}
	}

	// 6) SendGrid key: env first, then Secret Manager
	inf.SendGridAPIKey = strings.TrimSpace(cfg.SendGridAPIKey)
	if inf.SendGridAPIKey == "" && strings.TrimSpace(cfg.SendGridSecretName) != "" {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (order emails disabled)", err)
		} else {
			inf.SecretManager = sm
			p := &secretProviderSM{sm: sm, projectID: inf.ProjectID}
			key, err := p.Get(ctx, cfg.SendGridSecretName)
			if err != nil {
				log.Printf("[shared.infra] WARN: sendgrid secret not resolved: %v", err)
			} else {
				inf.SendGridAPIKey = key
			}
		}
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.Firestore != nil {
		errs = append(errs, i.Firestore.Close())
	}
	if i.GCS != nil {
		errs = append(errs, i.GCS.Close())
	}
	if i.SecretManager != nil {
		errs = append(errs, i.SecretManager.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}

func resolveProjectID(cfg *appcfg.Config) string {
	// Priority:
	// 1) cfg.FirestoreProjectID (resolved by config.Load)
	// 2) GOOGLE_CLOUD_PROJECT (often set in Cloud Run)
	// 3) FIREBASE_PROJECT_ID (fallback)
	if cfg != nil {
		if v := strings.TrimSpace(cfg.FirestoreProjectID); v != "" {
			return v
		}
	}
	for _, k := range []string{"GOOGLE_CLOUD_PROJECT", "FIREBASE_PROJECT_ID"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func redactPath(p string) string {
	// keep only the last segment
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
