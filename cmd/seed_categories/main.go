// cmd/seed_categories/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	dbout "storefront/internal/adapters/out/db"
	fs "storefront/internal/adapters/out/firestore"
	catdom "storefront/internal/domain/category"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/database"
	firestoreinfra "storefront/internal/infra/firestore"
)

func main() {
	backend := flag.String("backend", "", "firestore or postgres (default: CATEGORY_BACKEND)")
	reset := flag.Bool("reset", false, "postgres only: delete the default tree rows before seeding")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := appcfg.Load()
	if *backend == "" {
		*backend = cfg.CategoryBackend
	}

	tree := catdom.DefaultTree(time.Now())

	switch strings.ToLower(strings.TrimSpace(*backend)) {
	case "postgres":
		seedPostgres(ctx, cfg.DatabaseURL, tree, *reset)
	default:
		seedFirestore(ctx, cfg, tree)
	}
}

func seedFirestore(ctx context.Context, cfg *appcfg.Config, tree []catdom.Category) {
	projectID := strings.TrimSpace(cfg.FirestoreProjectID)
	if projectID == "" {
		log.Fatalf("FIRESTORE_PROJECT_ID or GCP_PROJECT_ID is required")
	}

	cw, err := firestoreinfra.NewClient(ctx, projectID, strings.TrimSpace(cfg.FirestoreCredentialsFile))
	if err != nil {
		log.Fatalf("firestore: %v", err)
	}
	defer cw.Close()

	col := cw.Client.Collection("categories")
	batch := cw.Client.Batch()
	for _, c := range tree {
		// the tree id doubles as the doc id so re-running is idempotent
		batch.Set(col.Doc(c.ID), fs.CategoryDoc(c), firestore.MergeAll)
	}

	if _, err := batch.Commit(ctx); err != nil {
		log.Fatalf("batch.Commit: %v", err)
	}
	log.Printf("categories seeded (firestore project=%s count=%d)", projectID, len(tree))
}

func seedPostgres(ctx context.Context, dsn string, tree []catdom.Category, reset bool) {
	if strings.TrimSpace(dsn) == "" {
		log.Fatalf("DATABASE_URL is required for the postgres backend")
	}
	db, err := database.NewConnection(ctx, dsn)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	repo := dbout.NewCategoryRepositoryPG(db.Client)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	if reset {
		ids := make([]string, 0, len(tree))
		for _, c := range tree {
			ids = append(ids, c.ID)
		}
		n, err := repo.DeleteMany(ctx, ids)
		if err != nil {
			log.Fatalf("reset: %v", err)
		}
		log.Printf("reset removed=%d", n)
	}

	created, skipped := 0, 0
	for _, c := range tree {
		if _, err := repo.Create(ctx, c); err != nil {
			if errors.Is(err, catdom.ErrConflict) {
				skipped++
				continue
			}
			log.Fatalf("create %s: %v", c.ID, err)
		}
		created++
	}
	log.Printf("categories seeded (postgres created=%d existing=%d)", created, skipped)
}
