// internal/platform/di/store/container.go
package store

import (
	"context"
	"errors"
	"log"
	"time"

	dbout "storefront/internal/adapters/out/db"
	fs "storefront/internal/adapters/out/firestore"
	gcsout "storefront/internal/adapters/out/gcs"
	httpout "storefront/internal/adapters/out/http"
	"storefront/internal/adapters/out/invoice"
	"storefront/internal/adapters/out/mail"
	"storefront/internal/adapters/out/memory"
	redisout "storefront/internal/adapters/out/redis"
	"storefront/internal/application/session"
	"storefront/internal/application/syncstore"
	usecase "storefront/internal/application/usecase"
	catdom "storefront/internal/domain/category"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
	shared "storefront/internal/platform/di/shared"
)

// Container holds the storefront's wired usecases and the session registry.
type Container struct {
	Infra *shared.Infra

	Registry   *session.Registry
	Categories *usecase.CategoryUsecase
	Products   *usecase.ProductUsecase
	Checkout   *usecase.CheckoutUsecase

	// UserDocs is nil when Firestore is not configured.
	UserDocs *fs.UserDocumentStoreFS

	stopSweeper context.CancelFunc
}

// NewContainer wires every storefront dependency from infra.
// Missing optional infra degrades the feature instead of failing boot.
func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("di.store: infra is nil")
	}
	settings := infra.Settings
	c := &Container{Infra: infra}

	// ------------------------------------------------------------
	// Collections (cart / wishlist)
	// ------------------------------------------------------------
	var local session.LocalStoreFactory
	if infra.Redis != nil {
		local = redisout.NewLocalStoreRedis(infra.Redis, "storefront", redisout.DefaultTTL).ForDevice
		log.Printf("[di.store] local store = redis")
	} else {
		local = memory.NewLocalStoreMemory().ForDevice
		log.Printf("[di.store] WARN: local store = memory (guest carts are lost on restart)")
	}

	// a nil RemoteStore keeps every session in guest mode
	var remote syncstore.RemoteStore
	if infra.Firestore != nil {
		c.UserDocs = fs.NewUserDocumentStoreFS(infra.Firestore)
		remote = c.UserDocs
	} else {
		log.Printf("[di.store] WARN: remote store disabled (signed-in users keep guest carts)")
	}

	c.Registry = session.NewRegistry(session.Config{
		Local:   local,
		Remote:  remote,
		Pricing: settings.Pricing,
		Sync:    settings.Sync,
	})

	// ------------------------------------------------------------
	// Catalog
	// ------------------------------------------------------------
	catRepo, err := categoryRepository(ctx, infra)
	if err != nil {
		return nil, err
	}
	c.Categories = usecase.NewCategoryUsecase(catRepo)

	var productRepo productdom.Repository
	if infra.Firestore != nil {
		productRepo = fs.NewProductRepositoryFS(infra.Firestore)
	} else {
		productRepo = memory.NewProductRepositoryMemory()
		log.Printf("[di.store] WARN: product repository = memory")
	}
	c.Products = usecase.NewProductUsecase(productRepo, c.Categories)

	// ------------------------------------------------------------
	// Checkout
	// ------------------------------------------------------------
	var orderRepo orderdom.Repository
	if infra.Firestore != nil {
		orderRepo = fs.NewOrderRepositoryFS(infra.Firestore)
	} else {
		orderRepo = memory.NewOrderRepositoryMemory()
		log.Printf("[di.store] WARN: order repository = memory")
	}

	var invoices usecase.InvoiceStorage
	if infra.GCS != nil && settings.InvoiceBucket != "" {
		invoices = gcsout.NewInvoiceRepositoryGCS(infra.GCS, settings.InvoiceBucket)
	}

	var notifiers usecase.OrderNotifiers
	if infra.SendGridAPIKey != "" && settings.OrderFromEmail != "" {
		client := mail.NewSendGridClient(infra.SendGridAPIKey, settings.OrderFromName).WithReplyTo(settings.OrderNotifyEmail)
		notifiers = append(notifiers, mail.NewOrderMailer(client, settings.OrderFromEmail, settings.OrderNotifyEmail))
		log.Printf("[di.store] order emails enabled notify=%s", settings.OrderNotifyEmail)
	}
	if settings.OrderWebhookURL != "" {
		notifiers = append(notifiers, httpout.NewOrderWebhookClient(settings.OrderWebhookURL))
		log.Printf("[di.store] order webhook enabled")
	}
	var notifier usecase.OrderNotifier
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	c.Checkout = usecase.NewCheckoutUsecase(
		orderRepo,
		invoice.NewPDFRenderer(settings.ShopName, settings.ShopContact),
		invoices,
		notifier,
		settings.WhatsAppNumber,
	)

	// ------------------------------------------------------------
	// Session sweeper
	// ------------------------------------------------------------
	sweepCtx, cancel := context.WithCancel(context.Background())
	c.stopSweeper = cancel
	go c.Registry.RunSweeper(sweepCtx, settings.SweepInterval, settings.SessionIdleTTL)

	return c, nil
}

func categoryRepository(ctx context.Context, infra *shared.Infra) (catdom.Repository, error) {
	switch infra.Settings.CategoryBackend {
	case shared.CategoryBackendPostgres:
		if infra.DB == nil || infra.DB.Client == nil {
			return nil, errors.New("di.store: CATEGORY_BACKEND=postgres but no database connection")
		}
		repo := dbout.NewCategoryRepositoryPG(infra.DB.Client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Printf("[di.store] category repository = postgres")
		return repo, nil
	default:
		if infra.Firestore != nil {
			log.Printf("[di.store] category repository = firestore")
			return fs.NewCategoryRepositoryFS(infra.Firestore), nil
		}
		log.Printf("[di.store] WARN: category repository = memory (default tree)")
		return memory.NewCategoryRepositoryMemory(catdom.DefaultTree(time.Now())...), nil
	}
}

// Close stops the sweeper and flushes every live session.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopSweeper != nil {
		c.stopSweeper()
	}
	if c.Registry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Registry.Close(ctx)
	}
	return nil
}
