// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain/identity"
	orderdom "storefront/internal/domain/order"
)

// InvoiceRenderer turns an order into a printable document.
type InvoiceRenderer interface {
	Render(o orderdom.Order) ([]byte, error)
}

// InvoiceStorage stores a rendered invoice and returns a URL to it.
type InvoiceStorage interface {
	Upload(ctx context.Context, orderID string, pdf []byte) (string, error)
}

// OrderNotifier tells the shop (and the customer, when an email is known) about an order.
type OrderNotifier interface {
	NotifyOrder(ctx context.Context, o orderdom.Order, summary string) error
}

// OrderNotifiers fans one order out to every notifier; errors are joined.
type OrderNotifiers []OrderNotifier

func (ns OrderNotifiers) NotifyOrder(ctx context.Context, o orderdom.Order, summary string) error {
	var errs []error
	for _, n := range ns {
		if n == nil {
			continue
		}
		errs = append(errs, n.NotifyOrder(ctx, o, summary))
	}
	return errors.Join(errs...)
}

var ErrCheckoutCartMissing = errors.New("checkout: cart is not available")

// Receipt is what the checkout page gets back.
type Receipt struct {
	Order       orderdom.Order `json:"order"`
	WhatsAppURL string         `json:"whatsappUrl,omitempty"`
	InvoiceURL  string         `json:"invoiceUrl,omitempty"`
}

// CheckoutUsecase places an order from the current cart.
// Only the order itself is required; invoice, storage, repository and
// notification steps are best-effort and may be nil.
type CheckoutUsecase struct {
	orders   orderdom.Repository
	renderer InvoiceRenderer
	storage  InvoiceStorage
	notifier OrderNotifier

	whatsappNumber string
	clock          Clock
	newID          func() string
}

func NewCheckoutUsecase(
	orders orderdom.Repository,
	renderer InvoiceRenderer,
	storage InvoiceStorage,
	notifier OrderNotifier,
	whatsappNumber string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		orders:         orders,
		renderer:       renderer,
		storage:        storage,
		notifier:       notifier,
		whatsappNumber: strings.TrimSpace(whatsappNumber),
		clock:          systemClock{},
		newID:          uuid.NewString,
	}
}

// PlaceOrder snapshots the cart, records the order, and clears the cart.
func (u *CheckoutUsecase) PlaceOrder(
	ctx context.Context,
	cart *CartStore,
	who identity.Identity,
	customer orderdom.Customer,
) (Receipt, error) {
	if cart == nil {
		return Receipt{}, ErrCheckoutCartMissing
	}

	userID := ""
	if who.IsIdentified() {
		userID = who.ID
	}

	// 1. snapshot
	o, err := orderdom.New(u.newID(), userID, customer, cart.Items(), cart.Pricing(), u.clock.Now())
	if err != nil {
		return Receipt{}, err
	}

	// 2. invoice
	if u.renderer != nil && u.storage != nil {
		pdf, err := u.renderer.Render(o)
		if err != nil {
			log.Printf("[CheckoutUsecase] WARN: invoice render failed order=%s err=%v", o.ID, err)
		} else if url, err := u.storage.Upload(ctx, o.ID, pdf); err != nil {
			log.Printf("[CheckoutUsecase] WARN: invoice upload failed order=%s err=%v", o.ID, err)
		} else {
			o.InvoiceURL = url
		}
	}

	// 3. persist
	if u.orders != nil {
		if err := u.orders.Save(ctx, o); err != nil {
			log.Printf("[CheckoutUsecase] WARN: order save failed order=%s err=%v", o.ID, err)
		}
	}

	summary := orderdom.SummaryText(o)

	// 4. notify
	if u.notifier != nil {
		if err := u.notifier.NotifyOrder(ctx, o, summary); err != nil {
			log.Printf("[CheckoutUsecase] WARN: order notification failed order=%s err=%v", o.ID, err)
		}
	}

	// 5. clear
	cart.Clear()

	log.Printf("[CheckoutUsecase] order placed id=%s number=%s lines=%d total=%s user=%q",
		o.ID, o.Number, len(o.Lines), o.Totals.Total.StringFixed(2), userID)

	return Receipt{
		Order:       o,
		WhatsAppURL: orderdom.WhatsAppURL(u.whatsappNumber, summary),
		InvoiceURL:  o.InvoiceURL,
	}, nil
}
