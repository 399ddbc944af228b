// internal/application/usecase/checkout_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/identity"
	orderdom "storefront/internal/domain/order"
)

type memOrderRepo struct {
	saved []orderdom.Order
	err   error
}

func (r *memOrderRepo) Save(_ context.Context, o orderdom.Order) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, o)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	for _, o := range r.saved {
		if o.ID == id {
			return o, nil
		}
	}
	return orderdom.Order{}, orderdom.ErrNotFound
}

type stubRenderer struct{ calls int }

func (r *stubRenderer) Render(orderdom.Order) ([]byte, error) {
	r.calls++
	return []byte("%PDF-1.3"), nil
}

type stubStorage struct {
	err  error
	keys []string
}

func (s *stubStorage) Upload(_ context.Context, orderID string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, orderID)
	return "https://storage.googleapis.com/invoices/" + orderID + ".pdf", nil
}

type stubNotifier struct{ summaries []string }

func (n *stubNotifier) NotifyOrder(_ context.Context, _ orderdom.Order, summary string) error {
	n.summaries = append(n.summaries, summary)
	return nil
}

func customer() orderdom.Customer {
	return orderdom.Customer{Name: "Ana", Phone: "+1 555 0100", Address: "1 Main St"}
}

func newCheckout(orders orderdom.Repository, storage InvoiceStorage, notifier OrderNotifier) *CheckoutUsecase {
	uc := NewCheckoutUsecase(orders, &stubRenderer{}, storage, notifier, "+1 (555) 0199")
	uc.clock = fixedClock{time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	uc.newID = func() string { return "3f2a9c1e-0000-4000-8000-000000000000" }
	return uc
}

func TestCheckout_PlaceOrderClearsCart(t *testing.T) {
	f := newStoreFixture()
	f.setIdentity(identity.Guest())
	f.cart.Add(product("A", 20))
	f.cart.Add(product("A", 20))
	f.cart.Add(product("B", 15))

	orders := &memOrderRepo{}
	storage := &stubStorage{}
	notifier := &stubNotifier{}
	uc := newCheckout(orders, storage, notifier)

	rec, err := uc.PlaceOrder(context.Background(), f.cart, identity.Guest(), customer())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if rec.Order.Number != "ORD-3F2A9C1E" {
		t.Fatalf("number=%s", rec.Order.Number)
	}
	if rec.Order.Totals.Total.StringFixed(2) != "55.00" || !rec.Order.Totals.FreeShipping {
		t.Fatalf("totals=%+v", rec.Order.Totals)
	}
	if !strings.HasPrefix(rec.WhatsAppURL, "https://wa.me/15550199?text=") {
		t.Fatalf("whatsapp=%s", rec.WhatsAppURL)
	}
	if rec.InvoiceURL == "" || len(storage.keys) != 1 {
		t.Fatalf("invoice not uploaded: %q", rec.InvoiceURL)
	}
	if len(orders.saved) != 1 || orders.saved[0].InvoiceURL != rec.InvoiceURL {
		t.Fatalf("order not saved with invoice url")
	}
	if len(notifier.summaries) != 1 || !strings.Contains(notifier.summaries[0], "ORD-3F2A9C1E") {
		t.Fatalf("notifier=%v", notifier.summaries)
	}
	if n := len(f.cart.Items()); n != 0 {
		t.Fatalf("cart not cleared: %d", n)
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	f := newStoreFixture()
	f.setIdentity(identity.Guest())
	uc := newCheckout(&memOrderRepo{}, &stubStorage{}, nil)

	if _, err := uc.PlaceOrder(context.Background(), f.cart, identity.Guest(), customer()); !errors.Is(err, orderdom.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_InvalidCustomerKeepsCart(t *testing.T) {
	f := newStoreFixture()
	f.setIdentity(identity.Guest())
	f.cart.Add(product("A", 20))
	uc := newCheckout(&memOrderRepo{}, &stubStorage{}, nil)

	_, err := uc.PlaceOrder(context.Background(), f.cart, identity.Guest(), orderdom.Customer{Name: "Ana"})
	if !errors.Is(err, orderdom.ErrInvalidCustomer) {
		t.Fatalf("expected ErrInvalidCustomer, got %v", err)
	}
	if len(f.cart.Items()) != 1 {
		t.Fatalf("cart must be kept on failure")
	}
}

func TestCheckout_BestEffortStepsDoNotFail(t *testing.T) {
	f := newStoreFixture()
	user := identity.User("u1")
	f.setIdentity(user)
	f.cart.Add(product("A", 20))

	orders := &memOrderRepo{err: errors.New("firestore down")}
	uc := newCheckout(orders, &stubStorage{err: errors.New("gcs down")}, nil)

	rec, err := uc.PlaceOrder(context.Background(), f.cart, user, customer())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.InvoiceURL != "" {
		t.Fatalf("invoice url should be empty when upload fails")
	}
	if rec.Order.UserID != "u1" {
		t.Fatalf("user id=%q", rec.Order.UserID)
	}
}

type failingNotifier struct{}

func (failingNotifier) NotifyOrder(context.Context, orderdom.Order, string) error {
	return errors.New("smtp down")
}

func TestOrderNotifiers_FanOutAndJoin(t *testing.T) {
	ok := &stubNotifier{}
	ns := OrderNotifiers{failingNotifier{}, nil, ok}

	err := ns.NotifyOrder(context.Background(), orderdom.Order{ID: "o-1"}, "summary")
	if err == nil || !strings.Contains(err.Error(), "smtp down") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.summaries) != 1 {
		t.Fatalf("later notifiers must still run: %v", ok.summaries)
	}
	if err := (OrderNotifiers{ok}).NotifyOrder(context.Background(), orderdom.Order{}, "x"); err != nil {
		t.Fatalf("all ok must be nil: %v", err)
	}
}
