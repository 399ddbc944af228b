// internal/adapters/out/mail/order_mailer_test.go
package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
)

type sent struct{ to, subject, body string }

type fakeClient struct {
	sent   []sent
	failTo string
}

func (c *fakeClient) Send(_ context.Context, _, to, subject, body string) error {
	if to == c.failTo {
		return errors.New("rejected")
	}
	c.sent = append(c.sent, sent{to, subject, body})
	return nil
}

func sampleOrder(email string) orderdom.Order {
	return orderdom.Order{
		Number:   "ORD-ABCD1234",
		Customer: orderdom.Customer{Name: "Ana", Email: email},
		Totals:   cartdom.Totals{Total: decimal.RequireFromString("45.99"), Currency: "USD"},
	}
}

func TestOrderMailer_ShopAndCustomer(t *testing.T) {
	c := &fakeClient{}
	m := NewOrderMailer(c, "shop@example.com", "orders@example.com")

	if err := m.NotifyOrder(context.Background(), sampleOrder("ana@example.com"), "summary"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(c.sent) != 2 {
		t.Fatalf("sent=%d", len(c.sent))
	}
	if c.sent[0].to != "orders@example.com" || !strings.Contains(c.sent[0].subject, "45.99 USD") {
		t.Fatalf("shop mail=%+v", c.sent[0])
	}
	if c.sent[1].to != "ana@example.com" || !strings.Contains(c.sent[1].body, "summary") {
		t.Fatalf("customer mail=%+v", c.sent[1])
	}
}

func TestOrderMailer_NoCustomerEmail(t *testing.T) {
	c := &fakeClient{}
	m := NewOrderMailer(c, "shop@example.com", "orders@example.com")

	_ = m.NotifyOrder(context.Background(), sampleOrder(""), "summary")
	if len(c.sent) != 1 {
		t.Fatalf("sent=%d", len(c.sent))
	}
}

func TestOrderMailer_ShopFailureStillMailsCustomer(t *testing.T) {
	c := &fakeClient{failTo: "orders@example.com"}
	m := NewOrderMailer(c, "shop@example.com", "orders@example.com")

	err := m.NotifyOrder(context.Background(), sampleOrder("ana@example.com"), "summary")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(c.sent) != 1 || c.sent[0].to != "ana@example.com" {
		t.Fatalf("sent=%+v", c.sent)
	}
}
