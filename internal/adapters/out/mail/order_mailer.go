// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdom "storefront/internal/domain/order"
)

// OrderMailer sends the order summary to the shop and, when the customer
// left an email address, a copy to the customer.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
	notifyTo    string
}

func NewOrderMailer(client EmailClient, fromAddress, notifyTo string) *OrderMailer {
	return &OrderMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		notifyTo:    strings.TrimSpace(notifyTo),
	}
}

// NotifyOrder implements usecase.OrderNotifier.
// Both messages are attempted; the errors are joined.
func (m *OrderMailer) NotifyOrder(ctx context.Context, o orderdom.Order, summary string) error {
	if m == nil || m.client == nil {
		return errors.New("order_mailer: client is nil")
	}

	var errs []error

	if m.notifyTo != "" {
		subject := fmt.Sprintf("New order %s (%s %s)", o.Number, o.Totals.Total.StringFixed(2), o.Totals.Currency)
		if err := m.client.Send(ctx, m.fromAddress, m.notifyTo, subject, summary); err != nil {
			errs = append(errs, fmt.Errorf("shop notification: %w", err))
		}
	}

	if to := strings.TrimSpace(o.Customer.Email); to != "" {
		subject := fmt.Sprintf("Your order %s", o.Number)
		body := fmt.Sprintf("Hi %s,\n\nThanks for your order. We will confirm it shortly.\n\n%s", o.Customer.Name, summary)
		if err := m.client.Send(ctx, m.fromAddress, to, subject, body); err != nil {
			errs = append(errs, fmt.Errorf("customer copy: %w", err))
		}
	}

	return errors.Join(errs...)
}
