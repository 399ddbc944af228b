// internal/adapters/out/http/order_webhook_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	orderdom "storefront/internal/domain/order"
)

// OrderWebhookClient posts placed orders to an external fulfilment endpoint.
type OrderWebhookClient struct {
	url    string
	client *http.Client
}

type OrderWebhookPayload struct {
	Event   string         `json:"event"`
	Order   orderdom.Order `json:"order"`
	Summary string         `json:"summary"`
}

func NewOrderWebhookClient(url string) *OrderWebhookClient {
	return &OrderWebhookClient{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// NotifyOrder implements usecase.OrderNotifier. Any 2xx is success.
func (c *OrderWebhookClient) NotifyOrder(ctx context.Context, o orderdom.Order, summary string) error {
	if c == nil {
		return fmt.Errorf("order webhook client is nil")
	}
	if c.url == "" {
		return fmt.Errorf("order webhook url is empty")
	}

	b, err := json.Marshal(OrderWebhookPayload{Event: "order.placed", Order: o, Summary: summary})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Storefront-Event", "order.placed")
	req.Header.Set("Idempotency-Key", o.ID)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	return fmt.Errorf("order webhook failed status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
}
