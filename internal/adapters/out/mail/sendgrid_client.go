// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailClient abstracts the transport (SendGrid in production).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

var (
	ErrNoAPIKey  = errors.New("sendgrid: api key is empty")
	ErrNoAddress = errors.New("sendgrid: from/to address is empty")
)

// SendGridClient sends plain-text order mails, tagged with the "order" category.
type SendGridClient struct {
	apiKey   string
	fromName string
	replyTo  string
}

func NewSendGridClient(apiKey, fromName string) *SendGridClient {
	fromName = strings.TrimSpace(fromName)
	if fromName == "" {
		fromName = "Storefront"
	}
	return &SendGridClient{apiKey: strings.TrimSpace(apiKey), fromName: fromName}
}

// WithReplyTo routes customer replies to addr instead of the sender.
func (c *SendGridClient) WithReplyTo(addr string) *SendGridClient {
	c.replyTo = strings.TrimSpace(addr)
	return c
}

func (c *SendGridClient) message(from, to, subject, body string) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(c.fromName, from))
	m.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", to))
	m.AddPersonalizations(p)

	m.AddContent(
		mail.NewContent("text/plain", body),
		mail.NewContent("text/html", "<pre>"+html.EscapeString(body)+"</pre>"),
	)
	m.AddCategories("order")
	if c.replyTo != "" {
		m.SetReplyTo(mail.NewEmail("", c.replyTo))
	}
	return m
}

// Send implements EmailClient.
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return ErrNoAddress
	}

	res, err := sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, c.message(from, to, subject, body))
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	if res.StatusCode >= 400 {
		log.Printf("[sendgrid] WARN: rejected status=%d to=%s body=%s", res.StatusCode, to, res.Body)
		return fmt.Errorf("sendgrid: status=%d", res.StatusCode)
	}

	log.Printf("[sendgrid] sent status=%d to=%s subject=%q", res.StatusCode, to, subject)
	return nil
}
