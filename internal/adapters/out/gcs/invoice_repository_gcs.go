// internal/adapters/out/gcs/invoice_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// InvoiceRepositoryGCS stores order invoices as "invoices/{orderId}.pdf".
// Objects are write-once: a second upload for the same order keeps the first.
type InvoiceRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewInvoiceRepositoryGCS(client *storage.Client, bucket string) *InvoiceRepositoryGCS {
	return &InvoiceRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
	}
}

func invoiceObjectPath(orderID string) string {
	id := sanitizePathSegment(orderID)
	if id == "" {
		return ""
	}
	return "invoices/" + id + ".pdf"
}

// Upload writes pdf and returns its public URL.
func (r *InvoiceRepositoryGCS) Upload(ctx context.Context, orderID string, pdf []byte) (string, error) {
	if r.Client == nil {
		return "", errors.New("InvoiceRepositoryGCS: nil storage client")
	}
	if r.Bucket == "" {
		return "", errors.New("InvoiceRepositoryGCS: bucket is empty")
	}
	obj := invoiceObjectPath(orderID)
	if obj == "" {
		return "", errors.New("InvoiceRepositoryGCS: orderID is empty")
	}
	if len(pdf) == 0 {
		return "", errors.New("InvoiceRepositoryGCS: pdf is empty")
	}

	oh := r.Client.Bucket(r.Bucket).Object(obj).If(storage.Conditions{DoesNotExist: true})
	w := oh.NewWriter(ctx)
	w.ContentType = "application/pdf"
	w.ContentDisposition = `inline; filename="` + sanitizePathSegment(orderID) + `.pdf"`
	w.CacheControl = "private, max-age=0"

	if _, err := w.Write(pdf); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if !errors.As(err, &gerr) || gerr.Code != 412 {
			return "", err
		}
	}
	return gcsPublicURL(r.Bucket, obj), nil
}
