// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "storefront/internal/domain/product"
)

// ProductRepositoryFS is a Firestore-based implementation of the product repository.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// List returns the whole catalog; filtering happens in memory.
func (r *ProductRepositoryFS) List(ctx context.Context) ([]productdom.Product, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	out := make([]productdom.Product, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToProduct(snap))
	}
	return out, nil
}

// GetByID returns a single Product by ID
func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return docToProduct(snap), nil
}

// Save = upsert. An empty ID gets a Firestore auto-ID.
func (r *ProductRepositoryFS) Save(ctx context.Context, v productdom.Product) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}

	var docRef *firestore.DocumentRef
	if id := strings.TrimSpace(v.ID); id != "" {
		docRef = r.col().Doc(id)
		v.ID = id
	} else {
		docRef = r.col().NewDoc()
		v.ID = docRef.ID
	}

	if _, err := docRef.Set(ctx, productToDoc(v), firestore.MergeAll); err != nil {
		return productdom.Product{}, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		return productdom.Product{}, err
	}
	return docToProduct(snap), nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r.Client == nil {
		return errors.New("firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.ErrInvalidID
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// ============================================================
// Helpers
// ============================================================

func docToProduct(snap *firestore.DocumentSnapshot) productdom.Product {
	data := snap.Data()

	p := productdom.Product{
		ID:          snap.Ref.ID,
		Name:        strings.TrimSpace(asString(data["name"])),
		Description: asString(data["description"]),
		Price:       asFloat(data["price"]),
		ImageURL:    strings.TrimSpace(asString(data["image"])),
		Images:      asStringSlice(data["images"]),
		CategoryID:  strings.TrimSpace(asString(data["categoryId"])),
		Brand:       asString(data["brand"]),
		Size:        asString(data["size"]),
		Stock:       asInt(data["stock"]),
		Featured:    asBool(data["featured"]),
	}
	if t, ok := asTime(data["createdAt"]); ok {
		p.CreatedAt = t.UTC()
	}
	if t, ok := asTime(data["updatedAt"]); ok {
		p.UpdatedAt = t.UTC()
	}
	return p
}

func productToDoc(v productdom.Product) map[string]any {
	images := make([]any, 0, len(v.Images))
	for _, s := range v.Images {
		if s = strings.TrimSpace(s); s != "" {
			images = append(images, s)
		}
	}

	m := map[string]any{
		"name":        strings.TrimSpace(v.Name),
		"description": v.Description,
		"price":       v.Price,
		"image":       strings.TrimSpace(v.ImageURL),
		"images":      images,
		"categoryId":  strings.TrimSpace(v.CategoryID),
		"brand":       v.Brand,
		"size":        v.Size,
		"stock":       int64(v.Stock),
		"featured":    v.Featured,
	}
	if !v.CreatedAt.IsZero() {
		m["createdAt"] = v.CreatedAt.UTC()
	}
	if !v.UpdatedAt.IsZero() {
		m["updatedAt"] = v.UpdatedAt.UTC()
	}
	return m
}
