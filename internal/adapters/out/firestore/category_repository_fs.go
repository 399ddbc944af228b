// internal/adapters/out/firestore/category_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	catdom "storefront/internal/domain/category"
)

// CategoryRepositoryFS implements category.Repository using Firestore.
//
// - collection: categories
// - docId: category id (auto-ID when the caller leaves it empty)
// - fields: name, slug, description, parentId, sortOrder, imageUrl, createdAt, updatedAt
type CategoryRepositoryFS struct {
	Client *firestore.Client
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{Client: client}
}

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("categories")
}

func (r *CategoryRepositoryFS) List(ctx context.Context) ([]catdom.Category, error) {
	if r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	out := make([]catdom.Category, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToCategory(snap))
	}
	return out, nil
}

func (r *CategoryRepositoryFS) GetByID(ctx context.Context, id string) (catdom.Category, error) {
	if r.Client == nil {
		return catdom.Category{}, errors.New("category_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catdom.Category{}, catdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return catdom.Category{}, catdom.ErrNotFound
		}
		return catdom.Category{}, err
	}
	return docToCategory(snap), nil
}

func (r *CategoryRepositoryFS) Create(ctx context.Context, c catdom.Category) (catdom.Category, error) {
	if r.Client == nil {
		return catdom.Category{}, errors.New("category_repository_fs: firestore client is nil")
	}

	var ref *firestore.DocumentRef
	if id := strings.TrimSpace(c.ID); id != "" {
		ref = r.col().Doc(id)
		c.ID = id
	} else {
		ref = r.col().NewDoc()
		c.ID = ref.ID
	}

	if _, err := ref.Create(ctx, categoryToDoc(c)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return catdom.Category{}, catdom.ErrConflict
		}
		return catdom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryFS) Update(ctx context.Context, c catdom.Category) (catdom.Category, error) {
	if r.Client == nil {
		return catdom.Category{}, errors.New("category_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(c.ID)
	if id == "" {
		return catdom.Category{}, catdom.ErrInvalidID
	}

	data := categoryToDoc(c)
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range data {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}

	if _, err := r.col().Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return catdom.Category{}, catdom.ErrNotFound
		}
		return catdom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryFS) Delete(ctx context.Context, id string) error {
	if r.Client == nil {
		return errors.New("category_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catdom.ErrInvalidID
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// ------------------------------
// mapping
// ------------------------------

func docToCategory(snap *firestore.DocumentSnapshot) catdom.Category {
	data := snap.Data()

	c := catdom.Category{
		ID:          snap.Ref.ID,
		Name:        strings.TrimSpace(asString(data["name"])),
		Slug:        strings.TrimSpace(asString(data["slug"])),
		Description: asString(data["description"]),
		ParentID:    strings.TrimSpace(asString(data["parentId"])),
		SortOrder:   asInt(data["sortOrder"]),
		ImageURL:    asString(data["imageUrl"]),
	}
	if t, ok := asTime(data["createdAt"]); ok {
		c.CreatedAt = t.UTC()
	}
	if t, ok := asTime(data["updatedAt"]); ok {
		c.UpdatedAt = t.UTC()
	}
	return c
}

func categoryToDoc(c catdom.Category) map[string]any {
	m := map[string]any{
		"name":        strings.TrimSpace(c.Name),
		"slug":        strings.TrimSpace(c.Slug),
		"description": c.Description,
		"parentId":    strings.TrimSpace(c.ParentID),
		"sortOrder":   int64(c.SortOrder),
		"imageUrl":    c.ImageURL,
	}
	if !c.CreatedAt.IsZero() {
		m["createdAt"] = c.CreatedAt.UTC()
	}
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	m["updatedAt"] = updated.UTC()
	return m
}

// CategoryDoc is exported for the seed command.
func CategoryDoc(c catdom.Category) map[string]any { return categoryToDoc(c) }
