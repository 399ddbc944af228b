// internal/adapters/out/db/category_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	catdom "storefront/internal/domain/category"
)

// ========================================
// Repository Implementation (PostgreSQL)
// ========================================
type CategoryRepositoryPG struct {
	DB *sql.DB
}

func NewCategoryRepositoryPG(db *sql.DB) *CategoryRepositoryPG {
	return &CategoryRepositoryPG{DB: db}
}

// Ensure interface implementation
var _ catdom.Repository = (*CategoryRepositoryPG)(nil)

const categorySchema = `
CREATE TABLE IF NOT EXISTS categories (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    slug        TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    parent_id   TEXT NULL,
    sort_order  INTEGER NOT NULL DEFAULT 0,
    image_url   TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the categories table when missing.
func (r *CategoryRepositoryPG) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, categorySchema)
	return err
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, image_url, created_at, updated_at`

// ========================================
// List
// ========================================
func (r *CategoryRepositoryPG) List(ctx context.Context) ([]catdom.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catdom.Category, 0)
	for rows.Next() {
		var c catdom.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ========================================
// GetByID
// ========================================
func (r *CategoryRepositoryPG) GetByID(ctx context.Context, id string) (catdom.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	var out catdom.Category
	if err := scanCategory(r.DB.QueryRowContext(ctx, q, strings.TrimSpace(id)), &out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catdom.Category{}, catdom.ErrNotFound
		}
		return catdom.Category{}, err
	}
	return out, nil
}

// ========================================
// Create
// ========================================
func (r *CategoryRepositoryPG) Create(ctx context.Context, c catdom.Category) (catdom.Category, error) {
	q := `
INSERT INTO categories (` + categoryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + categoryColumns

	id := strings.TrimSpace(c.ID)
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	createdAt, updatedAt := c.CreatedAt, c.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	row := r.DB.QueryRowContext(ctx, q,
		id, strings.TrimSpace(c.Name), c.Slug, c.Description, nullIfEmpty(c.ParentID),
		c.SortOrder, c.ImageURL, createdAt.UTC(), updatedAt.UTC(),
	)

	var out catdom.Category
	if err := scanCategory(row, &out); err != nil {
		if isUniqueViolation(err) {
			return catdom.Category{}, catdom.ErrConflict
		}
		return catdom.Category{}, err
	}
	return out, nil
}

// ========================================
// Update (full row)
// ========================================
func (r *CategoryRepositoryPG) Update(ctx context.Context, c catdom.Category) (catdom.Category, error) {
	q := `
UPDATE categories SET
    name = $2, slug = $3, description = $4, parent_id = $5,
    sort_order = $6, image_url = $7, updated_at = $8
WHERE id = $1
RETURNING ` + categoryColumns

	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	row := r.DB.QueryRowContext(ctx, q,
		strings.TrimSpace(c.ID), strings.TrimSpace(c.Name), c.Slug, c.Description,
		nullIfEmpty(c.ParentID), c.SortOrder, c.ImageURL, updatedAt.UTC(),
	)

	var out catdom.Category
	if err := scanCategory(row, &out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catdom.Category{}, catdom.ErrNotFound
		}
		return catdom.Category{}, err
	}
	return out, nil
}

// ========================================
// Delete
// ========================================
func (r *CategoryRepositoryPG) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, strings.TrimSpace(id))
	return err
}

// DeleteMany removes ids in one statement (used by the seed reset).
func (r *CategoryRepositoryPG) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ========================================
// Helpers
// ========================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(s rowScanner, c *catdom.Category) error {
	var parentID sql.NullString
	if err := s.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &parentID,
		&c.SortOrder, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return err
	}
	c.ParentID = ""
	if parentID.Valid {
		c.ParentID = parentID.String
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.TrimSpace(s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
