// internal/domain/category/entity.go
package category

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Category is one node of the catalog tree.
// ParentID == "" means a root category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	SortOrder   int       `json:"sort_order"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Errors
var (
	ErrNotFound      = errors.New("category: not found")
	ErrConflict      = errors.New("category: conflict")
	ErrInvalidID     = errors.New("category: invalid id")
	ErrInvalidName   = errors.New("category: invalid name")
	ErrInvalidParent = errors.New("category: invalid parent")
	ErrCycle         = errors.New("category: parent chain contains a cycle")
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// New builds a validated category. Slug is derived from name when empty.
func New(id, name, slug, description, parentID string, sortOrder int, imageURL string, now time.Time) (Category, error) {
	now = now.UTC()
	c := Category{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
		ParentID:    strings.TrimSpace(parentID),
		SortOrder:   sortOrder,
		ImageURL:    strings.TrimSpace(imageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Validate checks the fields that do not need the rest of the tree.
// ID may be empty before the repository assigns one.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}
	if c.ID != "" && c.ParentID == c.ID {
		return ErrInvalidParent
	}
	return nil
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool { return strings.TrimSpace(c.ParentID) == "" }

// Slugify lowercases s and joins alphanumeric runs with '-'.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// Apply returns c with the patch applied.
func (p Patch) Apply(c Category, now time.Time) Category {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Slug != nil {
		c.Slug = strings.TrimSpace(*p.Slug)
	}
	if p.Description != nil {
		c.Description = strings.TrimSpace(*p.Description)
	}
	if p.ParentID != nil {
		c.ParentID = strings.TrimSpace(*p.ParentID)
	}
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
	if p.ImageURL != nil {
		c.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	c.UpdatedAt = now.UTC()
	return c
}
