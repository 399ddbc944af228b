// internal/domain/product/entity.go
package product

import (
	"errors"
	"math"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
)

// Product is a catalog entry managed from the back-office.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Size        string    `json:"size,omitempty"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Errors
var (
	ErrNotFound     = errors.New("product: not found")
	ErrConflict     = errors.New("product: conflict")
	ErrInvalidID    = errors.New("product: invalid id")
	ErrInvalidName  = errors.New("product: invalid name")
	ErrInvalidPrice = errors.New("product: invalid price")
	ErrInvalidStock = errors.New("product: invalid stock")
)

// Validate checks a product before it is saved.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool { return p.Stock > 0 }

// Ref snapshots the product for a cart line.
func (p Product) Ref() cartdom.ProductRef {
	image := strings.TrimSpace(p.ImageURL)
	if image == "" && len(p.Images) > 0 {
		image = strings.TrimSpace(p.Images[0])
	}
	return cartdom.ProductRef{
		ID:       strings.TrimSpace(p.ID),
		Name:     strings.TrimSpace(p.Name),
		Price:    p.Price,
		Image:    image,
		Brand:    strings.TrimSpace(p.Brand),
		Category: strings.TrimSpace(p.CategoryID),
		Size:     strings.TrimSpace(p.Size),
	}
}
