// internal/application/usecase/category_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	catdom "storefront/internal/domain/category"
)

// CategoryUsecase serves the category tree. The tree is small, so every
// query loads the full list and walks it in memory.
type CategoryUsecase struct {
	repo  catdom.Repository
	clock Clock
}

func NewCategoryUsecase(repo catdom.Repository) *CategoryUsecase {
	return &CategoryUsecase{repo: repo, clock: systemClock{}}
}

// NewCategoryUsecaseWithClock is useful for tests.
func NewCategoryUsecaseWithClock(repo catdom.Repository, clock Clock) *CategoryUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CategoryUsecase{repo: repo, clock: clock}
}

// CategoryInput is the payload for CreateCategory.
type CategoryInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	SortOrder   int    `json:"sort_order"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ==============================
// Queries
// ==============================

// GetChildren returns the direct children of parentID ordered by SortOrder.
// An empty parentID returns the roots.
func (u *CategoryUsecase) GetChildren(ctx context.Context, parentID string) ([]catdom.Category, error) {
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catdom.Children(all, strings.TrimSpace(parentID)), nil
}

// GetCategoryPath returns the chain root → id, for breadcrumbs.
func (u *CategoryUsecase) GetCategoryPath(ctx context.Context, id string) ([]catdom.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catdom.ErrInvalidID
	}
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catdom.Path(all, id)
}

func (u *CategoryUsecase) GetByID(ctx context.Context, id string) (catdom.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catdom.Category{}, catdom.ErrInvalidID
	}
	return u.repo.GetByID(ctx, id)
}

// SubtreeIDs returns id plus all of its descendants.
func (u *CategoryUsecase) SubtreeIDs(ctx context.Context, id string) ([]string, error) {
	id = strings.TrimSpace(id)
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	desc, err := catdom.Descendants(all, id)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(desc)+1)
	for _, c := range desc {
		out = append(out, c.ID)
	}
	return append(out, id), nil
}

// ==============================
// Commands
// ==============================

func (u *CategoryUsecase) CreateCategory(ctx context.Context, in CategoryInput) (catdom.Category, error) {
	c, err := catdom.New(in.ID, in.Name, in.Slug, in.Description, in.ParentID, in.SortOrder, in.ImageURL, u.clock.Now())
	if err != nil {
		return catdom.Category{}, err
	}

	if !c.IsRoot() {
		if _, err := u.repo.GetByID(ctx, c.ParentID); err != nil {
			if errors.Is(err, catdom.ErrNotFound) {
				return catdom.Category{}, catdom.ErrInvalidParent
			}
			return catdom.Category{}, err
		}
	}

	return u.repo.Create(ctx, c)
}

// UpdateCategory applies patch. A parent change that would put the category
// under itself or one of its descendants is rejected with ErrCycle.
func (u *CategoryUsecase) UpdateCategory(ctx context.Context, id string, patch catdom.Patch) (catdom.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catdom.Category{}, catdom.ErrInvalidID
	}

	all, err := u.repo.List(ctx)
	if err != nil {
		return catdom.Category{}, err
	}

	var current *catdom.Category
	for i := range all {
		if all[i].ID == id {
			current = &all[i]
			break
		}
	}
	if current == nil {
		return catdom.Category{}, catdom.ErrNotFound
	}

	next := patch.Apply(*current, u.clock.Now())
	if err := next.Validate(); err != nil {
		return catdom.Category{}, err
	}

	if next.ParentID != current.ParentID && !next.IsRoot() {
		found := false
		for _, c := range all {
			if c.ID == next.ParentID {
				found = true
				break
			}
		}
		if !found {
			return catdom.Category{}, catdom.ErrInvalidParent
		}
		if catdom.WouldCycle(all, id, next.ParentID) {
			return catdom.Category{}, catdom.ErrCycle
		}
	}

	return u.repo.Update(ctx, next)
}

// DeleteCategory removes id and its whole subtree, descendants first, and
// returns the ids removed in deletion order. A failure stops the walk; what
// was already deleted stays deleted.
func (u *CategoryUsecase) DeleteCategory(ctx context.Context, id string) ([]string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catdom.ErrInvalidID
	}

	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	desc, err := catdom.Descendants(all, id)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(desc)+1)
	for _, c := range desc {
		order = append(order, c.ID)
	}
	order = append(order, id)

	deleted := make([]string, 0, len(order))
	for _, cid := range order {
		if err := u.repo.Delete(ctx, cid); err != nil {
			log.Printf("[CategoryUsecase] WARN: cascade delete stopped at id=%s deleted=%d err=%v", cid, len(deleted), err)
			return deleted, fmt.Errorf("delete category %s: %w", cid, err)
		}
		deleted = append(deleted, cid)
	}
	return deleted, nil
}
