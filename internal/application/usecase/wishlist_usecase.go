// internal/application/usecase/wishlist_usecase.go
package usecase

import (
	"storefront/internal/application/syncstore"
	wishlistdom "storefront/internal/domain/wishlist"
)

// WishlistBinding wires the wishlist codecs into the sync engine.
func WishlistBinding() syncstore.Binding[string] {
	return syncstore.Binding[string]{
		Name:         "wishlist",
		LocalKey:     wishlistdom.LocalKey,
		RemoteField:  wishlistdom.RemoteField,
		DecodeLocal:  wishlistdom.DecodeLocal,
		EncodeLocal:  wishlistdom.EncodeLocal,
		DecodeRemote: wishlistdom.DecodeRemote,
		EncodeRemote: wishlistdom.EncodeRemote,
		Merge:        wishlistdom.Merge,
	}
}

// WishlistStore is the set of saved product ids.
type WishlistStore struct {
	col *syncstore.Collection[string]
}

func NewWishlistStore(col *syncstore.Collection[string]) *WishlistStore {
	return &WishlistStore{col: col}
}

func (s *WishlistStore) Add(productID string) []string {
	return s.col.Update(func(ids []string) []string {
		return wishlistdom.Add(ids, productID)
	}).Items
}

func (s *WishlistStore) Remove(productID string) []string {
	return s.col.Update(func(ids []string) []string {
		return wishlistdom.Remove(ids, productID)
	}).Items
}

// Toggle flips membership in one update and reports whether the id is now present.
func (s *WishlistStore) Toggle(productID string) bool {
	snap := s.col.Update(func(ids []string) []string {
		return wishlistdom.Toggle(ids, productID)
	})
	return wishlistdom.Contains(snap.Items, productID)
}

func (s *WishlistStore) Clear() {
	s.col.Update(func([]string) []string { return []string{} })
}

func (s *WishlistStore) Contains(productID string) bool {
	return wishlistdom.Contains(s.col.Items(), productID)
}

func (s *WishlistStore) Count() int { return len(s.col.Items()) }

func (s *WishlistStore) Items() []string { return s.col.Items() }

func (s *WishlistStore) Loaded() bool { return s.col.Loaded() }
