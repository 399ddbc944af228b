// internal/application/session/registry.go
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"storefront/internal/application/syncstore"
	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/identity"
)

var ErrInvalidDeviceID = errors.New("session: invalid device id")

// LocalStoreFactory returns the local store scoped to one device.
type LocalStoreFactory func(deviceID string) syncstore.LocalStore

// Session is one device's cart and wishlist.
type Session struct {
	DeviceID string
	Cart     *usecase.CartStore
	Wishlist *usecase.WishlistStore

	cartCol *syncstore.Collection[cartdom.LineItem]
	wishCol *syncstore.Collection[string]

	mu       sync.Mutex
	identity identity.Identity
	lastSeen time.Time
}

// Identity is the identity last applied to the session.
func (s *Session) Identity() identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) setIdentity(ctx context.Context, id identity.Identity) {
	s.cartCol.SetIdentity(ctx, id)
	s.wishCol.SetIdentity(ctx, id)

	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

func (s *Session) close(ctx context.Context) {
	s.cartCol.Flush(ctx)
	s.wishCol.Flush(ctx)
	s.cartCol.Close()
	s.wishCol.Close()
}

// Config wires a Registry.
type Config struct {
	Local   LocalStoreFactory
	Remote  syncstore.RemoteStore
	Pricing cartdom.PricingPolicy
	Sync    syncstore.Options
	Clock   syncstore.Clock
}

// Registry owns one Session per device id.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cfg Config) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = cfg.Sync.Clock
	}
	if cfg.Clock == nil {
		cfg.Clock = wallClock{}
	}
	return &Registry{cfg: cfg, sessions: map[string]*Session{}}
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Resolve returns the device's session, creating it on first use, and moves
// both collections to the backend selected by id.
func (r *Registry) Resolve(ctx context.Context, deviceID string, id identity.Identity) (*Session, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrInvalidDeviceID
	}

	now := r.cfg.Clock.Now()

	// touched under r.mu so Sweep never sees the lookup without the refresh
	r.mu.Lock()
	s, ok := r.sessions[deviceID]
	if !ok {
		s = r.newSession(deviceID)
		r.sessions[deviceID] = s
	}
	s.touch(now)
	r.mu.Unlock()

	s.setIdentity(ctx, id)
	return s, nil
}

func (r *Registry) newSession(deviceID string) *Session {
	local := r.cfg.Local(deviceID)

	cartCol := syncstore.New(usecase.CartBinding(), local, r.cfg.Remote, r.cfg.Sync)
	wishCol := syncstore.New(usecase.WishlistBinding(), local, r.cfg.Remote, r.cfg.Sync)

	return &Session{
		DeviceID: deviceID,
		Cart:     usecase.NewCartStore(cartCol, r.cfg.Pricing),
		Wishlist: usecase.NewWishlistStore(wishCol),
		cartCol:  cartCol,
		wishCol:  wishCol,
	}
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep flushes and closes sessions idle for longer than maxIdle.
func (r *Registry) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.cfg.Clock.Now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.close(ctx)
	}
	if len(idle) > 0 {
		log.Printf("[session] swept idle=%d remaining=%d", len(idle), r.Len())
	}
	return len(idle)
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(ctx, maxIdle)
		}
	}
}

// Close flushes and closes every session.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.close(ctx)
	}
	log.Printf("[session] closed sessions=%d", len(all))
}
