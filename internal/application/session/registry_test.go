// internal/application/session/registry_test.go
package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/application/syncstore"
	"storefront/internal/application/syncstore/syncstoretest"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/identity"
)

type fixture struct {
	locals map[string]*syncstoretest.Local
	remote *syncstoretest.Remote
	sched  *syncstoretest.Scheduler
	clock  *syncstoretest.Clock
	reg    *Registry
}

func newFixture() *fixture {
	f := &fixture{
		locals: map[string]*syncstoretest.Local{},
		remote: syncstoretest.NewRemote(),
		sched:  &syncstoretest.Scheduler{},
		clock:  syncstoretest.NewClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	f.reg = NewRegistry(Config{
		Local: func(deviceID string) syncstore.LocalStore {
			if l, ok := f.locals[deviceID]; ok {
				return l
			}
			l := syncstoretest.NewLocal()
			f.locals[deviceID] = l
			return l
		},
		Remote:  f.remote,
		Pricing: cartdom.DefaultPricing(),
		Sync:    syncstore.Options{Scheduler: f.sched, Clock: f.clock},
	})
	return f
}

func ref(id string) cartdom.ProductRef {
	return cartdom.ProductRef{ID: id, Name: id, Price: 10}
}

func TestResolve_SameDeviceSameSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.reg.Resolve(ctx, "dev-1", identity.Guest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, _ := f.reg.Resolve(ctx, "dev-1", identity.Guest())
	c, _ := f.reg.Resolve(ctx, "dev-2", identity.Guest())

	if a != b {
		t.Fatalf("expected the same session for one device")
	}
	if a == c {
		t.Fatalf("devices must not share a session")
	}
	if f.reg.Len() != 2 {
		t.Fatalf("len=%d", f.reg.Len())
	}
}

func TestResolve_BlankDeviceRejected(t *testing.T) {
	f := newFixture()
	if _, err := f.reg.Resolve(context.Background(), "  ", identity.Guest()); !errors.Is(err, ErrInvalidDeviceID) {
		t.Fatalf("expected ErrInvalidDeviceID, got %v", err)
	}
}

func TestResolve_GuestsAreIsolatedPerDevice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, _ := f.reg.Resolve(ctx, "dev-1", identity.Guest())
	a.Cart.Add(ref("A"))
	f.sched.Fire()

	b, _ := f.reg.Resolve(ctx, "dev-2", identity.Guest())
	if n := len(b.Cart.Items()); n != 0 {
		t.Fatalf("device 2 sees device 1 cart: %d items", n)
	}
}

func TestResolve_LoginMergesThenLogoutResets(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := identity.User("u1")

	s, _ := f.reg.Resolve(ctx, "dev-1", identity.Guest())
	s.Cart.Add(ref("A"))
	s.Wishlist.Add("W")

	s, _ = f.reg.Resolve(ctx, "dev-1", user)
	if s.Identity() != user {
		t.Fatalf("identity=%+v", s.Identity())
	}
	if len(s.Cart.Items()) != 1 || !s.Wishlist.Contains("W") {
		t.Fatalf("guest data not merged")
	}
	if f.remote.Field(user.DocumentPath(), cartdom.RemoteField) == nil {
		t.Fatalf("merge not written to the user document")
	}

	// a second device signing in as the same user sees the merged cart
	other, _ := f.reg.Resolve(ctx, "dev-2", user)
	if len(other.Cart.Items()) != 1 {
		t.Fatalf("second device cart=%+v", other.Cart.Items())
	}

	s, _ = f.reg.Resolve(ctx, "dev-1", identity.Guest())
	if len(s.Cart.Items()) != 0 || s.Wishlist.Count() != 0 {
		t.Fatalf("logout did not reset the session")
	}
}

func TestSweep_ClosesIdleSessionsAfterFlushing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s, _ := f.reg.Resolve(ctx, "dev-1", identity.Guest())
	s.Cart.Add(ref("A"))

	f.clock.Advance(10 * time.Minute)
	_, _ = f.reg.Resolve(ctx, "dev-2", identity.Guest())

	if n := f.reg.Sweep(ctx, 5*time.Minute); n != 1 {
		t.Fatalf("swept=%d", n)
	}
	if f.reg.Len() != 1 {
		t.Fatalf("len=%d", f.reg.Len())
	}
	if _, ok := f.locals["dev-1"].Raw(cartdom.LocalKey); !ok {
		t.Fatalf("pending write lost on sweep")
	}

	// the device comes back and gets its cart from the local store
	back, _ := f.reg.Resolve(ctx, "dev-1", identity.Guest())
	if len(back.Cart.Items()) != 1 {
		t.Fatalf("restored cart=%+v", back.Cart.Items())
	}
}

func TestClose_FlushesEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s, _ := f.reg.Resolve(ctx, "dev-1", identity.Guest())
	s.Wishlist.Add("W")
	f.reg.Close(ctx)

	if raw, _ := f.locals["dev-1"].Raw("wishlist"); raw != `["W"]` {
		t.Fatalf("local=%s", raw)
	}
	if f.reg.Len() != 0 {
		t.Fatalf("len=%d", f.reg.Len())
	}
}

// sweepingClock runs hook once, from inside the next Now call.
type sweepingClock struct {
	*syncstoretest.Clock
	hook func()
}

func (c *sweepingClock) Now() time.Time {
	if h := c.hook; h != nil {
		c.hook = nil
		h()
	}
	return c.Clock.Now()
}

func TestResolve_SweepDuringResolveNeverReturnsClosedSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	clock := &sweepingClock{Clock: f.clock}
	f.reg.cfg.Clock = clock

	if _, err := f.reg.Resolve(ctx, "dev-1", identity.Guest()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	f.clock.Advance(time.Hour)

	clock.hook = func() { f.reg.Sweep(ctx, 30*time.Minute) }
	s, _ := f.reg.Resolve(ctx, "dev-1", identity.Guest())

	s.Wishlist.Add("W")
	if !s.Wishlist.Contains("W") {
		t.Fatalf("resolved session was closed by a concurrent sweep")
	}
	if f.reg.Len() != 1 {
		t.Fatalf("len=%d", f.reg.Len())
	}
}
