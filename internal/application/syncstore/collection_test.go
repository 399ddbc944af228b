// internal/application/syncstore/collection_test.go
package syncstore_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"storefront/internal/application/syncstore"
	"storefront/internal/application/syncstore/syncstoretest"
	"storefront/internal/domain/identity"
	"storefront/internal/domain/wishlist"
)

func stringBinding() syncstore.Binding[string] {
	return syncstore.Binding[string]{
		Name:         "wishlist",
		LocalKey:     wishlist.LocalKey,
		RemoteField:  wishlist.RemoteField,
		DecodeLocal:  wishlist.DecodeLocal,
		EncodeLocal:  wishlist.EncodeLocal,
		DecodeRemote: wishlist.DecodeRemote,
		EncodeRemote: wishlist.EncodeRemote,
		Merge:        wishlist.Merge,
	}
}

type fixture struct {
	local  *syncstoretest.Local
	remote *syncstoretest.Remote
	sched  *syncstoretest.Scheduler
	clock  *syncstoretest.Clock
	col    *syncstore.Collection[string]
}

func newFixture() *fixture {
	f := &fixture{
		local:  syncstoretest.NewLocal(),
		remote: syncstoretest.NewRemote(),
		sched:  &syncstoretest.Scheduler{},
		clock:  syncstoretest.NewClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	f.col = syncstore.New(stringBinding(), f.local, f.remote, syncstore.Options{
		Scheduler: f.sched,
		Clock:     f.clock,
	})
	return f
}

func add(id string) func([]string) []string {
	return func(ids []string) []string { return wishlist.Add(ids, id) }
}

func TestNotLoadedUntilIdentityResolved(t *testing.T) {
	f := newFixture()
	if f.col.Loaded() {
		t.Fatalf("expected not loaded before SetIdentity")
	}
	if f.col.State() != syncstore.StateUninitialized {
		t.Fatalf("state=%v", f.col.State())
	}

	f.col.SetIdentity(context.Background(), identity.Guest())
	if !f.col.Loaded() || f.col.State() != syncstore.StateGuestLocal {
		t.Fatalf("expected loaded guest, got loaded=%v state=%v", f.col.Loaded(), f.col.State())
	}
}

func TestGuestLoadsFromLocalStore(t *testing.T) {
	f := newFixture()
	_ = f.local.Set(context.Background(), wishlist.LocalKey, []byte(`["p1","p2"]`))

	f.col.SetIdentity(context.Background(), identity.Guest())

	if got := f.col.Items(); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Fatalf("items=%v", got)
	}
}

func TestGuestMalformedLocalYieldsEmpty(t *testing.T) {
	f := newFixture()
	_ = f.local.Set(context.Background(), wishlist.LocalKey, []byte(`{not json`))

	f.col.SetIdentity(context.Background(), identity.Guest())

	if got := f.col.Items(); len(got) != 0 {
		t.Fatalf("items=%v", got)
	}
}

func TestDebounceCoalescesBurstIntoOneWrite(t *testing.T) {
	f := newFixture()
	f.col.SetIdentity(context.Background(), identity.Guest())
	setsBefore := f.local.Sets()

	var kinds []syncstore.EventKind
	f.col.Subscribe(func(ev syncstore.Event[string]) { kinds = append(kinds, ev.Kind) })

	f.col.Update(add("a"))
	f.col.Update(add("b"))
	f.col.Update(add("c"))

	if f.local.Sets() != setsBefore {
		t.Fatalf("expected no write before debounce fires")
	}
	if n := f.sched.Fire(); n != 1 {
		t.Fatalf("expected exactly one armed timer, got %d", n)
	}
	if f.local.Sets() != setsBefore+1 {
		t.Fatalf("expected one write, got %d", f.local.Sets()-setsBefore)
	}
	raw, _ := f.local.Raw(wishlist.LocalKey)
	if raw != `["a","b","c"]` {
		t.Fatalf("persisted=%s", raw)
	}

	want := []syncstore.EventKind{syncstore.EventChanged, syncstore.EventChanged, syncstore.EventChanged, syncstore.EventPersisted}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("events=%v want %v", kinds, want)
	}
}

func TestLoginMergesLocalIntoRemoteOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := identity.User("u1")
	path := user.DocumentPath()

	_ = f.local.Set(ctx, wishlist.LocalKey, []byte(`["a","b"]`))
	f.remote.Seed(path, map[string]any{
		wishlist.RemoteField: []any{"b", "c"},
		"cartItems":          []any{"untouched"},
	})

	f.col.SetIdentity(ctx, identity.Guest())
	f.col.SetIdentity(ctx, user)

	if got := f.col.Items(); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("items=%v", got)
	}
	if f.remote.WriteCount() != 1 {
		t.Fatalf("expected one merge write, got %d", f.remote.WriteCount())
	}
	if got := wishlist.DecodeRemote(f.remote.Field(path, wishlist.RemoteField)); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("remote=%v", got)
	}
	if f.remote.Field(path, "cartItems") == nil {
		t.Fatalf("sibling field must survive a merge write")
	}
	if _, ok := f.local.Raw(wishlist.LocalKey); ok {
		t.Fatalf("local key must be cleared after merge")
	}
	if f.remote.ActiveSubs(path) != 1 {
		t.Fatalf("expected one active subscription")
	}

	// same identity again: no second merge
	gets := f.remote.GetCalls()
	f.col.SetIdentity(ctx, identity.User("u1"))
	if f.remote.GetCalls() != gets || f.remote.WriteCount() != 1 {
		t.Fatalf("repeat SetIdentity must be a no-op")
	}
}

func TestLoginWithEmptyLocalSeedsFromRemoteWithoutWrite(t *testing.T) {
	f := newFixture()
	user := identity.User("u1")
	f.remote.Seed(user.DocumentPath(), map[string]any{wishlist.RemoteField: []any{"x"}})

	f.col.SetIdentity(context.Background(), user)

	if got := f.col.Items(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("items=%v", got)
	}
	if f.remote.WriteCount() != 0 {
		t.Fatalf("expected no write")
	}
	if !f.col.Loaded() {
		t.Fatalf("expected loaded")
	}
}

func TestPendingGuestWriteFlushedBeforeLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := identity.User("u1")

	f.col.SetIdentity(ctx, identity.Guest())
	f.col.Update(add("late"))

	// timer has not fired yet
	f.col.SetIdentity(ctx, user)

	if got := wishlist.DecodeRemote(f.remote.Field(user.DocumentPath(), wishlist.RemoteField)); !reflect.DeepEqual(got, []string{"late"}) {
		t.Fatalf("remote=%v", got)
	}
	if n := f.sched.Fire(); n != 0 {
		t.Fatalf("stale timer still armed")
	}
}

func TestUpdatesAfterLoginGoToRemote(t *testing.T) {
	f := newFixture()
	user := identity.User("u1")
	f.col.SetIdentity(context.Background(), user)

	f.col.Update(add("p"))
	f.sched.Fire()

	if got := wishlist.DecodeRemote(f.remote.Field(user.DocumentPath(), wishlist.RemoteField)); !reflect.DeepEqual(got, []string{"p"}) {
		t.Fatalf("remote=%v", got)
	}
	if _, ok := f.local.Raw(wishlist.LocalKey); ok {
		t.Fatalf("identified writes must not touch the local store")
	}
}

func TestEchoOfOwnWriteIgnored(t *testing.T) {
	f := newFixture()
	user := identity.User("u1")
	path := user.DocumentPath()
	f.col.SetIdentity(context.Background(), user)

	f.col.Update(add("a"))
	f.sched.Fire()

	// a concurrent device writes, but the push lands inside the echo window
	f.remote.External(path, wishlist.RemoteField, []any{"zzz"})
	if got := f.col.Items(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("push inside echo window must be ignored, items=%v", got)
	}

	f.clock.Advance(2 * time.Second)
	f.remote.External(path, wishlist.RemoteField, []any{"a", "b"})
	if got := f.col.Items(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("push after echo window must apply, items=%v", got)
	}
}

func TestRemotePushIgnoredWhileWritePending(t *testing.T) {
	f := newFixture()
	user := identity.User("u1")
	path := user.DocumentPath()
	f.col.SetIdentity(context.Background(), user)
	f.clock.Advance(time.Minute)

	f.col.Update(add("mine"))
	f.remote.External(path, wishlist.RemoteField, []any{})

	if got := f.col.Items(); !reflect.DeepEqual(got, []string{"mine"}) {
		t.Fatalf("items=%v", got)
	}
}

func TestLogoutDropsSubscriptionAndStartsEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := identity.User("u1")
	path := user.DocumentPath()
	f.remote.Seed(path, map[string]any{wishlist.RemoteField: []any{"r"}})

	f.col.SetIdentity(ctx, user)
	f.col.SetIdentity(ctx, identity.Guest())

	if f.col.State() != syncstore.StateGuestLocal {
		t.Fatalf("state=%v", f.col.State())
	}
	if got := f.col.Items(); len(got) != 0 {
		t.Fatalf("expected empty after logout, got %v", got)
	}
	if f.remote.ActiveSubs(path) != 0 {
		t.Fatalf("subscription must be cancelled on logout")
	}

	// late callback from the old listener
	f.clock.Advance(time.Minute)
	f.remote.External(path, wishlist.RemoteField, []any{"late"})
	if got := f.col.Items(); len(got) != 0 {
		t.Fatalf("stale push applied: %v", got)
	}

	writes := f.remote.WriteCount()
	f.col.Update(add("guest"))
	f.sched.Fire()
	if f.remote.WriteCount() != writes {
		t.Fatalf("guest mutation reached the remote store")
	}
	raw, _ := f.local.Raw(wishlist.LocalKey)
	if raw != `["guest"]` {
		t.Fatalf("local=%s", raw)
	}
}

func TestSwitchUserKeepsStoresSeparate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u1, u2 := identity.User("u1"), identity.User("u2")

	f.col.SetIdentity(ctx, u1)
	f.col.Update(add("one"))
	f.col.SetIdentity(ctx, u2)

	if got := wishlist.DecodeRemote(f.remote.Field(u1.DocumentPath(), wishlist.RemoteField)); !reflect.DeepEqual(got, []string{"one"}) {
		t.Fatalf("u1 pending write lost: %v", got)
	}
	if got := f.col.Items(); len(got) != 0 {
		t.Fatalf("u2 should start empty, got %v", got)
	}
	if f.remote.Field(u2.DocumentPath(), wishlist.RemoteField) != nil {
		t.Fatalf("u1 data leaked into u2")
	}
	if got := f.col.Identity(); got.ID != "u2" {
		t.Fatalf("identity=%+v", got)
	}
}

func TestRemoteWriteFailureKeepsMemoryState(t *testing.T) {
	f := newFixture()
	f.col.SetIdentity(context.Background(), identity.User("u1"))

	f.remote.SetErr = syncstoretest.ErrBackendDown
	f.col.Update(add("x"))
	f.sched.Fire()
	if got := f.col.Items(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("in-memory state must survive a failed write, items=%v", got)
	}
}

func TestLoginReadFailureHoldsWritesUntilRemoteSeen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := identity.User("u1")
	path := user.DocumentPath()

	f.remote.Seed(path, map[string]any{wishlist.RemoteField: []any{"x", "y"}})
	f.col.SetIdentity(ctx, identity.Guest())
	f.col.Update(add("g1"))
	f.sched.Fire()

	f.remote.GetErr = syncstoretest.ErrBackendDown
	f.col.SetIdentity(ctx, user)

	if f.col.Loaded() {
		t.Fatalf("must not report loaded before the remote value is known")
	}
	if _, ok := f.local.Raw(wishlist.LocalKey); !ok {
		t.Fatalf("local value must be kept when the remote read fails")
	}

	f.col.Update(add("p1"))
	if n := f.sched.Fire(); n != 0 {
		t.Fatalf("remote write scheduled before the merge, timers=%d", n)
	}
	if got := wishlist.DecodeRemote(f.remote.Field(path, wishlist.RemoteField)); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("remote clobbered: %v", got)
	}

	// the listener delivers the document once the backend is reachable again
	f.remote.GetErr = nil
	f.remote.Push(path)
	waitFor(t, f.col.Loaded)

	want := []string{"x", "y", "g1", "p1"}
	if got := f.col.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("items=%v want %v", got, want)
	}
	if _, ok := f.local.Raw(wishlist.LocalKey); ok {
		t.Fatalf("local key must be cleared after the deferred merge")
	}
	f.sched.Fire()
	if got := wishlist.DecodeRemote(f.remote.Field(path, wishlist.RemoteField)); !reflect.DeepEqual(got, want) {
		t.Fatalf("remote=%v want %v", got, want)
	}
}

func TestSameIdentityRetriesDeferredMerge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := identity.User("u1")
	path := user.DocumentPath()

	f.remote.Seed(path, map[string]any{wishlist.RemoteField: []any{"r"}})
	_ = f.local.Set(ctx, wishlist.LocalKey, []byte(`["g"]`))
	f.col.SetIdentity(ctx, identity.Guest())

	f.remote.SetErr = syncstoretest.ErrBackendDown
	f.col.SetIdentity(ctx, user)
	if f.col.Loaded() {
		t.Fatalf("failed merge write must leave the collection unloaded")
	}
	if _, ok := f.local.Raw(wishlist.LocalKey); !ok {
		t.Fatalf("local value must survive a failed merge write")
	}

	f.remote.SetErr = nil
	f.col.SetIdentity(ctx, user)

	if !f.col.Loaded() {
		t.Fatalf("expected loaded after retry")
	}
	if got := wishlist.DecodeRemote(f.remote.Field(path, wishlist.RemoteField)); !reflect.DeepEqual(got, []string{"r", "g"}) {
		t.Fatalf("remote=%v", got)
	}
	if f.remote.ActiveSubs(path) != 1 {
		t.Fatalf("expected exactly one active subscription, got %d", f.remote.ActiveSubs(path))
	}
}

// blockingRemote parks GetOnce until release is closed.
type blockingRemote struct {
	*syncstoretest.Remote
	entered chan struct{}
	release chan struct{}
}

func (r *blockingRemote) GetOnce(ctx context.Context, path string) (map[string]any, bool, error) {
	close(r.entered)
	<-r.release
	return r.Remote.GetOnce(ctx, path)
}

func TestSlowLoginDoesNotBlockReadsOrUpdates(t *testing.T) {
	ctx := context.Background()
	user := identity.User("u1")
	path := user.DocumentPath()

	local := syncstoretest.NewLocal()
	remote := &blockingRemote{
		Remote:  syncstoretest.NewRemote(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	remote.Seed(path, map[string]any{wishlist.RemoteField: []any{"x"}})
	sched := &syncstoretest.Scheduler{}
	col := syncstore.New(stringBinding(), local, remote, syncstore.Options{Scheduler: sched})

	_ = local.Set(ctx, wishlist.LocalKey, []byte(`["g"]`))
	col.SetIdentity(ctx, identity.Guest())

	loggedIn := make(chan struct{})
	go func() {
		col.SetIdentity(ctx, user)
		close(loggedIn)
	}()
	<-remote.entered

	done := make(chan struct{})
	go func() {
		_ = col.Items()
		col.Update(add("p1"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Items/Update blocked behind the remote read")
	}

	close(remote.release)
	<-loggedIn

	want := []string{"x", "g", "p1"}
	if got := col.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("items=%v want %v", got, want)
	}
	if n := sched.Fire(); n != 1 {
		t.Fatalf("expected the replayed update to schedule one write, got %d", n)
	}
	if got := wishlist.DecodeRemote(remote.Field(path, wishlist.RemoteField)); !reflect.DeepEqual(got, want) {
		t.Fatalf("remote=%v want %v", got, want)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached within 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLocalWriteFailureNotPublishedAsPersisted(t *testing.T) {
	f := newFixture()
	f.col.SetIdentity(context.Background(), identity.Guest())
	f.local.SetErr = syncstoretest.ErrBackendDown

	persisted := 0
	f.col.Subscribe(func(ev syncstore.Event[string]) {
		if ev.Kind == syncstore.EventPersisted {
			persisted++
		}
	})
	f.col.Update(add("a"))
	f.sched.Fire()

	if persisted != 0 {
		t.Fatalf("persisted event after failed write")
	}
}

func TestWithoutRemoteIdentityStaysGuest(t *testing.T) {
	local := syncstoretest.NewLocal()
	col := syncstore.New(stringBinding(), local, nil, syncstore.Options{Scheduler: &syncstoretest.Scheduler{}})

	col.SetIdentity(context.Background(), identity.User("u1"))

	if col.State() != syncstore.StateGuestLocal {
		t.Fatalf("state=%v", col.State())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	f := newFixture()
	f.col.SetIdentity(context.Background(), identity.Guest())
	f.col.Update(add("a"))

	items := f.col.Items()
	items[0] = "mutated"

	if got := f.col.Items(); got[0] != "a" {
		t.Fatalf("internal state mutated through snapshot")
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	f := newFixture()
	f.col.SetIdentity(context.Background(), identity.Guest())

	calls := 0
	cancel := f.col.Subscribe(func(syncstore.Event[string]) { calls++ })
	f.col.Update(add("a"))
	cancel()
	f.col.Update(add("b"))

	if calls != 1 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestCloseStillRunsScheduledWrite(t *testing.T) {
	f := newFixture()
	f.col.SetIdentity(context.Background(), identity.Guest())
	f.col.Update(add("a"))
	f.col.Close()

	f.sched.Fire()

	raw, _ := f.local.Raw(wishlist.LocalKey)
	if raw != `["a"]` {
		t.Fatalf("local=%s", raw)
	}
}
