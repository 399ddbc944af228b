// internal/application/syncstore/collection.go
package syncstore

import (
	"context"
	"log"
	"sync"
	"time"

	"storefront/internal/domain/identity"
)

// Collection keeps one list of T in memory and mirrors it to exactly one
// backend at a time: the LocalStore while the owner is a guest, the user's
// remote document once identified.
//
// Lock order is ioMu then mu. Backend calls run under ioMu only, so reads and
// mutations never wait on a slow store. Observers are always called with no
// lock held.
type Collection[T any] struct {
	b      Binding[T]
	local  LocalStore
	remote RemoteStore
	opts   Options

	// subscriptions outlive the request that triggered the transition
	subCtx    context.Context
	subCancel context.CancelFunc

	ioMu sync.Mutex

	mu            sync.Mutex
	state         State
	ident         identity.Identity
	items         []T
	loaded        bool
	unsub         func()
	gen           uint64
	dirty         bool
	pending       Timer
	target        writeTarget
	suppressUntil time.Time
	closed        bool

	// set between the start of a transition and the install of its result
	transitioning bool
	// mutations made while transitioning, replayed onto the loaded value
	replay []func([]T) []T
	// the login read or merge write failed; remote writes are held until
	// a remote value has been seen and merged with the guest's local items
	mergePending bool
	completing   bool
	lastPush     *remoteDoc

	observers map[uint64]func(Event[T])
	nextObs   uint64
}

type writeTarget struct {
	state State
	path  string
}

type pendingWrite[T any] struct {
	target writeTarget
	items  []T
}

type remoteDoc struct {
	doc    map[string]any
	exists bool
}

// loadResult is what a transition read from its backend.
type loadResult[T any] struct {
	items       []T
	pending     bool
	wroteRemote bool
}

// New creates an uninitialized collection. remote may be nil, in which case
// the collection stays on the local store for every identity.
func New[T any](b Binding[T], local LocalStore, remote RemoteStore, opts Options) *Collection[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collection[T]{
		b:         b,
		local:     local,
		remote:    remote,
		opts:      opts.withDefaults(),
		subCtx:    ctx,
		subCancel: cancel,
		items:     []T{},
		observers: map[uint64]func(Event[T]){},
	}
}

// ==============================
// Reads
// ==============================

func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// Loaded is false until the first load from the active backend completes.
func (c *Collection[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Collection[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Collection[T]) Identity() identity.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ident
}

// ==============================
// Observers
// ==============================

// Subscribe registers fn for every later change. The returned func removes it.
func (c *Collection[T]) Subscribe(fn func(Event[T])) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Collection[T]) publish(events ...Event[T]) {
	if len(events) == 0 {
		return
	}
	c.mu.Lock()
	fns := make([]func(Event[T]), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

// ==============================
// Mutation
// ==============================

// Update applies fn to a copy of the current items, replaces the in-memory
// value, notifies observers and schedules a debounced write to the backend
// that is active right now.
//
// While an identity transition is loading, fn is also queued and replayed
// onto the loaded value once it is installed.
func (c *Collection[T]) Update(fn func(items []T) []T) Snapshot[T] {
	c.mu.Lock()
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}

	c.items = applyUpdate(c.items, fn)
	if c.transitioning {
		c.replay = append(c.replay, fn)
	}
	c.scheduleLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(Event[T]{Kind: EventChanged, Snapshot: snap})
	return snap
}

func applyUpdate[T any](items []T, fn func([]T) []T) []T {
	next := fn(cloneItems(items))
	if next == nil {
		next = []T{}
	}
	return next
}

func (c *Collection[T]) scheduleLocked() {
	if c.state == StateUninitialized || c.transitioning {
		return
	}
	c.dirty = true
	c.target = writeTarget{state: c.state, path: c.ident.DocumentPath()}
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = c.opts.Scheduler.AfterFunc(c.opts.Debounce, c.onTimer)
}

func (c *Collection[T]) onTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()
	c.Flush(ctx)
}

// Flush writes a pending debounced change immediately.
func (c *Collection[T]) Flush(ctx context.Context) {
	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	c.mu.Lock()
	w, ok := c.takePendingLocked()
	c.mu.Unlock()
	if !ok {
		return
	}

	persisted := c.writeIO(ctx, w)

	if w.target.state == StateIdentifiedRemote {
		c.mu.Lock()
		c.suppressUntil = c.opts.Clock.Now().Add(c.opts.EchoWindow)
		c.mu.Unlock()
		return
	}
	if persisted {
		c.publish(Event[T]{Kind: EventPersisted, Snapshot: c.Snapshot()})
	}
}

func (c *Collection[T]) takePendingLocked() (pendingWrite[T], bool) {
	if !c.dirty {
		return pendingWrite[T]{}, false
	}
	c.dirty = false
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.target.state == StateIdentifiedRemote {
		c.suppressUntil = c.opts.Clock.Now().Add(c.opts.EchoWindow)
	}
	return pendingWrite[T]{target: c.target, items: cloneItems(c.items)}, true
}

// writeIO performs the backend call for w. Failures are logged and swallowed.
func (c *Collection[T]) writeIO(ctx context.Context, w pendingWrite[T]) bool {
	switch w.target.state {
	case StateGuestLocal:
		b, err := c.b.EncodeLocal(w.items)
		if err != nil {
			log.Printf("[syncstore.%s] WARN: encode local failed: %v", c.b.Name, err)
			return false
		}
		if err := c.local.Set(ctx, c.b.LocalKey, b); err != nil {
			log.Printf("[syncstore.%s] WARN: local write failed key=%s err=%v", c.b.Name, c.b.LocalKey, err)
			return false
		}
		return true

	case StateIdentifiedRemote:
		if c.remote == nil || w.target.path == "" {
			return false
		}
		fields := map[string]any{c.b.RemoteField: c.b.EncodeRemote(w.items)}
		if err := c.remote.SetMerge(ctx, w.target.path, fields); err != nil {
			log.Printf("[syncstore.%s] WARN: remote write failed path=%s err=%v", c.b.Name, w.target.path, err)
			return false
		}
		return true
	}
	return false
}

// ==============================
// Identity transitions
// ==============================

// SetIdentity moves the collection to the backend selected by id.
// It is a no-op when id selects the backend already active, unless the
// login merge for id is still outstanding, in which case it is retried.
//
// Any pending debounced write is flushed to the backend it was scheduled for
// before the transition starts, so a late timer never writes into the wrong store.
// The in-memory value stays readable and mutable while the backend is read.
func (c *Collection[T]) SetIdentity(ctx context.Context, id identity.Identity) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
	defer cancel()

	if c.remote == nil && id.IsIdentified() {
		id = identity.Guest()
	}

	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	c.mu.Lock()
	same := c.state != StateUninitialized && c.ident.Same(id)
	if c.closed || (same && !c.mergePending) {
		c.mu.Unlock()
		return
	}

	w, flush := c.takePendingLocked()
	before := c.snapshotLocked()

	c.stopRemoteLocked()
	c.ident = id
	c.state = StateGuestLocal
	if id.IsIdentified() {
		c.state = StateIdentifiedRemote
	}
	c.loaded = false
	c.transitioning = true
	c.mergePending = false
	c.completing = false
	c.lastPush = nil
	if !same {
		c.replay = nil
	}
	gen := c.gen
	c.mu.Unlock()

	if flush && c.writeIO(ctx, w) && w.target.state == StateGuestLocal {
		c.publish(Event[T]{Kind: EventPersisted, Snapshot: before})
	}

	if !id.IsIdentified() {
		c.install(gen, loadResult[T]{items: c.readLocal(ctx)}, nil)
		return
	}

	path := id.DocumentPath()
	res := c.loadRemote(ctx, path, nil)

	unsub, err := c.remote.Subscribe(c.subCtx, path, func(doc map[string]any, exists bool) {
		c.onRemote(gen, doc, exists)
	})
	if err != nil {
		log.Printf("[syncstore.%s] WARN: subscribe failed path=%s err=%v", c.b.Name, path, err)
		unsub = nil
	}
	c.install(gen, res, unsub)
}

// loadRemote reads the user's value and, when the guest left local items
// behind, unions them into it once. pushed replaces the point read when a
// subscription snapshot is already at hand.
//
// A failed read or merge write leaves the local store untouched and
// reports pending, so the union can run again later without counting the
// guest's items twice.
func (c *Collection[T]) loadRemote(ctx context.Context, path string, pushed *remoteDoc) loadResult[T] {
	localItems := c.readLocal(ctx)

	var doc map[string]any
	var exists bool
	if pushed != nil {
		doc, exists = pushed.doc, pushed.exists
	} else {
		var err error
		doc, exists, err = c.remote.GetOnce(ctx, path)
		if err != nil {
			log.Printf("[syncstore.%s] WARN: remote read failed path=%s err=%v (merge deferred)", c.b.Name, path, err)
			return loadResult[T]{items: localItems, pending: true}
		}
	}

	var remoteItems []T
	if exists {
		remoteItems = c.b.DecodeRemote(doc[c.b.RemoteField])
	}
	if len(localItems) == 0 {
		return loadResult[T]{items: remoteItems}
	}

	merged := c.b.Merge(remoteItems, localItems)
	fields := map[string]any{c.b.RemoteField: c.b.EncodeRemote(merged)}
	if err := c.remote.SetMerge(ctx, path, fields); err != nil {
		log.Printf("[syncstore.%s] WARN: merge write failed path=%s err=%v (merge deferred)", c.b.Name, path, err)
		return loadResult[T]{items: localItems, pending: true}
	}
	if err := c.local.Remove(ctx, c.b.LocalKey); err != nil {
		log.Printf("[syncstore.%s] WARN: local clear failed key=%s err=%v", c.b.Name, c.b.LocalKey, err)
	}
	log.Printf("[syncstore.%s] merged local=%d remote=%d into path=%s", c.b.Name, len(localItems), len(remoteItems), path)
	return loadResult[T]{items: merged, wroteRemote: true}
}

// install applies a load result unless a later transition or Close got
// there first. unsub, when non-nil, becomes the active subscription.
func (c *Collection[T]) install(gen uint64, res loadResult[T], unsub func()) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		if unsub != nil {
			unsub()
		}
		return
	}
	if unsub != nil {
		c.unsub = unsub
	}

	items := res.items
	if items == nil {
		items = []T{}
	}
	for _, fn := range c.replay {
		items = applyUpdate(items, fn)
	}
	c.items = items
	c.completing = false

	if res.pending {
		c.mergePending = true
		push := c.lastPush
		c.lastPush = nil
		if push != nil {
			c.completing = true
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.publish(Event[T]{Kind: EventReset, Snapshot: snap})
		if push != nil {
			go c.completeLogin(gen, *push)
		}
		return
	}

	replayed := len(c.replay) > 0
	c.replay = nil
	c.transitioning = false
	c.mergePending = false
	c.lastPush = nil
	c.loaded = true
	if res.wroteRemote {
		c.suppressUntil = c.opts.Clock.Now().Add(c.opts.EchoWindow)
	}
	if replayed {
		c.scheduleLocked()
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(Event[T]{Kind: EventReset, Snapshot: snap})
}

// completeLogin finishes a deferred merge from a pushed remote document.
func (c *Collection[T]) completeLogin(gen uint64, push remoteDoc) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()

	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	c.mu.Lock()
	if c.closed || gen != c.gen || !c.mergePending {
		c.mu.Unlock()
		return
	}
	path := c.ident.DocumentPath()
	c.mu.Unlock()

	c.install(gen, c.loadRemote(ctx, path, &push), nil)
}

func (c *Collection[T]) readLocal(ctx context.Context) []T {
	b, ok, err := c.local.Get(ctx, c.b.LocalKey)
	if err != nil {
		log.Printf("[syncstore.%s] WARN: local read failed key=%s err=%v", c.b.Name, c.b.LocalKey, err)
		return []T{}
	}
	if !ok {
		return []T{}
	}
	items := c.b.DecodeLocal(b)
	if items == nil {
		return []T{}
	}
	return items
}

// onRemote applies a pushed document unless it is stale, an echo of our own
// write, or would overwrite a change that has not been written yet.
// During a transition the push is held back, or used to finish a deferred merge.
func (c *Collection[T]) onRemote(gen uint64, doc map[string]any, exists bool) {
	c.mu.Lock()
	if c.closed || gen != c.gen || c.state != StateIdentifiedRemote {
		c.mu.Unlock()
		return
	}
	if c.transitioning {
		push := remoteDoc{doc: doc, exists: exists}
		switch {
		case c.mergePending && !c.completing:
			c.completing = true
			c.mu.Unlock()
			go c.completeLogin(gen, push)
			return
		case !c.mergePending:
			c.lastPush = &push
		}
		c.mu.Unlock()
		return
	}
	if c.dirty || c.opts.Clock.Now().Before(c.suppressUntil) {
		c.mu.Unlock()
		return
	}

	items := []T{}
	if exists {
		if decoded := c.b.DecodeRemote(doc[c.b.RemoteField]); decoded != nil {
			items = decoded
		}
	}
	c.items = items
	c.loaded = true
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(Event[T]{Kind: EventRemote, Snapshot: snap})
}

func (c *Collection[T]) stopRemoteLocked() {
	c.gen++
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

// Close cancels the remote subscription and drops observers.
// A debounced write already scheduled still runs.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopRemoteLocked()
	c.observers = map[uint64]func(Event[T]){}
	c.mu.Unlock()

	c.subCancel()
}

func (c *Collection[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Items:    cloneItems(c.items),
		Loaded:   c.loaded,
		State:    c.state,
		Identity: c.ident,
	}
}

func cloneItems[T any](src []T) []T {
	out := make([]T, len(src))
	copy(out, src)
	return out
}
