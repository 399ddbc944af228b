// internal/application/syncstore/syncstoretest/syncstoretest.go

// Package syncstoretest provides in-memory backends and a manual scheduler
// for driving syncstore collections deterministically in tests.
package syncstoretest

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/application/syncstore"
)

var ErrBackendDown = errors.New("syncstoretest: backend down")

// ------------------------------
// Local
// ------------------------------

// Local is an in-memory syncstore.LocalStore that counts writes.
type Local struct {
	mu     sync.Mutex
	data   map[string][]byte
	sets   int
	GetErr error
	SetErr error
}

func NewLocal() *Local { return &Local{data: map[string][]byte{}} }

func (m *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *Local) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Local) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Raw returns the stored bytes as a string.
func (m *Local) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	return string(b), ok
}

// Sets is the number of successful writes.
func (m *Local) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// ------------------------------
// Remote
// ------------------------------

// Remote is an in-memory syncstore.RemoteStore. Subscriptions are only
// notified when Push or External is called.
type Remote struct {
	mu       sync.Mutex
	docs     map[string]map[string]any
	writes   []map[string]any
	subs     map[string][]*sub
	getCalls int
	GetErr   error
	SetErr   error
}

type sub struct {
	fn        func(map[string]any, bool)
	cancelled bool
}

func NewRemote() *Remote {
	return &Remote{docs: map[string]map[string]any{}, subs: map[string][]*sub{}}
}

func (r *Remote) GetOnce(_ context.Context, path string) (map[string]any, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.GetErr != nil {
		return nil, false, r.GetErr
	}
	doc, ok := r.docs[path]
	if !ok {
		return nil, false, nil
	}
	return copyDoc(doc), true, nil
}

func (r *Remote) SetMerge(_ context.Context, path string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SetErr != nil {
		return r.SetErr
	}
	doc, ok := r.docs[path]
	if !ok {
		doc = map[string]any{}
		r.docs[path] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	r.writes = append(r.writes, copyDoc(fields))
	return nil
}

func (r *Remote) Subscribe(_ context.Context, path string, onChange func(map[string]any, bool)) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &sub{fn: onChange}
	r.subs[path] = append(r.subs[path], s)
	return func() {
		r.mu.Lock()
		s.cancelled = true
		r.mu.Unlock()
	}, nil
}

// Seed stores doc at path without notifying anyone.
func (r *Remote) Seed(path string, doc map[string]any) {
	r.mu.Lock()
	r.docs[path] = copyDoc(doc)
	r.mu.Unlock()
}

// Push delivers the stored document to every subscriber, cancelled ones
// included, the way a late snapshot from a torn-down listener would arrive.
func (r *Remote) Push(path string) {
	r.mu.Lock()
	doc, ok := r.docs[path]
	var cp map[string]any
	if ok {
		cp = copyDoc(doc)
	}
	subs := append([]*sub(nil), r.subs[path]...)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(cp, ok)
	}
}

// External simulates a write from another device and pushes it.
func (r *Remote) External(path, field string, v any) {
	r.mu.Lock()
	doc, ok := r.docs[path]
	if !ok {
		doc = map[string]any{}
		r.docs[path] = doc
	}
	doc[field] = v
	r.mu.Unlock()
	r.Push(path)
}

func (r *Remote) WriteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func (r *Remote) GetCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

func (r *Remote) ActiveSubs(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.subs[path] {
		if !s.cancelled {
			n++
		}
	}
	return n
}

// Field returns the stored value of field at path, nil when absent.
func (r *Remote) Field(path, field string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[path][field]
}

func copyDoc(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ------------------------------
// Scheduler / Clock
// ------------------------------

// Scheduler arms timers that only run when Fire is called.
type Scheduler struct {
	mu     sync.Mutex
	timers []*timer
}

type timer struct {
	mu      *sync.Mutex
	f       func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *Scheduler) AfterFunc(_ time.Duration, f func()) syncstore.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &timer{mu: &s.mu, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Fire runs every timer that is still armed and returns how many ran.
func (s *Scheduler) Fire() int {
	s.mu.Lock()
	var due []*timer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

// Clock is a settable clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock { return &Clock{now: now} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
