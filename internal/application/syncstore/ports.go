// internal/application/syncstore/ports.go
package syncstore

import (
	"context"
	"time"
)

// LocalStore is the device-scoped byte store used while no identity is established.
// Get returns (nil, false, nil) when the key is absent.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// RemoteStore is the per-user document store used once identity is established.
//
// SetMerge MUST only touch the named fields: cart and wishlist share one document.
// Subscribe delivers the current document and every later change until the
// returned cancel func is called. It must not invoke onChange synchronously.
type RemoteStore interface {
	GetOnce(ctx context.Context, path string) (doc map[string]any, exists bool, err error)
	SetMerge(ctx context.Context, path string, fields map[string]any) error
	Subscribe(ctx context.Context, path string, onChange func(doc map[string]any, exists bool)) (cancel func(), err error)
}

// Binding describes how one collection kind is stored.
type Binding[T any] struct {
	// Name is used in log tags only.
	Name string

	LocalKey    string
	RemoteField string

	DecodeLocal  func([]byte) []T
	EncodeLocal  func([]T) ([]byte, error)
	DecodeRemote func(any) []T
	EncodeRemote func([]T) any

	// Merge unions the remote value with the guest's local value on login.
	Merge func(remote, local []T) []T
}

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Timer is the handle of a scheduled debounce.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. *time.Timer satisfies Timer.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Options tunes a Collection. Zero values fall back to defaults.
type Options struct {
	// Debounce is the quiescence window before a write (default 500ms).
	Debounce time.Duration
	// EchoWindow is how long remote pushes are ignored after an own remote write (default 1.5s).
	EchoWindow time.Duration
	// Timeout bounds each backend call (default 10s).
	Timeout time.Duration

	Scheduler Scheduler
	Clock     Clock
}

const (
	DefaultDebounce   = 500 * time.Millisecond
	DefaultEchoWindow = 1500 * time.Millisecond
	DefaultTimeout    = 10 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.EchoWindow <= 0 {
		o.EchoWindow = DefaultEchoWindow
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Scheduler == nil {
		o.Scheduler = timeScheduler{}
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	return o
}
