// internal/adapters/out/memory/local_store_memory.go
package memory

import (
	"context"
	"strings"
	"sync"

	"storefront/internal/application/syncstore"
)

// LocalStoreMemory keeps guest collections in process memory.
// Used when no Redis is configured; contents are lost on restart.
type LocalStoreMemory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewLocalStoreMemory() *LocalStoreMemory {
	return &LocalStoreMemory{data: map[string][]byte{}}
}

// ForDevice scopes the store to one device.
func (s *LocalStoreMemory) ForDevice(deviceID string) syncstore.LocalStore {
	return &deviceStore{parent: s, prefix: strings.TrimSpace(deviceID) + ":"}
}

type deviceStore struct {
	parent *LocalStoreMemory
	prefix string
}

func (d *deviceStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	d.parent.mu.RLock()
	defer d.parent.mu.RUnlock()
	b, ok := d.parent.data[d.prefix+key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (d *deviceStore) Set(_ context.Context, key string, value []byte) error {
	d.parent.mu.Lock()
	defer d.parent.mu.Unlock()
	d.parent.data[d.prefix+key] = append([]byte(nil), value...)
	return nil
}

func (d *deviceStore) Remove(_ context.Context, key string) error {
	d.parent.mu.Lock()
	defer d.parent.mu.Unlock()
	delete(d.parent.data, d.prefix+key)
	return nil
}
