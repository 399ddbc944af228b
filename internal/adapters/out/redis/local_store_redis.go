// internal/adapters/out/redis/local_store_redis.go
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"storefront/internal/application/syncstore"
)

// DefaultTTL keeps an abandoned guest cart around for a quarter.
const DefaultTTL = 90 * 24 * time.Hour

// LocalStoreRedis holds guest collections in Redis, one key per device and
// collection: {prefix}:device:{deviceId}:{key}. Every write refreshes the TTL.
type LocalStoreRedis struct {
	Client *goredis.Client
	Prefix string
	TTL    time.Duration
}

func NewLocalStoreRedis(client *goredis.Client, prefix string, ttl time.Duration) *LocalStoreRedis {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "storefront"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LocalStoreRedis{Client: client, Prefix: prefix, TTL: ttl}
}

// ForDevice scopes the store to one device.
func (s *LocalStoreRedis) ForDevice(deviceID string) syncstore.LocalStore {
	return &deviceStore{parent: s, deviceID: strings.TrimSpace(deviceID)}
}

func (s *LocalStoreRedis) key(deviceID, key string) string {
	return s.Prefix + ":device:" + deviceID + ":" + strings.TrimSpace(key)
}

type deviceStore struct {
	parent   *LocalStoreRedis
	deviceID string
}

func (d *deviceStore) client() (*goredis.Client, error) {
	if d.parent == nil || d.parent.Client == nil {
		return nil, errors.New("local_store_redis: client is nil")
	}
	if d.deviceID == "" {
		return nil, errors.New("local_store_redis: device id is empty")
	}
	return d.parent.Client, nil
}

func (d *deviceStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c, err := d.client()
	if err != nil {
		return nil, false, err
	}
	b, err := c.Get(ctx, d.parent.key(d.deviceID, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (d *deviceStore) Set(ctx context.Context, key string, value []byte) error {
	c, err := d.client()
	if err != nil {
		return err
	}
	return c.Set(ctx, d.parent.key(d.deviceID, key), value, d.parent.TTL).Err()
}

func (d *deviceStore) Remove(ctx context.Context, key string) error {
	c, err := d.client()
	if err != nil {
		return err
	}
	return c.Del(ctx, d.parent.key(d.deviceID, key)).Err()
}
