// internal/adapters/out/redis/local_store_redis_test.go
package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestNewLocalStoreRedis_Defaults(t *testing.T) {
	s := NewLocalStoreRedis(nil, " ", 0)
	if s.Prefix != "storefront" || s.TTL != DefaultTTL {
		t.Fatalf("prefix=%q ttl=%v", s.Prefix, s.TTL)
	}
	if got := s.key("dev-1", " cart "); got != "storefront:device:dev-1:cart" {
		t.Fatalf("key=%s", got)
	}

	s = NewLocalStoreRedis(nil, "shop", time.Hour)
	if got := s.key("d", "wishlist"); got != "shop:device:d:wishlist" {
		t.Fatalf("key=%s", got)
	}
}

func TestDeviceStore_NilClientErrors(t *testing.T) {
	st := NewLocalStoreRedis(nil, "", 0).ForDevice("dev-1")
	if _, _, err := st.Get(context.Background(), "cart"); err == nil {
		t.Fatalf("expected error without a client")
	}
	if err := st.Set(context.Background(), "cart", []byte("[]")); err == nil {
		t.Fatalf("expected error without a client")
	}
}

func newMiniredisStore(t *testing.T) (*miniredis.Miniredis, *LocalStoreRedis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewLocalStoreRedis(client, "shop", time.Hour)
}

func TestDeviceStore_RoundTrip(t *testing.T) {
	mr, s := newMiniredisStore(t)
	ctx := context.Background()
	st := s.ForDevice("dev-1")

	if b, ok, err := st.Get(ctx, "cart"); err != nil || ok || b != nil {
		t.Fatalf("absent key: b=%q ok=%v err=%v", b, ok, err)
	}

	if err := st.Set(ctx, "cart", []byte(`[{"q":1}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := st.Get(ctx, "cart")
	if err != nil || !ok || string(b) != `[{"q":1}]` {
		t.Fatalf("get: b=%q ok=%v err=%v", b, ok, err)
	}

	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "shop:device:dev-1:cart" {
		t.Fatalf("keys=%v", keys)
	}

	if _, ok, _ := s.ForDevice("dev-2").Get(ctx, "cart"); ok {
		t.Fatalf("devices must not share keys")
	}

	if err := st.Remove(ctx, "cart"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "cart"); ok {
		t.Fatalf("key survived remove")
	}
	if mr.Exists("shop:device:dev-1:cart") {
		t.Fatalf("key still in redis")
	}
}

func TestDeviceStore_WriteRefreshesTTL(t *testing.T) {
	mr, s := newMiniredisStore(t)
	ctx := context.Background()
	st := s.ForDevice("dev-1")
	key := "shop:device:dev-1:wishlist"

	_ = st.Set(ctx, "wishlist", []byte(`["a"]`))
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("ttl=%v", ttl)
	}

	mr.FastForward(40 * time.Minute)
	_ = st.Set(ctx, "wishlist", []byte(`["a","b"]`))
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("ttl after rewrite=%v", ttl)
	}

	mr.FastForward(61 * time.Minute)
	if _, ok, err := st.Get(ctx, "wishlist"); err != nil || ok {
		t.Fatalf("expired key still readable ok=%v err=%v", ok, err)
	}
}
