// internal/infra/redis/client.go
package redisinfra

import (
	"context"
	"log"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient connects to REDIS_URL, or to addr/password when no URL is set.
// It returns nil (and logs) when Redis is not configured or unreachable;
// callers fall back to the in-memory local store.
func NewClient(ctx context.Context, url, addr, password string) *goredis.Client {
	url = strings.TrimSpace(url)
	addr = strings.TrimSpace(addr)
	if url == "" && addr == "" {
		log.Printf("[redis] not configured; guest collections stay in memory")
		return nil
	}

	var opt *goredis.Options
	if url != "" {
		parsed, err := goredis.ParseURL(url)
		if err != nil {
			log.Printf("[redis] WARN: failed to parse REDIS_URL: %v (running without redis)", err)
			return nil
		}
		opt = parsed
	} else {
		opt = &goredis.Options{Addr: addr, Password: password, DB: 0}
	}

	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[redis] WARN: connection failed: %v (running without redis)", err)
		_ = client.Close()
		return nil
	}

	log.Printf("[redis] connected addr=%s", opt.Addr)
	return client
}
