// internal/infra/database/connection.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

type DB struct {
	Client *sql.DB
}

// Pool sizes the connection pool. Category reads are small and bursty,
// so the defaults keep few idle connections around.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	PingTimeout time.Duration
}

var DefaultPool = Pool{
	MaxOpen:     10,
	MaxIdle:     4,
	MaxLifetime: 15 * time.Minute,
	PingTimeout: 5 * time.Second,
}

// NewConnection opens a PostgreSQL pool from a URL or key=value DSN
// and fails unless the server answers a ping.
func NewConnection(ctx context.Context, dsn string) (*DB, error) {
	return Open(ctx, dsn, DefaultPool)
}

func Open(ctx context.Context, dsn string, p Pool) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxLifetime(p.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, p.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	log.Printf("[postgres] pool ready (max_open=%d max_idle=%d)", p.MaxOpen, p.MaxIdle)
	return &DB{Client: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
