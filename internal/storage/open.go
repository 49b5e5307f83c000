package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects and configures a Backend.
type Options struct {
	Driver string // memory | redis | sql

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	TTL           time.Duration // token lifetime for redis and sql; 0 keeps forever

	SQLDSN     string
	SQLMigrate bool // create the token table when missing
}

// purgeInterval sweeps expired SQL rows at most hourly, and at least once
// per TTL.
func purgeInterval(ttl time.Duration) time.Duration {
	if ttl < time.Hour {
		return ttl
	}
	return time.Hour
}

// Open builds the configured Backend and returns a closer for its
// connections.
func Open(ctx context.Context, o Options) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch o.Driver {
	case "", "memory":
		return NewMemory(), noop, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     o.RedisAddr,
			Password: o.RedisPassword,
			DB:       o.RedisDB,
		})
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("storage: redis %s: %w", o.RedisAddr, err)
		}
		return NewRedis(client, o.RedisPrefix, o.TTL), client.Close, nil

	case "sql":
		db, err := OpenSQL(ctx, o.SQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: sql: %w", err)
		}
		b := NewSQL(db, o.TTL)
		if o.SQLMigrate {
			if err := b.Migrate(ctx); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("storage: %w", err)
			}
		}
		if o.TTL <= 0 {
			return b, db.Close, nil
		}
		done := make(chan struct{})
		go b.purgeLoop(done, purgeInterval(o.TTL))
		return b, func() error { close(done); return db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("storage: unknown driver %q", o.Driver)
}
