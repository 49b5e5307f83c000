package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	sqlSchema = `CREATE TABLE IF NOT EXISTS session_token (
	session_id VARCHAR(64) NOT NULL PRIMARY KEY,
	token      TEXT        NOT NULL,
	updated_at DATETIME    NOT NULL
)`
	sqlGet    = `SELECT token FROM session_token WHERE session_id = ?`
	sqlFresh  = `SELECT token FROM session_token WHERE session_id = ? AND updated_at > ?`
	sqlPurge  = `DELETE FROM session_token WHERE updated_at <= ?`
	sqlUpsert = `INSERT INTO session_token (session_id, token, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE token = VALUES(token), updated_at = VALUES(updated_at)`
	sqlDelete = `DELETE FROM session_token WHERE session_id = ?`
)

// SQL stores tokens in the session_token table.  With a TTL, rows older
// than the TTL read as missing and Purge deletes them.
type SQL struct {
	db  *sqlx.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQL wraps an open pool.  ttl <= 0 keeps tokens until deleted.  Call
// Migrate once at bootstrap.
func NewSQL(db *sqlx.DB, ttl time.Duration) *SQL {
	return &SQL{db: db, ttl: ttl, now: time.Now}
}

// OpenSQL returns a *sqlx.DB with conservative pool sizes: 10 max open, 5
// idle, and a 30-minute connection lifetime.  It pings before returning so
// bootstrap fails fast.
func OpenSQL(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// Migrate creates session_token when missing.
func (b *SQL) Migrate(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, sqlSchema); err != nil {
		return fmt.Errorf("migrate session_token: %w", err)
	}
	return nil
}

func (b *SQL) Get(ctx context.Context, key string) (string, error) {
	var tok string
	var err error
	if b.ttl > 0 {
		err = b.db.GetContext(ctx, &tok, sqlFresh, key, b.cutoff())
	} else {
		err = b.db.GetContext(ctx, &tok, sqlGet, key)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("select token: %w", err)
	}
	return tok, nil
}

func (b *SQL) Set(ctx context.Context, key, token string) error {
	if _, err := b.db.ExecContext(ctx, sqlUpsert, key, token, b.now().UTC()); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (b *SQL) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, sqlDelete, key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Purge deletes expired rows and reports how many went.  Without a TTL it
// does nothing.
func (b *SQL) Purge(ctx context.Context) (int64, error) {
	if b.ttl <= 0 {
		return 0, nil
	}
	res, err := b.db.ExecContext(ctx, sqlPurge, b.cutoff())
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	return res.RowsAffected()
}

// purgeLoop runs Purge every interval until done is closed.
func (b *SQL) purgeLoop(done <-chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := b.Purge(ctx); err != nil {
				zap.S().Warnw("token purge failed", "err", err)
			} else if n > 0 {
				zap.S().Debugw("expired tokens purged", "rows", n)
			}
			cancel()
		}
	}
}

func (b *SQL) cutoff() time.Time { return b.now().UTC().Add(-b.ttl) }
