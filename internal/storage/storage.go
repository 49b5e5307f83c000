// Package storage holds the durable token slot behind each visitor session.
// A Backend maps an opaque visitor-session id to the API token issued at
// login; the session store reads it once on restore and writes it on login
// and logout.
//
// Backends:
//
//	Memory  – process-local map, used in development and tests.
//	Redis   – go-redis v9, key prefix + optional TTL.
//	SQL     – sqlx + MySQL driver, one row per visitor in session_token.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no token is stored under key.
var ErrNotFound = errors.New("storage: token not found")

// Backend persists tokens by visitor-session id.  Delete of a missing key is
// not an error.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}

// Slot binds a Backend to one key so the session store never handles other
// visitors' ids.
type Slot struct {
	Backend Backend
	Key     string
}

// Load returns the stored token or ErrNotFound.
func (s Slot) Load(ctx context.Context) (string, error) {
	if s.Backend == nil || s.Key == "" {
		return "", ErrNotFound
	}
	return s.Backend.Get(ctx, s.Key)
}

// Save overwrites the stored token.
func (s Slot) Save(ctx context.Context, token string) error {
	if s.Backend == nil || s.Key == "" {
		return errors.New("storage: slot has no backend")
	}
	return s.Backend.Set(ctx, s.Key, token)
}

// Clear removes the stored token.
func (s Slot) Clear(ctx context.Context) error {
	if s.Backend == nil || s.Key == "" {
		return nil
	}
	return s.Backend.Delete(ctx, s.Key)
}
