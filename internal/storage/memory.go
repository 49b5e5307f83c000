package storage

import (
	"context"
	"sync"
)

// Memory is a process-local Backend.  Tokens do not survive a restart.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (b *Memory) Get(_ context.Context, key string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	tok, ok := b.m[key]
	if !ok {
		return "", ErrNotFound
	}
	return tok, nil
}

func (b *Memory) Set(_ context.Context, key, token string) error {
	b.mu.Lock()
	b.m[key] = token
	b.mu.Unlock()
	return nil
}

func (b *Memory) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.m, key)
	b.mu.Unlock()
	return nil
}

// Len reports how many tokens are held.
func (b *Memory) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.m)
}
