package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestParseRef(t *testing.T) {
	p, k, err := ParseRef("vault:kv/trueartists/web#csrf_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "kv/trueartists/web" || k != "csrf_key" {
		t.Fatalf("got %q %q", p, k)
	}

	for _, bad := range []string{"kv/web#k", "vault:kv/web", "vault:#k", "vault:kv#k", "vault:kv/web#"} {
		if _, _, err := ParseRef(bad); !errors.Is(err, ErrBadRef) {
			t.Fatalf("%q: expected ErrBadRef, got %v", bad, err)
		}
	}
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("kv/app/web")
	if m != "kv" || r != "app/web" {
		t.Fatalf("got %q %q", m, r)
	}
}

func TestResolveServesCache(t *testing.T) {
	c := &Client{
		log: zap.NewNop().Sugar(),
		cache: map[string]cached{
			"kv/app#secret": {val: "s3cret", exp: time.Now().Add(time.Minute)},
		},
	}
	got, err := c.Resolve(context.Background(), "vault:kv/app#secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s3cret" {
		t.Fatalf("got %q", got)
	}
}

func TestGetKVRejectsEmpty(t *testing.T) {
	c := &Client{cache: map[string]cached{}}
	if _, err := c.GetKV(context.Background(), "", "k", 0); err == nil {
		t.Fatal("expected error")
	}
}
