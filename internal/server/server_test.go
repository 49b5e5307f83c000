package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/trueartists/account-web/internal/config"
)

func TestNewAppliesTimeouts(t *testing.T) {
	srv := New(config.HTTP{
		ListenAddr:   ":0",
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 3 * time.Second,
		IdleTimeout:  4 * time.Second,
	}, http.NotFoundHandler())

	if srv.ReadTimeout != 2*time.Second || srv.WriteTimeout != 3*time.Second || srv.IdleTimeout != 4*time.Second {
		t.Fatalf("timeouts not applied: %+v", srv)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: "127.0.0.1:0"}, http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, time.Second, zap.NewNop().Sugar()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReportsListenError(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: "256.0.0.1:99999"}, http.NotFoundHandler())
	if err := Run(context.Background(), srv, time.Second, zap.NewNop().Sugar()); err == nil {
		t.Fatal("expected listen error")
	}
}
