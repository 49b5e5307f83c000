// cmd/web/main.go
//
// TrueArtists account web client – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Connect to Vault when VAULT_ADDR is set, so config may hold
//     `vault:` references.
//
//  2. Load config (.env → conf/global.yaml → TA_ env overrides).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Open the token storage backend (memory, Redis, or MySQL).
//
//  5. Build the visitor-session manager around a prototype API client.
//
//  6. Load form definitions and templates from the embedded web bundle,
//     and prepare Google login when it is configured.
//
//  7. Build the router (see router.go) and serve until SIGINT/SIGTERM,
//     then drain in-flight requests.  SIGHUP reloads config and applies
//     the new log level.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/trueartists/account-web/internal/apiclient"
	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/config"
	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/guard"
	"github.com/trueartists/account-web/internal/logger"
	"github.com/trueartists/account-web/internal/requestinfo"
	"github.com/trueartists/account-web/internal/server"
	"github.com/trueartists/account-web/internal/session"
	"github.com/trueartists/account-web/internal/social"
	"github.com/trueartists/account-web/internal/storage"
	"github.com/trueartists/account-web/internal/vault"
	"github.com/trueartists/account-web/internal/view"
	"github.com/trueartists/account-web/web"

	_ "github.com/trueartists/account-web/components/account"
	_ "github.com/trueartists/account-web/components/auth"
	_ "github.com/trueartists/account-web/components/dashboard"
	_ "github.com/trueartists/account-web/components/register"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("account-web: %v", err)
	}
}

// reloadOnHangup re-reads the config on SIGHUP and applies its log level.
// Everything else takes effect on the next restart.
func reloadOnHangup(ctx context.Context, lg *zap.SugaredLogger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := config.Reload(ctx); err != nil {
				lg.Warnw("config reload failed", "err", err)
				continue
			}
			lvl := config.Get().Log.Level
			if err := logger.SetLevel(lvl); err != nil {
				lg.Warnw("log level not applied", "level", lvl, "err", err)
				continue
			}
			lg.Infow("config reloaded", "level", lvl)
		}
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Vault + config ──────────────────────────────────────────────
	//
	var resolver config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, zap.S())
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		resolver = vc
	}
	cfg, err := config.Load(ctx, config.Options{Resolver: resolver})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logDir := cfg.Log.Dir
	if !filepath.IsAbs(logDir) {
		logDir = filepath.Join(cfg.Paths.Root, logDir)
	}
	lg, err := logger.New(logger.Options{Dir: logDir, Level: cfg.Log.Level, Tee: cfg.Log.Console || runningInTTY()})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()
	go reloadOnHangup(ctx, lg)

	//
	// ── 3.  Token storage + sessions ────────────────────────────────────
	//
	st := cfg.Session.Storage
	backend, closeBackend, err := storage.Open(ctx, storage.Options{
		Driver:        st.Driver,
		RedisAddr:     st.Redis.Addr,
		RedisPassword: st.Redis.Password,
		RedisDB:       st.Redis.DB,
		RedisPrefix:   st.Redis.Prefix,
		TTL:           st.TTL,
		SQLDSN:        st.SQL.DSN,
		SQLMigrate:    st.SQL.Migrate,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeBackend() }()
	lg.Infow("token storage online", "driver", st.Driver)

	proto := apiclient.New(&http.Client{Timeout: cfg.API.Timeout})
	if err := proto.Configure(cfg.API.BaseURL); err != nil {
		return err
	}
	sessions := session.NewManager(session.Options{
		API:        proto,
		Backend:    backend,
		Log:        lg,
		IdleTTL:    cfg.Session.IdleTTL,
		MaxEntries: cfg.Session.MaxEntries,
		Cookie: session.CookieOptions{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.CookieMaxAge,
			Secure: cfg.Session.CookieSecure,
		},
	})
	defer sessions.Close()

	//
	// ── 4.  Request info (GeoLite2 optional) ────────────────────────────
	//
	enricher, err := requestinfo.NewEnricher(cfg.GeoIP.Path)
	if err != nil {
		lg.Warnw("geoip disabled", "path", cfg.GeoIP.Path, "err", err)
	}
	defer func() { _ = enricher.Close() }()

	//
	// ── 5.  Forms, views, social login ──────────────────────────────────
	//
	forms := form.NewRegistry()
	if err := forms.LoadFS(web.FS, "forms"); err != nil {
		return err
	}
	views, err := view.New(web.FS)
	if err != nil {
		return err
	}

	var google social.Provider
	if cfg.GoogleEnabled() {
		g, err := social.NewGoogle(ctx, social.GoogleConfig{
			ClientID:     cfg.Social.GoogleAppID,
			ClientSecret: cfg.Social.GoogleSecret,
			RedirectURL:  cfg.Social.GoogleRedirectURL,
		})
		if err != nil {
			lg.Warnw("google login disabled", "err", err)
		} else {
			google = g
		}
	}

	env := &component.Env{
		Forms:         forms,
		CSRF:          form.NewCSRF(cfg.Session.CSRFKey),
		Views:         views,
		Guard:         guard.Default(),
		Sessions:      sessions,
		Google:        google,
		Log:           lg,
		SecureCookies: cfg.Session.CookieSecure,
	}

	//
	// ── 6.  Router + server ─────────────────────────────────────────────
	//
	h, err := newRouter(cfg, env, enricher)
	if err != nil {
		return err
	}
	return server.Run(ctx, server.New(cfg.HTTP, h), cfg.HTTP.ShutdownTimeout, lg)
}
