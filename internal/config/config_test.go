package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, ref string) (string, error) {
	if v, ok := f[ref]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644))
	return root
}

const baseYAML = `
http:
  listen_addr: ":9090"
api:
  base_url: "https://api.trueartists.io"
  timeout: "3s"
session:
  csrf_key: "vault:kv/web#csrf"
`

func TestLoadYAMLEnvAndVault(t *testing.T) {
	root := writeConf(t, baseYAML)
	t.Setenv("TA_SITE__PUBLIC_PAGE_BASE_URL", "https://trueartists.io")
	t.Setenv("TA_SESSION__STORAGE__DRIVER", "redis")
	t.Setenv("TA_SESSION__STORAGE__REDIS__ADDR", "127.0.0.1:6379")

	cfg, err := Load(context.Background(), Options{
		Root:     root,
		Resolver: fakeResolver{"vault:kv/web#csrf": "c2VjcmV0"},
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "https://trueartists.io", cfg.Site.PublicPageBaseURL)
	assert.Equal(t, "redis", cfg.Session.Storage.Driver)
	assert.Equal(t, "c2VjcmV0", cfg.Session.CSRFKey)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())

	// defaults
	assert.Equal(t, "ta_session", cfg.Session.CookieName)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoadVaultWithoutResolver(t *testing.T) {
	root := writeConf(t, baseYAML)
	_, err := Load(context.Background(), Options{Root: root})
	assert.ErrorContains(t, err, "no resolver")
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	root := writeConf(t, "http:\n  listen_addr: \":8080\"\n")
	_, err := Load(context.Background(), Options{Root: root})
	assert.Error(t, err)
}

func TestLoadRedisDriverNeedsAddr(t *testing.T) {
	root := writeConf(t, "api:\n  base_url: \"https://api.trueartists.io\"\nsession:\n  storage:\n    driver: redis\n")
	_, err := Load(context.Background(), Options{Root: root})
	assert.ErrorContains(t, err, "redis.addr")
}

func TestGoogleNeedsSecret(t *testing.T) {
	root := writeConf(t, "api:\n  base_url: \"https://api.trueartists.io\"\nsocial:\n  google_app_id: \"abc\"\n")
	_, err := Load(context.Background(), Options{Root: root})
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "session.storage.redis.addr", envKey("TA_SESSION__STORAGE__REDIS__ADDR"))
	assert.Equal(t, "api.base_url", envKey("TA_API__BASE_URL"))
}

func TestReload(t *testing.T) {
	root := writeConf(t, "api:\n  base_url: \"https://api.trueartists.io\"\n")
	_, err := Load(context.Background(), Options{Root: root})
	require.NoError(t, err)

	t.Setenv("TA_HTTP__LISTEN_ADDR", ":7070")
	require.NoError(t, Reload(context.Background()))
	assert.Equal(t, ":7070", Get().HTTP.ListenAddr)
}
