package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trueartists/account-web/internal/apiclient"
	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/config"
	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/guard"
	"github.com/trueartists/account-web/internal/requestinfo"
	"github.com/trueartists/account-web/internal/session"
	"github.com/trueartists/account-web/internal/view"
	"github.com/trueartists/account-web/web"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	log := zap.NewNop().Sugar()

	proto := apiclient.New(nil)
	require.NoError(t, proto.Configure("http://127.0.0.1:1"))
	mgr := session.NewManager(session.Options{API: proto, Log: log})
	t.Cleanup(mgr.Close)

	forms := form.NewRegistry()
	require.NoError(t, forms.LoadFS(web.FS, "forms"))
	views, err := view.New(web.FS)
	require.NoError(t, err)

	env := &component.Env{
		Forms:    forms,
		CSRF:     form.NewCSRF(""),
		Views:    views,
		Guard:    guard.Default(),
		Sessions: mgr,
		Log:      log,
	}
	enricher, err := requestinfo.NewEnricher("")
	require.NoError(t, err)

	cfg := &config.Config{Site: config.Site{PublicPageBaseURL: "https://trueartists.io"}}
	h, err := newRouter(cfg, env, enricher)
	require.NoError(t, err)
	return h
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestRouter(t *testing.T) {
	h := testRouter(t)

	rr := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))

	rr = get(h, "/")
	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = get(h, "/artists")
	assert.Equal(t, "https://trueartists.io/artists", rr.Header().Get("Location"))

	rr = get(h, "/static/css/app.css")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = get(h, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = get(h, "/login")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Set-Cookie"))

	rr = get(h, "/dashboard")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?return=%2Fdashboard", rr.Header().Get("Location"))
}

func TestRouterNotFound(t *testing.T) {
	h := testRouter(t)

	// Anonymous visitors are sent to login first.
	rr := get(h, "/nowhere")
	assert.Equal(t, http.StatusFound, rr.Code)

	// Public-looking unknown paths render the not-found page.
	rr = get(h, "/tattoos/42")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found")
}
