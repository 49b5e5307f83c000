package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/form"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layout.html": {Data: []byte(
			`{{define "layout"}}<title>{{.Title}}</title><body class="{{device .Info}}">` +
				`{{template "sidebar" .}}{{template "content" .}}</body>{{end}}`)},
		"templates/partials/sidebar.html": {Data: []byte(
			`{{define "sidebar"}}{{range .Main}}<a href="{{.URL}}"{{if active $.Path .URL}} class="on"{{end}}>{{.Name}}</a>{{end}}{{end}}`)},
		"templates/pages/hello.html": {Data: []byte(
			`{{define "content"}}{{alert .Alert}}<p>{{initial .Identity.DisplayName}}</p>{{end}}`)},
		"templates/pages/plain.html": {Data: []byte(`{{define "content"}}plain{{end}}`)},
	}
}

func TestRenderPage(t *testing.T) {
	r, err := New(testFS())
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "plain"}, r.Pages())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	id := &auth.Identity{ID: 1, Email: "ana@ta.io", FullName: "ana ink", Role: auth.RoleArtist}
	req = req.WithContext(auth.WithIdentity(req.Context(), id))

	p := NewPage(req, "Dashboard")
	p.Alert = &form.Alert{Severity: form.SeverityError, Message: "oops"}

	rr := httptest.NewRecorder()
	require.NoError(t, r.Render(rr, http.StatusOK, "hello", p))

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<title>Dashboard</title>")
	assert.Contains(t, body, `class="desktop"`)
	assert.Contains(t, body, "oops")
	assert.Contains(t, body, `<a href="/dashboard" class="on">`)
	assert.Contains(t, body, "<p>A</p>")
}

func TestRenderAnonymousHasNoSidebar(t *testing.T) {
	r, err := New(testFS())
	require.NoError(t, err)

	p := NewPage(httptest.NewRequest(http.MethodGet, "/login", nil), "Login")
	assert.False(t, p.Authenticated())
	assert.Empty(t, p.Main)

	html, err := r.RenderToString("plain", p)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<a ")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New(testFS())
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	assert.Error(t, r.Render(rr, http.StatusOK, "missing", &Page{}))
	assert.Equal(t, 0, rr.Body.Len())
}

func TestNewRequiresPages(t *testing.T) {
	_, err := New(fstest.MapFS{"templates/layout.html": {Data: []byte(`{{define "layout"}}{{end}}`)}})
	assert.Error(t, err)
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "?", initial(""))
	assert.Equal(t, "É", initial("élan"))
}
