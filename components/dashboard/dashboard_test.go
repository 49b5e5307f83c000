package dashboard

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authcomp "github.com/trueartists/account-web/components/auth"
	"github.com/trueartists/account-web/internal/component/componenttest"
)

func newHarness(t *testing.T) *componenttest.Harness {
	return componenttest.New(t, componenttest.Options{}, &authcomp.Component{}, &Component{})
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	h := newHarness(t)
	code, loc, _ := h.Get("/dashboard/gallery?page=2")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login?return=%2Fdashboard%2Fgallery%3Fpage%3D2", loc)
}

func TestArtistDashboard(t *testing.T) {
	h := newHarness(t)
	h.Login("artist@ta.io")

	code, _, body := h.Get("/dashboard")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>Dashboard</h1>")
	assert.Contains(t, body, "Tattoo Gallery")
	assert.Contains(t, body, "My Studios")
	assert.NotContains(t, body, "My Artists")

	code, _, body = h.Get("/dashboard/profile")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>Artist Profile</h1>")
	assert.Contains(t, body, "artist@ta.io")

	// Studio-only page bounces to the artist's landing page.
	code, loc, _ := h.Get("/dashboard/my-artists")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/dashboard", loc)
}

func TestStudioDashboard(t *testing.T) {
	h := newHarness(t)
	h.Login("studio@ta.io")

	code, _, body := h.Get("/dashboard/my-artists")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>My Artists</h1>")
	assert.Contains(t, body, "Studio Profile")
}

func TestRegularUserLimitedToProfile(t *testing.T) {
	h := newHarness(t)
	h.Login("regular@ta.io")

	code, loc, _ := h.Get("/dashboard")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/dashboard/profile", loc)

	code, _, body := h.Get("/dashboard/profile")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>Profile</h1>")
	assert.NotContains(t, body, "Tattoo Gallery")
}

func TestRestoredSessionThroughGuard(t *testing.T) {
	h := newHarness(t)
	sid := h.SessionID()
	require.NoError(t, h.Backend.Set(context.Background(), sid, "tok-artist@ta.io"))

	code, _, body := h.Get("/dashboard/my-studios")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>My Studios</h1>")

	code, loc, _ := h.Get("/dashboard/my-artists")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/dashboard", loc)

	assert.Len(t, h.API.Calls("/auth/me"), 1)
	assert.Equal(t, 1, h.Env.Sessions.Len())
}
