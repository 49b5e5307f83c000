package register

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authcomp "github.com/trueartists/account-web/components/auth"
	"github.com/trueartists/account-web/internal/component/componenttest"
)

func newHarness(t *testing.T) *componenttest.Harness {
	return componenttest.New(t, componenttest.Options{}, &authcomp.Component{}, &Component{})
}

func TestSelectionPage(t *testing.T) {
	h := newHarness(t)
	code, _, body := h.Get("/register-selection")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "/register?type=artist")
	assert.Contains(t, body, "/login?callback=register&amp;type=studio")
}

func TestRegisterPrefillsType(t *testing.T) {
	h := newHarness(t)
	_, _, body := h.Get("/register?type=studio")
	assert.Contains(t, body, `<option value="studio" selected>`)

	_, _, body = h.Get("/register?type=admin")
	assert.NotContains(t, body, `selected>`)
}

func TestCallbackPayloadConsumedOnce(t *testing.T) {
	h := newHarness(t)
	code, loc, _ := h.Post("/login?callback=register&type=artist",
		url.Values{"email": {"artist@ta.io"}, "password": {"secret1"}})
	require.Equal(t, http.StatusSeeOther, code)
	require.Equal(t, "/register", loc)

	_, _, body := h.Get(loc)
	assert.Contains(t, body, `value="artist@ta.io"`)
	assert.Contains(t, body, `<option value="artist" selected>`)

	_, _, body = h.Get(loc)
	assert.NotContains(t, body, `value="artist@ta.io"`)
}

func TestRegisterSubmit(t *testing.T) {
	h := newHarness(t)
	code, loc, _ := h.Post("/register", url.Values{
		"type":             {"artist"},
		"full_name":        {"Ana Ink"},
		"email":            {"ana@ta.io"},
		"password":         {"abc123"},
		"confirm_password": {"abc123"},
	})
	assert.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/login?registered=1", loc)

	code, _, body := h.Get(loc)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Thanks for joining.")
	assert.Contains(t, body, `name="password"`)

	calls := h.API.Calls("/auth/register")
	require.Len(t, calls, 1)
	assert.Equal(t, "artist", calls[0].Body["role"])
	assert.Equal(t, "Ana Ink", calls[0].Body["fullName"])
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)
	code, _, body := h.Post("/register", url.Values{
		"type":             {"artist"},
		"full_name":        {"Ana Ink"},
		"email":            {"ana@ta.io"},
		"password":         {"abcdef"},
		"confirm_password": {"abcdeg"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Password must have at least 6 characters with letters and digits")
	assert.Empty(t, h.API.Calls("/auth/register"))
}
