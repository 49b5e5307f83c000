package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueartists/account-web/internal/auth"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(srv.Client())
	require.NoError(t, c.Configure(srv.URL+"/v1/"))
	return c
}

func TestConfigureRejectsRelativeURL(t *testing.T) {
	c := New(nil)
	assert.Error(t, c.Configure(""))
	assert.Error(t, c.Configure("/api"))
	assert.Error(t, c.Configure("ftp://example.com"))
	require.NoError(t, c.Configure("https://api.example.com/v1/"))
	assert.Equal(t, "https://api.example.com/v1", c.BaseURL())
}

func TestDoBeforeConfigure(t *testing.T) {
	err := New(nil).Do(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRelativePathResolvesAgainstBase(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "artists?page=2", nil, nil))
	assert.Equal(t, "/v1/artists", gotPath)
	assert.Equal(t, "page=2", gotQuery)
}

func TestAuthHeaderLifecycle(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
	})
	ctx := context.Background()

	require.NoError(t, c.Do(ctx, http.MethodGet, "/ping", nil, nil))
	c.SetAuthHeader("tok-1")
	assert.Equal(t, "Bearer tok-1", c.AuthHeader())
	require.NoError(t, c.Do(ctx, http.MethodGet, "/ping", nil, nil))
	c.ClearAuthHeader()
	require.NoError(t, c.Do(ctx, http.MethodGet, "/ping", nil, nil))

	assert.Equal(t, []string{"", "Bearer tok-1", ""}, seen)
}

func TestCloneOwnsHeader(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Configure("https://api.example.com"))
	c.SetAuthHeader("a")

	cl := c.Clone()
	assert.Equal(t, "", cl.AuthHeader())
	assert.Equal(t, c.BaseURL(), cl.BaseURL())

	cl.SetAuthHeader("b")
	assert.Equal(t, "Bearer a", c.AuthHeader())
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":true,"message":"token expired"}`))
	})
	err := c.Do(context.Background(), http.MethodGet, "/auth/me", nil, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "token expired", se.Message)
	assert.True(t, se.Unauthorized())
	assert.Equal(t, "unauthorized", Reason(err))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(nil)
	require.NoError(t, c.Configure(srv.URL))
	err := c.Do(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "transport", Reason(err))
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret1" {
			_, _ = w.Write([]byte(`{"error":true,"message":"bad credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"error":false,"data":{"user":{"id":1,"email":"a@b.co","role":"artist"},"token":"T"}}`))
	})
	ctx := context.Background()

	data, err := c.Login(ctx, "a@b.co", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "T", data.Token)
	assert.Equal(t, auth.RoleArtist, data.User.Role)

	_, err = c.Login(ctx, "a@b.co", "nope")
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, "rejected", Reason(err))
}

func TestLoginWithoutTokenIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":false,"data":{"user":{"id":1,"role":"artist"}}}`))
	})
	_, err := c.Login(context.Background(), "a@b.co", "x")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestSocialLoginBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/social-login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "g-123", body["socialId"])
		assert.Equal(t, "a@b.co", body["email"])
		_, _ = w.Write([]byte(`{"error":false,"data":{"user":{"id":2,"role":"studio"},"token":"S"}}`))
	})
	data, err := c.SocialLogin(context.Background(), "g-123", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStudio, data.User.Role)
}

func TestCurrentUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"error":false,"data":{"user":{"id":3,"email":"r@b.co","role":"regular"}}}`))
	})
	c.SetAuthHeader("T")
	id, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id.ID)
	assert.Equal(t, auth.RoleRegular, id.Role)
}

func TestCallChecksEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/ok" {
			_, _ = w.Write([]byte(`{"error":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"error":true,"message":"link expired"}`))
	})
	ctx := context.Background()
	assert.NoError(t, c.Call(ctx, http.MethodPost, "/ok", map[string]string{"a": "b"}))
	assert.ErrorIs(t, c.Call(ctx, http.MethodPost, "/bad", nil), ErrRejected)
}
