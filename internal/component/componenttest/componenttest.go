// Package componenttest runs page components against a fake TrueArtists
// API behind the real session and guard middleware.
//
// Accounts artist@ta.io, studio@ta.io, and regular@ta.io exist; every
// password except "wrong" is accepted and tokens are "tok-<email>".
package componenttest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/trueartists/account-web/internal/apiclient"
	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/guard"
	"github.com/trueartists/account-web/internal/session"
	"github.com/trueartists/account-web/internal/social"
	"github.com/trueartists/account-web/internal/storage"
	"github.com/trueartists/account-web/internal/view"
	"github.com/trueartists/account-web/web"
)

// Call is one request the fake API received.
type Call struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// API is the fake REST backend.
type API struct {
	Server *httptest.Server

	mu    sync.Mutex
	calls []Call
	roles map[string]auth.Role
}

// AddAccount lets email sign in with role, known or not.
func (a *API) AddAccount(email string, role auth.Role) {
	a.mu.Lock()
	a.roles[email] = role
	a.mu.Unlock()
}

// Calls returns the requests received for path.
func (a *API) Calls(path string) []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Call
	for _, c := range a.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func newAPI(t *testing.T) *API {
	t.Helper()
	a := &API{roles: map[string]auth.Role{
		"artist@ta.io":  auth.RoleArtist,
		"studio@ta.io":  auth.RoleStudio,
		"regular@ta.io": auth.RoleRegular,
	}}
	a.Server = httptest.NewServer(http.HandlerFunc(a.serve))
	t.Cleanup(a.Server.Close)
	return a
}

func (a *API) serve(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	a.mu.Lock()
	a.calls = append(a.calls, Call{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	str := func(k string) string { s, _ := body[k].(string); return s }

	switch {
	case r.URL.Path == "/auth/login":
		if str("password") == "wrong" {
			fmt.Fprint(w, `{"error":true,"message":"invalid credentials"}`)
			return
		}
		a.issue(w, str("email"), "")
	case r.URL.Path == "/auth/social-login":
		a.issue(w, str("email"), str("socialId"))
	case r.URL.Path == "/auth/me":
		email := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer tok-")
		a.mu.Lock()
		_, ok := a.roles[email]
		a.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":true,"message":"unauthorized"}`)
			return
		}
		a.issue(w, email, "")
	case r.URL.Path == "/auth/forgot-password" && str("email") == "unknown@ta.io":
		fmt.Fprint(w, `{"error":true,"message":"no such account"}`)
	default:
		fmt.Fprint(w, `{"error":false}`)
	}
}

func (a *API) issue(w http.ResponseWriter, email, socialID string) {
	a.mu.Lock()
	role, ok := a.roles[email]
	a.mu.Unlock()
	if !ok {
		fmt.Fprint(w, `{"error":true,"message":"unknown account"}`)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": false,
		"data": map[string]any{
			"user":  map[string]any{"id": 7, "email": email, "full_name": "Test " + role.String(), "role": role.String(), "social_id": socialID},
			"token": "tok-" + email,
		},
	})
}

// Provider is a fake social.Provider.  Exchange succeeds for code "good".
type Provider struct {
	Profile social.Profile
}

func (p *Provider) Name() string { return "fake" }

func (p *Provider) AuthCodeURL(state, nonce string) string {
	return "https://accounts.example/auth?" + url.Values{"state": {state}, "nonce": {nonce}}.Encode()
}

func (p *Provider) Exchange(_ context.Context, code, _ string) (social.Profile, error) {
	if code != "good" {
		return social.Profile{}, errors.New("bad code")
	}
	return p.Profile, nil
}

// Harness is a running site with the given components mounted.
type Harness struct {
	T       *testing.T
	API     *API
	Env     *component.Env
	Backend *storage.Memory
	Server  *httptest.Server
	Client  *http.Client
}

// Options tweaks New.
type Options struct {
	Google social.Provider
}

// New mounts comps behind the session and guard middleware.
func New(t *testing.T, o Options, comps ...component.Component) *Harness {
	t.Helper()
	api := newAPI(t)

	proto := apiclient.New(nil)
	if err := proto.Configure(api.Server.URL); err != nil {
		t.Fatalf("configure api: %v", err)
	}

	forms := form.NewRegistry()
	if err := forms.LoadFS(web.FS, "forms"); err != nil {
		t.Fatalf("load forms: %v", err)
	}
	views, err := view.New(web.FS)
	if err != nil {
		t.Fatalf("parse views: %v", err)
	}

	log := zap.NewNop().Sugar()
	backend := storage.NewMemory()
	mgr := session.NewManager(session.Options{API: proto, Backend: backend, Log: log})
	t.Cleanup(mgr.Close)

	env := &component.Env{
		Forms:    forms,
		CSRF:     form.NewCSRF(""),
		Views:    views,
		Guard:    guard.Default(),
		Sessions: mgr,
		Google:   o.Google,
		Log:      log,
	}

	r := chi.NewRouter()
	r.Group(func(g chi.Router) {
		g.Use(mgr.Middleware)
		g.Use(guard.Middleware(env.Guard))
		for _, c := range comps {
			if err := c.Init(env); err != nil {
				t.Fatalf("init %s: %v", c.Name(), err)
			}
			c.Routes(g)
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &Harness{T: t, API: api, Env: env, Backend: backend, Server: srv, Client: client}
}

// Get fetches path and returns the status, Location header, and body.
func (h *Harness) Get(path string) (int, string, string) {
	h.T.Helper()
	resp, err := h.Client.Get(h.Server.URL + path)
	if err != nil {
		h.T.Fatalf("GET %s: %v", path, err)
	}
	return read(h.T, resp)
}

// Post submits form values to path.  A csrf_token bound to the client's
// session is added unless present.
func (h *Harness) Post(path string, vals url.Values) (int, string, string) {
	h.T.Helper()
	if vals == nil {
		vals = url.Values{}
	}
	if _, ok := vals[form.FieldCSRF]; !ok {
		vals.Set(form.FieldCSRF, h.Env.CSRF.Token(h.SessionID()))
	}
	resp, err := h.Client.PostForm(h.Server.URL+path, vals)
	if err != nil {
		h.T.Fatalf("POST %s: %v", path, err)
	}
	return read(h.T, resp)
}

// Login signs the harness client in as email.
func (h *Harness) Login(email string) {
	h.T.Helper()
	code, _, _ := h.Post("/login", url.Values{"email": {email}, "password": {"secret1"}})
	if code != http.StatusSeeOther {
		h.T.Fatalf("login %s: status %d", email, code)
	}
}

// SessionID returns the client's visitor-session id, issuing one first when
// the jar holds none.
func (h *Harness) SessionID() string {
	if sid := h.Cookie(session.DefaultCookieName); sid != "" {
		return sid
	}
	sid := session.NewID()
	h.SetCookie(&http.Cookie{Name: session.DefaultCookieName, Value: sid, Path: "/"})
	return sid
}

// Cookie returns the value of the named cookie sent to "/", or "".
func (h *Harness) Cookie(name string) string {
	u, _ := url.Parse(h.Server.URL)
	for _, c := range h.Client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// SetCookie stores a cookie for the harness origin.
func (h *Harness) SetCookie(c *http.Cookie) {
	u, _ := url.Parse(h.Server.URL)
	h.Client.Jar.SetCookies(u, []*http.Cookie{c})
}

func read(t *testing.T, resp *http.Response) (int, string, string) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, resp.Header.Get("Location"), string(b)
}
