// internal/component/env.go
package component

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/guard"
	"github.com/trueartists/account-web/internal/session"
	"github.com/trueartists/account-web/internal/social"
	"github.com/trueartists/account-web/internal/view"
)

// Env exposes shared resources to Components during Init.
type Env struct {
	Forms    *form.Registry
	CSRF     *form.CSRF
	Views    *view.Renderer
	Guard    *guard.Table
	Sessions *session.Manager
	Google   social.Provider // nil when Google login is disabled
	Log      *zap.SugaredLogger

	// SecureCookies marks short-lived flow cookies Secure.
	SecureCookies bool
}

// SetFlowCookie writes a short-lived HttpOnly cookie scoped to path.
func (e *Env) SetFlowCookie(w http.ResponseWriter, name, value, path string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   e.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearFlowCookie expires a cookie set by SetFlowCookie.
func (e *Env) ClearFlowCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   e.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Page builds a view.Page for r with a fresh CSRF token bound to the
// visitor session.
func (e *Env) Page(r *http.Request, title string) *view.Page {
	p := view.NewPage(r, title)
	p.CSRFToken = e.CSRF.Token(session.IDFromContext(r.Context()))
	return p
}

// Submit runs form.HandleSubmit for def against the visitor session of r.
func (e *Env) Submit(r *http.Request, def *form.Definition) (*form.State, error) {
	return form.HandleSubmit(r, def, e.CSRF, session.IDFromContext(r.Context()))
}

// VerifyCSRF checks the token of a posted form that has no definition.
func (e *Env) VerifyCSRF(r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		return false
	}
	return e.CSRF.Verify(r.PostForm.Get(form.FieldCSRF), session.IDFromContext(r.Context()))
}

// Render writes page name and logs failures.  Headers may already be gone
// by then, so the error is not returned.
func (e *Env) Render(w http.ResponseWriter, r *http.Request, status int, name string, p *view.Page) {
	if err := e.Views.Render(w, status, name, p); err != nil {
		e.Log.Errorw("render failed", "page", name, "path", r.URL.Path, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
