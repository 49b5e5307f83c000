// components/auth/auth.go
//
// Authentication component: password login, Google login, and logout.
//
// Workflow
// --------
//   GET  /login                  – login form; honours callback, type, return
//   POST /login                  – Store.Login, new session id, then redirect
//   GET  /login/google           – start the OAuth flow (when configured)
//   GET  /login/google/callback  – finish it, then Store.SocialLogin
//   POST /logout                 – Store.Logout, session cookie expired, back to /login
//
// After a successful login the visitor goes to:
//   1. "/<callback>" when both callback and type were given.  The user and
//      type are stored as the registration callback payload first.
//   2. the "return" target when it is a local path the role may open.
//   3. the role's landing page otherwise.
//
// Failures render a generic alert on the login page and never surface API
// details.
//
//------------------------------------------------------------------------------

package auth

import (
	"github.com/go-chi/chi/v5"

	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/form"
)

const loginForm = "auth/login"

// registeredParam=1 on /login shows the post-registration notice.
const registeredParam = "registered"

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates login functionality.
type Component struct {
	env  *component.Env
	form *form.Definition
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Init looks up the login form.
func (c *Component) Init(env *component.Env) error {
	def, ok := env.Forms.Get(loginForm)
	if !ok {
		return errMissingForm
	}
	c.env = env
	c.form = def
	return nil
}

// Routes adds the login and logout endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/login", c.getLogin)
	r.Post("/login", c.postLogin)
	r.Get("/login/google", c.startGoogle)
	r.Get("/login/google/callback", c.finishGoogle)
	r.Post("/logout", c.postLogout)
}

// Register component at program start.
func init() { component.Register(&Component{}) }
