// components/account/account.go
//
// Password recovery pages.
//
// Workflow
// --------
//   GET/POST /forgot-password   – ask the API to e-mail a reset link
//   GET/POST /password/{type}   – choose a new password
//
// {type} is "reset" (arriving from the e-mailed link, which carries a
// one-time token) or "set" (a signed-in user changing their password).
// Both forms post to the API and show the outcome as an inline alert.
//
//------------------------------------------------------------------------------

package account

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/logger"
	"github.com/trueartists/account-web/internal/session"
)

const (
	forgotForm   = "account/forgot"
	passwordForm = "account/password"
)

const (
	msgResetSent  = "If an account exists for that address, a reset link is on its way."
	msgSaved      = "Your password has been updated.  You can now log in."
	msgFailed     = "We could not update your password.  The link may have expired."
	msgExpired    = "Your session expired.  Please try again."
	msgNeedsToken = "This reset link is incomplete.  Request a new one."
)

var _ component.Component = (*Component)(nil)

// Component serves the forgot-password and password pages.
type Component struct {
	env      *component.Env
	forgot   *form.Definition
	password *form.Definition
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "account" }

// Init looks up both forms.
func (c *Component) Init(env *component.Env) error {
	var ok bool
	if c.forgot, ok = env.Forms.Get(forgotForm); !ok {
		return fmt.Errorf("form %s not registered", forgotForm)
	}
	if c.password, ok = env.Forms.Get(passwordForm); !ok {
		return fmt.Errorf("form %s not registered", passwordForm)
	}
	c.env = env
	return nil
}

// Routes adds the recovery pages.
func (c *Component) Routes(r chi.Router) {
	r.Get("/forgot-password", c.getForgot)
	r.Post("/forgot-password", c.postForgot)
	r.Get("/password/{type}", c.getPassword)
	r.Post("/password/{type}", c.postPassword)
}

func init() { component.Register(&Component{}) }

type pageData struct {
	Heading string
	Submit  string
	Action  string
	Form    template.HTML
}

/*──────────────────────────── Forgot password ─────────────────────────────*/

func (c *Component) getForgot(w http.ResponseWriter, r *http.Request) {
	c.renderForgot(w, r, http.StatusOK, form.NewState(), nil, true)
}

func (c *Component) postForgot(w http.ResponseWriter, r *http.Request) {
	st, err := c.env.Submit(r, c.forgot)
	if status, alert, stop := submitOutcome(err); stop {
		if status == http.StatusBadRequest && alert == nil {
			http.Error(w, http.StatusText(status), status)
			return
		}
		c.renderForgot(w, r, status, st, alert, true)
		return
	}

	body := map[string]string{"email": st.Value("email")}
	if err := session.FromContext(r.Context()).API().Call(r.Context(), http.MethodPost, "/auth/forgot-password", body); err != nil {
		// Same answer either way so the page does not reveal which
		// addresses have accounts.
		logger.FromContext(r.Context()).Infow("forgot password rejected", "err", err)
	}
	c.renderForgot(w, r, http.StatusOK, st, &form.Alert{Severity: form.SeveritySuccess, Message: msgResetSent}, false)
}

func (c *Component) renderForgot(w http.ResponseWriter, r *http.Request, status int, st *form.State, alert *form.Alert, showForm bool) {
	p := c.env.Page(r, c.forgot.Title)
	p.Alert = alert
	data := pageData{Heading: c.forgot.Title, Submit: c.forgot.Submit, Action: "/forgot-password"}
	if showForm {
		data.Form = form.RenderFields(c.forgot, st, p.CSRFToken)
	}
	p.Data = data
	c.env.Render(w, r, status, "forgot_password", p)
}

/*──────────────────────────── Password ─────────────────────────────────────*/

// passwordKinds maps {type} to the page heading.
var passwordKinds = map[string]string{
	"reset": "Reset password",
	"set":   "Set a new password",
}

func (c *Component) getPassword(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	if _, ok := passwordKinds[kind]; !ok {
		c.notFound(w, r)
		return
	}
	var alert *form.Alert
	if kind == "reset" && r.URL.Query().Get("token") == "" {
		alert = &form.Alert{Severity: form.SeverityWarning, Message: msgNeedsToken}
	}
	c.renderPassword(w, r, http.StatusOK, kind, form.NewState(), alert, true)
}

// passwordRequest is the API body for POST /auth/password/{type}.
type passwordRequest struct {
	Password string `json:"password"`
	Token    string `json:"token,omitempty"`
}

func (c *Component) postPassword(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	if _, ok := passwordKinds[kind]; !ok {
		c.notFound(w, r)
		return
	}
	st, err := c.env.Submit(r, c.password)
	if status, alert, stop := submitOutcome(err); stop {
		if status == http.StatusBadRequest && alert == nil {
			http.Error(w, http.StatusText(status), status)
			return
		}
		c.renderPassword(w, r, status, kind, clearPasswords(st), alert, true)
		return
	}

	body := passwordRequest{Password: st.Value("password"), Token: r.URL.Query().Get("token")}
	store := session.FromContext(r.Context())
	if err := store.API().Call(r.Context(), http.MethodPost, "/auth/password/"+kind, body); err != nil {
		logger.FromContext(r.Context()).Infow("password update failed", "type", kind, "err", err)
		c.renderPassword(w, r, http.StatusOK, kind, clearPasswords(st), &form.Alert{Severity: form.SeverityError, Message: msgFailed}, true)
		return
	}
	c.renderPassword(w, r, http.StatusOK, kind, st, &form.Alert{Severity: form.SeveritySuccess, Message: msgSaved}, false)
}

func (c *Component) renderPassword(w http.ResponseWriter, r *http.Request, status int, kind string, st *form.State, alert *form.Alert, showForm bool) {
	heading := passwordKinds[kind]
	p := c.env.Page(r, heading)
	p.Alert = alert
	action := "/password/" + kind
	if tok := r.URL.Query().Get("token"); tok != "" {
		action += "?token=" + url.QueryEscape(tok)
	}
	data := pageData{Heading: heading, Submit: c.password.Submit, Action: action}
	if showForm {
		data.Form = form.RenderFields(c.password, st, p.CSRFToken)
	}
	p.Data = data
	c.env.Render(w, r, status, "password", p)
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// submitOutcome maps a HandleSubmit error to a response.  stop is false
// when the submission is valid.
func submitOutcome(err error) (status int, alert *form.Alert, stop bool) {
	switch {
	case err == nil:
		return 0, nil, false
	case errors.Is(err, form.ErrInvalidToken):
		return http.StatusBadRequest, &form.Alert{Severity: form.SeverityWarning, Message: msgExpired}, true
	case form.IsValidationError(err):
		return http.StatusUnprocessableEntity, nil, true
	}
	return http.StatusBadRequest, nil, true
}

func clearPasswords(st *form.State) *form.State {
	st.Values["password"] = ""
	st.Values["confirm_password"] = ""
	return st
}

func (c *Component) notFound(w http.ResponseWriter, r *http.Request) {
	c.env.Render(w, r, http.StatusNotFound, "not_found", c.env.Page(r, "Not found"))
}
