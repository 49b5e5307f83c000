package auth

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	ident "github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/guard"
	"github.com/trueartists/account-web/internal/logger"
	"github.com/trueartists/account-web/internal/requestinfo"
	"github.com/trueartists/account-web/internal/session"
)

const (
	msgInvalidLogin = "Invalid email or password."
	msgExpired      = "Your session expired.  Please try again."
	msgGoogleFailed = "We could not sign you in with Google."
	msgRegistered   = "Thanks for joining.  Check your inbox to confirm your email, then log in."
)

// loginPage is the Data block of the login template.
type loginPage struct {
	Form       template.HTML
	Action     string
	ShowGoogle bool
	GoogleURL  string
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) getLogin(w http.ResponseWriter, r *http.Request) {
	q := flowQuery(r.URL.Query())
	// Only a role the guard can place is sent onward; anything else would
	// bounce straight back here.
	if id := ident.FromContext(r.Context()); id.HasRole(ident.AllRoles()...) {
		c.redirectSignedIn(w, r, session.FromContext(r.Context()), id, q)
		return
	}
	var alert *form.Alert
	if r.URL.Query().Get(registeredParam) == "1" {
		alert = &form.Alert{Severity: form.SeveritySuccess, Message: msgRegistered}
	}
	c.render(w, r, http.StatusOK, form.NewState(), alert)
}

func (c *Component) postLogin(w http.ResponseWriter, r *http.Request) {
	st, err := c.env.Submit(r, c.form)
	switch {
	case errors.Is(err, form.ErrInvalidToken):
		c.render(w, r, http.StatusBadRequest, st, &form.Alert{Severity: form.SeverityWarning, Message: msgExpired})
		return
	case form.IsValidationError(err):
		c.render(w, r, http.StatusUnprocessableEntity, st, nil)
		return
	case err != nil:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	q := flowQuery(r.URL.Query())
	store := session.FromContext(r.Context())
	res := store.Login(r.Context(), st.Value("email"), st.Value("password"), q.Get("callback") != "")
	c.audit(r, "password", st.Value("email"), !res.Error)
	if res.Error {
		st.Values["password"] = ""
		c.render(w, r, http.StatusOK, st, &form.Alert{Severity: form.SeverityError, Message: msgInvalidLogin})
		return
	}
	c.env.Sessions.Rotate(w, r, store)
	user := res.Data.User
	c.redirectSignedIn(w, r, store, &user, q)
}

func (c *Component) postLogout(w http.ResponseWriter, r *http.Request) {
	if !c.env.VerifyCSRF(r) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if store := session.FromContext(r.Context()); store != nil {
		store.Logout(r.Context())
		c.env.Sessions.End(w, r, store)
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// redirectSignedIn sends an authenticated visitor onward.  With callback
// and type the user is handed to the callback page through the store.
func (c *Component) redirectSignedIn(w http.ResponseWriter, r *http.Request, store *session.Store, id *ident.Identity, q url.Values) {
	if target, ok := callbackTarget(q); ok && store != nil {
		store.SetRegistrationCallback(ident.CallbackPayload{User: *id, RegisterType: q.Get("type")})
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, destination(c.env.Guard, q, id), http.StatusSeeOther)
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, status int, st *form.State, alert *form.Alert) {
	q := flowQuery(r.URL.Query())
	p := c.env.Page(r, "Login")
	p.Alert = alert

	store := session.FromContext(r.Context())
	pending := store != nil && store.State() == session.StatePending

	p.Data = loginPage{
		Form:       form.RenderFields(c.form, st, p.CSRFToken),
		Action:     withQuery(guard.LoginPath, q),
		ShowGoogle: c.env.Google != nil && !pending,
		GoogleURL:  withQuery("/login/google", q),
	}
	c.env.Render(w, r, status, "login", p)
}

// audit writes one line per login attempt with the request fingerprint.
func (c *Component) audit(r *http.Request, method, email string, ok bool) {
	fields := append([]any{"method", method, "email", email, "ok", ok},
		requestinfo.FromContext(r.Context()).LogFields()...)
	logger.FromContext(r.Context()).Infow("login attempt", fields...)
}
