// components/register/register.go
//
// Registration entry points.
//
// Context
// -------
// "/register-selection" lets a visitor pick artist or studio.  Each choice
// either opens "/register?type=…" directly or goes through login with
// callback=register, in which case the login handler leaves a callback
// payload on the visitor's session store.  "/register" consumes that
// payload exactly once and prefills the form with the signed-in user.
//
//------------------------------------------------------------------------------

package register

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/guard"
	"github.com/trueartists/account-web/internal/logger"
	"github.com/trueartists/account-web/internal/session"
)

const registerForm = "register/register"

// registeredURL is where a successful registration lands; the login page
// shows the confirmation notice for it.
const registeredURL = guard.LoginPath + "?registered=1"

const (
	msgFailed     = "We could not create your account.  Please try again."
	msgExpired    = "Your session expired.  Please try again."
)

// Choice is one card on the selection page.
type Choice struct {
	Type        string
	Title       string
	RegisterURL string
	LoginURL    string
}

// Types lists the account kinds that can register here.
var Types = []Choice{
	{Type: "artist", Title: "Artist"},
	{Type: "studio", Title: "Studio"},
}

var _ component.Component = (*Component)(nil)

// Component serves the registration pages.
type Component struct {
	env  *component.Env
	form *form.Definition
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "register" }

// Init looks up the registration form.
func (c *Component) Init(env *component.Env) error {
	def, ok := env.Forms.Get(registerForm)
	if !ok {
		return errors.New("form " + registerForm + " not registered")
	}
	c.env = env
	c.form = def
	return nil
}

// Routes adds the selection and registration pages.
func (c *Component) Routes(r chi.Router) {
	r.Get("/register-selection", c.selection)
	r.Get("/register", c.getRegister)
	r.Post("/register", c.postRegister)
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) selection(w http.ResponseWriter, r *http.Request) {
	choices := make([]Choice, len(Types))
	for i, t := range Types {
		t.RegisterURL = "/register?" + url.Values{"type": {t.Type}}.Encode()
		t.LoginURL = "/login?" + url.Values{"callback": {"register"}, "type": {t.Type}}.Encode()
		choices[i] = t
	}
	p := c.env.Page(r, "Join TrueArtists")
	p.Data = struct{ Choices []Choice }{choices}
	c.env.Render(w, r, http.StatusOK, "register_selection", p)
}

func (c *Component) getRegister(w http.ResponseWriter, r *http.Request) {
	st := form.NewState()
	if typ := r.URL.Query().Get("type"); validType(typ) {
		st.Values["type"] = typ
	}
	if store := session.FromContext(r.Context()); store != nil {
		if cb, ok := store.TakeRegistrationCallback(); ok {
			if validType(cb.RegisterType) {
				st.Values["type"] = cb.RegisterType
			}
			st.Values["full_name"] = cb.User.FullName
			st.Values["email"] = cb.User.Email
		}
	}
	c.render(w, r, http.StatusOK, st, nil)
}

// registerRequest is the API body for POST /auth/register.
type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (c *Component) postRegister(w http.ResponseWriter, r *http.Request) {
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

	role, ok := auth.ParseRole(st.Value("type"))
	if !ok || !validType(role.String()) {
		st.SetError("type", "Choose artist or studio.")
		c.render(w, r, http.StatusUnprocessableEntity, st, nil)
		return
	}

	store := session.FromContext(r.Context())
	body := registerRequest{
		FullName: st.Value("full_name"),
		Email:    st.Value("email"),
		Password: st.Value("password"),
		Role:     role.String(),
	}
	if err := store.API().Call(r.Context(), http.MethodPost, "/auth/register", body); err != nil {
		logger.FromContext(r.Context()).Infow("registration failed", "email", body.Email, "err", err)
		st.Values["password"], st.Values["confirm_password"] = "", ""
		c.render(w, r, http.StatusOK, st, &form.Alert{Severity: form.SeverityError, Message: msgFailed})
		return
	}
	logger.FromContext(r.Context()).Infow("registration submitted", "email", body.Email, "type", body.Role)
	http.Redirect(w, r, registeredURL, http.StatusSeeOther)
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

type pageData struct {
	Heading string
	Submit  string
	Form    template.HTML
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, status int, st *form.State, alert *form.Alert) {
	p := c.env.Page(r, c.form.Title)
	p.Alert = alert
	p.Data = pageData{
		Heading: c.form.Title,
		Submit:  c.form.Submit,
		Form:    form.RenderFields(c.form, st, p.CSRFToken),
	}
	c.env.Render(w, r, status, "register", p)
}

func validType(t string) bool {
	for _, c := range Types {
		if c.Type == t {
			return true
		}
	}
	return false
}
