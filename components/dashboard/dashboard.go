// components/dashboard/dashboard.go
//
// Dashboard pages for signed-in artists, studios, and regular users.
//
// The route guard has already enforced the role rules by the time a
// handler runs, so handlers only pick the title and section.  Titles come
// from the navigation model so the heading always matches the sidebar.
//
//------------------------------------------------------------------------------

package dashboard

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/nav"
)

// Pages lists the dashboard routes.
var Pages = []string{
	"/dashboard",
	"/dashboard/gallery",
	"/dashboard/profile",
	"/dashboard/my-studios",
	"/dashboard/my-artists",
}

var _ component.Component = (*Component)(nil)

// Component renders the dashboard shell.
type Component struct {
	env *component.Env
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "dashboard" }

// Init keeps env for the handlers.
func (c *Component) Init(env *component.Env) error {
	c.env = env
	return nil
}

// Routes adds one GET handler per dashboard page.
func (c *Component) Routes(r chi.Router) {
	for _, p := range Pages {
		r.Get(p, c.show)
	}
}

func init() { component.Register(&Component{}) }

// pageData is the Data block of the dashboard template.
type pageData struct {
	Section string
}

func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		// Unreachable behind the guard; keep the handler safe on its own.
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	title, ok := nav.Title(r.URL.Path, id.Role)
	if !ok {
		title = "Dashboard"
	}
	section := path.Base(r.URL.Path)

	p := c.env.Page(r, title)
	p.Data = pageData{Section: section}
	c.env.Render(w, r, http.StatusOK, "dashboard", p)
}
