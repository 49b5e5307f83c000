package view

import (
	"net/http"

	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/nav"
	"github.com/trueartists/account-web/internal/requestinfo"
)

// Page is the data every template receives.  Components set Title, Alert,
// and Data; NewPage fills the rest from the request.
type Page struct {
	Title       string
	Path        string
	Identity    *auth.Identity
	Main        []nav.Entry
	Help        []nav.Entry
	DrawerWidth int
	CSRFToken   string
	Alert       *form.Alert
	Info        *requestinfo.RequestInfo
	Data        any
}

// NewPage builds a Page for r.  The sidebar groups are filtered by the
// visitor's role and stay empty for anonymous visitors.
func NewPage(r *http.Request, title string) *Page {
	p := &Page{
		Title:       title,
		Path:        r.URL.Path,
		Identity:    auth.FromContext(r.Context()),
		DrawerWidth: nav.DrawerWidth,
		Info:        requestinfo.FromContext(r.Context()),
	}
	if p.Identity != nil {
		p.Main = nav.Visible(nav.Main, p.Identity.Role)
		p.Help = nav.Visible(nav.Help, p.Identity.Role)
	}
	return p
}

// Authenticated reports whether the page is rendered for a signed-in visitor.
func (p *Page) Authenticated() bool { return p != nil && p.Identity != nil }
