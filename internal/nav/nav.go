// Package nav describes the dashboard sidebar.  Entries are fixed at build
// time; Visible filters them by role for the layout template.
package nav

import "github.com/trueartists/account-web/internal/auth"

// DrawerWidth is the sidebar width in CSS pixels.
const DrawerWidth = 240

// Icon names a sidebar glyph.  The layout maps each to a CSS class.
type Icon string

const (
	IconHome     Icon = "home-outlined"
	IconGallery  Icon = "photo-library"
	IconPerson   Icon = "person-outline"
	IconBusiness Icon = "business"
	IconGroup    Icon = "group"
	IconSettings Icon = "settings-outlined"
)

// Entry is one sidebar link.
type Entry struct {
	Name        string
	Icon        Icon
	URL         string
	AcceptRoles []auth.Role
}

// Accepts reports whether role may see the entry.
func (e Entry) Accepts(role auth.Role) bool {
	for _, r := range e.AcceptRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Group selects a sidebar section.
type Group int

const (
	Main Group = iota
	Help
)

var mainItems = []Entry{
	{Name: "Dashboard", Icon: IconHome, URL: "/dashboard", AcceptRoles: []auth.Role{auth.RoleArtist, auth.RoleStudio}},
	{Name: "Tattoo Gallery", Icon: IconGallery, URL: "/dashboard/gallery", AcceptRoles: []auth.Role{auth.RoleArtist, auth.RoleStudio}},
	{Name: "Artist Profile", Icon: IconPerson, URL: "/dashboard/profile", AcceptRoles: []auth.Role{auth.RoleArtist}},
	{Name: "Studio Profile", Icon: IconPerson, URL: "/dashboard/profile", AcceptRoles: []auth.Role{auth.RoleStudio}},
	{Name: "My Studios", Icon: IconBusiness, URL: "/dashboard/my-studios", AcceptRoles: []auth.Role{auth.RoleArtist}},
	{Name: "My Artists", Icon: IconGroup, URL: "/dashboard/my-artists", AcceptRoles: []auth.Role{auth.RoleStudio}},
	{Name: "Profile", Icon: IconPerson, URL: "/dashboard/profile", AcceptRoles: []auth.Role{auth.RoleRegular}},
}

var helpItems = []Entry{
	{Name: "Settings", Icon: IconSettings, URL: "/dashboard/profile", AcceptRoles: []auth.Role{auth.RoleArtist, auth.RoleStudio}},
}

func source(g Group) []Entry {
	if g == Help {
		return helpItems
	}
	return mainItems
}

// Visible returns the entries of g that role may see, in display order.  The
// result is a copy; callers may modify it freely.
func Visible(g Group, role auth.Role) []Entry {
	var out []Entry
	for _, e := range source(g) {
		if e.Accepts(role) {
			out = append(out, clone(e))
		}
	}
	return out
}

// Title returns the name of the first entry visible to role that links to
// url, so "/dashboard/profile" reads "Artist Profile" for artists and
// "Profile" for regular users.
func Title(url string, role auth.Role) (string, bool) {
	for _, g := range []Group{Main, Help} {
		for _, e := range source(g) {
			if e.URL == url && e.Accepts(role) {
				return e.Name, true
			}
		}
	}
	return "", false
}

func clone(e Entry) Entry {
	e.AcceptRoles = append([]auth.Role(nil), e.AcceptRoles...)
	return e
}
