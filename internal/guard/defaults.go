package guard

import "github.com/trueartists/account-web/internal/auth"

// PublicRoutes render without authentication.
var PublicRoutes = []string{
	"/login",
	"/login/google",
	"/login/google/callback",
	"/register",
	"/forgot-password",
	"/register-selection",
	"/artists",
	"/artists/[id]",
	"/studios",
	"/studios/[id]",
	"/tattoos",
	"/tattoos/[id]",
	"/password/[type]",
	"/static/[...path]",
	"/healthz",
	"/metrics",
}

// DashboardRules limits the dashboard pages by role.
var DashboardRules = []Rule{
	{Pattern: "/dashboard", Roles: []auth.Role{auth.RoleArtist, auth.RoleStudio, auth.RoleAdmin}},
	{Pattern: "/dashboard/gallery", Roles: []auth.Role{auth.RoleArtist, auth.RoleStudio, auth.RoleAdmin}},
	{Pattern: "/dashboard/profile", Roles: []auth.Role{auth.RoleArtist, auth.RoleStudio, auth.RoleRegular, auth.RoleAdmin}},
	{Pattern: "/dashboard/my-studios", Roles: []auth.Role{auth.RoleArtist, auth.RoleAdmin}},
	{Pattern: "/dashboard/my-artists", Roles: []auth.Role{auth.RoleStudio, auth.RoleAdmin}},
}

// LandingPages is each role's default page.
var LandingPages = map[auth.Role]string{
	auth.RoleArtist:  "/dashboard",
	auth.RoleStudio:  "/dashboard",
	auth.RoleAdmin:   "/dashboard",
	auth.RoleRegular: "/dashboard/profile",
}

// Default returns the table used by the web client.
func Default() *Table {
	t, err := NewTable(PublicRoutes, DashboardRules, LandingPages)
	if err != nil {
		panic(err)
	}
	return t
}
