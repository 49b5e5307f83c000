package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueartists/account-web/internal/auth"
)

func id(role auth.Role) *auth.Identity { return &auth.Identity{ID: 1, Role: role} }

func TestDecide(t *testing.T) {
	tbl := Default()

	cases := []struct {
		name  string
		path  string
		query string
		who   *auth.Identity
		want  Decision
	}{
		{"public login anonymous", "/login", "", nil, Decision{Action: ActionRender}},
		{"public dynamic segment", "/artists/42", "", nil, Decision{Action: ActionRender}},
		{"public password type", "/password/reset", "token=x", nil, Decision{Action: ActionRender}},
		{"public static", "/static/js/form.js", "", nil, Decision{Action: ActionRender}},
		{"public for any role", "/register", "", id(auth.RoleStudio), Decision{Action: ActionRender}},
		{
			"anonymous dashboard", "/dashboard", "", nil,
			Decision{Action: ActionLogin, Location: "/login?return=%2Fdashboard"},
		},
		{
			"anonymous keeps query", "/dashboard/gallery", "page=2", nil,
			Decision{Action: ActionLogin, Location: "/login?return=%2Fdashboard%2Fgallery%3Fpage%3D2"},
		},
		{
			"artist on my-artists", "/dashboard/my-artists", "", id(auth.RoleArtist),
			Decision{Action: ActionLanding, Location: "/dashboard"},
		},
		{
			"regular on dashboard", "/dashboard", "", id(auth.RoleRegular),
			Decision{Action: ActionLanding, Location: "/dashboard/profile"},
		},
		{"regular on profile", "/dashboard/profile", "", id(auth.RoleRegular), Decision{Action: ActionRender}},
		{"studio on my-artists", "/dashboard/my-artists", "", id(auth.RoleStudio), Decision{Action: ActionRender}},
		{"admin everywhere", "/dashboard/my-studios", "", id(auth.RoleAdmin), Decision{Action: ActionRender}},
		{"unruled route any role", "/dashboard/settings", "", id(auth.RoleRegular), Decision{Action: ActionRender}},
		{"trailing slash", "/dashboard/", "", id(auth.RoleArtist), Decision{Action: ActionRender}},
		{
			"unknown role treated as anonymous", "/dashboard", "", id(auth.Role("wizard")),
			Decision{Action: ActionLogin, Location: "/login?return=%2Fdashboard"},
		},
		{
			"double slash cleans to listing", "/artists//", "", nil,
			Decision{Action: ActionRender},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tbl.Decide(tc.path, tc.query, tc.who))
		})
	}
}

func TestDecideIsPure(t *testing.T) {
	tbl := Default()
	who := id(auth.RoleArtist)
	first := tbl.Decide("/dashboard/my-artists", "", who)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, tbl.Decide("/dashboard/my-artists", "", who))
	}
}

func TestLandingPagesRender(t *testing.T) {
	tbl := Default()
	for _, role := range auth.AllRoles() {
		loc, ok := tbl.Landing(role)
		require.True(t, ok, role)
		assert.Equal(t, ActionRender, tbl.Decide(loc, "", id(role)).Action, role)
	}
}

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable([]string{"login"}, nil, LandingPages)
	assert.Error(t, err, "relative pattern")

	_, err = NewTable(nil, []Rule{{Pattern: "/x", Roles: []auth.Role{"ghost"}}}, LandingPages)
	assert.Error(t, err, "unknown role")

	_, err = NewTable(nil, DashboardRules, map[auth.Role]string{auth.RoleArtist: "/dashboard"})
	assert.Error(t, err, "missing landing")

	bad := map[auth.Role]string{
		auth.RoleArtist:  "/dashboard/my-artists",
		auth.RoleStudio:  "/dashboard",
		auth.RoleAdmin:   "/dashboard",
		auth.RoleRegular: "/dashboard/profile",
	}
	_, err = NewTable(nil, DashboardRules, bad)
	assert.Error(t, err, "landing not permitted")

	_, err = NewTable([]string{"/static/[...path]/x"}, nil, LandingPages)
	assert.Error(t, err, "catch-all not last")
}

func TestPatternMatch(t *testing.T) {
	p, err := compilePattern("/tattoos/[id]")
	require.NoError(t, err)
	assert.True(t, p.match(splitPath("/tattoos/7")))
	assert.False(t, p.match(splitPath("/tattoos")))
	assert.False(t, p.match(splitPath("/tattoos/7/edit")))

	rest, err := compilePattern("/static/[...path]")
	require.NoError(t, err)
	assert.True(t, rest.match(splitPath("/static/css/app.css")))
	assert.False(t, rest.match(splitPath("/static")))
}

func TestMiddleware(t *testing.T) {
	h := Middleware(Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?tab=1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?return=%2Fdashboard%3Ftab%3D1", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/my-studios", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), id(auth.RoleStudio)))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
