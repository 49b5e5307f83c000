package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/guard"
)

func names(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Name
	}
	return out
}

func TestVisibleMain(t *testing.T) {
	assert.Equal(t,
		[]string{"Dashboard", "Tattoo Gallery", "Artist Profile", "My Studios"},
		names(Visible(Main, auth.RoleArtist)))
	assert.Equal(t,
		[]string{"Dashboard", "Tattoo Gallery", "Studio Profile", "My Artists"},
		names(Visible(Main, auth.RoleStudio)))
	assert.Equal(t, []string{"Profile"}, names(Visible(Main, auth.RoleRegular)))
	assert.Empty(t, Visible(Main, auth.RoleAdmin))
}

func TestVisibleHelp(t *testing.T) {
	assert.Equal(t, []string{"Settings"}, names(Visible(Help, auth.RoleStudio)))
	assert.Empty(t, Visible(Help, auth.RoleRegular))
}

func TestVisibleDoesNotMutate(t *testing.T) {
	before := Visible(Main, auth.RoleArtist)
	got := Visible(Main, auth.RoleArtist)
	got[0].Name = "changed"
	got[0].AcceptRoles[0] = auth.RoleAdmin

	assert.Equal(t, before, Visible(Main, auth.RoleArtist))
	assert.Len(t, mainItems, 7)
}

func TestTitle(t *testing.T) {
	title, ok := Title("/dashboard/profile", auth.RoleStudio)
	require.True(t, ok)
	assert.Equal(t, "Studio Profile", title)

	title, ok = Title("/dashboard/profile", auth.RoleRegular)
	require.True(t, ok)
	assert.Equal(t, "Profile", title)

	_, ok = Title("/dashboard/my-artists", auth.RoleArtist)
	assert.False(t, ok)
}

// Every link a role can see must render for that role.
func TestVisibleEntriesPassGuard(t *testing.T) {
	tbl := guard.Default()
	for _, role := range auth.AllRoles() {
		for _, g := range []Group{Main, Help} {
			for _, e := range Visible(g, role) {
				d := tbl.Decide(e.URL, "", &auth.Identity{Role: role})
				assert.Equal(t, guard.ActionRender, d.Action, "%s sees %s", role, e.URL)
			}
		}
	}
}

func TestDrawerWidth(t *testing.T) {
	assert.Equal(t, 240, DrawerWidth)
}
