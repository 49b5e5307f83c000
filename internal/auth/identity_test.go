package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]struct {
		want Role
		ok   bool
	}{
		"artist":       {RoleArtist, true},
		" Studio ":     {RoleStudio, true},
		"regular":      {RoleRegular, true},
		"regular-user": {RoleRegular, true},
		"ADMIN":        {RoleAdmin, true},
		"superuser":    {Role("superuser"), false},
		"":             {Role(""), false},
	}
	for in, tc := range cases {
		got, ok := ParseRole(in)
		assert.Equal(t, tc.want, got, in)
		assert.Equal(t, tc.ok, ok, in)
	}
}

func TestIdentityDecodeKeepsUnknownRole(t *testing.T) {
	var id Identity
	err := json.Unmarshal([]byte(`{"id":1,"email":"a@b.co","role":"Wizard"}`), &id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.ID)
	assert.False(t, id.Role.Valid())
	assert.False(t, id.HasRole(AllRoles()...))
}

func TestHasRole(t *testing.T) {
	id := &Identity{Role: RoleStudio}
	assert.True(t, id.HasRole(RoleArtist, RoleStudio))
	assert.False(t, id.HasRole(RoleArtist))

	var none *Identity
	assert.False(t, none.HasRole(RoleStudio))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ink Co", (&Identity{FullName: "Ink Co", Email: "x@y.z"}).DisplayName())
	assert.Equal(t, "x@y.z", (&Identity{Email: "x@y.z"}).DisplayName())
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	id := &Identity{ID: 7, Role: RoleArtist}
	got := FromContext(WithIdentity(ctx, id))
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)
}
