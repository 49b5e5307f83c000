// internal/auth/identity.go
//
// Identity and role model shared by the session store, route guard, and
// navigation.  The REST API owns these records; this package only mirrors
// the fields the web client relies on.

package auth

import "strings"

// Role is the closed set of account kinds the API issues.
type Role string

const (
	RoleArtist  Role = "artist"
	RoleStudio  Role = "studio"
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

// AllRoles lists every valid role in display order.
func AllRoles() []Role {
	return []Role{RoleArtist, RoleStudio, RoleRegular, RoleAdmin}
}

// ParseRole normalises s and reports whether it names a known role.  The API
// has used "regular-user" and "user" for regular accounts, so both map to
// RoleRegular.
func ParseRole(s string) (Role, bool) {
	r := normaliseRole(s)
	return r, r.Valid()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleArtist, RoleStudio, RoleRegular, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// UnmarshalText keeps unknown strings (lower-cased) so they fail Valid()
// instead of failing the whole JSON decode.
func (r *Role) UnmarshalText(b []byte) error {
	*r = normaliseRole(string(b))
	return nil
}

func normaliseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "regular-user", "regular_user", "user":
		return RoleRegular
	}
	return Role(s)
}

// Identity is the authenticated user record returned by the API.
type Identity struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role"`
	SocialID string `json:"social_id,omitempty"`
}

// HasRole reports whether the identity carries any of roles.  An invalid role
// never matches.
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil || !i.Role.Valid() {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// DisplayName falls back to the email address when no full name is set.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.FullName != "" {
		return i.FullName
	}
	return i.Email
}

// CallbackPayload is handed from the login page to the page named by the
// "callback" query parameter so a multi-step registration can resume.
type CallbackPayload struct {
	User         Identity
	RegisterType string
}
