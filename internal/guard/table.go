// internal/guard/table.go
//
// Route guard.
//
// Context
//   Every page request is checked against an immutable Table before its
//   handler runs.  Decide is pure: same path and identity, same Decision.
//
// Workflow
//   1. Path matches a public pattern             → render.
//   2. No identity (or an unknown role)          → /login?return=<path+query>.
//   3. Path has a rule and the role is not in it → the role's landing page.
//   4. Otherwise                                 → render.
//
// Notes
//   • Paths with no rule are open to every authenticated role.
//   • NewTable refuses a landing page its own role could not render, so a
//     wrong-role redirect can never loop.

package guard

import (
	"fmt"
	"net/url"

	"github.com/trueartists/account-web/internal/auth"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Action is what the middleware does with a request.
type Action int

const (
	ActionRender Action = iota
	ActionLogin
	ActionLanding
)

func (a Action) String() string {
	switch a {
	case ActionLogin:
		return "login"
	case ActionLanding:
		return "landing"
	}
	return "render"
}

// Decision is the outcome of Decide.  Location is empty for ActionRender.
type Decision struct {
	Action   Action
	Location string
}

// Rule limits a route pattern to a set of roles.
type Rule struct {
	Pattern string
	Roles   []auth.Role
}

type compiledRule struct {
	pattern
	roles map[auth.Role]bool
}

// Table is the guard's configuration.  Build it with NewTable; it is safe for
// concurrent use.
type Table struct {
	public  []pattern
	rules   []compiledRule
	landing map[auth.Role]string
}

// NewTable compiles the public allow-list, role rules, and role landing
// pages.  Every valid role needs a landing page it is allowed to render.
func NewTable(public []string, rules []Rule, landing map[auth.Role]string) (*Table, error) {
	t := &Table{landing: make(map[auth.Role]string, len(landing))}

	for _, raw := range public {
		p, err := compilePattern(raw)
		if err != nil {
			return nil, err
		}
		t.public = append(t.public, p)
	}
	for _, r := range rules {
		p, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		cr := compiledRule{pattern: p, roles: make(map[auth.Role]bool, len(r.Roles))}
		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("guard: rule %q names unknown role %q", r.Pattern, role)
			}
			cr.roles[role] = true
		}
		t.rules = append(t.rules, cr)
	}
	for role, loc := range landing {
		t.landing[role] = loc
	}

	for _, role := range auth.AllRoles() {
		loc, ok := t.landing[role]
		if !ok {
			return nil, fmt.Errorf("guard: no landing page for role %q", role)
		}
		if d := t.Decide(loc, "", &auth.Identity{Role: role}); d.Action != ActionRender {
			return nil, fmt.Errorf("guard: landing page %q is not permitted for role %q", loc, role)
		}
	}
	return t, nil
}

// Landing returns the default page for role.
func (t *Table) Landing(role auth.Role) (string, bool) {
	loc, ok := t.landing[role]
	return loc, ok
}

// IsPublic reports whether p is on the allow-list.
func (t *Table) IsPublic(p string) bool {
	segs := splitPath(p)
	for _, pat := range t.public {
		if pat.match(segs) {
			return true
		}
	}
	return false
}

// Permits reports whether role may render p.  Paths without a rule permit
// every valid role.
func (t *Table) Permits(p string, role auth.Role) bool {
	if !role.Valid() {
		return false
	}
	segs := splitPath(p)
	for _, r := range t.rules {
		if r.match(segs) {
			return r.roles[role]
		}
	}
	return true
}

// Decide evaluates path (with its raw query) for id.
func (t *Table) Decide(path, rawQuery string, id *auth.Identity) Decision {
	if t.IsPublic(path) {
		return Decision{Action: ActionRender}
	}
	if id == nil || !id.Role.Valid() {
		return Decision{Action: ActionLogin, Location: LoginURL(path, rawQuery)}
	}
	if !t.Permits(path, id.Role) {
		return Decision{Action: ActionLanding, Location: t.landing[id.Role]}
	}
	return Decision{Action: ActionRender}
}

// LoginURL builds the login redirect carrying the requested location.
func LoginURL(path, rawQuery string) string {
	target := path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return LoginPath + "?" + url.Values{"return": {target}}.Encode()
}
