package auth

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	ident "github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/guard"
)

var errMissingForm = errors.New("form " + loginForm + " not registered")

// flowKeys are the login query parameters carried through every step.
var flowKeys = []string{"callback", "type", "return"}

// callbackRe limits callback to a relative page name such as "register".
var callbackRe = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]*(/[a-z0-9\-]+)*$`)

// flowQuery keeps only the login flow parameters of q.
func flowQuery(q url.Values) url.Values {
	out := url.Values{}
	for _, k := range flowKeys {
		if v := q.Get(k); v != "" {
			out.Set(k, v)
		}
	}
	return out
}

// withQuery appends q to path when it is not empty.
func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// callbackTarget returns "/<callback>" when q asks for a callback page.
func callbackTarget(q url.Values) (string, bool) {
	cb, typ := q.Get("callback"), q.Get("type")
	if cb == "" || typ == "" || !callbackRe.MatchString(cb) {
		return "", false
	}
	return "/" + cb, true
}

// safeReturn accepts only local absolute paths, never another origin.
func safeReturn(raw string) (string, bool) {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return u.RequestURI(), true
}

// destination picks where a freshly authenticated visitor goes when there
// is no callback.
func destination(t *guard.Table, q url.Values, id *ident.Identity) string {
	if ret, ok := safeReturn(q.Get("return")); ok {
		u, _ := url.Parse(ret)
		if d := t.Decide(u.Path, u.RawQuery, id); d.Action == guard.ActionRender && u.Path != guard.LoginPath {
			return ret
		}
	}
	if landing, ok := t.Landing(id.Role); ok {
		return landing
	}
	return guard.LoginPath
}
