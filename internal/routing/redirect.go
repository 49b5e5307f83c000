// internal/routing/redirect.go
//
// Static marketing redirects evaluated ahead of the session and guard
// middleware.
//
// Context
// -------
// The account web client owns only the login, registration, and dashboard
// screens.  The root path forwards to the login page, and the public
// marketing listings live on a separate site whose origin comes from
// configuration.
//
// Workflow
// --------
//   1. Trim one trailing slash from the request path ("/" stays "/").
//   2. Look the path up in the rule map (exact match, no patterns).
//   3. On hit, reply 308 (permanent) or 307 and preserve the raw query.
//
// Notes
// -----
// • Mount at the router root.  chi group middleware does not run for paths
//   that match no route, and "/" has no handler of its own.
// • Rules are immutable after construction; the middleware never blocks.
package routing

import (
	"net/http"
	"strings"
)

// Rule maps one exact source path to a destination URL or path.
type Rule struct {
	Source      string
	Destination string
	Permanent   bool
}

// MarketingRules returns the default redirect set.  The listing redirects are
// omitted when publicBaseURL is empty.
func MarketingRules(publicBaseURL string) []Rule {
	rules := []Rule{{Source: "/", Destination: "/login", Permanent: true}}
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		return rules
	}
	return append(rules,
		Rule{Source: "/artists", Destination: base + "/artists", Permanent: true},
		Rule{Source: "/studios", Destination: base + "/studios", Permanent: true},
	)
}

// Redirects returns middleware that applies rules before anything else
// sees the request.
func Redirects(rules []Rule) func(http.Handler) http.Handler {
	byPath := make(map[string]Rule, len(rules))
	for _, r := range rules {
		byPath[normalize(r.Source)] = r
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, ok := byPath[normalize(r.URL.Path)]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			target := rule.Destination
			if r.URL.RawQuery != "" {
				sep := "?"
				if strings.Contains(target, "?") {
					sep = "&"
				}
				target += sep + r.URL.RawQuery
			}
			code := http.StatusTemporaryRedirect
			if rule.Permanent {
				code = http.StatusPermanentRedirect
			}
			http.Redirect(w, r, target, code)
		})
	}
}

func normalize(p string) string {
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}
