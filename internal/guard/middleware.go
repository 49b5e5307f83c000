package guard

import (
	"net/http"

	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/logger"
	"github.com/trueartists/account-web/internal/metrics"
)

// Middleware enforces t on every request using the identity placed on the
// context by the session middleware.  Redirects use 302 so the browser
// re-evaluates on the next visit.
func Middleware(t *Table) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := t.Decide(r.URL.Path, r.URL.RawQuery, auth.FromContext(r.Context()))
			metrics.GuardDecisionsTotal.WithLabelValues(d.Action.String()).Inc()

			if d.Action == ActionRender {
				next.ServeHTTP(w, r)
				return
			}
			logger.FromContext(r.Context()).Debugw("guard redirect", "action", d.Action.String(), "to", d.Location)
			http.Redirect(w, r, d.Location, http.StatusFound)
		})
	}
}
