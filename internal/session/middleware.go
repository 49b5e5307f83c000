package session

import (
	"context"
	"net/http"

	"github.com/trueartists/account-web/internal/auth"
)

type storeKey struct{}

// WithStore stores st on ctx.
func WithStore(ctx context.Context, st *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, st)
}

// FromContext returns the visitor's Store placed by Middleware, or nil.
func FromContext(ctx context.Context) *Store {
	st, _ := ctx.Value(storeKey{}).(*Store)
	return st
}

// IDFromContext returns the visitor-session id of the request's Store, or ""
// outside Middleware.
func IDFromContext(ctx context.Context) string {
	if st := FromContext(ctx); st != nil {
		return st.ID()
	}
	return ""
}

// Middleware resolves the visitor's Store and places it and the current
// Identity on the request context.  A request without a session cookie gets
// a fresh id and a detached store; nothing is restored or kept for it.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var st *Store
		if sid, ok := m.IDFromRequest(r); ok {
			st = m.Get(r.Context(), sid)
		} else {
			sid = NewID()
			m.SetCookie(w, r, sid)
			st = m.newStore(sid)
		}

		ctx := WithStore(r.Context(), st)
		if id, ok := st.Current(); ok {
			ctx = auth.WithIdentity(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
