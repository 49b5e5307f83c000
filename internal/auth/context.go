// internal/auth/context.go
//
// Request-scoped identity helpers.  The session middleware attaches the
// current Identity after the visitor's store is resolved; the guard and page
// components read it back.
//
// Notes
// -----
// • A nil Identity means "not authenticated".  Callers never see a half-set
//   identity because the session store only publishes one while it also
//   holds a token.

package auth

import "context"

// identityKey is unexported to avoid context-key collisions.
type identityKey struct{}

// WithIdentity returns a new context carrying id.  A nil id is stored as-is so
// downstream lookups report "not authenticated".
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext extracts the Identity placed by WithIdentity.  It returns nil
// when no identity is present.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
