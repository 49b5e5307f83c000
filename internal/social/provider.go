// Package social verifies third-party sign-ins.  A Provider turns an OAuth2
// authorization code into a verified Profile that the session store forwards
// to the API's social-login endpoint.
package social

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Profile is the verified identity a provider vouches for.
type Profile struct {
	ProviderID string
	Email      string
	Name       string
}

// Provider is one social sign-in source.
type Provider interface {
	Name() string
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (Profile, error)
}

var (
	// ErrNonceMismatch means the ID token was minted for another attempt.
	ErrNonceMismatch = errors.New("social: nonce mismatch")

	// ErrUnverifiedEmail means the provider has not verified the address.
	ErrUnverifiedEmail = errors.New("social: email not verified")
)

// RandomString returns a URL-safe random string built from n random bytes,
// used for OAuth state and nonce values.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
