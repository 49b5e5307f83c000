// internal/form/csrf.go
//
// Forms subsystem: stateless CSRF tokens.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input.  The server
//   verifies it on POST to ensure the request came from a page it rendered.
//   The token is stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro+binding) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  binding – the visitor-session id; not transmitted.
//   •  HMAC – keyed with the configured session.csrf_key.
//
//   Verification checks the signature against the binding of the submitting
//   request and that the timestamp is within MaxAge.  A token rendered for
//   one visitor session is useless in another.  No server-side state, so any
//   instance can verify any token.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"time"

	"go.uber.org/zap"
)

// FieldCSRF is the hidden input name.
const FieldCSRF = "csrf_token"

const (
	tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig

	// MaxAge is how long a rendered form stays submittable.
	MaxAge = 2 * time.Hour
)

// CSRF issues and verifies tokens with one key.
type CSRF struct {
	key []byte
	now func() time.Time
}

// NewCSRF accepts a base64url (unpadded) key of at least 32 bytes.  Anything
// else falls back to a random key, which resets on restart and is logged.
func NewCSRF(encodedKey string) *CSRF {
	if b, err := base64.RawURLEncoding.DecodeString(encodedKey); err == nil && len(b) >= 32 {
		return &CSRF{key: b, now: time.Now}
	}
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	zap.S().Warnw("session.csrf_key not set or too short; using an ephemeral key")
	return &CSRF{key: key, now: time.Now}
}

// Token creates a new token tied to binding.  Call once per form render.
func (c *CSRF) Token(binding string) string {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce)

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts, binding)...)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// Verify returns true if tok was issued for binding and is not too old.
func (c *CSRF) Verify(tok, binding string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}
	nonce, ts, sig := raw[:16], raw[16:24], raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(ts)))
	now := c.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > time.Minute {
		return false
	}
	return hmac.Equal(sig, c.sign(nonce, ts, binding))
}

func (c *CSRF) sign(nonce, ts []byte, binding string) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(nonce)
	mac.Write(ts)
	mac.Write([]byte(binding))
	return mac.Sum(nil)
}
