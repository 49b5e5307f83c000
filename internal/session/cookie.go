package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultCookieName carries the visitor-session id.
const DefaultCookieName = "ta_session"

// CookieOptions shapes the visitor-session cookie.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool // force Secure even when the request arrived over plain HTTP
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = DefaultCookieName
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 14 * 24 * time.Hour
	}
	return o
}

// NewID returns a fresh visitor-session id.
func NewID() string { return uuid.NewString() }

// IDFromRequest returns the visitor-session id from the cookie.  ok is false
// when the cookie is missing or does not hold a UUID.
func (m *Manager) IDFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookie.Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// SetCookie issues the visitor-session cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, r *http.Request, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookie.Secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.cookie.MaxAge / time.Second),
	})
}

// ClearCookie expires the visitor-session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
