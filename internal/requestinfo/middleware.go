// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
Mounted ahead of the session middleware.  For every request it:

  1. Parses the User-Agent header and Accept-Language list.
  2. Extracts the client IP (chi's RealIP has already rewritten RemoteAddr
     when a proxy header was present).
  3. Performs a GeoLite2 lookup when a database is configured.
  4. Stores a `*RequestInfo` on the request context.

Notes
-----
  • The GeoLite2 reader is safe for concurrent reads.
  • A missing or unreadable database disables geo lookups; it never stops
    the server.
*/
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

// Enricher builds RequestInfo values.  The zero value works without geo.
type Enricher struct {
	geo *geoip2.Reader
}

// NewEnricher opens the GeoLite2-City database at geoPath.  An empty path
// returns an Enricher without geo lookups.
func NewEnricher(geoPath string) (*Enricher, error) {
	if geoPath == "" {
		return &Enricher{}, nil
	}
	r, err := geoip2.Open(geoPath)
	if err != nil {
		return &Enricher{}, err
	}
	return &Enricher{geo: r}, nil
}

// Close releases the database.
func (e *Enricher) Close() error {
	if e.geo == nil {
		return nil
	}
	return e.geo.Close()
}

// Middleware attaches *RequestInfo and forwards.
func (e *Enricher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			UA:        ParseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       e.lookup(clientIP(r)),
			Path:      r.URL.Path,
			Timestamp: time.Now().UTC(),
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (e *Enricher) lookup(ip net.IP) Geo {
	g := Geo{IP: ip}
	if e.geo == nil || ip == nil {
		return g
	}
	rec, err := e.geo.City(ip)
	if err != nil {
		zap.S().Debugw("geo lookup failed", "ip", ip.String(), "err", err)
		return g
	}
	g.CountryISO = rec.Country.IsoCode
	g.City = rec.City.Names["en"]
	return g
}

// clientIP reads r.RemoteAddr ("ip:port" or a bare IP).
func clientIP(r *http.Request) net.IP {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(strings.TrimSpace(r.RemoteAddr))
}
