//
//  internal/requestinfo/requestinfo.go
//
//  Per-request metadata (user-agent fingerprint, client IP, and optional
//  geolocation) attached to login audit log lines.  These structs are
//  inert, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	surfer "github.com/avct/uasurfer"
)

// UA holds the parsed user-agent properties.
type UA struct {
	Raw         string
	Browser     string // "Chrome", "Firefox", "Safari", ...
	Version     string // "124.0.6367"
	OS          string // "MacOSX", "Windows", "Android", "iOS", ...
	OSVersion   string
	Device      string // "Desktop", "Mobile", "Tablet", or "Other"
	Platform    string
	IsBot       bool
	PrimaryLang string // first tag from Accept-Language
}

// Geo holds IP-based hints.  Fields are empty when no database is loaded or
// it has no match.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is stored on the request context by Enricher.Middleware.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	Path      string
	Timestamp time.Time
}

type ctxKey struct{}

// FromContext returns the info stored by the middleware, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// LogFields flattens the info into zap key/value pairs.  A nil receiver
// yields none.
func (i *RequestInfo) LogFields() []any {
	if i == nil {
		return nil
	}
	ip := ""
	if i.Geo.IP != nil {
		ip = i.Geo.IP.String()
	}
	return []any{
		"ip", ip,
		"country", i.Geo.CountryISO,
		"browser", i.UA.Browser,
		"os", i.UA.OS,
		"device", i.UA.Device,
		"bot", i.UA.IsBot,
	}
}

// ParseUA converts a raw header into UA.
func ParseUA(raw, acceptLang string) UA {
	u := surfer.Parse(raw)

	out := UA{
		Raw:         raw,
		Browser:     strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:     versionToString(u.Browser.Version),
		OS:          strings.TrimPrefix(u.OS.Name.String(), "OS"),
		OSVersion:   versionToString(u.OS.Version),
		Platform:    strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:       u.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		out.Device = "Desktop"
	case surfer.DeviceTablet:
		out.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		out.Device = "Mobile"
	default:
		out.Device = "Other"
	}
	return out
}

// versionToString trims trailing zero parts: 17.0.0 → "17", 17.3.0 → "17.3".
func versionToString(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag := strings.TrimSpace(strings.Split(al, ",")[0])
	if i := strings.Index(tag, ";"); i != -1 {
		tag = tag[:i]
	}
	if i := strings.Index(tag, "-"); i != -1 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
