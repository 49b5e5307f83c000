// internal/config/model.go
//
// Typed configuration model for the account web client.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                      – dotenv values,
//   • `conf/global.yaml`                   – primary static file,
//   • `TA_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • Durations are written as Go duration strings ("10s", "30m").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	HSTS            bool          `koanf:"hsts"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

//
// API section
//

// API points at the TrueArtists REST backend.
type API struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`
}

//
// Social section
//

// Social carries third-party login credentials.  Google login is disabled
// when GoogleAppID is empty.  InstagramAppID is accepted for parity with
// deployments that already set it; no component reads it yet.
type Social struct {
	GoogleAppID       string `koanf:"google_app_id"`
	GoogleSecret      string `koanf:"google_secret"       validate:"required_with=GoogleAppID"`
	GoogleRedirectURL string `koanf:"google_redirect_url" validate:"required_with=GoogleAppID"`
	InstagramAppID    string `koanf:"instagram_app_id"`
}

//
// Site section
//

// Site holds public-facing origins.
type Site struct {
	PublicPageBaseURL string `koanf:"public_page_base_url" validate:"omitempty,url"`
}

//
// Session section
//

// Redis configures the Redis token backend.
type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"       validate:"gte=0"`
	Prefix   string `koanf:"prefix"`
}

// SQL configures the MySQL token backend.
type SQL struct {
	DSN     string `koanf:"dsn"`
	Migrate bool   `koanf:"migrate"`
}

// Storage selects where visitor tokens live.
type Storage struct {
	Driver string        `koanf:"driver" validate:"oneof=memory redis sql"`
	TTL    time.Duration `koanf:"ttl"`
	Redis  Redis         `koanf:"redis"`
	SQL    SQL           `koanf:"sql"`
}

// Session tunes the visitor-session registry and cookie.
type Session struct {
	CookieName   string        `koanf:"cookie_name"`
	CookieSecure bool          `koanf:"cookie_secure"`
	CookieMaxAge time.Duration `koanf:"cookie_max_age"`
	IdleTTL      time.Duration `koanf:"idle_ttl"`
	MaxEntries   int           `koanf:"max_entries" validate:"gte=0"`
	CSRFKey      string        `koanf:"csrf_key"`
	Storage      Storage       `koanf:"storage"`
}

//
// Log and GeoIP sections
//

// Log configures the zap/lumberjack sink.
type Log struct {
	Dir     string `koanf:"dir"`
	Level   string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Console bool   `koanf:"console"`
}

// GeoIP points at an optional GeoLite2-City database.
type GeoIP struct {
	Path string `koanf:"path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // TA_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	API     API     `koanf:"api"`
	Social  Social  `koanf:"social"`
	Site    Site    `koanf:"site"`
	Session Session `koanf:"session"`
	Log     Log     `koanf:"log"`
	GeoIP   GeoIP   `koanf:"geoip"`
	Paths   Paths   `koanf:"-"`
}

// GoogleEnabled reports whether Google login is configured.
func (c *Config) GoogleEnabled() bool { return c.Social.GoogleAppID != "" }
