package config

import "time"

// applyDefaults fills zero values.  YAML and env always win.
func applyDefaults(c *Config) {
	setDur(&c.HTTP.ReadTimeout, 10*time.Second)
	setDur(&c.HTTP.WriteTimeout, 15*time.Second)
	setDur(&c.HTTP.IdleTimeout, 60*time.Second)
	setDur(&c.HTTP.ShutdownTimeout, 10*time.Second)
	setDur(&c.API.Timeout, 10*time.Second)
	setDur(&c.Session.CookieMaxAge, 14*24*time.Hour)
	setDur(&c.Session.IdleTTL, 30*time.Minute)
	setDur(&c.Session.Storage.TTL, 14*24*time.Hour)

	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "ta_session"
	}
	if c.Session.MaxEntries == 0 {
		c.Session.MaxEntries = 10000
	}
	if c.Session.Storage.Driver == "" {
		c.Session.Storage.Driver = "memory"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
}

func setDur(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}
