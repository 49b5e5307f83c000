// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` after it unmarshals the merged Koanf tree
// and applies defaults.  Any tag mismatch or validation error aborts
// startup.  Rules that span sections (the storage driver and its
// connection settings) are checked by hand after the tag pass.

package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New(validator.WithRequiredStructEnabled())

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	switch c.Session.Storage.Driver {
	case "redis":
		if c.Session.Storage.Redis.Addr == "" {
			return errors.New("config: session.storage.redis.addr is required for the redis driver")
		}
	case "sql":
		if c.Session.Storage.SQL.DSN == "" {
			return errors.New("config: session.storage.sql.dsn is required for the sql driver")
		}
	}
	return nil
}
