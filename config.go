package ldapboot

import (
	"crypto/tls"
	"errors"
	"time"

	"github.com/creasty/defaults"
)

// Config carries the connection settings consumed by toolkit bindings.
// Zero values are filled in by DefaultConfig; the defaults are
// fail-closed (certificate verification on, TLS 1.2 floor).
type Config struct {
	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration `default:"30s"`

	// OperationTimeout is applied to the native connection after a
	// successful open, where the toolkit supports it.
	OperationTimeout time.Duration `default:"30s"`

	// TLSMinVersion is the minimum accepted TLS version for secure
	// connections. Defaults to TLS 1.2.
	TLSMinVersion uint16
}

// DefaultConfig returns the default connection settings.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// The struct tags are static; Set only fails on malformed tags.
		panic(err)
	}
	cfg.TLSMinVersion = tls.VersionTLS12
	return cfg
}

// Validate checks the configuration for values no binding can use.
func (c *Config) Validate() error {
	if c.DialTimeout <= 0 {
		return errors.New("dial timeout must be positive")
	}
	if c.OperationTimeout < 0 {
		return errors.New("operation timeout cannot be negative")
	}
	return nil
}
