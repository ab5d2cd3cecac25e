package reconcile

import "time"

// Config holds the catalog engine settings.
type Config struct {
	// LockMode selects the ReferenceOrder critical section (local, row, both).
	LockMode string `mapstructure:"lock_mode" default:"both"`
	// LockTimeoutSeconds bounds waiting for an in-process group lock. Zero waits for
	// the request context.
	LockTimeoutSeconds int `mapstructure:"lock_timeout_seconds" default:"10"`
	// IntegrityCacheSeconds is how long an order integrity report is reused.
	IntegrityCacheSeconds int `mapstructure:"integrity_cache_seconds" default:"60"`
}

// NewLockerFromConfig builds the configured locker.
func NewLockerFromConfig(cfg Config) (Locker, error) {
	return NewLocker(cfg.LockMode, time.Duration(cfg.LockTimeoutSeconds)*time.Second)
}

// IntegrityCacheTTL returns the report cache lifetime.
func (c Config) IntegrityCacheTTL() time.Duration {
	return time.Duration(c.IntegrityCacheSeconds) * time.Second
}
