package client

import "time"

// Config describes how the client reaches the lead backend.
type Config struct {
	// BaseURL is prepended verbatim to every endpoint.
	BaseURL string `conf:"base_url"`

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `conf:"max_retries"`

	// BaseDelay is the backoff delay before the first retry.
	BaseDelay time.Duration `conf:"base_delay"`

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration `conf:"max_delay"`

	// Timeout aborts a single attempt. Zero disables the per-attempt timer.
	Timeout time.Duration `conf:"timeout"`
}

const (
	DefaultBaseURL    = "https://newusbackend.vercel.app"
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1000 * time.Millisecond
	DefaultMaxDelay   = 10000 * time.Millisecond
	DefaultTimeout    = 15000 * time.Millisecond
)

// DefaultConfig returns the production retry policy.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
		Timeout:    DefaultTimeout,
	}
}

// withDefaults fills zero-valued delays. MaxRetries is kept as configured,
// so a zero Config makes a single attempt; a negative MaxRetries is
// clamped to zero. BaseURL and Timeout are left as configured.
func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	return c
}
