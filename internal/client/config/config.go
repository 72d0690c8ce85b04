// Package config holds runtime settings for the avachat client and the
// defaults → JSON file → command-line flag overlay used to load them.
package config

import "time"

// AppContext selects which physical database the client opens.
type AppContext string

const (
	// ContextLive uses the persistent on-disk database.
	ContextLive AppContext = "live"
	// ContextPreview uses a purely in-memory database.
	ContextPreview AppContext = "preview"
	// ContextTest uses an ephemeral file that tests point wherever they like.
	ContextTest AppContext = "test"
)

// Config holds runtime settings for the avachat client.
//
// Fields:
//   - Context: live / preview / test, selects the physical database.
//   - Debug: enables verbose tracing, fixture seeding, and the
//     drop-and-recreate path when the migration set drifts.
//   - DatabasePath: on-disk database file for ContextLive and ContextTest.
//   - ProviderBaseURL: base URL of the identity provider's HTTPS API.
//   - RequestTimeout: per-request timeout for identity-provider calls.
type Config struct {
	Context         AppContext
	Debug           bool
	DatabasePath    string
	ProviderBaseURL string
	RequestTimeout  time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Context = ContextLive
	c.Debug = false
	c.DatabasePath = "dbChat.sqlite"
	c.ProviderBaseURL = "https://auth.avachat.app"
	c.RequestTimeout = 10 * time.Second
}

// DSN returns the database source name to open for the configured context.
// Preview always uses an in-memory database regardless of DatabasePath.
func (c *Config) DSN() string {
	if c.Context == ContextPreview {
		return ":memory:"
	}
	return c.DatabasePath
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
