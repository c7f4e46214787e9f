// Package telemetry sends opt-in, anonymous usage events to PostHog. Nothing is
// sent until the user enables it and an API key is configured; events never
// carry task titles, descriptions or user ids.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ConfigFileName is the name of the telemetry consent file in the data directory.
const ConfigFileName = "telemetry.json"

// Config holds the telemetry consent and anonymous identity.
type Config struct {
	// Enabled indicates whether the user opted in.
	Enabled bool `json:"enabled"`

	// ConsentAsked is set once the user made a choice either way.
	ConsentAsked bool `json:"consent_asked"`

	// AnonymousID is a random UUID generated once; it identifies an install, not a person.
	AnonymousID string `json:"anonymous_id"`
}

// ConfigPath returns the consent file path under dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// Load reads the consent file under dataDir. A missing file yields a disabled
// Config with a fresh anonymous id.
func Load(dataDir string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(ConfigPath(dataDir))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Save writes the consent file under dataDir with owner-only permissions.
func (c *Config) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(dataDir), data, 0o600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}

// Enable turns on telemetry and records that consent was asked.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable turns off telemetry and records that consent was asked.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// NeedsConsent reports whether the user has not been asked yet.
func (c *Config) NeedsConsent() bool { return !c.ConsentAsked }

// IsEnabled reports whether events may be sent.
func (c *Config) IsEnabled() bool { return c != nil && c.Enabled }
