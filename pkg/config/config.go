// Package config loads the optional excheck configuration file.
//
// Every field has a working default, so excheck runs without any file at
// all; the file exists for air-gapped mirrors of the upstream tables and
// for tuning the liveness heuristic.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Default upstream documents. The primary table is the markdown source of
// the Exchange build-numbers page; the secondary one is the rendered
// supported-updates page, which carries the authoritative per-line CU list.
const (
	DefaultReleasesURL  = "https://raw.githubusercontent.com/MicrosoftDocs/OfficeDocs-Exchange/public/Exchange/ExchangeServer/new-features/build-numbers-and-release-dates.md"
	DefaultSupportedURL = "https://learn.microsoft.com/en-us/exchange/new-features/updates"
)

// Config is the full excheck configuration.
type Config struct {
	Sources   Sources   `toml:"sources"`
	Heuristic Heuristic `toml:"heuristic"`
	Cache     Cache     `toml:"cache"`
	Check     Check     `toml:"check"`
}

// Sources names the two upstream documents.
type Sources struct {
	ReleasesURL  string `toml:"releases_url"`
	SupportedURL string `toml:"supported_url"`
}

// Heuristic tunes the age-based liveness classifier.
type Heuristic struct {
	MaxAgeDays        int `toml:"max_age_days"`
	CompareWindowDays int `toml:"compare_window_days"`
}

// MaxAge returns the absolute age cutoff as a duration.
func (h Heuristic) MaxAge() time.Duration {
	return time.Duration(h.MaxAgeDays) * 24 * time.Hour
}

// CompareWindow returns the sibling lag tolerance as a duration.
func (h Heuristic) CompareWindow() time.Duration {
	return time.Duration(h.CompareWindowDays) * 24 * time.Hour
}

// Cache selects and tunes the response cache backend.
type Cache struct {
	// Dir overrides the file cache location (default ~/.cache/excheck).
	Dir string `toml:"dir"`
	// TTLHours bounds how stale a cached upstream response may be.
	TTLHours int `toml:"ttl_hours"`
	// RedisAddr switches to the Redis backend when non-empty.
	RedisAddr string `toml:"redis_addr"`
}

// TTL returns the cache entry lifetime.
func (c Cache) TTL() time.Duration { return time.Duration(c.TTLHours) * time.Hour }

// Check configures the live server probe.
type Check struct {
	// EndpointPath is the well-known path probed on the target host.
	EndpointPath string `toml:"endpoint_path"`
	// VersionHeader is the response header carrying the build number.
	VersionHeader string `toml:"version_header"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sources: Sources{
			ReleasesURL:  DefaultReleasesURL,
			SupportedURL: DefaultSupportedURL,
		},
		Heuristic: Heuristic{
			MaxAgeDays:        180,
			CompareWindowDays: 31,
		},
		Cache: Cache{
			TTLHours: 12,
		},
		Check: Check{
			EndpointPath:  "/owa/auth/logon.aspx",
			VersionHeader: "X-OWA-Version",
		},
	}
}

// DefaultPath returns the standard config file location
// (~/.config/excheck/config.toml, honoring XDG_CONFIG_HOME).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "excheck", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "excheck", "config.toml"), nil
}

// Load reads a TOML config file and fills unset fields with defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields the file left at their zero value.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Sources.ReleasesURL == "" {
		c.Sources.ReleasesURL = def.Sources.ReleasesURL
	}
	if c.Sources.SupportedURL == "" {
		c.Sources.SupportedURL = def.Sources.SupportedURL
	}
	if c.Heuristic.MaxAgeDays == 0 {
		c.Heuristic.MaxAgeDays = def.Heuristic.MaxAgeDays
	}
	if c.Heuristic.CompareWindowDays == 0 {
		c.Heuristic.CompareWindowDays = def.Heuristic.CompareWindowDays
	}
	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = def.Cache.TTLHours
	}
	if c.Check.EndpointPath == "" {
		c.Check.EndpointPath = def.Check.EndpointPath
	}
	if c.Check.VersionHeader == "" {
		c.Check.VersionHeader = def.Check.VersionHeader
	}
}
