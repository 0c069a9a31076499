// Package config loads skintap settings from skintap.json5, merged with an
// optional skintap.local.json5 next to it, over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

const (
	appName  = "skintap"
	fileName = appName + ".json5"

	EnvConfig   = "SKINTAP_CONFIG"
	EnvLogLevel = "SKINTAP_LOG_LEVEL"
	EnvDataDir  = "SKINTAP_DATA_DIR"
)

type Tracking struct {
	Disabled bool   `json:"disabled"`
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
}

type Config struct {
	DataDir        string   `json:"dataDir"`
	CatalogPath    string   `json:"catalogPath"`
	CatalogURL     string   `json:"catalogURL"`
	ProxyURL       string   `json:"proxyURL"`
	DefaultMarkets []string `json:"defaultMarkets"`
	// OpenDelay is a Go duration string, e.g. "250ms".
	OpenDelay string   `json:"openDelay"`
	Tracking  Tracking `json:"tracking"`
	LogLevel  string   `json:"logLevel"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir: defaultDataDir(),
		DefaultMarkets: []string{
			"steam", "buff163", "csfloat", "skinport", "youpin",
		},
		OpenDelay: "250ms",
		Tracking: Tracking{
			Source:   appName,
			Medium:   "cli",
			Campaign: "search",
		},
		LogLevel: "info",
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appName)
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(defaultDataDir(), fileName)
}

// Load reads path (DefaultPath when empty). Missing files are not an error:
// the defaults are used. Environment overrides are applied last.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg, err := readConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, fmt.Errorf("applying defaults: %w", err)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be checked by decoding alone.
func (c Config) Validate() error {
	d, err := time.ParseDuration(c.OpenDelay)
	if err != nil {
		return fmt.Errorf("openDelay: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("openDelay: must not be negative, got %s", c.OpenDelay)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Delay is the parsed OpenDelay.
func (c Config) Delay() time.Duration {
	d, _ := time.ParseDuration(c.OpenDelay)
	return d
}

func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, appName+".db")
}

// CatalogFile is where the catalog is read from and pulled to.
func (c Config) CatalogFile() string {
	if c.CatalogPath != "" {
		return c.CatalogPath
	}
	return filepath.Join(c.DataDir, "catalog.json")
}

func (c Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("logLevel: %w", err)
	}
	return l, nil
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// readConfig merges <name>.<ext> with <name>.local.<ext>, the local file
// taking priority. It returns os.ErrNotExist when neither exists.
func readConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		if err := json5.Unmarshal(defaultFile, &out); err != nil {
			return out, err
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext))
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		if err := json5.Unmarshal(localFile, &override); err != nil {
			return out, err
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}
