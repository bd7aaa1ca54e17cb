// Package config handles petrolc.toml configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name FindAndLoad looks for.
const FileName = "petrolc.toml"

// Config represents a petrolc.toml file.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`

	// Path is the file the config was loaded from (set at load time).
	Path string `toml:"-"`
}

// StoreConfig locates the value store.
type StoreConfig struct {
	Database string `toml:"database"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	Format string `toml:"format"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Database: "petrolc.db"},
		Output: OutputConfig{Format: "text"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load parses the config file at path. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	c.Path = path

	// A relative database path is relative to the config file.
	if c.Store.Database != ":memory:" && !filepath.IsAbs(c.Store.Database) {
		c.Store.Database = filepath.Join(filepath.Dir(path), c.Store.Database)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir looking for petrolc.toml and loads
// the first one found. Returns Default() if there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.Database == "" {
		errs = append(errs, errors.New("store.database must not be empty"))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("output.format %q must be text or json", c.Output.Format))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	return level, nil
}
