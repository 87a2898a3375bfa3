// Package config loads optional settings for a round-trip check from a TOML
// file.
package config

import (
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config holds settings that can come from a file. Command-line flags take
// precedence over every field here.
type Config struct {
	// Entry is the archive entry to verify.
	Entry string `toml:"entry" default:"notes"`

	// ToolArgs are passed to the tool before the archive path.
	ToolArgs []string `toml:"tool_args"`

	// Timeout bounds the tool run, in time.ParseDuration syntax.
	// "0s" means no timeout.
	Timeout string `toml:"timeout" default:"0s"`

	// TmpDir is the parent of scratch directories; empty means the system
	// temp directory.
	TmpDir string `toml:"tmp_dir"`

	Verbose bool `toml:"verbose"`

	// Env is layered over the host environment of the tool.
	Env map[string]string `toml:"env"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := new(Config)
	if err := defaults.Set(cfg); err != nil {
		// struct tags are static; a failure here is a programming error
		panic(err)
	}
	return cfg
}

// Load reads path and applies defaults to fields the file leaves unset.
// An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse decodes TOML data into a Config and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := new(Config)
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to apply config defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that TOML decoding cannot.
func (c *Config) Validate() error {
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout %q", c.Timeout)
	}
	if d < 0 {
		return 0, errors.Errorf("timeout must not be negative (got %s)", c.Timeout)
	}
	return d, nil
}
