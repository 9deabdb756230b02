// Package config loads adapter configuration from TOML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the adapter's runtime configuration.
type Config struct {
	// Transport selects how the adapter talks to its host: "stdio" or
	// "socket".
	Transport string `toml:"transport"`

	// Listen is the TCP address for socket transport, e.g. "127.0.0.1:4711".
	Listen string `toml:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// FixtureDir is the directory fixture files are resolved against.
	FixtureDir string `toml:"fixture_dir"`

	// SkipFrames are glob patterns for source paths hidden from displayed
	// stacks.
	SkipFrames []string `toml:"skip_frames"`

	// DeemphasizeFrames are glob patterns for source paths shown subtly.
	DeemphasizeFrames []string `toml:"deemphasize_frames"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Transport: "stdio",
		Listen:    "127.0.0.1:4711",
		LogLevel:  "info",
	}
}

// ParseError describes a configuration parse failure, with document
// location detail when the decoder provides one.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads a TOML config file over the defaults, then applies
// environment overrides. A missing file is not an error; the defaults
// stand.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				var derr *toml.DecodeError
				if errors.As(err, &derr) {
					row, col := derr.Position()
					return nil, &ParseError{
						Path: path,
						Err:  fmt.Errorf("%d:%d: %s", row, col, derr.Error()),
					}
				}
				return nil, &ParseError{Path: path, Err: err}
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from REWIND_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("REWIND_TRANSPORT"); v != "" {
		c.Transport = v
	}
	if v := os.Getenv("REWIND_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("REWIND_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("REWIND_FIXTURE_DIR"); v != "" {
		c.FixtureDir = v
	}
	if v := os.Getenv("REWIND_SKIP_FRAMES"); v != "" {
		c.SkipFrames = splitList(v)
	}
	if v := os.Getenv("REWIND_DEEMPHASIZE_FRAMES"); v != "" {
		c.DeemphasizeFrames = splitList(v)
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) validate() error {
	switch c.Transport {
	case "stdio", "socket":
	default:
		return fmt.Errorf("invalid transport %q (want stdio or socket)", c.Transport)
	}
	if c.Transport == "socket" && c.Listen == "" {
		return fmt.Errorf("socket transport requires a listen address")
	}
	return nil
}
