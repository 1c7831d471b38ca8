// Package config loads and validates the optional .cellar YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"gopkg.in/yaml.v3"

	"github.com/deixis/cellar/internal/shell"
)

// Default values for the brew client and shell configuration.
const (
	DefaultBrew        = "brew"
	DefaultCacheMaxAge = time.Hour
)

// Config holds the parsed .cellar configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version        int         `yaml:"version"`
	Brew           string      `yaml:"brew"`          // brew executable, e.g. /opt/homebrew/bin/brew
	Shell          ShellConfig `yaml:"shell"`         // processor that runs command lines
	RawEncoding    string      `yaml:"encoding"`      // IANA/WHATWG name, e.g. "utf-8"
	RawCacheMaxAge string      `yaml:"cache_max_age"` // e.g. "30m", "2h"
	Verbosity      int         `yaml:"verbosity"`     // log verbosity (0 = warnings only)
}

// ShellConfig selects the processor used to execute command lines.
type ShellConfig struct {
	Path string  `yaml:"path"` // default /bin/bash
	Flag *string `yaml:"flag"` // default -c; set to "" to pass arguments unwrapped
}

// BrewPath returns the configured brew executable or the default.
func (c *Config) BrewPath() string {
	if c.Brew != "" {
		return c.Brew
	}
	return DefaultBrew
}

// Processor returns the configured command processor or the default.
func (c *Config) Processor() shell.Processor {
	proc := shell.DefaultProcessor
	if c.Shell.Path != "" {
		proc.Path = c.Shell.Path
	}
	if c.Shell.Flag != nil {
		proc.ExecFlag = *c.Shell.Flag
	}
	return proc
}

// Encoding resolves the configured output encoding, defaulting to UTF-8.
func (c *Config) Encoding() (encoding.Encoding, error) {
	if c.RawEncoding == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(c.RawEncoding)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", c.RawEncoding, err)
	}
	return enc, nil
}

// CacheMaxAge returns the configured catalog snapshot max age or the default.
func (c *Config) CacheMaxAge() time.Duration {
	if c.RawCacheMaxAge != "" {
		d, err := time.ParseDuration(c.RawCacheMaxAge)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultCacheMaxAge
}

// Load reads the .cellar file from dir, falling back to the user's home
// directory. If neither exists, a default Config is returned.
func Load(dir string) (*Config, error) {
	paths := []string{filepath.Join(dir, ".cellar")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".cellar"))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		cfg := &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}

	return &Config{}, nil
}
