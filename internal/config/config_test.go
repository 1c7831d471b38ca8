package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"
)

func TestLoad_FromDir(t *testing.T) {
	dir := t.TempDir()
	cfg := "version: 1\nbrew: /opt/homebrew/bin/brew\ncache_max_age: 30m\n"
	if err := os.WriteFile(filepath.Join(dir, ".cellar"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Version != 1 {
		t.Errorf("Version = %d, want 1", c.Version)
	}
	if c.BrewPath() != "/opt/homebrew/bin/brew" {
		t.Errorf("BrewPath = %q, want /opt/homebrew/bin/brew", c.BrewPath())
	}
	if c.CacheMaxAge() != 30*time.Minute {
		t.Errorf("CacheMaxAge = %v, want 30m", c.CacheMaxAge())
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.BrewPath() != DefaultBrew {
		t.Errorf("BrewPath = %q, want %q", c.BrewPath(), DefaultBrew)
	}
	if c.CacheMaxAge() != DefaultCacheMaxAge {
		t.Errorf("CacheMaxAge = %v, want %v", c.CacheMaxAge(), DefaultCacheMaxAge)
	}
}

func TestProcessor_Defaults(t *testing.T) {
	c := &Config{}
	proc := c.Processor()
	if proc.Path != "/bin/bash" {
		t.Errorf("Processor.Path = %q, want /bin/bash", proc.Path)
	}
	if proc.ExecFlag != "-c" {
		t.Errorf("Processor.ExecFlag = %q, want -c", proc.ExecFlag)
	}
}

func TestProcessor_ExplicitEmptyFlag(t *testing.T) {
	empty := ""
	c := &Config{Shell: ShellConfig{Path: "/usr/bin/env", Flag: &empty}}
	proc := c.Processor()
	if proc.Path != "/usr/bin/env" {
		t.Errorf("Processor.Path = %q, want /usr/bin/env", proc.Path)
	}
	if proc.ExecFlag != "" {
		t.Errorf("Processor.ExecFlag = %q, want empty", proc.ExecFlag)
	}
}

func TestEncoding(t *testing.T) {
	c := &Config{}
	enc, err := c.Encoding()
	if err != nil {
		t.Fatalf("Encoding: %v", err)
	}
	if enc != unicode.UTF8 {
		t.Errorf("Encoding = %v, want UTF-8", enc)
	}

	c.RawEncoding = "iso-8859-1"
	if _, err := c.Encoding(); err != nil {
		t.Errorf("Encoding(iso-8859-1): %v", err)
	}

	c.RawEncoding = "no-such-encoding"
	if _, err := c.Encoding(); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestCacheMaxAge_Invalid(t *testing.T) {
	c := &Config{RawCacheMaxAge: "not-a-duration"}
	if c.CacheMaxAge() != DefaultCacheMaxAge {
		t.Errorf("CacheMaxAge = %v, want default %v", c.CacheMaxAge(), DefaultCacheMaxAge)
	}
}
