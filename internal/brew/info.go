package brew

import (
	"encoding/json"
	"fmt"
)

// InfoResponse mirrors the payload of `brew info --json=v2`.
type InfoResponse struct {
	Formulae []Formula `json:"formulae"`
	Casks    []Cask    `json:"casks"`
}

// Formula holds the fields of a brew formula the catalog cares about.
type Formula struct {
	Name      string             `json:"name"`
	FullName  string             `json:"full_name"`
	Tap       string             `json:"tap"`
	Desc      string             `json:"desc"`
	Homepage  string             `json:"homepage"`
	Versions  Versions           `json:"versions"`
	Installed []InstalledFormula `json:"installed"`
	Outdated  bool               `json:"outdated"`
	Pinned    bool               `json:"pinned"`
}

// Versions holds a formula's published versions.
type Versions struct {
	Stable string `json:"stable"`
}

// InstalledFormula describes one installed version of a formula.
type InstalledFormula struct {
	Version            string `json:"version"`
	InstalledOnRequest bool   `json:"installed_on_request"`
}

// InstalledVersion returns the first installed version, or "" when the
// formula is not installed.
func (f *Formula) InstalledVersion() string {
	if len(f.Installed) == 0 {
		return ""
	}
	return f.Installed[0].Version
}

// Cask holds the fields of a brew cask the catalog cares about.
type Cask struct {
	Token     string   `json:"token"`
	Names     []string `json:"name"`
	Desc      string   `json:"desc"`
	Homepage  string   `json:"homepage"`
	Version   string   `json:"version"`
	Installed string   `json:"installed"` // installed version; empty when not installed
	Outdated  bool     `json:"outdated"`
}

// DisplayName returns the cask's first human-readable name, falling back
// to its token.
func (c *Cask) DisplayName() string {
	if len(c.Names) > 0 {
		return c.Names[0]
	}
	return c.Token
}

// OutdatedResponse mirrors the payload of `brew outdated --json=v2`.
type OutdatedResponse struct {
	Formulae []OutdatedPackage `json:"formulae"`
	Casks    []OutdatedPackage `json:"casks"`
}

// OutdatedPackage describes one package with a pending upgrade.
type OutdatedPackage struct {
	Name              string   `json:"name"`
	InstalledVersions []string `json:"installed_versions"`
	CurrentVersion    string   `json:"current_version"`
	Pinned            bool     `json:"pinned"`
}

// DecodeInfo parses `brew info --json=v2` output. Nil input decodes to an
// empty response: a command that printed nothing found nothing.
func DecodeInfo(data []byte) (*InfoResponse, error) {
	resp := &InfoResponse{}
	if len(data) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("parsing brew info output: %w", err)
	}
	return resp, nil
}

// DecodeOutdated parses `brew outdated --json=v2` output.
func DecodeOutdated(data []byte) (*OutdatedResponse, error) {
	resp := &OutdatedResponse{}
	if len(data) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("parsing brew outdated output: %w", err)
	}
	return resp, nil
}
