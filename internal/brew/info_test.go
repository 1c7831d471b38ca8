package brew

import "testing"

const sampleInfo = `{
  "formulae": [
    {
      "name": "wget",
      "full_name": "wget",
      "tap": "homebrew/core",
      "desc": "Internet file retriever",
      "homepage": "https://www.gnu.org/software/wget/",
      "versions": {"stable": "1.24.5"},
      "installed": [{"version": "1.24.5", "installed_on_request": true}],
      "outdated": false,
      "pinned": false
    }
  ],
  "casks": [
    {
      "token": "firefox",
      "name": ["Mozilla Firefox"],
      "desc": "Web browser",
      "homepage": "https://www.mozilla.org/firefox/",
      "version": "130.0",
      "installed": "129.0",
      "outdated": true
    }
  ]
}`

func TestDecodeInfo(t *testing.T) {
	resp, err := DecodeInfo([]byte(sampleInfo))
	if err != nil {
		t.Fatalf("DecodeInfo: %v", err)
	}

	if len(resp.Formulae) != 1 {
		t.Fatalf("formulae = %d, want 1", len(resp.Formulae))
	}
	f := resp.Formulae[0]
	if f.Name != "wget" {
		t.Errorf("Name = %q, want wget", f.Name)
	}
	if f.Versions.Stable != "1.24.5" {
		t.Errorf("Versions.Stable = %q, want 1.24.5", f.Versions.Stable)
	}
	if f.InstalledVersion() != "1.24.5" {
		t.Errorf("InstalledVersion = %q, want 1.24.5", f.InstalledVersion())
	}

	if len(resp.Casks) != 1 {
		t.Fatalf("casks = %d, want 1", len(resp.Casks))
	}
	c := resp.Casks[0]
	if c.Token != "firefox" {
		t.Errorf("Token = %q, want firefox", c.Token)
	}
	if c.DisplayName() != "Mozilla Firefox" {
		t.Errorf("DisplayName = %q, want Mozilla Firefox", c.DisplayName())
	}
	if !c.Outdated {
		t.Error("Outdated = false, want true")
	}
}

func TestDecodeInfo_NoOutput(t *testing.T) {
	resp, err := DecodeInfo(nil)
	if err != nil {
		t.Fatalf("DecodeInfo: %v", err)
	}
	if len(resp.Formulae) != 0 || len(resp.Casks) != 0 {
		t.Errorf("response = %+v, want empty", resp)
	}
}

func TestDecodeInfo_Malformed(t *testing.T) {
	if _, err := DecodeInfo([]byte("Error: not json")); err == nil {
		t.Error("expected error for malformed output")
	}
}

func TestDecodeOutdated(t *testing.T) {
	payload := `{
	  "formulae": [{"name": "jq", "installed_versions": ["1.6"], "current_version": "1.7.1", "pinned": false}],
	  "casks": [{"name": "firefox", "installed_versions": ["129.0"], "current_version": "130.0"}]
	}`
	resp, err := DecodeOutdated([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeOutdated: %v", err)
	}
	if len(resp.Formulae) != 1 || resp.Formulae[0].Name != "jq" {
		t.Errorf("Formulae = %+v, want jq", resp.Formulae)
	}
	if resp.Formulae[0].CurrentVersion != "1.7.1" {
		t.Errorf("CurrentVersion = %q, want 1.7.1", resp.Formulae[0].CurrentVersion)
	}
	if len(resp.Casks) != 1 || resp.Casks[0].Name != "firefox" {
		t.Errorf("Casks = %+v, want firefox", resp.Casks)
	}
}

func TestFormula_NotInstalled(t *testing.T) {
	f := Formula{Name: "jq"}
	if v := f.InstalledVersion(); v != "" {
		t.Errorf("InstalledVersion = %q, want empty", v)
	}
}
