package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Data.Source != SourceAuto {
		t.Errorf("expected source auto, got %q", cfg.Data.Source)
	}
	if cfg.Article.PreferredTopic != "Economy" {
		t.Errorf("expected preferred topic Economy, got %q", cfg.Article.PreferredTopic)
	}
	if cfg.Article.PartyLimit != 8 || cfg.Article.PartySeed != 4 {
		t.Errorf("expected party limit/seed 8/4, got %d/%d", cfg.Article.PartyLimit, cfg.Article.PartySeed)
	}
	if cfg.Article.MemberMinTurns != 200 {
		t.Errorf("expected member min turns 200, got %d", cfg.Article.MemberMinTurns)
	}
	if cfg.Article.ScrollAnchor != 0.45 {
		t.Errorf("expected scroll anchor 0.45, got %f", cfg.Article.ScrollAnchor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Export.Format != FormatSVG {
		t.Errorf("expected default config, got format %q", cfg.Export.Format)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
data:
  dir: ~/hansard/data
  source: sqlite
article:
  preferred_topic: Health
  party_seed: 2
export:
  format: png
watch: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "hansard/data"); cfg.Data.Dir != want {
		t.Errorf("expected expanded dir %q, got %q", want, cfg.Data.Dir)
	}
	if cfg.Data.Source != SourceSQLite {
		t.Errorf("expected source sqlite, got %q", cfg.Data.Source)
	}
	if cfg.Article.PreferredTopic != "Health" || cfg.Article.PartySeed != 2 {
		t.Errorf("article = %+v", cfg.Article)
	}
	if cfg.Article.PartyLimit != 8 {
		t.Errorf("unset field should keep default, got party limit %d", cfg.Article.PartyLimit)
	}
	if cfg.Export.Format != FormatPNG || !cfg.Watch {
		t.Errorf("export/watch = %+v %v", cfg.Export, cfg.Watch)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "data: [\n"},
		{"unknown source", "data:\n  source: ftp\n"},
		{"http without url", "data:\n  source: http\n"},
		{"bad format", "export:\n  format: gif\n"},
		{"seed above limit", "article:\n  party_limit: 3\n  party_seed: 4\n"},
		{"anchor out of range", "article:\n  scroll_anchor: 1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Data.Source = SourceHTTP
	cfg.Data.URL = "https://example.org/data"
	cfg.Article.MemberMinTurns = 50

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestMemberMinTurnsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("article:\n  member_min_turns: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Article.MemberMinTurns != 0 {
		t.Fatalf("expected member min turns 0, got %d", cfg.Article.MemberMinTurns)
	}

	// An explicit zero must survive a save as well.
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got.Article.MemberMinTurns != 0 {
		t.Errorf("reloaded member min turns = %d, want 0", got.Article.MemberMinTurns)
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgconf")
	t.Setenv("XDG_STATE_HOME", "/tmp/xdgstate")

	if got := ConfigPath(); got != "/tmp/xdgconf/heckleviz/config.yaml" {
		t.Errorf("ConfigPath = %q", got)
	}
	if got := DefaultConfig().ExportDir(); got != "/tmp/xdgstate/heckleviz/export" {
		t.Errorf("ExportDir = %q", got)
	}
}
