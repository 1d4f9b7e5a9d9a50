// Package config handles loading and saving hv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/heckleviz/config.yaml
//   - State:   ~/.local/state/heckleviz/ (exported scenes by default)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/scrolly"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

// AppName names the XDG subdirectories.
const AppName = "heckleviz"

// Source kinds.
const (
	SourceAuto   = "auto"
	SourceDir    = "dir"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Export formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DataConfig selects where datasets come from.
type DataConfig struct {
	Dir    string `yaml:"dir,omitempty"`    // Data directory (CSV files and/or heckleviz.db)
	URL    string `yaml:"url,omitempty"`    // Base URL for the http source
	Source string `yaml:"source,omitempty"` // auto, dir, sqlite, http
}

// ArticleConfig holds widget defaults.
type ArticleConfig struct {
	PreferredTopic string  `yaml:"preferred_topic,omitempty"`
	PartyLimit     int     `yaml:"party_limit,omitempty"`   // Parties shown in the filter
	PartySeed      int     `yaml:"party_seed,omitempty"`    // Parties initially active
	MemberMinTurns int     `yaml:"member_min_turns"`        // Threshold for the member ranking; 0 admits everyone
	ScrollAnchor   float64 `yaml:"scroll_anchor,omitempty"` // Fraction of viewport height (0-1)
}

// ExportConfig holds batch export defaults.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // svg or png
	Dir    string `yaml:"dir,omitempty"`
}

// Config is the top-level configuration for hv.
type Config struct {
	Data    DataConfig    `yaml:"data,omitempty"`
	Article ArticleConfig `yaml:"article,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
	Watch   bool          `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Source: SourceAuto,
		},
		Article: ArticleConfig{
			PreferredTopic: widget.DefaultTopic,
			PartyLimit:     widget.DefaultPartyLimit,
			PartySeed:      widget.DefaultPartySeed,
			MemberMinTurns: rank.MinTurns,
			ScrollAnchor:   scrolly.AnchorRatio,
		},
		Export: ExportConfig{
			Format: FormatSVG,
		},
	}
}

// ConfigDir returns the XDG config directory for hv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// StateDir returns the XDG state directory for hv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. Fields left out of the
// file keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Dir = expandHome(cfg.Data.Dir)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	switch c.Data.Source {
	case SourceAuto, SourceDir, SourceSQLite:
	case SourceHTTP:
		if c.Data.URL == "" {
			return fmt.Errorf("data.source http requires data.url")
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}
	switch c.Export.Format {
	case FormatSVG, FormatPNG:
	default:
		return fmt.Errorf("unknown export.format %q", c.Export.Format)
	}
	a := c.Article
	if a.PartyLimit < 1 {
		return fmt.Errorf("article.party_limit must be positive")
	}
	if a.PartySeed < 1 || a.PartySeed > a.PartyLimit {
		return fmt.Errorf("article.party_seed must be between 1 and party_limit")
	}
	if a.MemberMinTurns < 0 {
		return fmt.Errorf("article.member_min_turns must not be negative")
	}
	if a.ScrollAnchor <= 0 || a.ScrollAnchor >= 1 {
		return fmt.Errorf("article.scroll_anchor must be in (0,1)")
	}
	return nil
}

// ExportDir returns the configured export directory, falling back to the
// state directory.
func (c Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	if dir := StateDir(); dir != "" {
		return filepath.Join(dir, "export")
	}
	return "export"
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
