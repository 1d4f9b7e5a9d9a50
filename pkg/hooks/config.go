// Package hooks runs user commands around `hv --export`.
//
// Commands live in hooks.yaml next to config.yaml:
//
//	hooks:
//	  pre-export:
//	    - name: clean
//	      command: rm -rf "$HV_EXPORT_DIR"
//	  post-export:
//	    - name: publish
//	      command: rsync -a "$HV_EXPORT_DIR/" site/charts/
//	      timeout: 2m
//
// A failing pre-export hook cancels the export; post-export hooks run after
// the charts are written and only report failures.
package hooks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HookPhase is the point in the export at which a hook runs.
type HookPhase string

const (
	PreExport  HookPhase = "pre-export"
	PostExport HookPhase = "post-export"
)

// FileName is the hooks file looked for in the config directory.
const FileName = "hooks.yaml"

// DefaultTimeout applies to hooks without a timeout.
const DefaultTimeout = 30 * time.Second

// Hook is one shell command.
type Hook struct {
	Name    string            `yaml:"name" json:"name"`
	Command string            `yaml:"command" json:"command"`
	Timeout time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	// OnError is "fail" or "continue". Pre-export hooks default to fail,
	// post-export hooks to continue.
	OnError string `yaml:"on_error,omitempty" json:"on_error,omitempty"`
}

// UnmarshalYAML accepts timeouts as Go durations ("90s", "2m") or as a bare
// number of seconds.
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name    string            `yaml:"name"`
		Command string            `yaml:"command"`
		Timeout yaml.Node         `yaml:"timeout"`
		Env     map[string]string `yaml:"env"`
		OnError string            `yaml:"on_error"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*h = Hook{Name: raw.Name, Command: raw.Command, Env: raw.Env, OnError: raw.OnError}
	if raw.Timeout.Kind == 0 || raw.Timeout.Value == "" {
		return nil
	}
	d, err := parseTimeout(raw.Timeout.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", raw.Timeout.Line, err)
	}
	h.Timeout = d
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// HooksByPhase groups hooks by phase, in file order.
type HooksByPhase struct {
	PreExport  []Hook `yaml:"pre-export,omitempty" json:"pre-export,omitempty"`
	PostExport []Hook `yaml:"post-export,omitempty" json:"post-export,omitempty"`
}

// Config is the parsed hooks.yaml.
type Config struct {
	Hooks HooksByPhase `yaml:"hooks" json:"hooks"`
}

// ExportContext is exported to every hook as HV_* environment variables.
type ExportContext struct {
	ExportDir    string
	ExportFormat string
	FileCount    int // zero for pre-export hooks
	Timestamp    time.Time
}

// ToEnv renders the context as KEY=value pairs.
func (c ExportContext) ToEnv() []string {
	return []string{
		"HV_EXPORT_DIR=" + c.ExportDir,
		"HV_EXPORT_FORMAT=" + c.ExportFormat,
		"HV_FILE_COUNT=" + strconv.Itoa(c.FileCount),
		"HV_TIMESTAMP=" + c.Timestamp.Format(time.RFC3339),
	}
}

// Loader reads hooks.yaml from a directory.
type Loader struct {
	dir      string
	config   *Config
	warnings []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDir sets the directory holding hooks.yaml. The default is the working
// directory.
func WithDir(dir string) LoaderOption {
	return func(l *Loader) { l.dir = dir }
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.dir == "" {
		l.dir, _ = os.Getwd()
	}
	return l
}

// Load reads and normalizes hooks.yaml. A missing file loads as no hooks.
func (l *Loader) Load() error {
	path := filepath.Join(l.dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.config = &Config{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	l.warnings = nil
	cfg.Hooks.PreExport = l.normalize(PreExport, cfg.Hooks.PreExport, "fail")
	cfg.Hooks.PostExport = l.normalize(PostExport, cfg.Hooks.PostExport, "continue")
	l.config = &cfg
	return nil
}

// normalize fills defaults and drops hooks without a command.
func (l *Loader) normalize(phase HookPhase, in []Hook, onError string) []Hook {
	var out []Hook
	for i, h := range in {
		if strings.TrimSpace(h.Command) == "" {
			l.warnings = append(l.warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if h.Name == "" {
			h.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		if h.Timeout == 0 {
			h.Timeout = DefaultTimeout
		}
		if h.OnError == "" {
			h.OnError = onError
		}
		out = append(out, h)
	}
	return out
}

// Config returns the loaded configuration, empty before Load.
func (l *Loader) Config() *Config {
	if l.config == nil {
		return &Config{}
	}
	return l.config
}

// HasHooks reports whether any phase has a hook.
func (l *Loader) HasHooks() bool {
	return len(l.GetHooks(PreExport))+len(l.GetHooks(PostExport)) > 0
}

// GetHooks returns the hooks for phase.
func (l *Loader) GetHooks(phase HookPhase) []Hook {
	if l.config == nil {
		return nil
	}
	switch phase {
	case PreExport:
		return l.config.Hooks.PreExport
	case PostExport:
		return l.config.Hooks.PostExport
	}
	return nil
}

// Warnings lists hooks skipped by the last Load.
func (l *Loader) Warnings() []string { return l.warnings }

// RunHooks loads hooks.yaml from dir and returns an executor for it. It
// returns nil without error when noHooks is set or nothing is configured.
func RunHooks(dir string, ctx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	l := NewLoader(WithDir(dir))
	if err := l.Load(); err != nil {
		return nil, err
	}
	if !l.HasHooks() {
		return nil, nil
	}
	return NewExecutor(l.Config(), ctx), nil
}
