package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vanderheijden86/heckleviz/pkg/debug"
)

// waitDelay bounds how long a killed hook may keep its output pipes open.
const waitDelay = 500 * time.Millisecond

// summaryStderrLimit caps the stderr excerpt per failed hook in Summary.
const summaryStderrLimit = 200

// HookResult records one hook run.
type HookResult struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs configured hooks with the export context in their
// environment.
type Executor struct {
	config  *Config
	context ExportContext
	results []HookResult
}

// NewExecutor creates an executor for config.
func NewExecutor(config *Config, ctx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, context: ctx}
}

// SetFileCount updates HV_FILE_COUNT for the hooks that run after it.
func (e *Executor) SetFileCount(n int) {
	e.context.FileCount = n
}

// RunPreExport runs pre-export hooks in order, stopping at the first failure
// whose on_error is "fail".
func (e *Executor) RunPreExport() error {
	for _, h := range e.config.Hooks.PreExport {
		res := e.run(h, PreExport)
		if !res.Success && h.OnError != "continue" {
			return fmt.Errorf("pre-export hook %q failed: %w", h.Name, res.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook. Failures with on_error "fail"
// are collected and returned after all hooks ran.
func (e *Executor) RunPostExport() error {
	var errs []error
	for _, h := range e.config.Hooks.PostExport {
		res := e.run(h, PostExport)
		if !res.Success && h.OnError == "fail" {
			errs = append(errs, fmt.Errorf("post-export hook %q failed: %w", h.Name, res.Error))
		}
	}
	return errors.Join(errs...)
}

// Results returns the runs so far, in order.
func (e *Executor) Results() []HookResult {
	return append([]HookResult(nil), e.results...)
}

// Summary describes the runs for the terminal.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var ok, failed int
	for _, r := range e.results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hooks: %d succeeded, %d failed", ok, failed)
	for _, r := range e.results {
		if r.Success {
			continue
		}
		fmt.Fprintf(&sb, "\n  %s [%s]: %v", r.Hook.Name, r.Phase, r.Error)
		if r.Stderr != "" {
			fmt.Fprintf(&sb, "\n    stderr: %s", truncate(strings.ReplaceAll(r.Stderr, "\n", " "), summaryStderrLimit))
		}
	}
	return sb.String()
}

func (e *Executor) run(h Hook, phase HookPhase) HookResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	cmd.WaitDelay = waitDelay
	cmd.Env = append(os.Environ(), e.context.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := HookResult{
		Hook:     h,
		Phase:    phase,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		res.Error = fmt.Errorf("timed out after %v", timeout)
	case err != nil:
		res.Error = err
	default:
		res.Success = true
	}
	if !res.Success {
		debug.Log("hook %s (%s) failed: %v", h.Name, phase, res.Error)
	}
	e.results = append(e.results, res)
	return res
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
