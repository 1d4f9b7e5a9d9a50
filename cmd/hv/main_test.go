package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/heckleviz/internal/datasource"
	"github.com/vanderheijden86/heckleviz/pkg/export"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/testutil"
	"github.com/vanderheijden86/heckleviz/pkg/version"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

// runHV runs the CLI against an isolated config path.
func runHV(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...)
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runHV(t, "--version")
	if code != 0 || strings.TrimSpace(out) != "hv "+version.Version {
		t.Errorf("code %d, out %q", code, out)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	if code, _, _ := runHV(t, "--no-such-flag"); code != 2 {
		t.Errorf("code = %d, want 2", code)
	}
}

func TestRun_RobotScene(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())

	code, out, errOut := runHV(t, "--data", dir, "--robot-scene", widget.NameTopics)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	var got export.RobotScene
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if got.Widget != widget.NameTopics || got.Fallback || got.Scene == nil {
		t.Errorf("robot scene = %+v", got)
	}
	if len(got.Addressable) == 0 {
		t.Error("topic scene should carry addressable points")
	}
}

func TestRun_RobotSceneUnknownWidget(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	code, _, errOut := runHV(t, "--data", dir, "--robot-scene", "nope")
	if code != 2 || !strings.Contains(errOut, "Unknown widget") {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}

func TestRun_RobotMembers(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())

	code, out, errOut := runHV(t, "--data", dir, "--robot-members", testutil.MemberID(12), "--perspective", "heckled")
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	var got export.RobotMembers
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Perspective != model.PerspectiveHeckled || got.NoMatch {
		t.Errorf("members = %+v", got)
	}
	if len(got.Rows) == 0 || !got.Rows[0].Hit || got.Rows[0].ID != testutil.MemberID(12) {
		t.Errorf("first row = %+v", got.Rows)
	}
}

func TestRun_Export(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	outDir := filepath.Join(t.TempDir(), "out")

	code, out, errOut := runHV(t, "--data", dir, "--export", outDir)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	for _, name := range []string{"topics.svg", "topics-compare.svg", "coefficients-logit.svg", "parties.svg", "members.svg", "README.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "README.md") {
		t.Errorf("stdout should list written files, got %q", out)
	}
}

func TestRun_ExportHooks(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	cfgDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	marker := filepath.Join(cfgDir, "post.txt")
	hooksYAML := "hooks:\n  post-export:\n    - name: count\n      command: echo \"$HV_FILE_COUNT $HV_EXPORT_FORMAT\" > " + marker + "\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "hooks.yaml"), []byte(hooksYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	args := []string{"--config", filepath.Join(cfgDir, "config.yaml"), "--data", dir, "--export", outDir}
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("code %d: %s", code, stderr.String())
	}
	got, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("post-export hook did not run: %v", err)
	}
	written := strings.Count(strings.TrimSpace(stdout.String()), "\n") + 1
	if want := fmt.Sprintf("%d svg", written); strings.TrimSpace(string(got)) != want {
		t.Errorf("hook saw %q, want %q", got, want)
	}
	if !strings.Contains(stderr.String(), "Hooks: 1 succeeded, 0 failed") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_PreExportHookCancels(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	cfgDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	if err := os.WriteFile(filepath.Join(cfgDir, "hooks.yaml"), []byte("hooks:\n  pre-export:\n    - name: gate\n      command: exit 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(cfgDir, "config.yaml")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--config", cfgPath, "--data", dir, "--export", outDir}, &stdout, &stderr); code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("export dir should not exist after a failed pre-export hook: %v", err)
	}

	stdout.Reset()
	stderr.Reset()
	if code := run([]string{"--config", cfgPath, "--data", dir, "--export", outDir, "--no-hooks"}, &stdout, &stderr); code != 0 {
		t.Fatalf("--no-hooks: code %d: %s", code, stderr.String())
	}
}

func TestRun_ImportSQLiteThenReadBack(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	dbDir := t.TempDir()
	db := filepath.Join(dbDir, datasource.DatabaseName)

	code, out, errOut := runHV(t, "--data", dir, "--import-sqlite", db)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	var report export.ImportReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Written) != len(model.AllDatasets()) || len(report.Missing) != 0 {
		t.Errorf("report = %+v", report)
	}

	code, out, errOut = runHV(t, "--data", dbDir, "--robot-scene", widget.NameParties)
	if code != 0 {
		t.Fatalf("reading back: code %d: %s", code, errOut)
	}
	if !strings.Contains(out, `"widget": "parties"`) {
		t.Errorf("robot output = %s", out)
	}
}

func TestRun_SourcesReport(t *testing.T) {
	g := testutil.NewDefault()
	dir := testutil.WriteDataDir(t, g)

	// Mirror the CSVs into a database next to them.
	if code, _, errOut := runHV(t, "--data", dir, "--import-sqlite", filepath.Join(dir, datasource.DatabaseName)); code != 0 {
		t.Fatalf("import: %s", errOut)
	}
	if code, _, _ := runHV(t, "--data", dir, "--sources"); code != 0 {
		t.Errorf("matching sources should report clean, code %d", code)
	}

	if err := os.Remove(filepath.Join(dir, model.PartyRateByYear)); err != nil {
		t.Fatal(err)
	}
	code, out, _ := runHV(t, "--data", dir, "--sources")
	if code != 3 {
		t.Errorf("code = %d, want 3", code)
	}
	if !strings.Contains(out, `"total_inconsistencies": 1`) {
		t.Errorf("report = %s", out)
	}
}

func TestRun_MissingDataDir(t *testing.T) {
	code, _, errOut := runHV(t, "--data", filepath.Join(t.TempDir(), "missing"), "--robot-scene", "topics")
	if code != 1 || !strings.Contains(errOut, "data source") {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	o := options{
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
		url:        "https://example.org/data",
		format:     "png",
		watch:      true,
	}
	cfg, err := loadConfig(o)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.Source != "http" || cfg.Data.URL != o.url || cfg.Export.Format != "png" || !cfg.Watch {
		t.Errorf("cfg = %+v", cfg)
	}

	o.format = "gif"
	if _, err := loadConfig(o); err == nil {
		t.Error("unsupported format should fail validation")
	}
}

func TestRun_Metrics(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	code, out, _ := runHV(t, "--data", dir, "--robot-scene", widget.NameCoefficients, "--metrics")
	if code != 0 || !strings.Contains(out, "metric") || !strings.Contains(out, "dataset_load") {
		t.Errorf("code %d, out tail %q", code, out[max(len(out)-400, 0):])
	}
}
