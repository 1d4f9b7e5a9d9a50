package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/vanderheijden86/heckleviz/pkg/scene"
	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// TempDir helpers

// WriteDataset writes one dataset as CSV into dir.
func WriteDataset(t *testing.T, dir string, ds tabular.Dataset) string {
	t.Helper()

	path := filepath.Join(dir, ds.Name)
	if err := os.WriteFile(path, []byte(tabular.FormatString(ds)), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", ds.Name, err)
	}
	return path
}

// WriteDataDir writes the given datasets (all of them when names is empty)
// into a fresh temp directory and returns it.
func WriteDataDir(t *testing.T, g *Generator, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	all := g.All()
	if len(names) == 0 {
		for n := range all {
			names = append(names, n)
		}
		sort.Strings(names)
	}
	for _, n := range names {
		ds, ok := all[n]
		if !ok {
			t.Fatalf("unknown dataset %s", n)
		}
		WriteDataset(t, dir, ds)
	}
	return dir
}

// Scene helpers

// AssertHasText fails unless some text element equals want.
func AssertHasText(t *testing.T, s *scene.Scene, want string) {
	t.Helper()
	for _, txt := range s.Texts() {
		if txt == want {
			return
		}
	}
	t.Errorf("scene has no text %q; texts: %q", want, s.Texts())
}
