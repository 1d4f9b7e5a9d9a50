package article

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/heckleviz/pkg/loader"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/testutil"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

func newArticle(t *testing.T, dir string, mounts ...string) *Article {
	t.Helper()
	return New(loader.New(loader.DirSource{Dir: dir}), DefaultOptions(), mounts...)
}

func TestLoad_AllWidgets(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	a := newArticle(t, dir)

	ok, err := a.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	snap := a.Snapshot()
	if len(snap.FailedNames) != 0 {
		t.Errorf("failed widgets: %v", snap.FailedNames)
	}
	if got := len(a.Widgets()); got != len(widget.Names()) {
		t.Errorf("widgets = %d", got)
	}
	if _, ok := snap.Widgets[widget.NameTopics].(*widget.TopicExplorer); !ok {
		t.Errorf("topics = %T", snap.Widgets[widget.NameTopics])
	}
	if !snap.HeadlineOK || snap.Headline.Events != 12000 {
		t.Errorf("headline = %+v ok=%v", snap.Headline, snap.HeadlineOK)
	}
	if snap.Derived {
		t.Error("callouts should come from the published findings")
	}
	if snap.Callouts.LargestWidening == "" || snap.Callouts.MostStable == "" {
		t.Errorf("callouts = %+v", snap.Callouts)
	}
}

func TestLoad_PrimaryFailureIsIsolated(t *testing.T) {
	g := testutil.NewDefault()
	dir := testutil.WriteDataDir(t, g, model.TopicGapOverTime, model.MemberHecklerSummary)
	a := newArticle(t, dir)

	if _, err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := a.Snapshot()

	if _, ok := snap.Widgets[widget.NameTopics].(*widget.TopicExplorer); !ok {
		t.Errorf("topics should load, got %T", snap.Widgets[widget.NameTopics])
	}
	if _, ok := snap.Widgets[widget.NameMembers].(*widget.MemberLookup); !ok {
		t.Errorf("members should load without the heckled table, got %T", snap.Widgets[widget.NameMembers])
	}
	fb, ok := snap.Widgets[widget.NameParties].(*widget.Fallback)
	if !ok {
		t.Fatalf("parties = %T", snap.Widgets[widget.NameParties])
	}
	if fb.Caption() != "Party trend data unavailable." {
		t.Errorf("fallback caption = %q", fb.Caption())
	}
	coef, ok := snap.Widgets[widget.NameCoefficients].(*widget.CoefficientToggle)
	if !ok || !coef.Fallback() {
		t.Errorf("coefficients should be the static fallback, got %T", snap.Widgets[widget.NameCoefficients])
	}
	if len(snap.FailedNames) != 2 {
		t.Errorf("failed = %v", snap.FailedNames)
	}
	if snap.HeadlineOK {
		t.Error("headline should keep its static values")
	}
	if !snap.Derived || snap.Callouts.LargestWidening == "" {
		t.Errorf("callouts should be derived from gaps: %+v", snap.Callouts)
	}
}

func TestLoad_EmptyPrimaryFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, model.TopicGapOverTime), []byte("year,policy_topic_label,gap_pp_male_minus_female\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := newArticle(t, dir, widget.NameTopics)
	if _, err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	w, _ := a.Widget(widget.NameTopics)
	if fb, ok := w.(*widget.Fallback); !ok || fb.Image() == "" {
		t.Errorf("topics = %T", w)
	}
}

func TestMountRegistry(t *testing.T) {
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	a := newArticle(t, dir, widget.NameParties)

	if _, err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Widget(widget.NameTopics); ok {
		t.Error("unmounted widget should not load")
	}
	a.Unmount(widget.NameParties)
	if _, ok := a.Widget(widget.NameParties); ok {
		t.Error("unmount should drop the widget")
	}
	a.Mount(widget.NameTopics)
	if _, err := a.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Widget(widget.NameTopics); !ok {
		t.Error("mounted widget should appear after reload")
	}
	if a.Mounted(widget.NameParties) {
		t.Error("parties should stay unmounted")
	}
}

func TestReload_ReplacesWholesale(t *testing.T) {
	g := testutil.NewDefault()
	dir := testutil.WriteDataDir(t, g)
	a := newArticle(t, dir, widget.NameParties)

	if _, err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	before, _ := a.Widget(widget.NameParties)
	if err := before.HandleEvent(widget.ToggleCategory{Category: "ALP"}); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	after, _ := a.Widget(widget.NameParties)
	if after == before {
		t.Fatal("reload should build a new controller")
	}
	if !after.(*widget.PartyFilter).IsActive("ALP") {
		t.Error("reloaded widget should start from the initial state")
	}
}

func TestChapters(t *testing.T) {
	chapters := DefaultChapters()
	if len(chapters) == 0 || chapters[0].ID != "intro" {
		t.Fatalf("chapters = %+v", chapters)
	}
	for _, c := range chapters {
		found := false
		for _, n := range widget.Names() {
			if c.Chart == n {
				found = true
			}
		}
		if !found {
			t.Errorf("chapter %s names unknown chart %q", c.ID, c.Chart)
		}
	}

	if _, err := ParseChapters([]byte("- title: x\n")); err == nil {
		t.Error("expected missing id error")
	}
	if _, err := ParseChapters([]byte("- id: a\n- id: a\n")); err == nil {
		t.Error("expected duplicate id error")
	}
	if _, err := LoadChapters(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected read error")
	}
}
