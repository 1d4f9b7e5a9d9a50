package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/heckleviz/internal/datasource"
	"github.com/vanderheijden86/heckleviz/pkg/article"
	"github.com/vanderheijden86/heckleviz/pkg/loader"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
	"github.com/vanderheijden86/heckleviz/pkg/testutil"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name     string
		in       SceneOptions
		wantPath string
		wantFmt  string
		wantErr  bool
	}{
		{"svg ext", SceneOptions{Path: "out/a.svg"}, "out/a.svg", FormatSVG, false},
		{"png ext", SceneOptions{Path: "out/a.PNG"}, "out/a.PNG", FormatPNG, false},
		{"no ext", SceneOptions{Path: "out/a"}, "out/a.svg", FormatSVG, false},
		{"explicit", SceneOptions{Path: "out/a.bin", Format: ".png"}, "out/a.bin", FormatPNG, false},
		{"bad format", SceneOptions{Path: "a", Format: "gif"}, "", "", true},
		{"no path", SceneOptions{Format: "svg"}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFormat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Path != tt.wantPath || got.Format != tt.wantFmt {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestSaveScene(t *testing.T) {
	s := scene.New(100, 50)
	s.Add(scene.Text(10, 20, "hello", scene.Style{Fill: "#333333", FontSize: 12}))
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "nested", "chart.svg")
	if err := SaveScene(s, SceneOptions{Path: svgPath}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) || !bytes.Contains(data, []byte("hello")) {
		t.Errorf("svg output = %s", data)
	}

	pngPath := filepath.Join(dir, "chart.png")
	if err := SaveScene(s, SceneOptions{Path: pngPath}); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("png output lacks signature")
	}

	if err := SaveScene(nil, SceneOptions{Path: svgPath}); err == nil {
		t.Error("expected error for nil scene")
	}
}

func loadedArticle(t *testing.T, names ...string) *article.Article {
	t.Helper()
	dir := testutil.WriteDataDir(t, testutil.NewDefault(), names...)
	a := article.New(loader.New(loader.DirSource{Dir: dir}), article.DefaultOptions())
	if _, err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestExportWidgets(t *testing.T) {
	a := loadedArticle(t)
	out := t.TempDir()

	written, err := ExportWidgets(a.Widgets(), out, FormatSVG)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"topics.svg", "topics-compare.svg", "topics-overall.svg", "topics-uncertainty.svg",
		"coefficients.svg", "coefficients-logit.svg",
		"parties.svg",
		"members.svg", "members-heckled.svg",
	}
	if len(written) != len(want) {
		t.Fatalf("written = %v", written)
	}
	for i, w := range want {
		if filepath.Base(written[i]) != w {
			t.Errorf("file %d = %s, want %s", i, filepath.Base(written[i]), w)
		}
		if _, err := os.Stat(written[i]); err != nil {
			t.Error(err)
		}
	}
}

func TestExportWidgets_FallbackHasOneVariant(t *testing.T) {
	a := loadedArticle(t, model.TopicGapOverTime)
	w, _ := a.Widget(widget.NameCoefficients)
	if got := len(Variants(w)); got != 1 {
		t.Errorf("fallback variants = %d", got)
	}
	w, _ = a.Widget(widget.NameMembers)
	if got := len(Variants(w)); got != 1 {
		t.Errorf("members fallback variants = %d", got)
	}
}

func TestRobotJSON(t *testing.T) {
	a := loadedArticle(t)
	w, _ := a.Widget(widget.NameTopics)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewRobotScene(w)); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Widget      string       `json:"widget"`
		Caption     string       `json:"caption"`
		Fallback    bool         `json:"fallback"`
		Addressable []scene.Meta `json:"addressable"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Widget != widget.NameTopics || decoded.Fallback || !strings.HasPrefix(decoded.Caption, "Selected topic: Economy.") {
		t.Errorf("decoded = %+v", decoded)
	}
	if len(decoded.Addressable) == 0 {
		t.Error("expected addressable points")
	}

	m, _ := a.Widget(widget.NameMembers)
	lookup := m.(*widget.MemberLookup)
	if err := lookup.HandleEvent(widget.SetQuery{Query: testutil.MemberName(5)}); err != nil {
		t.Fatal(err)
	}
	rm := NewRobotMembers(lookup.Result(), lookup.Perspective())
	if len(rm.Rows) != rank.TableSize || !rm.Rows[0].Hit || rm.Rows[0].ID != testutil.MemberID(5) {
		t.Errorf("robot members = %+v", rm.Rows[:1])
	}
}

func TestImportSQLite(t *testing.T) {
	g := testutil.NewDefault()
	dir := testutil.WriteDataDir(t, g, model.PartyRateByYear, model.ModelCoefficients)
	dbPath := filepath.Join(t.TempDir(), datasource.DatabaseName)

	report, err := ImportSQLite(context.Background(), loader.DirSource{Dir: dir}, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Written) != 2 || len(report.Missing) != len(model.AllDatasets())-2 {
		t.Errorf("report = %+v", report)
	}

	ds, err := loader.New(loader.SQLiteSource{Path: dbPath}).Load(context.Background(), model.PartyRateByYear)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != g.PartyRates().Len() {
		t.Errorf("rows = %d", ds.Len())
	}

	if _, err := ImportSQLite(context.Background(), loader.DirSource{Dir: t.TempDir()}, dbPath); err == nil {
		t.Error("expected error for empty source")
	}
}

func TestGenerateBrief(t *testing.T) {
	a := loadedArticle(t)
	brief := GenerateBrief(a.Snapshot(), article.DefaultChapters(), "")

	for _, want := range []string{
		"# Heckling in the Australian Parliament",
		"| 12,000 |",
		"**Largest widening:**",
		"## Find your MP",
		"> Selected topic: Economy.",
	} {
		if !strings.Contains(brief, want) {
			t.Errorf("brief lacks %q:\n%s", want, brief)
		}
	}
	if strings.Contains(brief, "Static charts shown") {
		t.Error("no widget should have failed")
	}
}
