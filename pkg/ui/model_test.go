package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/heckleviz/pkg/article"
	"github.com/vanderheijden86/heckleviz/pkg/loader"
	"github.com/vanderheijden86/heckleviz/pkg/testutil"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

func newTestModel(t *testing.T) (Model, *article.Article) {
	t.Helper()
	dir := testutil.WriteDataDir(t, testutil.NewDefault())
	a := article.New(loader.New(loader.DirSource{Dir: dir}), article.DefaultOptions())
	if _, err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewModel(a, article.DefaultChapters(), WithTheme(TestTheme())), a
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_StartsOnFirstChapter(t *testing.T) {
	m, _ := newTestModel(t)
	if got := m.ActiveWidget(); got != widget.NameTopics {
		t.Errorf("active widget = %q", got)
	}
	if got := m.ActiveChapter(); got != 0 {
		t.Errorf("active chapter = %d", got)
	}
	view := m.View()
	for _, want := range []string{"heckleviz", "12,000", "1 topics", "4 members", "Economy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestUpdate_TabsFollowNarrative(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.ActiveWidget() != widget.NameCoefficients || m.ActiveChapter() != 2 {
		t.Errorf("after tab: widget %q chapter %d", m.ActiveWidget(), m.ActiveChapter())
	}

	m, _ = update(t, m, runes("4"))
	if m.ActiveWidget() != widget.NameMembers || m.ActiveChapter() != 4 {
		t.Errorf("after 4: widget %q chapter %d", m.ActiveWidget(), m.ActiveChapter())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.ActiveWidget() != widget.NameParties {
		t.Errorf("after shift+tab: widget %q", m.ActiveWidget())
	}

	m, _ = update(t, m, runes("["))
	if m.ActiveChapter() != 2 || m.ActiveWidget() != widget.NameCoefficients {
		t.Errorf("after [: widget %q chapter %d", m.ActiveWidget(), m.ActiveChapter())
	}
}

func TestUpdate_ChapterStepsSelectCharts(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, runes("]"))
	if m.ActiveChapter() != 1 || m.ActiveWidget() != widget.NameTopics {
		t.Errorf("chapter 1: widget %q chapter %d", m.ActiveWidget(), m.ActiveChapter())
	}
	m, _ = update(t, m, runes("]"))
	if m.ActiveChapter() != 2 || m.ActiveWidget() != widget.NameCoefficients {
		t.Errorf("chapter 2: widget %q chapter %d", m.ActiveWidget(), m.ActiveChapter())
	}
}

func TestUpdate_ScrollActivatesLastChapter(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 12})
	m, _ = update(t, m, storyFlushMsg{})

	var cmd tea.Cmd
	for i := 0; i < 40; i++ {
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	}
	if cmd == nil {
		t.Fatal("scrolling should schedule a recompute")
	}
	m, _ = update(t, m, storyFlushMsg{})

	if got := m.ActiveChapter(); got != 4 {
		t.Errorf("active chapter = %d, want 4", got)
	}
	if got := m.ActiveWidget(); got != widget.NameMembers {
		t.Errorf("active widget = %q", got)
	}
}

func TestUpdate_TopicControls(t *testing.T) {
	m, a := newTestModel(t)
	w, _ := a.Widget(widget.NameTopics)
	topics := w.(*widget.TopicExplorer)
	before := topics.State().Active

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if topics.State().Active == before {
		t.Error("right should select the next category")
	}
	m, _ = update(t, m, runes("v"))
	if topics.State().View != widget.ViewCompare {
		t.Errorf("view = %q", topics.State().View)
	}
	m, _ = update(t, m, runes("m"))
	if topics.State().Metric != widget.MetricOverall {
		t.Errorf("metric = %q", topics.State().Metric)
	}
	_, _ = update(t, m, runes("m"))
	if topics.State().Metric != widget.MetricUncertainty {
		t.Errorf("metric = %q", topics.State().Metric)
	}
}

func TestUpdate_CoefficientModelToggle(t *testing.T) {
	m, a := newTestModel(t)
	w, _ := a.Widget(widget.NameCoefficients)
	coef := w.(*widget.CoefficientToggle)

	m, _ = update(t, m, runes("2"))
	_, _ = update(t, m, runes("m"))
	if coef.Model() != widget.ModelLogit {
		t.Errorf("model = %q", coef.Model())
	}
}

func TestUpdate_PartyToggle(t *testing.T) {
	m, a := newTestModel(t)
	w, _ := a.Widget(widget.NameParties)
	parties := w.(*widget.PartyFilter)

	m, _ = update(t, m, runes("3"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	target := parties.Parties()[1]
	was := parties.IsActive(target)

	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if parties.IsActive(target) == was {
		t.Errorf("space should toggle %s", target)
	}
}

func TestUpdate_MemberSearch(t *testing.T) {
	m, a := newTestModel(t)
	w, _ := a.Widget(widget.NameMembers)
	members := w.(*widget.MemberLookup)

	m, _ = update(t, m, runes("4"))
	if !strings.Contains(m.View(), testutil.MemberName(3)) {
		t.Error("table should list the top-ranked member")
	}

	m, _ = update(t, m, runes("/"))
	if !m.searching {
		t.Fatal("/ should open the search box")
	}
	m, _ = update(t, m, runes("m010"))
	if members.Query() != "m010" {
		t.Errorf("query = %q", members.Query())
	}
	if res := members.Result(); res.Hits != 1 || res.Rows[0].ID != testutil.MemberID(10) {
		t.Errorf("result = %+v", res)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Error("enter should close the search box")
	}
	if members.Query() != "m010" {
		t.Error("enter should keep the query")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if members.Query() != "" {
		t.Errorf("esc should clear, query = %q", members.Query())
	}

	m, _ = update(t, m, runes("p"))
	if members.Perspective() != "heckled" {
		t.Errorf("perspective = %q", members.Perspective())
	}
	_, _ = update(t, m, runes("s"))
	if members.Order().IsZero() {
		t.Error("s should apply a column sort")
	}
}

func TestUpdate_ReloadAndQuit(t *testing.T) {
	m, a := newTestModel(t)
	gen := a.Snapshot().Generation

	m, cmd := update(t, m, runes("r"))
	if cmd == nil {
		t.Fatal("r should return a reload command")
	}
	msg := cmd()
	if rm, ok := msg.(ReloadedMsg); !ok || !rm.Applied || rm.Err != nil {
		t.Fatalf("reload msg = %#v", msg)
	}
	if a.Snapshot().Generation != gen+1 {
		t.Error("reload should commit a new generation")
	}
	m, _ = update(t, m, msg)
	if m.Status() != "reloaded" {
		t.Errorf("status = %q", m.Status())
	}

	_, cmd = update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestUpdate_NarrativeToggle(t *testing.T) {
	m, _ := newTestModel(t)
	if !m.showNarrative {
		t.Fatal("narrative should be shown when chapters exist")
	}
	x, _, _, _ := m.chartBox()
	if x == 0 {
		t.Error("chart should sit right of the narrative")
	}
	m, _ = update(t, m, runes("n"))
	if x, _, _, _ := m.chartBox(); x != 0 || m.showNarrative {
		t.Error("n should hide the narrative")
	}
}
