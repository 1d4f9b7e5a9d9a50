package render

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
	"github.com/vanderheijden86/heckleviz/pkg/testutil"
)

func topicIndex() model.SeriesIndex {
	return model.NewSeriesIndex([]model.Point{
		{Category: "Economy", Year: 2000, Value: 1},
		{Category: "Economy", Year: 2010, Value: 3},
		{Category: "Health", Year: 2000, Value: -20},
		{Category: "Health", Year: 2010, Value: 40},
	})
}

func trends(compare bool) Trends {
	ix := topicIndex()
	return Trends{
		Index:   ix,
		Colors:  NewColorMap(ix.Categories(), TopicPalette),
		Active:  "Economy",
		Compare: compare,
		Unit:    "pp",
		Title:   "Male minus female gap (percentage points)",
	}
}

func TestTopicTrends_Focus(t *testing.T) {
	s := TopicTrends(trends(false))
	if s.Width != 980 || s.Height != 430 {
		t.Fatalf("canvas %vx%v", s.Width, s.Height)
	}
	if n := len(s.ByClass(ClassLegend)); n != 0 {
		t.Errorf("focus mode drew %d legend elements", n)
	}
	labels := s.ByClass(ClassEndLabel)
	if len(labels) != 1 || labels[0].Text != "Economy" {
		t.Fatalf("end labels = %+v", labels)
	}
	for _, e := range s.ByClass(ClassSeries) {
		if !e.Clipped {
			t.Error("series not clipped")
		}
		want := FadedSeries
		if e.Meta.Category == "Economy" {
			want = ActiveSeries
		}
		if e.Style.Opacity != want.Opacity || e.Style.StrokeWidth != want.StrokeWidth {
			t.Errorf("%s style = %+v", e.Meta.Category, e.Style)
		}
	}
	// The axis fits Economy alone, so Health's extremes fall outside it.
	ticks := s.ByClass(ClassTick)
	for _, e := range ticks {
		if e.Kind == scene.KindText && e.Text == "40" {
			t.Error("value axis should not cover inactive categories")
		}
	}
	if s.ByClass(ClassZero) == nil {
		t.Error("zero line missing")
	}
}

func TestTopicTrends_CompareLegend(t *testing.T) {
	s := TopicTrends(trends(true))
	var names []string
	for _, e := range s.ByClass(ClassLegend) {
		if e.Kind == scene.KindText {
			names = append(names, e.Text)
		}
	}
	if strings.Join(names, ",") != "Economy,Health" {
		t.Errorf("legend = %v", names)
	}
	for _, e := range s.ByClass(ClassSeries) {
		if e.Style.Opacity != CompareSeries.Opacity {
			t.Errorf("compare opacity = %v", e.Style.Opacity)
		}
	}
	if len(s.ByClass(ClassEndLabel)) != 0 {
		t.Error("compare mode should not draw end labels")
	}
}

func TestTopicTrends_PointMeta(t *testing.T) {
	s := TopicTrends(trends(false))
	pts := s.ByClass(ClassPoint)
	if len(pts) != 4 {
		t.Fatalf("points = %d", len(pts))
	}
	p := pts[1]
	if p.Meta == nil || p.Meta.Category != "Economy" || p.Meta.X != 2010 || p.Meta.Y != 3 {
		t.Fatalf("meta = %+v", p.Meta)
	}
	if p.Title != "Economy • 2010: 3.00 pp" {
		t.Errorf("tooltip = %q", p.Title)
	}
	if hit := s.HitTest(p.X, p.Y); hit == nil || hit.Category != "Economy" {
		t.Errorf("hit test = %+v", hit)
	}
}

func TestTopicTrends_Empty(t *testing.T) {
	s := TopicTrends(Trends{})
	if len(s.ByClass(ClassMessage)) != 1 {
		t.Fatal("expected a message scene")
	}
}

func TestColorMapStable(t *testing.T) {
	m := NewColorMap([]string{"a", "b", "c"}, []string{"#1", "#2"})
	if m.Color("a") != "#1" || m.Color("c") != "#1" || m.Color("b") != "#2" {
		t.Errorf("colors = %v", m)
	}
	if m.Color("zzz") != fallbackColor {
		t.Error("unknown category should be grey")
	}
}

func TestPartyRates_LegendIsActiveSet(t *testing.T) {
	ix := model.NewSeriesIndex([]model.Point{
		{Category: "ALP", Year: 2000, Value: 5}, {Category: "ALP", Year: 2001, Value: 6},
		{Category: "LIB", Year: 2000, Value: 4}, {Category: "LIB", Year: 2001, Value: 3},
		{Category: "GRN", Year: 2000, Value: 9}, {Category: "GRN", Year: 2001, Value: 8},
	}, "ALP", "LIB", "GRN")
	colors := NewColorMap(ix.Categories(), PartyPalette)
	s := PartyRates(Parties{Index: ix, Colors: colors, Active: []string{"ALP", "GRN"}})

	var legend []string
	for _, e := range s.ByClass(ClassLegend) {
		if e.Kind == scene.KindRect && colors.Color(e.Meta.Category) != e.Style.Fill {
			t.Errorf("legend swatch colour mismatch for %s", e.Meta.Category)
		}
		if e.Kind == scene.KindText {
			legend = append(legend, e.Text)
		}
	}
	if strings.Join(legend, ",") != "ALP,GRN" {
		t.Errorf("legend = %v", legend)
	}
	series := s.ByClass(ClassSeries)
	if len(series) != 3 || series[0].Meta.Category != "LIB" || series[0].Style.Opacity != InactiveParty.Opacity {
		t.Errorf("inactive series should paint first: %+v", series[0])
	}
}

func TestCoefficients(t *testing.T) {
	rows := []model.Coefficient{
		{Model: "logit", Label: "Female", Coef: -0.3, CILow: -0.5, CIHigh: -0.1},
		{Model: "logit", Label: "Minister", Coef: 0.4, CILow: 0.2, CIHigh: 0.6},
		{Model: "negative_binomial", Label: "Other", Coef: 1, CILow: 0, CIHigh: 2},
	}
	s := Coefficients(rows, "logit")
	est := s.ByClass(ClassEstimate)
	if len(est) != 2 {
		t.Fatalf("estimates = %d", len(est))
	}
	if est[0].Style.Fill != negativeColor || est[1].Style.Fill != positiveColor {
		t.Errorf("sign colours = %s, %s", est[0].Style.Fill, est[1].Style.Fill)
	}
	if !strings.HasPrefix(est[0].Title, "Female: -0.300 (95% CI -0.500 to -0.100)") {
		t.Errorf("title = %q", est[0].Title)
	}
	if zero := s.ByClass(ClassZero); len(zero) != 1 {
		t.Error("missing zero reference")
	}

	empty := Coefficients(rows, "ols")
	if got := empty.Texts(); len(got) != 1 {
		t.Errorf("empty model texts = %v", got)
	}
	testutil.AssertHasText(t, empty, "No coefficient data found.")
}

func TestModelUncertaintyLabels(t *testing.T) {
	s := ModelUncertainty([]model.ModelEffect{
		{Model: "baseline", Coef: -0.1, SE: 0.02},
		{Model: "clustered", Coef: -0.1, SE: 0.04},
		{Model: "custom", Coef: 0.05, SE: 0.01},
	})
	var got []string
	for _, e := range s.ByClass(ClassRowLabel) {
		got = append(got, e.Text)
	}
	if strings.Join(got, "|") != "Baseline|Clustered SE|custom" {
		t.Errorf("labels = %v", got)
	}
}

func TestMemberTable(t *testing.T) {
	res := rank.Result{Rows: []rank.Ranked{
		{MemberSummary: model.MemberSummary{ID: "x1", Name: "Smith", Party: "ALP", Turns: 1200, Count: 345, Rate: 28.75}, Rank: 4, Hit: true},
		{MemberSummary: model.MemberSummary{ID: "x2", Name: "Jones", Party: "LIB", Turns: 900, Count: 400, Rate: 44.4}, Rank: 1},
	}, Hits: 1}
	s := MemberTable(res, model.PerspectiveHeckler)
	hits := s.ByClass(ClassHitRow)
	if len(hits) != 1 || hits[0].Meta.Category != "x1" {
		t.Fatalf("hit rows = %+v", hits)
	}
	cells := strings.Join(s.Texts(), "|")
	for _, want := range []string{"Heckles", "1,200", "28.8", "Jones"} {
		if !strings.Contains(cells, want) {
			t.Errorf("table missing %q in %s", want, cells)
		}
	}
}
