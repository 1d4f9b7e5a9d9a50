package render

import (
	"fmt"

	"github.com/vanderheijden86/heckleviz/pkg/metrics"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/scale"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// SeriesStyle holds the paint parameters for one series.
type SeriesStyle struct {
	Opacity     float64
	StrokeWidth float64
	Radius      float64
}

var (
	ActiveSeries  = SeriesStyle{Opacity: 0.95, StrokeWidth: 3.3, Radius: 3.4}
	FadedSeries   = SeriesStyle{Opacity: 0.14, StrokeWidth: 2, Radius: 2.2}
	CompareSeries = SeriesStyle{Opacity: 0.95, StrokeWidth: 2.2, Radius: 2.2}
	ActiveParty   = SeriesStyle{Opacity: 0.96, StrokeWidth: 3, Radius: 2.6}
	InactiveParty = SeriesStyle{Opacity: 0.12, StrokeWidth: 2}
)

// Trends describes a topic time-series chart.
type Trends struct {
	Index    model.SeriesIndex
	Colors   ColorMap
	Active   string
	Compare  bool
	RateLike bool   // floor the value axis at zero
	Unit     string // tooltip unit, e.g. "pp"
	Title    string
}

// Tooltip is the hover text of a point marker.
func Tooltip(category string, year int, value float64, unit string) string {
	s := fmt.Sprintf("%s • %d: %.2f", category, year, value)
	if unit != "" {
		s += " " + unit
	}
	return s
}

// TopicTrends draws every category of the index. In focus mode the active
// category is emphasised and labelled at its last point and the value axis
// fits that category alone; in compare mode every category is drawn alike,
// the axis fits them all and a legend replaces the end label.
func TopicTrends(t Trends) *scene.Scene {
	defer metrics.Timer(metrics.SceneRender)()

	f := TopicFrame
	if t.Index.Empty() {
		return Message(f, "Topic trend data unavailable.")
	}

	visible := t.Index.Categories()
	if !t.Compare {
		visible = []string{t.Active}
	}
	lo, hi := t.Index.YearExtent()
	x := f.X(scale.YearDomain(lo, hi))
	y := f.Y(scale.SeriesDomain(t.Index.Values(visible), t.RateLike))

	s := newCanvas(f, t.Title, paper)
	addValueGrid(s, f, y, 0)
	if y.Domain.Contains(0) {
		zy := y.Map(0)
		s.Add(scene.Line(f.Left(), zy, f.Right(), zy, scene.Style{Stroke: zeroColor, StrokeWidth: 1, Dash: dashed}).WithClass(ClassZero))
	}
	addYearAxis(s, f, x, lo, hi)
	s.SetClip(plotBox(f))

	for _, cat := range t.Index.Categories() {
		st := ActiveSeries
		switch {
		case t.Compare:
			st = CompareSeries
		case cat != t.Active:
			st = FadedSeries
		}
		ser, _ := t.Index.Series(cat)
		addSeries(s, ser, x, y, t.Colors.Color(cat), st, t.Unit, true)
	}

	if t.Compare {
		addLegend(s, f, t.Index.Categories(), t.Colors)
	} else if ser, ok := t.Index.Series(t.Active); ok && ser.Len() > 0 {
		last := ser.Last()
		s.Add(scene.Text(x.Map(float64(last.Year))+8, y.Map(last.Value)+3, t.Active,
			label(11, t.Colors.Color(t.Active), scene.AnchorStart)).WithClass(ClassEndLabel))
	}

	addTitle(s, f.Left(), 14, t.Title)
	return s
}

func addSeries(s *scene.Scene, ser model.Series, x, y scale.Linear, color string, st SeriesStyle, unit string, markers bool) {
	pts := make([]scene.Pt, ser.Len())
	for i, p := range ser.Points {
		pts[i] = scene.Pt{X: x.Map(float64(p.Year)), Y: y.Map(p.Value)}
	}
	s.Add(scene.Polyline(pts, scene.Style{Stroke: color, StrokeWidth: st.StrokeWidth, Opacity: st.Opacity}).
		WithClass(ClassSeries).
		WithMeta(scene.Meta{Category: ser.Category}).
		Clip())
	if !markers || st.Radius <= 0 {
		return
	}
	for i, p := range ser.Points {
		tip := Tooltip(ser.Category, p.Year, p.Value, unit)
		s.Add(scene.Circle(pts[i].X, pts[i].Y, st.Radius, scene.Style{Fill: color, Opacity: st.Opacity}).
			WithClass(ClassPoint).
			WithTitle(tip).
			WithMeta(scene.Meta{Category: ser.Category, X: float64(p.Year), Y: p.Value, Label: tip}).
			Clip())
	}
}

// addLegend stacks swatches in the right margin.
func addLegend(s *scene.Scene, f scale.Frame, cats []string, colors ColorMap) {
	x := f.Right() + 14
	for i, cat := range cats {
		y := f.Top() + 8 + float64(i)*18
		s.Add(
			scene.Rect(x, y-8, 10, 10, scene.Style{Fill: colors.Color(cat)}).WithClass(ClassLegend).WithMeta(scene.Meta{Category: cat}),
			scene.Text(x+16, y+1, cat, label(11, inkColor, scene.AnchorStart)).WithClass(ClassLegend),
		)
	}
}

// Parties describes the party trend chart.
type Parties struct {
	Index  model.SeriesIndex // ranked parties, in ranked order
	Colors ColorMap
	Active []string // in ranked order, never empty
	Title  string
}

// PartyRates draws every ranked party, emphasising the active set. The value
// axis fits the active parties and never goes below zero; the legend lists
// exactly the active set.
func PartyRates(p Parties) *scene.Scene {
	defer metrics.Timer(metrics.SceneRender)()

	f := PartyFrame
	if p.Index.Empty() {
		return Message(f, "Party trend data unavailable.")
	}
	active := make(map[string]bool, len(p.Active))
	for _, c := range p.Active {
		active[c] = true
	}

	lo, hi := p.Index.YearExtent()
	x := f.X(scale.YearDomain(lo, hi))
	y := f.Y(scale.SeriesDomain(p.Index.Values(p.Active), true))

	s := newCanvas(f, p.Title, paper)
	addValueGrid(s, f, y, 0)
	addYearAxis(s, f, x, lo, hi)
	s.SetClip(plotBox(f))

	// Inactive first so active series paint on top.
	for _, pass := range []bool{false, true} {
		for _, cat := range p.Index.Categories() {
			if active[cat] != pass {
				continue
			}
			ser, _ := p.Index.Series(cat)
			st := InactiveParty
			if pass {
				st = ActiveParty
			}
			addSeries(s, ser, x, y, p.Colors.Color(cat), st, "per 100 turns", pass)
		}
	}

	addLegend(s, f, p.Active, p.Colors)
	addTitle(s, f.Left(), 14, p.Title)
	return s
}
