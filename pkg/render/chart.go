// Package render turns typed records and widget state into scenes. Every
// function here is pure: the same input produces the same scene, and no
// function binds interaction. Point markers carry scene.Meta so controllers
// can resolve hover and click positions against the returned scene.
package render

import (
	"fmt"

	"github.com/vanderheijden86/heckleviz/pkg/scale"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// Canvas frames for each chart.
var (
	TopicFrame       = scale.Frame{Width: 980, Height: 430, Margin: scale.Margin{Top: 20, Right: 150, Bottom: 34, Left: 56}}
	PartyFrame       = scale.Frame{Width: 980, Height: 400, Margin: scale.Margin{Top: 20, Right: 110, Bottom: 34, Left: 56}}
	CoefficientFrame = scale.Frame{Width: 900, Height: 360, Margin: scale.Margin{Top: 24, Right: 24, Bottom: 34, Left: 310}}
	TopicEffectFrame = scale.Frame{Width: 980, Height: 430, Margin: scale.Margin{Top: 32, Right: 48, Bottom: 36, Left: 220}}
	ModelEffectFrame = scale.Frame{Width: 980, Height: 430, Margin: scale.Margin{Top: 36, Right: 42, Bottom: 38, Left: 200}}
)

// Element classes used by the renderers.
const (
	ClassBackground = "background"
	ClassGrid       = "grid"
	ClassTick       = "tick"
	ClassZero       = "zero"
	ClassSeries     = "series"
	ClassPoint      = "point"
	ClassEndLabel   = "end-label"
	ClassLegend     = "legend"
	ClassTitle      = "title"
	ClassInterval   = "interval"
	ClassEstimate   = "estimate"
	ClassRowLabel   = "row-label"
	ClassMessage    = "message"
)

const (
	paper      = "#fffdf8"
	gridColor  = "#eee6d8"
	zeroColor  = "#a8a096"
	tickColor  = "#857d71"
	labelColor = "#6b6459"
	titleColor = "#3b362f"
	inkColor   = "#2f2b26"
)

var dashed = []float64{4, 4}

func label(size float64, fill string, anchor scene.Anchor) scene.Style {
	return scene.Style{Fill: fill, FontSize: size, Anchor: anchor}
}

func newCanvas(f scale.Frame, title string, bg string) *scene.Scene {
	s := scene.New(f.Width, f.Height)
	s.Title = title
	s.Add(scene.Rect(0, 0, f.Width, f.Height, scene.Style{Fill: bg}).WithClass(ClassBackground))
	return s
}

func plotBox(f scale.Frame) scene.Box {
	return scene.Box{X: f.Left(), Y: f.Top(), W: f.InnerWidth(), H: f.InnerHeight()}
}

func addTitle(s *scene.Scene, x, y float64, text string) {
	s.Add(scene.Text(x, y, text, label(13, titleColor, scene.AnchorStart)).WithClass(ClassTitle))
}

// addValueGrid draws horizontal gridlines with labels on the left axis.
func addValueGrid(s *scene.Scene, f scale.Frame, y scale.Linear, decimals int) {
	for _, v := range scale.Ticks(y.Domain, scale.ValueTickIntervals) {
		py := y.Map(v)
		s.Add(
			scene.Line(f.Left(), py, f.Right(), py, scene.Style{Stroke: gridColor, StrokeWidth: 1}).WithClass(ClassGrid),
			scene.Text(f.Left()-8, py+4, scale.Format(v, decimals), label(11, labelColor, scene.AnchorEnd)).WithClass(ClassTick),
		)
	}
}

// addYearAxis draws integer year ticks below the plot area.
func addYearAxis(s *scene.Scene, f scale.Frame, x scale.Linear, lo, hi int) {
	for _, yr := range scale.YearTicks(lo, hi) {
		px := x.Map(float64(yr))
		s.Add(
			scene.Line(px, f.Bottom(), px, f.Bottom()+4, scene.Style{Stroke: tickColor, StrokeWidth: 1}).WithClass(ClassTick),
			scene.Text(px, f.Bottom()+16, fmt.Sprintf("%d", yr), label(11, labelColor, scene.AnchorMiddle)).WithClass(ClassTick),
		)
	}
}

// addValueAxis draws value ticks below a horizontal interval plot.
func addValueAxis(s *scene.Scene, f scale.Frame, x scale.Linear, intervals int) {
	for _, v := range scale.Ticks(x.Domain, intervals) {
		px := x.Map(v)
		s.Add(
			scene.Line(px, f.Bottom(), px, f.Bottom()+5, scene.Style{Stroke: tickColor, StrokeWidth: 1}).WithClass(ClassTick),
			scene.Text(px, f.Bottom()+18, scale.Format(v, 2), label(11, labelColor, scene.AnchorMiddle)).WithClass(ClassTick),
		)
	}
}

// Message returns a canvas that only carries a status line, used when a
// chart has nothing to draw.
func Message(f scale.Frame, text string) *scene.Scene {
	s := scene.New(f.Width, f.Height)
	s.Title = text
	s.Add(scene.Text(24, 36, text, label(14, "#444444", scene.AnchorStart)).WithClass(ClassMessage))
	return s
}
