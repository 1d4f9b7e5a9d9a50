package render

import (
	"fmt"

	"github.com/vanderheijden86/heckleviz/pkg/metrics"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/scale"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// ConfidenceZ is the normal quantile for a 95% interval.
const ConfidenceZ = 1.96

// Interval is one row of an interval plot.
type Interval struct {
	Label string
	Coef  float64
	Lo    float64
	Hi    float64
	Title string
}

type intervalPlot struct {
	frame     scale.Frame
	title     string
	titleY    float64
	ticks     int
	domain    func([]float64) scale.Domain
	bg        string
	lineWidth float64
	radius    float64
	labelSize float64
	values    bool // print the estimate after the interval
}

func (p intervalPlot) draw(rows []Interval) *scene.Scene {
	f := p.frame
	vals := make([]float64, 0, 3*len(rows))
	for _, r := range rows {
		vals = append(vals, r.Lo, r.Hi, r.Coef)
	}
	x := f.X(p.domain(vals))

	s := newCanvas(f, p.title, p.bg)
	zx := x.Map(0)
	s.Add(scene.Line(zx, f.Top(), zx, f.Bottom(), scene.Style{Stroke: zeroColor, StrokeWidth: 1.2, Dash: dashed}).WithClass(ClassZero))
	addValueAxis(s, f, x, p.ticks)

	for i, r := range rows {
		py := f.Band(i, len(rows))
		color := signColor(r.Coef)
		meta := scene.Meta{Category: r.Label, X: r.Coef, Label: r.Title}
		s.Add(
			scene.Line(x.Map(r.Lo), py, x.Map(r.Hi), py, scene.Style{Stroke: color, StrokeWidth: p.lineWidth}).WithClass(ClassInterval),
			scene.Circle(x.Map(r.Coef), py, p.radius, scene.Style{Fill: color}).WithClass(ClassEstimate).WithTitle(r.Title).WithMeta(meta),
			scene.Text(f.Left()-10, py+4, r.Label, label(p.labelSize, inkColor, scene.AnchorEnd)).WithClass(ClassRowLabel),
		)
		if p.values {
			s.Add(scene.Text(x.Map(r.Hi)+8, py+4, fmt.Sprintf("%.3f", r.Coef), label(11, "#4a453d", scene.AnchorStart)).WithClass(ClassTick))
		}
	}
	addTitle(s, f.Left(), p.titleY, p.title)
	return s
}

// Model labels for the pooled uncertainty table.
var modelLabels = map[string]string{
	"baseline":  "Baseline",
	"clustered": "Clustered SE",
	"balanced":  "Balanced weights",
}

// ModelLabel returns the display name of a model variant.
func ModelLabel(m string) string {
	if l, ok := modelLabels[m]; ok {
		return l
	}
	return m
}

// TopicUncertainty draws per-topic uncertainty coefficients with 95%
// intervals. Rows are drawn in the order given.
func TopicUncertainty(effects []model.TopicEffect) *scene.Scene {
	defer metrics.Timer(metrics.SceneRender)()

	rows := make([]Interval, len(effects))
	for i, e := range effects {
		lo, hi := e.Coef-ConfidenceZ*e.SE, e.Coef+ConfidenceZ*e.SE
		rows[i] = Interval{
			Label: e.Topic, Coef: e.Coef, Lo: lo, Hi: hi,
			Title: fmt.Sprintf("%s: %.3f (95%% CI %.3f to %.3f)", e.Topic, e.Coef, lo, hi),
		}
	}
	return intervalPlot{
		frame: TopicEffectFrame, title: "Uncertainty coefficient by topic (95% CI)", titleY: 16,
		ticks: 7, domain: scale.UncertaintyDomain, bg: paper,
		lineWidth: 2.4, radius: 4.8, labelSize: 13, values: true,
	}.draw(rows)
}

// ModelUncertainty draws the pooled uncertainty coefficient of each model
// variant.
func ModelUncertainty(effects []model.ModelEffect) *scene.Scene {
	defer metrics.Timer(metrics.SceneRender)()

	rows := make([]Interval, len(effects))
	for i, e := range effects {
		lo, hi := e.Coef-ConfidenceZ*e.SE, e.Coef+ConfidenceZ*e.SE
		name := ModelLabel(e.Model)
		rows[i] = Interval{
			Label: name, Coef: e.Coef, Lo: lo, Hi: hi,
			Title: fmt.Sprintf("%s: %.3f (95%% CI %.3f to %.3f)", name, e.Coef, lo, hi),
		}
	}
	return intervalPlot{
		frame: ModelEffectFrame, title: "Standardized uncertainty coefficient (95% CI)", titleY: 18,
		ticks: 6, domain: scale.UncertaintyDomain, bg: paper,
		lineWidth: 2.6, radius: 5, labelSize: 13, values: true,
	}.draw(rows)
}

// Coefficients draws the coefficient table of one model. A model without
// rows yields a message scene.
func Coefficients(all []model.Coefficient, modelName string) *scene.Scene {
	defer metrics.Timer(metrics.SceneRender)()

	var rows []Interval
	for _, c := range all {
		if c.Model != modelName {
			continue
		}
		rows = append(rows, Interval{
			Label: c.Label, Coef: c.Coef, Lo: c.CILow, Hi: c.CIHigh,
			Title: fmt.Sprintf("%s: %.3f (95%% CI %.3f to %.3f)", c.Label, c.Coef, c.CILow, c.CIHigh),
		})
	}
	if len(rows) == 0 {
		s := scene.New(CoefficientFrame.Width, CoefficientFrame.Height)
		s.Add(scene.Text(20, 32, "No coefficient data found.", label(14, "#444444", scene.AnchorStart)).WithClass(ClassMessage))
		return s
	}
	return intervalPlot{
		frame: CoefficientFrame, title: "Coefficient (with 95% CI)", titleY: 16,
		ticks: scale.ValueTickIntervals, domain: scale.CoefficientDomain, bg: "#fcfaf5",
		lineWidth: 2, radius: 4.6, labelSize: 12,
	}.draw(rows)
}
