package widget

import (
	"fmt"

	"github.com/vanderheijden86/heckleviz/pkg/analysis"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/render"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// ViewMode selects between emphasising one category and comparing all.
type ViewMode string

const (
	ViewFocus   ViewMode = "focus"
	ViewCompare ViewMode = "compare"
)

// MetricMode selects what the topic explorer plots.
type MetricMode string

const (
	MetricTrends      MetricMode = "trends"
	MetricOverall     MetricMode = "overall"
	MetricUncertainty MetricMode = "uncertainty"
)

// Metrics lists the metric modes in control order.
func Metrics() []MetricMode {
	return []MetricMode{MetricTrends, MetricOverall, MetricUncertainty}
}

// PerCategory reports whether the metric has a per-category axis, which is
// when the category and view controls are shown.
func (m MetricMode) PerCategory() bool { return m != MetricUncertainty }

// DefaultTopic is the category preferred at start-up.
const DefaultTopic = "Economy"

// TopicData is everything the topic explorer loads. Gaps is primary; the
// rest are auxiliary and may be empty.
type TopicData struct {
	Gaps         []model.TopicGap
	Rates        []model.TopicRate
	TopicEffects []model.TopicEffect
	ModelEffects []model.ModelEffect
}

// TopicState is the explorer's observable state.
type TopicState struct {
	Active string     `json:"active"`
	View   ViewMode   `json:"view"`
	Metric MetricMode `json:"metric"`
}

// TopicExplorer is the policy-topic chart controller.
type TopicExplorer struct {
	gaps    model.SeriesIndex
	overall model.SeriesIndex
	effects []model.TopicEffect
	models  []model.ModelEffect
	colors  render.ColorMap
	state   TopicState
	last    *scene.Scene
}

// NewTopicExplorer indexes the loaded data once. The initial category is
// preferred when present, otherwise the first in sorted order.
func NewTopicExplorer(d TopicData, preferred string) (*TopicExplorer, error) {
	gaps := model.NewSeriesIndex(model.GapPoints(d.Gaps))
	if gaps.Empty() {
		return nil, &model.EmptyDatasetError{Name: model.TopicGapOverTime}
	}
	t := &TopicExplorer{
		gaps:    gaps,
		overall: model.NewSeriesIndex(analysis.WeightedRates(d.Rates)),
		effects: analysis.SortEffects(d.TopicEffects),
		models:  d.ModelEffects,
	}

	cats := gaps.Categories()
	for _, c := range t.overall.Categories() {
		if !gaps.Has(c) {
			cats = append(cats, c)
		}
	}
	t.colors = render.NewColorMap(cats, render.TopicPalette)

	t.state = TopicState{Active: cats[0], View: ViewFocus, Metric: MetricTrends}
	if preferred != "" && gaps.Has(preferred) {
		t.state.Active = preferred
	}
	return t, nil
}

func (t *TopicExplorer) Name() string { return NameTopics }

// State returns a copy of the current state.
func (t *TopicExplorer) State() TopicState { return t.state }

// Categories lists the selectable categories.
func (t *TopicExplorer) Categories() []string { return t.gaps.Categories() }

// Colors returns the per-load colour assignment.
func (t *TopicExplorer) Colors() render.ColorMap { return t.colors }

// ControlsVisible reports whether category and view controls apply.
func (t *TopicExplorer) ControlsVisible() bool { return t.state.Metric.PerCategory() }

// HandleEvent applies one transition. Errors leave the state unchanged.
func (t *TopicExplorer) HandleEvent(ev Event) error {
	switch e := ev.(type) {
	case SelectCategory:
		return t.selectCategory(e.Category)
	case SelectPoint:
		if t.last == nil {
			t.Render()
		}
		hit := t.last.HitTest(e.X, e.Y)
		if hit == nil {
			return nil
		}
		return t.selectCategory(hit.Category)
	case SelectView:
		if e.Mode != ViewFocus && e.Mode != ViewCompare {
			return fmt.Errorf("unknown view mode %q: %w", e.Mode, ErrUnsupportedEvent)
		}
		t.state.View = e.Mode
	case SelectMetric:
		switch e.Mode {
		case MetricTrends, MetricOverall, MetricUncertainty:
			t.state.Metric = e.Mode
		default:
			return fmt.Errorf("unknown metric mode %q: %w", e.Mode, ErrUnsupportedEvent)
		}
	default:
		return ErrUnsupportedEvent
	}
	return nil
}

func (t *TopicExplorer) selectCategory(cat string) error {
	if !t.gaps.Has(cat) && !t.overall.Has(cat) {
		return &model.NoCategoryDataError{Category: cat}
	}
	t.state.Active = cat
	t.state.View = ViewFocus
	return nil
}

// Render draws the current state.
func (t *TopicExplorer) Render() *scene.Scene {
	var s *scene.Scene
	switch t.state.Metric {
	case MetricUncertainty:
		s = t.renderUncertainty()
	case MetricOverall:
		if t.overall.Empty() {
			s = render.Message(render.TopicFrame, "Topic heckle-rate data unavailable.")
			break
		}
		s = render.TopicTrends(render.Trends{
			Index: t.overall, Colors: t.colors, Active: t.state.Active,
			Compare: t.state.View == ViewCompare, RateLike: true, Unit: "per 100 turns",
			Title: "Heckle rate (interjections per 100 turns, turn-weighted)",
		})
	default:
		s = render.TopicTrends(render.Trends{
			Index: t.gaps, Colors: t.colors, Active: t.state.Active,
			Compare: t.state.View == ViewCompare, Unit: "pp",
			Title: "Male minus female gap (percentage points)",
		})
	}
	t.last = s
	return s
}

func (t *TopicExplorer) renderUncertainty() *scene.Scene {
	switch {
	case len(t.effects) > 0:
		return render.TopicUncertainty(t.effects)
	case len(t.models) > 0:
		return render.ModelUncertainty(t.models)
	default:
		return render.Message(render.TopicFrame, "Uncertainty effect data unavailable.")
	}
}

// Tooltip resolves hover text at a canvas position of the last render.
func (t *TopicExplorer) Tooltip(x, y float64) (string, bool) {
	if t.last == nil {
		return "", false
	}
	hit := t.last.HitTest(x, y)
	if hit == nil {
		return "", false
	}
	return hit.Label, true
}

// Caption describes the current view.
func (t *TopicExplorer) Caption() string {
	switch t.state.Metric {
	case MetricUncertainty:
		switch {
		case len(t.effects) > 0:
			return analysis.TopicEffectCaption(t.effects)
		case len(t.models) > 0:
			return analysis.ModelEffectCaption(t.models)
		default:
			return analysis.UnavailableUncertaintyCaption
		}
	case MetricOverall:
		ser, ok := t.overall.Series(t.state.Active)
		if !ok {
			return fmt.Sprintf("No heckle-rate data for %s.", t.state.Active)
		}
		tr, err := analysis.SeriesTrend(ser)
		if err != nil {
			return err.Error()
		}
		return analysis.RateCaption(t.state.Active, tr)
	default:
		ser, ok := t.gaps.Series(t.state.Active)
		if !ok {
			return fmt.Sprintf("No gap data for %s.", t.state.Active)
		}
		tr, err := analysis.SeriesTrend(ser)
		if err != nil {
			return err.Error()
		}
		return analysis.GapCaption(t.state.Active, tr)
	}
}
