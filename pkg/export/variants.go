package export

import (
	"fmt"
	"path/filepath"

	"github.com/vanderheijden86/heckleviz/pkg/debug"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

// Variant is one exported state of a widget, reached by applying Events in
// order to the widget as left by the previous variant.
type Variant struct {
	Suffix string
	Events []widget.Event
}

// Variants lists the states exported for a widget. The first variant is
// the initial state.
func Variants(w widget.Controller) []Variant {
	switch c := w.(type) {
	case *widget.TopicExplorer:
		return []Variant{
			{Suffix: ""},
			{Suffix: "compare", Events: []widget.Event{widget.SelectView{Mode: widget.ViewCompare}}},
			{Suffix: "overall", Events: []widget.Event{widget.SelectMetric{Mode: widget.MetricOverall}}},
			{Suffix: "uncertainty", Events: []widget.Event{widget.SelectMetric{Mode: widget.MetricUncertainty}}},
		}
	case *widget.CoefficientToggle:
		if c.Fallback() {
			return []Variant{{Suffix: ""}}
		}
		return []Variant{
			{Suffix: ""},
			{Suffix: widget.ModelLogit, Events: []widget.Event{widget.SelectModel{Model: widget.ModelLogit}}},
		}
	case *widget.MemberLookup:
		vs := []Variant{{Suffix: ""}}
		for _, p := range c.Perspectives() {
			if p != model.PerspectiveHeckler {
				vs = append(vs, Variant{Suffix: string(p), Events: []widget.Event{widget.SelectPerspective{Perspective: p}}})
			}
		}
		return vs
	default:
		return []Variant{{Suffix: ""}}
	}
}

// FileName is the export file name for a widget variant.
func FileName(name, suffix, format string) string {
	if suffix == "" {
		return fmt.Sprintf("%s.%s", name, format)
	}
	return fmt.Sprintf("%s-%s.%s", name, suffix, format)
}

// ExportWidgets renders every variant of every widget into dir and returns
// the written paths. Widgets are left in their last variant's state.
func ExportWidgets(widgets []widget.Controller, dir, format string) ([]string, error) {
	if format == "" {
		format = FormatSVG
	}
	var written []string
	for _, w := range widgets {
		for _, v := range Variants(w) {
			for _, ev := range v.Events {
				if err := w.HandleEvent(ev); err != nil {
					return written, fmt.Errorf("%s: %w", w.Name(), err)
				}
			}
			path := filepath.Join(dir, FileName(w.Name(), v.Suffix, format))
			if err := SaveScene(w.Render(), SceneOptions{Path: path, Format: format}); err != nil {
				return written, err
			}
			debug.Log("exported %s", path)
			written = append(written, path)
		}
	}
	return written, nil
}
