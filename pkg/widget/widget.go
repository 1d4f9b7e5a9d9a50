// Package widget holds the per-chart controllers. A controller owns its
// chart state, changes it only through HandleEvent and renders a fresh scene
// from the current state on every call to Render. Controllers are not safe
// for concurrent use; a single event loop drives each one.
package widget

import (
	"errors"

	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// ErrUnsupportedEvent is returned for events a controller does not handle.
var ErrUnsupportedEvent = errors.New("event not supported by this widget")

// Controller is the contract shared by every widget.
type Controller interface {
	Name() string
	HandleEvent(Event) error
	Render() *scene.Scene
	Caption() string
}

// Event is a user interaction delivered to a controller.
type Event interface {
	event()
}

// SelectCategory makes a category active.
type SelectCategory struct{ Category string }

// SelectPoint clicks a canvas position; the controller resolves it against
// the last rendered scene.
type SelectPoint struct{ X, Y float64 }

// SelectView switches between focus and compare.
type SelectView struct{ Mode ViewMode }

// SelectMetric switches the plotted metric.
type SelectMetric struct{ Mode MetricMode }

// SelectModel picks the coefficient table's model.
type SelectModel struct{ Model string }

// ToggleCategory flips membership of a category in a multi-select set.
type ToggleCategory struct{ Category string }

// SetQuery replaces the search text.
type SetQuery struct{ Query string }

// ClearQuery empties the search text.
type ClearQuery struct{}

// SortColumn clicks a table column header.
type SortColumn struct{ Key rank.Key }

// SelectPerspective switches the member lookup perspective.
type SelectPerspective struct{ Perspective model.Perspective }

func (SelectCategory) event()    {}
func (SelectPoint) event()       {}
func (SelectView) event()        {}
func (SelectMetric) event()      {}
func (SelectModel) event()       {}
func (ToggleCategory) event()    {}
func (SetQuery) event()          {}
func (ClearQuery) event()        {}
func (SortColumn) event()        {}
func (SelectPerspective) event() {}

// Widget names.
const (
	NameTopics       = "topics"
	NameCoefficients = "coefficients"
	NameParties      = "parties"
	NameMembers      = "members"
)

// Names lists the widgets in article order.
func Names() []string {
	return []string{NameTopics, NameCoefficients, NameParties, NameMembers}
}

var (
	_ Controller = (*TopicExplorer)(nil)
	_ Controller = (*CoefficientToggle)(nil)
	_ Controller = (*PartyFilter)(nil)
	_ Controller = (*MemberLookup)(nil)
	_ Controller = (*Fallback)(nil)
)
