package rank

import (
	"github.com/vanderheijden86/heckleviz/pkg/model"
)

// Engine holds the lookup state for both perspectives. Switching the
// perspective clears the query and the column sort.
type Engine struct {
	base        map[model.Perspective][]Ranked
	perspective model.Perspective
	query       string
	order       Order
}

// NewEngine ranks every perspective once. Perspectives without data rank to
// an empty table.
func NewEngine(members map[model.Perspective][]model.MemberSummary, minTurns float64) *Engine {
	e := &Engine{
		base:        make(map[model.Perspective][]Ranked, len(members)),
		perspective: model.PerspectiveHeckler,
	}
	for p, ms := range members {
		e.base[p] = BaseRank(ms, minTurns)
	}
	return e
}

// Perspective returns the active perspective.
func (e *Engine) Perspective() model.Perspective { return e.perspective }

// HasPerspective reports whether data was supplied for p.
func (e *Engine) HasPerspective(p model.Perspective) bool {
	_, ok := e.base[p]
	return ok
}

// SetPerspective switches perspective and resets the search and sort.
func (e *Engine) SetPerspective(p model.Perspective) {
	e.perspective = p
	e.query = ""
	e.order = Order{}
}

// Query returns the current search text.
func (e *Engine) Query() string { return e.query }

// SetQuery replaces the search text.
func (e *Engine) SetQuery(q string) { e.query = q }

// Order returns the current column sort.
func (e *Engine) Order() Order { return e.order }

// SortBy toggles the sort on column k.
func (e *Engine) SortBy(k Key) { e.order = e.order.Toggle(k) }

// Base returns the base ranking of the active perspective.
func (e *Engine) Base() []Ranked {
	out := make([]Ranked, len(e.base[e.perspective]))
	copy(out, e.base[e.perspective])
	return out
}

// Result composes the current table: the column sort reorders the base
// ranking, then search pins hits above the rest.
func (e *Engine) Result() Result {
	return Search(e.order.Apply(e.base[e.perspective]), e.query, e.perspective)
}
