// Package scrolly drives the scroll-linked narrative: it decides which
// chapter is active from viewport samples, coalesces bursts of scroll
// events, and keeps chapter and chart navigation in step.
package scrolly

import (
	"math"

	"github.com/vanderheijden86/heckleviz/pkg/metrics"
)

// AnchorRatio is the fraction of viewport height where the reading line sits.
const AnchorRatio = 0.45

// Section is a chapter's bounds relative to the top of the viewport.
type Section struct {
	Top    float64
	Bottom float64
}

// Mid returns the vertical midpoint.
func (s Section) Mid() float64 { return (s.Top + s.Bottom) / 2 }

// Resolve returns the index of the section whose midpoint is nearest the
// anchor line, or -1 for no sections. The first section wins ties.
func Resolve(sections []Section, viewportHeight, anchorRatio float64) int {
	defer metrics.Timer(metrics.ScrollResolve)()

	anchor := viewportHeight * anchorRatio
	best, bestDist := -1, math.Inf(1)
	for i, s := range sections {
		if d := math.Abs(s.Mid() - anchor); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Resolver remembers the active section and reports only changes.
type Resolver struct {
	anchor   float64
	active   int
	onChange func(int)
}

// NewResolver returns a resolver with no active section. A non-positive
// anchor uses AnchorRatio.
func NewResolver(anchor float64, onChange func(int)) *Resolver {
	if anchor <= 0 || anchor >= 1 {
		anchor = AnchorRatio
	}
	if onChange == nil {
		onChange = func(int) {}
	}
	return &Resolver{anchor: anchor, active: -1, onChange: onChange}
}

// Active returns the active section index, -1 before the first update.
func (r *Resolver) Active() int { return r.active }

// Update resolves a viewport sample and fires the change callback when the
// active section differs from the previous one.
func (r *Resolver) Update(sections []Section, viewportHeight float64) bool {
	next := Resolve(sections, viewportHeight, r.anchor)
	if next < 0 || next == r.active {
		return false
	}
	r.active = next
	r.onChange(next)
	return true
}

// Set forces the active section, as a click does, firing the callback on
// change.
func (r *Resolver) Set(i int) bool {
	if i == r.active {
		return false
	}
	r.active = i
	r.onChange(i)
	return true
}
