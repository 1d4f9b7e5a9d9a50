// Package scale maps numeric domains onto pixel ranges and derives the
// domains and tick sets used by the article's charts. Everything here is
// pure; renderers recompute scales whenever their visible subset changes.
package scale

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Domain is a closed numeric interval [Min, Max].
type Domain struct {
	Min, Max float64
}

// Span returns Max-Min.
func (d Domain) Span() float64 { return d.Max - d.Min }

// Contains reports whether v lies inside the domain.
func (d Domain) Contains(v float64) bool { return v >= d.Min && v <= d.Max }

// Include widens the domain to cover every value.
func (d Domain) Include(vals ...float64) Domain {
	for _, v := range vals {
		d.Min = math.Min(d.Min, v)
		d.Max = math.Max(d.Max, v)
	}
	return d
}

// Pad widens both ends by amount.
func (d Domain) Pad(amount float64) Domain {
	return Domain{Min: d.Min - amount, Max: d.Max + amount}
}

// Range is a pixel interval. R0 is where Domain.Min lands.
type Range struct {
	R0, R1 float64
}

// Linear is an affine map from a Domain to a Range.
type Linear struct {
	Domain Domain
	Range  Range
}

// New returns a linear scale from d onto r.
func New(d Domain, r Range) Linear {
	return Linear{Domain: d, Range: r}
}

// Vertical returns a scale whose values grow upwards on a top-left origin
// canvas: Domain.Min maps to bottom and Domain.Max to top.
func Vertical(d Domain, top, bottom float64) Linear {
	return Linear{Domain: d, Range: Range{R0: bottom, R1: top}}
}

// Map applies the scale. A zero-width domain uses a divisor of 1 so the
// result stays finite.
func (s Linear) Map(v float64) float64 {
	div := s.Domain.Max - s.Domain.Min
	if div == 0 {
		div = 1
	}
	return s.Range.R0 + (v-s.Domain.Min)/div*(s.Range.R1-s.Range.R0)
}

// Extent returns the smallest domain holding every value. No values yields
// the zero domain.
func Extent(vals []float64) Domain {
	if len(vals) == 0 {
		return Domain{}
	}
	return Domain{Min: floats.Min(vals), Max: floats.Max(vals)}
}

// CoefficientPad is the fractional padding applied to interval plots.
const CoefficientPad = 0.08

// CoefficientDomain covers every estimate and interval bound, always
// includes [-0.2, 0.2] so the zero reference line is visible, and is padded
// by 8% of its span.
func CoefficientDomain(vals []float64) Domain {
	d := Extent(vals).Include(-0.2, 0.2)
	return d.Pad(d.Span() * CoefficientPad)
}

// UncertaintyDomain covers every estimate and interval bound, always
// includes zero, and is padded by 8% of its span.
func UncertaintyDomain(vals []float64) Domain {
	d := Extent(vals).Include(0)
	pad := d.Span() * CoefficientPad
	if pad == 0 {
		pad = 0.02
	}
	return d.Pad(pad)
}

// SeriesDomain derives the value axis of a time-series chart from the
// values of the currently visible categories. Zero is always included, the
// padding is the larger of 2 units or 15% of the span, and rate-like metrics
// never go below zero.
func SeriesDomain(vals []float64, rateLike bool) Domain {
	d := Extent(vals).Include(0)
	pad := math.Max(2, d.Span()*0.15)
	d = d.Pad(pad)
	if rateLike && d.Min < 0 {
		d.Min = 0
	}
	return d
}

// YearDomain is the global x domain of a time-series chart.
func YearDomain(lo, hi int) Domain {
	return Domain{Min: float64(lo), Max: float64(hi)}
}

// ValueTickIntervals is the number of intervals on value axes.
const ValueTickIntervals = 6

// Ticks returns intervals+1 values evenly spaced across d.
func Ticks(d Domain, intervals int) []float64 {
	if intervals < 1 {
		intervals = 1
	}
	out := make([]float64, intervals+1)
	for i := 0; i <= intervals; i++ {
		out[i] = d.Min + float64(i)/float64(intervals)*d.Span()
	}
	return out
}

// YearTicks returns integer ticks between lo and hi, at most 8 intervals.
func YearTicks(lo, hi int) []int {
	span := hi - lo
	if span <= 0 {
		return []int{lo}
	}
	n := span
	if n > 8 {
		n = 8
	}
	out := make([]int, 0, n+1)
	for i := 0; i <= n; i++ {
		v := int(math.Round(float64(lo) + float64(i)/float64(n)*float64(span)))
		out = append(out, v)
	}
	return out
}

// Format renders a tick value with a fixed number of decimals.
func Format(v float64, decimals int) string {
	if v == 0 || math.Abs(v) < 0.5*math.Pow(10, -float64(decimals)) {
		v = 0 // avoid "-0"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
