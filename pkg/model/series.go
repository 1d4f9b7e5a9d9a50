package model

import (
	"sort"
)

// Point is one observation of a categorical series.
type Point struct {
	Category string
	Year     int
	Value    float64
}

// Series holds the points of one category ordered by year.
type Series struct {
	Category string
	Points   []Point
}

// First returns the earliest point. The series must be non-empty.
func (s Series) First() Point { return s.Points[0] }

// Last returns the latest point. The series must be non-empty.
func (s Series) Last() Point { return s.Points[len(s.Points)-1] }

// Len returns the number of points.
func (s Series) Len() int { return len(s.Points) }

// SeriesIndex is the category -> Series index derived from a dataset load.
// It is built once and never mutated; a reload builds a new index.
type SeriesIndex struct {
	order    []string
	byCat    map[string]Series
	minYear  int
	maxYear  int
	hasYears bool
}

// NewSeriesIndex groups points by category. Categories are ordered
// alphabetically unless an explicit order is supplied; points within a
// series are stably sorted by year.
func NewSeriesIndex(points []Point, order ...string) SeriesIndex {
	ix := SeriesIndex{byCat: make(map[string]Series)}
	for _, p := range points {
		s := ix.byCat[p.Category]
		s.Category = p.Category
		s.Points = append(s.Points, p)
		ix.byCat[p.Category] = s

		if !ix.hasYears || p.Year < ix.minYear {
			ix.minYear = p.Year
		}
		if !ix.hasYears || p.Year > ix.maxYear {
			ix.maxYear = p.Year
		}
		ix.hasYears = true
	}
	for cat, s := range ix.byCat {
		sort.SliceStable(s.Points, func(i, j int) bool {
			return s.Points[i].Year < s.Points[j].Year
		})
		ix.byCat[cat] = s
	}

	if len(order) > 0 {
		for _, cat := range order {
			if _, ok := ix.byCat[cat]; ok {
				ix.order = append(ix.order, cat)
			}
		}
	} else {
		for cat := range ix.byCat {
			ix.order = append(ix.order, cat)
		}
		sort.Strings(ix.order)
	}
	return ix
}

// Categories returns categories in index order.
func (ix SeriesIndex) Categories() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Has reports whether the category is indexed.
func (ix SeriesIndex) Has(cat string) bool {
	for _, c := range ix.order {
		if c == cat {
			return true
		}
	}
	return false
}

// Series returns the series for a category.
func (ix SeriesIndex) Series(cat string) (Series, bool) {
	if !ix.Has(cat) {
		return Series{}, false
	}
	return ix.byCat[cat], true
}

// Len returns the number of categories.
func (ix SeriesIndex) Len() int { return len(ix.order) }

// Empty reports whether the index holds no points.
func (ix SeriesIndex) Empty() bool { return len(ix.order) == 0 }

// YearExtent returns the global year range across every category.
func (ix SeriesIndex) YearExtent() (int, int) {
	return ix.minYear, ix.maxYear
}

// Values returns the values of the given categories, in index order.
func (ix SeriesIndex) Values(cats []string) []float64 {
	want := make(map[string]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}
	var out []float64
	for _, cat := range ix.order {
		if !want[cat] {
			continue
		}
		for _, p := range ix.byCat[cat].Points {
			out = append(out, p.Value)
		}
	}
	return out
}

// GapPoints converts topic gaps into series points.
func GapPoints(gaps []TopicGap) []Point {
	out := make([]Point, len(gaps))
	for i, g := range gaps {
		out[i] = Point{Category: g.Topic, Year: g.Year, Value: g.Gap}
	}
	return out
}

// PartyPoints converts party rates into series points.
func PartyPoints(rates []PartyRate) []Point {
	out := make([]Point, len(rates))
	for i, r := range rates {
		out[i] = Point{Category: r.Party, Year: r.Year, Value: r.Rate}
	}
	return out
}
