package analysis

import (
	"fmt"
	"math"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

// TrendThreshold is the per-year slope below which a series counts as stable.
const TrendThreshold = 0.08

// Direction classifies a long-run slope.
type Direction int

const (
	Stable Direction = iota
	Up
	Down
)

// Vocabulary names the two directions of a metric.
type Vocabulary struct {
	Up, Down, Stable string
}

// Gap words describe a male-minus-female gap.
var GapWords = Vocabulary{Up: "widening", Down: "narrowing", Stable: "stable"}

// RateWords describe a rate.
var RateWords = Vocabulary{Up: "rising", Down: "falling", Stable: "stable"}

// Word returns the vocabulary entry for d.
func (v Vocabulary) Word(d Direction) string {
	switch d {
	case Up:
		return v.Up
	case Down:
		return v.Down
	default:
		return v.Stable
	}
}

// Trend compares the first and last point of a series.
type Trend struct {
	First     model.Point
	Last      model.Point
	Slope     float64 // units per year
	Direction Direction
}

// SeriesTrend computes the first-to-last slope of a non-empty series,
// dividing by at least one year.
func SeriesTrend(s model.Series) (Trend, error) {
	if s.Len() == 0 {
		return Trend{}, &model.NoCategoryDataError{Category: s.Category}
	}
	first, last := s.First(), s.Last()
	years := math.Max(1, float64(last.Year-first.Year))
	slope := (last.Value - first.Value) / years
	return Trend{First: first, Last: last, Slope: slope, Direction: Classify(slope)}, nil
}

// Classify applies TrendThreshold to a slope.
func Classify(slope float64) Direction {
	switch {
	case slope > TrendThreshold:
		return Up
	case slope < -TrendThreshold:
		return Down
	default:
		return Stable
	}
}

// GapCaption is the narrative line under the topic gap chart.
func GapCaption(category string, t Trend) string {
	return fmt.Sprintf("Selected topic: %s. Latest gap: %.1f pp (%d). Long-run direction: %s (%.2f pp/year).",
		category, t.Last.Value, t.Last.Year, GapWords.Word(t.Direction), t.Slope)
}

// RateCaption is the narrative line under the topic rate chart.
func RateCaption(category string, t Trend) string {
	return fmt.Sprintf("Selected topic: %s. Latest rate: %.1f per 100 turns (%d). Long-run direction: %s (%.2f per year).",
		category, t.Last.Value, t.Last.Year, RateWords.Word(t.Direction), t.Slope)
}
