package analysis

import (
	"math"
	"testing"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

func TestWeightedRates_TurnWeightedMean(t *testing.T) {
	got := WeightedRates([]model.TopicRate{
		{Year: 2001, Topic: "Economy", Turns: 100, Rate: 0.1},
		{Year: 2001, Topic: "Economy", Turns: 300, Rate: 0.3},
	})
	if len(got) != 1 {
		t.Fatalf("expected one point per key, got %d", len(got))
	}
	if math.Abs(got[0].Value-0.25) > 1e-12 {
		t.Errorf("aggregated rate = %v, want 0.25", got[0].Value)
	}
}

func TestWeightedRates_ExcludesZeroDenominator(t *testing.T) {
	got := WeightedRates([]model.TopicRate{
		{Year: 2001, Topic: "Economy", Turns: 0, Rate: 5},
		{Year: 2001, Topic: "Economy", Turns: 0, Rate: 7},
		{Year: 2002, Topic: "Economy", Turns: 10, Rate: 2},
		{Year: 2001, Topic: "Health", Turns: 50, Rate: 4},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %+v", got)
	}
	for _, p := range got {
		if p.Year == 2001 && p.Category == "Economy" {
			t.Errorf("zero-weight key should be excluded: %+v", p)
		}
		if math.IsNaN(p.Value) {
			t.Errorf("NaN leaked: %+v", p)
		}
	}
}

func TestRankByVolume(t *testing.T) {
	rates := []model.PartyRate{
		{Party: "GRN", Turns: 10},
		{Party: "ALP", Turns: 500},
		{Party: "LIB", Turns: 300},
		{Party: "LIB", Turns: 300},
		{Party: "NAT", Turns: 10},
	}
	got := Categories(RankByVolume(rates, 3))
	want := []string{"LIB", "ALP", "GRN"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSeriesTrend_Classification(t *testing.T) {
	tests := []struct {
		name   string
		points []model.Point
		want   Direction
	}{
		{"widening", []model.Point{{Year: 2000, Value: 1}, {Year: 2010, Value: 3}}, Up},
		{"narrowing", []model.Point{{Year: 2000, Value: 3}, {Year: 2010, Value: 1}}, Down},
		{"stable", []model.Point{{Year: 2000, Value: 1}, {Year: 2010, Value: 1.5}}, Stable},
		{"single year", []model.Point{{Year: 2000, Value: 1}}, Stable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := SeriesTrend(model.Series{Category: "x", Points: tt.points})
			if err != nil {
				t.Fatal(err)
			}
			if tr.Direction != tt.want {
				t.Errorf("direction = %v (slope %v), want %v", tr.Direction, tr.Slope, tt.want)
			}
		})
	}
}

func TestSeriesTrend_Empty(t *testing.T) {
	if _, err := SeriesTrend(model.Series{Category: "x"}); err == nil {
		t.Error("expected NoCategoryDataError for empty series")
	}
}

func TestGapCaption(t *testing.T) {
	tr := Trend{Last: model.Point{Year: 2020, Value: 4.3}, Slope: 0.2, Direction: Up}
	got := GapCaption("Economy", tr)
	want := "Selected topic: Economy. Latest gap: 4.3 pp (2020). Long-run direction: widening (0.20 pp/year)."
	if got != want {
		t.Errorf("caption = %q", got)
	}
	if RateWords.Word(Down) != "falling" {
		t.Error("rate vocabulary mismatch")
	}
}
