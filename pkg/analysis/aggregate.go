// Package analysis derives the aggregate quantities the widgets display:
// turn-weighted rates, long-run trend direction, party volume ranking, the
// article's headline numbers and the topic callouts.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

type rateKey struct {
	category string
	year     int
}

// WeightedRates groups topic rates by (topic, year) and returns one point per
// key holding the turn-weighted mean rate sum(rate*n)/sum(n). Keys whose
// total weight is not positive are excluded.
func WeightedRates(rates []model.TopicRate) []model.Point {
	type acc struct {
		rates   []float64
		weights []float64
	}
	groups := make(map[rateKey]*acc)
	var order []rateKey
	for _, r := range rates {
		k := rateKey{category: r.Topic, year: r.Year}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
			order = append(order, k)
		}
		g.rates = append(g.rates, r.Rate)
		g.weights = append(g.weights, r.Turns)
	}

	out := make([]model.Point, 0, len(order))
	for _, k := range order {
		g := groups[k]
		var total float64
		for _, w := range g.weights {
			total += w
		}
		if total <= 0 {
			continue
		}
		out = append(out, model.Point{
			Category: k.category,
			Year:     k.year,
			Value:    stat.Mean(g.rates, g.weights),
		})
	}
	return out
}

// Volume is a category's total turn count.
type Volume struct {
	Category string
	Turns    float64
}

// RankByVolume orders parties by total turns, descending, keeping at most
// limit entries (limit <= 0 keeps all). Ties fall back to name order.
func RankByVolume(rates []model.PartyRate, limit int) []Volume {
	totals := make(map[string]float64)
	for _, r := range rates {
		totals[r.Party] += r.Turns
	}
	out := make([]Volume, 0, len(totals))
	for cat, n := range totals {
		out = append(out, Volume{Category: cat, Turns: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Turns != out[j].Turns {
			return out[i].Turns > out[j].Turns
		}
		return out[i].Category < out[j].Category
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Categories returns the names of a volume ranking.
func Categories(vs []Volume) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Category
	}
	return out
}
