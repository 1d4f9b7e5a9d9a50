package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// TopicGap is one year of the male-minus-female gap for a policy topic.
type TopicGap struct {
	Year  int
	Topic string
	Gap   float64 // percentage points
}

// TopicRate is a heckle rate for a topic and year. Several rows may share a
// (topic, year) key; Turns weights them when aggregating.
type TopicRate struct {
	Year  int
	Topic string
	Turns float64
	Rate  float64 // per 100 turns
}

// TopicEffect is the uncertainty coefficient estimated for one topic.
type TopicEffect struct {
	Topic  string
	Coef   float64
	SE     float64
	PValue float64
	N      float64
}

// ModelEffect is the pooled uncertainty coefficient for one model variant.
type ModelEffect struct {
	Model string
	Coef  float64
	SE    float64
}

// Coefficient is one row of a regression coefficient table.
type Coefficient struct {
	Model  string
	Label  string
	Coef   float64
	CILow  float64
	CIHigh float64
}

// PartyRate is a party's heckle rate in one year.
type PartyRate struct {
	Year  int
	Party string
	Turns float64
	Rate  float64
}

// MemberSummary is one member's activity from a given perspective.
type MemberSummary struct {
	ID    string
	Name  string
	Party string
	Turns float64
	Count float64
	Rate  float64
}

// YearlyGap is the article-wide gap for one year.
type YearlyGap struct {
	Year int
	Gap  float64
}

// GenderRate is one row of the yearly interjection table.
type GenderRate struct {
	Year   int
	Gender string
	N      float64
	Rate   float64
}

// Finding is a named callout from the topic findings summary.
type Finding struct {
	Finding string
	Topic   string
	Value   float64
	HasVal  bool
}

// Number coerces a field to a finite float.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Year coerces a field to an integer year.
func Year(s string) (int, bool) {
	v, ok := Number(s)
	if !ok {
		return 0, false
	}
	return int(math.Round(v)), true
}

func numbers(r tabular.Row, cols ...string) ([]float64, bool) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, ok := Number(r.Get(c))
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// TopicGaps projects the topic gap table.
func TopicGaps(ds tabular.Dataset) []TopicGap {
	out := make([]TopicGap, 0, ds.Len())
	for _, r := range ds.Rows {
		topic := r.Get("policy_topic_label")
		year, ok := Year(r.Get("year"))
		gap, ok2 := Number(r.Get("gap_pp_male_minus_female"))
		if topic == "" || !ok || !ok2 {
			continue
		}
		out = append(out, TopicGap{Year: year, Topic: topic, Gap: gap})
	}
	return out
}

// TopicRates projects the per-topic heckle rate table.
func TopicRates(ds tabular.Dataset) []TopicRate {
	out := make([]TopicRate, 0, ds.Len())
	for _, r := range ds.Rows {
		topic := r.Get("policy_topic_label")
		year, ok := Year(r.Get("year"))
		v, ok2 := numbers(r, "n_turns", "heckle_rate_per_100_turns")
		if topic == "" || !ok || !ok2 {
			continue
		}
		out = append(out, TopicRate{Year: year, Topic: topic, Turns: v[0], Rate: v[1]})
	}
	return out
}

// TopicEffects projects the per-topic uncertainty table. Rows need a topic
// and finite coef and se; pvalue and n default to NaN and 0.
func TopicEffects(ds tabular.Dataset) []TopicEffect {
	out := make([]TopicEffect, 0, ds.Len())
	for _, r := range ds.Rows {
		topic := r.Get("policy_topic_label")
		v, ok := numbers(r, "coef", "se")
		if topic == "" || !ok {
			continue
		}
		e := TopicEffect{Topic: topic, Coef: v[0], SE: v[1], PValue: math.NaN()}
		if p, ok := Number(r.Get("pvalue")); ok {
			e.PValue = p
		}
		if n, ok := Number(r.Get("n")); ok {
			e.N = n
		}
		out = append(out, e)
	}
	return out
}

// ModelEffects projects the per-model uncertainty table.
func ModelEffects(ds tabular.Dataset) []ModelEffect {
	out := make([]ModelEffect, 0, ds.Len())
	for _, r := range ds.Rows {
		v, ok := numbers(r, "coef", "se")
		if !ok {
			continue
		}
		out = append(out, ModelEffect{Model: r.Get("model"), Coef: v[0], SE: v[1]})
	}
	return out
}

// Coefficients projects the coefficient table.
func Coefficients(ds tabular.Dataset) []Coefficient {
	out := make([]Coefficient, 0, ds.Len())
	for _, r := range ds.Rows {
		v, ok := numbers(r, "coef", "ci_low", "ci_high")
		if !ok {
			continue
		}
		out = append(out, Coefficient{
			Model:  r.Get("model"),
			Label:  r.Get("label"),
			Coef:   v[0],
			CILow:  v[1],
			CIHigh: v[2],
		})
	}
	return out
}

// PartyRates projects the party rate table.
func PartyRates(ds tabular.Dataset) []PartyRate {
	out := make([]PartyRate, 0, ds.Len())
	for _, r := range ds.Rows {
		party := r.Get("party")
		year, ok := Year(r.Get("year"))
		v, ok2 := numbers(r, "n_turns", "heckle_rate_per_100_turns")
		if party == "" || !ok || !ok2 {
			continue
		}
		out = append(out, PartyRate{Year: year, Party: party, Turns: v[0], Rate: v[1]})
	}
	return out
}

// MemberSummaries projects a member summary table for a perspective.
func MemberSummaries(ds tabular.Dataset, p Perspective) []MemberSummary {
	out := make([]MemberSummary, 0, ds.Len())
	for _, r := range ds.Rows {
		id := r.Get("uniqueID")
		name := r.Get("name")
		v, ok := numbers(r, "n_turns", p.CountColumn(), p.RateColumn())
		if id == "" || name == "" || !ok {
			continue
		}
		out = append(out, MemberSummary{
			ID:    id,
			Name:  name,
			Party: r.Get("party"),
			Turns: v[0],
			Count: v[1],
			Rate:  v[2],
		})
	}
	return out
}

// YearlyGaps projects the article-wide gap table.
func YearlyGaps(ds tabular.Dataset) []YearlyGap {
	out := make([]YearlyGap, 0, ds.Len())
	for _, r := range ds.Rows {
		gap, ok := Number(r.Get("gap_pp_male_minus_female"))
		if !ok {
			continue
		}
		y, _ := Year(r.Get("year"))
		out = append(out, YearlyGap{Year: y, Gap: gap})
	}
	return out
}

// GenderRates projects the yearly interjection table. A missing n counts as
// zero events.
func GenderRates(ds tabular.Dataset) []GenderRate {
	out := make([]GenderRate, 0, ds.Len())
	for _, r := range ds.Rows {
		y, _ := Year(r.Get("year"))
		n, _ := Number(r.Get("n"))
		rate, _ := Number(r.Get("rate"))
		out = append(out, GenderRate{Year: y, Gender: r.Get("gender"), N: n, Rate: rate})
	}
	return out
}

// Findings projects the topic findings summary.
func Findings(ds tabular.Dataset) []Finding {
	out := make([]Finding, 0, ds.Len())
	for _, r := range ds.Rows {
		name := r.Get("finding")
		if name == "" {
			continue
		}
		v, ok := Number(r.Get("value"))
		out = append(out, Finding{Finding: name, Topic: r.Get("topic_label"), Value: v, HasVal: ok})
	}
	return out
}
