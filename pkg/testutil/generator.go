// Package testutil provides synthetic dataset generators and assertion
// helpers. All generators produce deterministic output for reproducible
// tests.
package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Seed      int64    // Random seed for determinism (0 = 42)
	Topics    []string // Policy topics (default: DefaultTopics)
	Parties   []string // Parties (default: DefaultParties)
	FirstYear int      // First year (default 2000)
	Years     int      // Number of years (default 6)
	Members   int      // Members per summary table (default 40)
}

// DefaultTopics are the topics used when none are configured.
var DefaultTopics = []string{"Defence", "Economy", "Environment", "Health", "Immigration"}

// DefaultParties are the parties used when none are configured, largest
// first by generated volume.
var DefaultParties = []string{"ALP", "LIB", "NAT", "GRN", "IND", "ON", "KAP", "CA", "DEM"}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		Topics:    DefaultTopics,
		Parties:   DefaultParties,
		FirstYear: 2000,
		Years:     6,
		Members:   40,
	}
}

// Generator creates synthetic datasets.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = def.Topics
	}
	if len(cfg.Parties) == 0 {
		cfg.Parties = def.Parties
	}
	if cfg.FirstYear == 0 {
		cfg.FirstYear = def.FirstYear
	}
	if cfg.Years <= 0 {
		cfg.Years = def.Years
	}
	if cfg.Members <= 0 {
		cfg.Members = def.Members
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with the default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Config returns the effective config.
func (g *Generator) Config() GeneratorConfig { return g.cfg }

func (g *Generator) years() []int {
	out := make([]int, g.cfg.Years)
	for i := range out {
		out[i] = g.cfg.FirstYear + i
	}
	return out
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }
func f3(v float64) string { return fmt.Sprintf("%.3f", v) }

// build assembles a dataset through the parser so rows behave exactly like
// loaded ones.
func build(name string, header []string, rows [][]string) tabular.Dataset {
	ds := tabular.Dataset{Name: name, Header: header}
	for _, r := range rows {
		ds.Rows = append(ds.Rows, tabular.NewRow(header, r))
	}
	return tabular.Parse(name, tabular.FormatString(ds))
}

// TopicGaps generates the topic gap table. Topic i drifts by (i-2)*0.3 pp a
// year so the first topic narrows and the last widens.
func (g *Generator) TopicGaps() tabular.Dataset {
	var rows [][]string
	for i, topic := range g.cfg.Topics {
		slope := float64(i-2) * 0.3
		for j, y := range g.years() {
			v := 1.5 + slope*float64(j) + (g.rng.Float64()-0.5)*0.1
			rows = append(rows, []string{fmt.Sprint(y), topic, f2(v)})
		}
	}
	return build(model.TopicGapOverTime, []string{"year", "policy_topic_label", "gap_pp_male_minus_female"}, rows)
}

// TopicRates generates two gender rows per topic-year.
func (g *Generator) TopicRates() tabular.Dataset {
	var rows [][]string
	for _, topic := range g.cfg.Topics {
		for _, y := range g.years() {
			for _, gender := range []string{"male", "female"} {
				n := 100 + g.rng.Intn(400)
				rate := 2 + g.rng.Float64()*6
				rows = append(rows, []string{fmt.Sprint(y), topic, gender, fmt.Sprint(n), f2(rate)})
			}
		}
	}
	return build(model.TopicRateByYear, []string{"year", "policy_topic_label", "gender", "n_turns", "heckle_rate_per_100_turns"}, rows)
}

// TopicEffects generates the per-topic uncertainty table. Every other
// topic is significant.
func (g *Generator) TopicEffects() tabular.Dataset {
	var rows [][]string
	for i, topic := range g.cfg.Topics {
		coef := -0.2 + 0.1*float64(i)
		p := 0.5
		if i%2 == 0 {
			p = 0.01
		}
		rows = append(rows, []string{topic, f3(coef), "0.040", f3(p), fmt.Sprint(500 + 10*i)})
	}
	return build(model.UncertaintyByTopic, []string{"policy_topic_label", "coef", "se", "pvalue", "n"}, rows)
}

// ModelEffects generates the per-model uncertainty table.
func (g *Generator) ModelEffects() tabular.Dataset {
	rows := [][]string{
		{"baseline", "-0.120", "0.030"},
		{"clustered", "-0.110", "0.050"},
		{"balanced", "-0.090", "0.040"},
	}
	return build(model.UncertaintyEffects, []string{"model", "coef", "se"}, rows)
}

// Coefficients generates both model tables.
func (g *Generator) Coefficients() tabular.Dataset {
	labels := []string{"Female speaker", "Government member", "Question time", "Minister", "Election year"}
	var rows [][]string
	for _, m := range []string{"negative_binomial", "logit"} {
		for i, l := range labels {
			c := -0.3 + 0.15*float64(i) + (g.rng.Float64()-0.5)*0.02
			rows = append(rows, []string{m, l, f3(c), f3(c - 0.1), f3(c + 0.1)})
		}
	}
	return build(model.ModelCoefficients, []string{"model", "label", "coef", "ci_low", "ci_high"}, rows)
}

// PartyRates generates the party table. Volume decreases with party index.
func (g *Generator) PartyRates() tabular.Dataset {
	var rows [][]string
	for i, party := range g.cfg.Parties {
		for _, y := range g.years() {
			n := (len(g.cfg.Parties)-i)*100 + g.rng.Intn(50)
			rate := 1 + g.rng.Float64()*5
			rows = append(rows, []string{fmt.Sprint(y), party, fmt.Sprint(n), f2(rate)})
		}
	}
	return build(model.PartyRateByYear, []string{"year", "party", "n_turns", "heckle_rate_per_100_turns"}, rows)
}

// MemberName is the display name of the i-th generated member.
func MemberName(i int) string { return fmt.Sprintf("Member %02d", i) }

// MemberID is the identifier of the i-th generated member.
func MemberID(i int) string { return fmt.Sprintf("m%03d", i) }

// Members generates a member summary for the perspective. Member i has
// 150+20i turns, so the first three fall below the default threshold, and
// counts are distinct.
func (g *Generator) Members(p model.Perspective) tabular.Dataset {
	var rows [][]string
	for i := 0; i < g.cfg.Members; i++ {
		turns := 150 + 20*i
		count := 1000 - 7*i
		if p == model.PerspectiveHeckled {
			count = 200 + 3*i
		}
		rate := float64(count) / float64(turns) * 100
		party := g.cfg.Parties[i%len(g.cfg.Parties)]
		rows = append(rows, []string{MemberID(i), MemberName(i), party, fmt.Sprint(turns), fmt.Sprint(count), f2(rate)})
	}
	name := p.Dataset()
	return build(name, []string{"uniqueID", "name", "party", "n_turns", p.CountColumn(), p.RateColumn()}, rows)
}

// YearlyGaps generates the article-wide gap table.
func (g *Generator) YearlyGaps() tabular.Dataset {
	var rows [][]string
	for j, y := range g.years() {
		rows = append(rows, []string{fmt.Sprint(y), f2(2 + 0.5*float64(j))})
	}
	return build(model.YearlyGenderGap, []string{"year", "gap_pp_male_minus_female"}, rows)
}

// GenderRates generates the yearly interjection table with 1000 events per
// gender-year.
func (g *Generator) GenderRates() tabular.Dataset {
	var rows [][]string
	for _, y := range g.years() {
		for _, gender := range []string{"male", "female"} {
			rows = append(rows, []string{fmt.Sprint(y), gender, "1000", f2(3 + g.rng.Float64())})
		}
	}
	return build(model.YearlyRateByGender, []string{"year", "gender", "n", "rate"}, rows)
}

// Findings generates the published topic findings from the gap slopes.
func (g *Generator) Findings() tabular.Dataset {
	topics := append([]string(nil), g.cfg.Topics...)
	sort.Strings(topics)
	last := topics[len(topics)-1]
	mid := topics[len(topics)/2]
	rows := [][]string{
		{"largest_widening_topic", last, f2(math.Abs(float64(len(topics)-3) * 0.3))},
		{"most_stable_topic", mid, "0.01"},
	}
	return build(model.TopicFindingsSummary, []string{"finding", "topic_label", "value"}, rows)
}

// All returns every dataset keyed by name.
func (g *Generator) All() map[string]tabular.Dataset {
	return map[string]tabular.Dataset{
		model.TopicGapOverTime:     g.TopicGaps(),
		model.TopicRateByYear:      g.TopicRates(),
		model.UncertaintyByTopic:   g.TopicEffects(),
		model.UncertaintyEffects:   g.ModelEffects(),
		model.ModelCoefficients:    g.Coefficients(),
		model.PartyRateByYear:      g.PartyRates(),
		model.MemberHecklerSummary: g.Members(model.PerspectiveHeckler),
		model.MemberHeckledSummary: g.Members(model.PerspectiveHeckled),
		model.YearlyGenderGap:      g.YearlyGaps(),
		model.YearlyRateByGender:   g.GenderRates(),
		model.TopicFindingsSummary: g.Findings(),
	}
}
