package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

// Headline holds the article-wide numbers shown in the introduction.
type Headline struct {
	Events int     `json:"events"`
	AvgGap float64 `json:"avg_gap_pp"`
}

// Headlines sums interjection events and averages the yearly gap. An empty
// gap table averages to zero.
func Headlines(gaps []model.YearlyGap, rates []model.GenderRate) Headline {
	var h Headline
	var events float64
	for _, r := range rates {
		events += r.N
	}
	h.Events = int(math.Round(events))
	if len(gaps) > 0 {
		vals := make([]float64, len(gaps))
		for i, g := range gaps {
			vals[i] = g.Gap
		}
		h.AvgGap = stat.Mean(vals, nil)
	}
	return h
}

// FormatEvents renders an event count with thousands separators.
func FormatEvents(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// FormatGap renders the headline gap.
func (h Headline) FormatGap() string {
	return fmt.Sprintf("%.1f pp", h.AvgGap)
}

// Finding names used by the topic findings summary.
const (
	FindingLargestWidening = "largest_widening_topic"
	FindingReversal        = "reversal_topic"
	FindingMostStable      = "most_stable_topic"
)

// Callouts are the three topic sentences beside the topic explorer.
type Callouts struct {
	LargestWidening string `json:"largest_widening"`
	Reversal        string `json:"reversal"`
	MostStable      string `json:"most_stable"`
}

func signed(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// CalloutsFromFindings formats published findings. Missing findings leave
// their sentence empty, except the reversal which has a default.
func CalloutsFromFindings(findings []model.Finding) Callouts {
	by := make(map[string]model.Finding, len(findings))
	for _, f := range findings {
		by[f.Finding] = f
	}
	var c Callouts
	if f, ok := by[FindingLargestWidening]; ok {
		c.LargestWidening = fmt.Sprintf("%s (%s pp/year)", f.Topic, signed(f.Value))
	}
	if f, ok := by[FindingReversal]; ok {
		c.Reversal = fmt.Sprintf("%s (gap changes sign over time)", f.Topic)
	} else {
		c.Reversal = "No clear sign-reversal topic in current run."
	}
	if f, ok := by[FindingMostStable]; ok {
		c.MostStable = fmt.Sprintf("%s (slope %s pp/year)", f.Topic, signed(f.Value))
	}
	return c
}

// DeriveFindings computes the findings from the topic gap series when the
// published summary is missing: the steepest least-squares slope, the
// flattest slope, and the steepest series whose first and last gaps differ
// in sign.
func DeriveFindings(ix model.SeriesIndex) []model.Finding {
	type fit struct {
		topic    string
		slope    float64
		reversal bool
	}
	var fits []fit
	for _, cat := range ix.Categories() {
		s, _ := ix.Series(cat)
		if s.Len() < 2 {
			continue
		}
		xs := make([]float64, s.Len())
		ys := make([]float64, s.Len())
		for i, p := range s.Points {
			xs[i] = float64(p.Year)
			ys[i] = p.Value
		}
		_, beta := stat.LinearRegression(xs, ys, nil, false)
		if math.IsNaN(beta) || math.IsInf(beta, 0) {
			continue
		}
		first, last := s.First().Value, s.Last().Value
		fits = append(fits, fit{
			topic:    cat,
			slope:    beta,
			reversal: (first < 0 && last > 0) || (first > 0 && last < 0),
		})
	}
	if len(fits) == 0 {
		return nil
	}

	sort.SliceStable(fits, func(i, j int) bool { return fits[i].slope > fits[j].slope })
	out := []model.Finding{{Finding: FindingLargestWidening, Topic: fits[0].topic, Value: fits[0].slope, HasVal: true}}

	stable := fits[0]
	for _, f := range fits[1:] {
		if math.Abs(f.slope) < math.Abs(stable.slope) {
			stable = f
		}
	}
	out = append(out, model.Finding{Finding: FindingMostStable, Topic: stable.topic, Value: stable.slope, HasVal: true})

	var rev *fit
	for i := range fits {
		f := fits[i]
		if f.reversal && (rev == nil || math.Abs(f.slope) > math.Abs(rev.slope)) {
			rev = &fits[i]
		}
	}
	if rev != nil {
		out = append(out, model.Finding{Finding: FindingReversal, Topic: rev.topic, Value: rev.slope, HasVal: true})
	}
	return out
}
