// Package rank orders member summaries, searches them and applies column
// sorts for the member lookup table.
//
// The base ranking is computed once per load: members with enough speaking
// turns are stably sorted by their primary count and numbered from 1. Search
// and column sorts reorder rows but never renumber them.
package rank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/heckleviz/pkg/analysis"
	"github.com/vanderheijden86/heckleviz/pkg/model"
)

const (
	// MinTurns is the eligibility threshold for the base ranking.
	MinTurns = 200
	// TableSize is the number of rows the lookup table shows.
	TableSize = 30
	// MaxHits is the number of search hits pinned to the top of the table.
	MaxHits = 5
)

// Ranked is a member with its 1-based base rank.
type Ranked struct {
	model.MemberSummary
	Rank int  `json:"rank"`
	Hit  bool `json:"hit,omitempty"`
}

// BaseRank filters members with at least minTurns turns and stably sorts
// them by primary count, descending. Equal counts keep source order.
func BaseRank(members []model.MemberSummary, minTurns float64) []Ranked {
	out := make([]Ranked, 0, len(members))
	for _, m := range members {
		if m.Turns >= minTurns {
			out = append(out, Ranked{MemberSummary: m})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Matches reports whether the member's name or identifier contains the
// lower-cased query.
func (r Ranked) Matches(q string) bool {
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.ID), q)
}

// Result is the table produced by a search.
type Result struct {
	Query   string   `json:"query"`
	Rows    []Ranked `json:"rows"`
	Hits    int      `json:"hits"`
	NoMatch bool     `json:"no_match,omitempty"`
	Message string   `json:"message"`
}

// Top returns the first hit, if any.
func (r Result) Top() (Ranked, bool) {
	if r.Hits == 0 || len(r.Rows) == 0 {
		return Ranked{}, false
	}
	return r.Rows[0], true
}

// Search composes the table for a query over rows in display order. An
// empty query returns the first TableSize rows. Without hits the same table
// is returned with NoMatch set. Otherwise up to MaxHits hits come first,
// flagged, followed by the remaining rows up to TableSize in total.
func Search(rows []Ranked, query string, p model.Perspective) Result {
	q := strings.ToLower(strings.TrimSpace(query))
	res := Result{Query: strings.TrimSpace(query)}
	if q == "" {
		res.Rows = head(rows, TableSize)
		res.Message = "Type to search the MP profile table."
		return res
	}

	// Matches past MaxHits stay in the tail, unflagged, in display order.
	var hits, rest []Ranked
	for _, r := range rows {
		r.Hit = false
		if len(hits) < MaxHits && r.Matches(q) {
			hits = append(hits, r)
		} else {
			rest = append(rest, r)
		}
	}
	if len(hits) == 0 {
		res.Rows = head(rows, TableSize)
		res.NoMatch = true
		res.Message = fmt.Sprintf("No MP match for %q.", res.Query)
		return res
	}

	for i := range hits {
		hits[i].Hit = true
	}
	res.Hits = len(hits)
	res.Rows = append(hits, head(rest, TableSize-len(hits))...)
	res.Message = Summary(hits[0], p)
	return res
}

// Summary is the one-sentence description of a member.
func Summary(r Ranked, p model.Perspective) string {
	label := p.CountLabel()
	return fmt.Sprintf("%s (%s), rank #%d by total %s: %s %s across %s turns (%.1f per 100 turns).",
		r.Name, r.Party, r.Rank, label,
		analysis.FormatEvents(int(r.Count)), label,
		analysis.FormatEvents(int(r.Turns)), r.Rate)
}

func head(rows []Ranked, n int) []Ranked {
	if n < 0 {
		n = 0
	}
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]Ranked, n)
	copy(out, rows[:n])
	for i := range out {
		out[i].Hit = false
	}
	return out
}
