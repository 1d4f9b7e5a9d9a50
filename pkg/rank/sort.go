package rank

import (
	"sort"
	"strings"
)

// Key is a sortable column of the lookup table.
type Key string

const (
	KeyName  Key = "name"
	KeyParty Key = "party"
	KeyTurns Key = "turns"
	KeyCount Key = "count"
	KeyRate  Key = "rate"
)

// Keys lists the sortable columns in table order.
func Keys() []Key {
	return []Key{KeyName, KeyParty, KeyTurns, KeyCount, KeyRate}
}

// ParseKey maps a column name to a Key.
func ParseKey(s string) (Key, bool) {
	for _, k := range Keys() {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, true
		}
	}
	return "", false
}

// Order is a column sort. The zero value means base order.
type Order struct {
	Key  Key  `json:"key,omitempty"`
	Desc bool `json:"desc"`
}

// IsZero reports whether no column sort is applied.
func (o Order) IsZero() bool { return o.Key == "" }

// Toggle returns the order after clicking column k: the same key flips
// direction, a new key sorts descending.
func (o Order) Toggle(k Key) Order {
	if o.Key == k {
		return Order{Key: k, Desc: !o.Desc}
	}
	return Order{Key: k, Desc: true}
}

// Apply returns a sorted copy of rows. Ties fall back to the primary count,
// descending, then to base rank.
func (o Order) Apply(rows []Ranked) []Ranked {
	out := make([]Ranked, len(rows))
	copy(out, rows)
	if o.IsZero() {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := compare(a, b, o.Key); c != 0 {
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Rank < b.Rank
	})
	return out
}

func compare(a, b Ranked, k Key) int {
	switch k {
	case KeyName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case KeyParty:
		return strings.Compare(strings.ToLower(a.Party), strings.ToLower(b.Party))
	case KeyTurns:
		return cmpFloat(a.Turns, b.Turns)
	case KeyCount:
		return cmpFloat(a.Count, b.Count)
	case KeyRate:
		return cmpFloat(a.Rate, b.Rate)
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
