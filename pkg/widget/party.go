package widget

import (
	"github.com/vanderheijden86/heckleviz/pkg/analysis"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/render"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

const (
	// DefaultPartyLimit is how many parties the chart offers.
	DefaultPartyLimit = 8
	// DefaultPartySeed is how many of them start active.
	DefaultPartySeed = 4
)

// PartyFilter is the multi-select party trend controller. The active set is
// never empty and colours never move.
type PartyFilter struct {
	parties []string
	index   model.SeriesIndex
	colors  render.ColorMap
	active  map[string]bool
}

// NewPartyFilter ranks parties by total turns, keeps the top limit and seeds
// the active set with the first seed of them.
func NewPartyFilter(rates []model.PartyRate, limit, seed int) (*PartyFilter, error) {
	if limit <= 0 {
		limit = DefaultPartyLimit
	}
	ranked := analysis.Categories(analysis.RankByVolume(rates, limit))
	if len(ranked) == 0 {
		return nil, &model.EmptyDatasetError{Name: model.PartyRateByYear}
	}
	keep := make(map[string]bool, len(ranked))
	for _, p := range ranked {
		keep[p] = true
	}
	var pts []model.Point
	for _, p := range model.PartyPoints(rates) {
		if keep[p.Category] {
			pts = append(pts, p)
		}
	}

	f := &PartyFilter{
		parties: ranked,
		index:   model.NewSeriesIndex(pts, ranked...),
		colors:  render.NewColorMap(ranked, render.PartyPalette),
		active:  make(map[string]bool),
	}
	if seed <= 0 {
		seed = DefaultPartySeed
	}
	for i, p := range ranked {
		if i < seed {
			f.active[p] = true
		}
	}
	return f, nil
}

func (f *PartyFilter) Name() string { return NameParties }

// Parties lists the offered parties in ranked order.
func (f *PartyFilter) Parties() []string {
	out := make([]string, len(f.parties))
	copy(out, f.parties)
	return out
}

// Active lists the active parties in ranked order.
func (f *PartyFilter) Active() []string {
	var out []string
	for _, p := range f.parties {
		if f.active[p] {
			out = append(out, p)
		}
	}
	return out
}

// IsActive reports whether a party is shown.
func (f *PartyFilter) IsActive(p string) bool { return f.active[p] }

// Colors returns the per-load colour assignment.
func (f *PartyFilter) Colors() render.ColorMap { return f.colors }

func (f *PartyFilter) HandleEvent(ev Event) error {
	e, ok := ev.(ToggleCategory)
	if !ok {
		return ErrUnsupportedEvent
	}
	if _, known := f.colors[e.Category]; !known {
		return &model.NoCategoryDataError{Category: e.Category}
	}
	if f.active[e.Category] {
		delete(f.active, e.Category)
	} else {
		f.active[e.Category] = true
	}
	if len(f.active) == 0 {
		f.active[e.Category] = true
	}
	return nil
}

func (f *PartyFilter) Render() *scene.Scene {
	return render.PartyRates(render.Parties{
		Index:  f.index,
		Colors: f.colors,
		Active: f.Active(),
		Title:  "Heckling rate (interjections per 100 turns)",
	})
}

func (f *PartyFilter) Caption() string {
	return analysis.PartyCaption(len(f.active))
}
