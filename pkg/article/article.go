// Package article bootstraps the interactive article: it loads each
// widget's datasets in isolation, falls back to a static presentation when
// a primary dataset fails, and swaps in reloaded widgets wholesale.
package article

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/heckleviz/pkg/analysis"
	"github.com/vanderheijden86/heckleviz/pkg/debug"
	"github.com/vanderheijden86/heckleviz/pkg/loader"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

// Options carries the widget defaults.
type Options struct {
	PreferredTopic string
	PartyLimit     int
	PartySeed      int
	MinTurns       float64
}

// DefaultOptions mirrors the published article.
func DefaultOptions() Options {
	return Options{
		PreferredTopic: widget.DefaultTopic,
		PartyLimit:     widget.DefaultPartyLimit,
		PartySeed:      widget.DefaultPartySeed,
		MinTurns:       rank.MinTurns,
	}
}

// Snapshot is the result of one full load.
type Snapshot struct {
	Widgets     map[string]widget.Controller
	Headline    analysis.Headline
	HeadlineOK  bool
	Callouts    analysis.Callouts
	Derived     bool // callouts computed from the gap series
	Generation  uint64
	FailedNames []string
}

// Article owns the mount registry and the current snapshot.
type Article struct {
	loader *loader.Loader
	opts   Options

	mu         sync.Mutex
	mounted    map[string]bool
	generation uint64
	current    Snapshot
}

// New mounts the named widgets, or every widget when none are named.
func New(l *loader.Loader, opts Options, mounts ...string) *Article {
	if len(mounts) == 0 {
		mounts = widget.Names()
	}
	a := &Article{
		loader:  l,
		opts:    opts,
		mounted: make(map[string]bool, len(mounts)),
		current: Snapshot{Widgets: map[string]widget.Controller{}},
	}
	for _, n := range mounts {
		a.mounted[n] = true
	}
	return a
}

// Mount adds a widget to the registry; it appears after the next load.
func (a *Article) Mount(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mounted[name] = true
}

// Unmount removes a widget. Results of loads still in flight for it are
// dropped.
func (a *Article) Unmount(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.mounted, name)
	delete(a.current.Widgets, name)
}

// Mounted reports whether name is in the registry.
func (a *Article) Mounted(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mounted[name]
}

// Widget returns a mounted widget from the current snapshot.
func (a *Article) Widget(name string) (widget.Controller, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.current.Widgets[name]
	return w, ok
}

// Widgets returns the mounted widgets in article order.
func (a *Article) Widgets() []widget.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []widget.Controller
	for _, n := range widget.Names() {
		if w, ok := a.current.Widgets[n]; ok {
			out = append(out, w)
		}
	}
	return out
}

// Snapshot returns the current snapshot. The widget map is a copy.
func (a *Article) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.current
	s.Widgets = make(map[string]widget.Controller, len(a.current.Widgets))
	for k, v := range a.current.Widgets {
		s.Widgets[k] = v
	}
	return s
}

func (a *Article) mountedNames() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for _, n := range widget.Names() {
		if a.mounted[n] {
			out = append(out, n)
		}
	}
	return out
}

// Load builds every mounted widget concurrently and commits the result.
// Each widget is isolated: a failed primary load yields its fallback and
// never affects the others. When a newer Load has started meanwhile, this
// result is stale and discarded; the returned bool reports whether it was
// committed.
func (a *Article) Load(ctx context.Context) (bool, error) {
	defer debug.LogEnterExit("article load")()
	a.mu.Lock()
	a.generation++
	gen := a.generation
	a.mu.Unlock()

	names := a.mountedNames()
	built := make([]widget.Controller, len(names))

	var (
		snap    = Snapshot{Generation: gen}
		topicDS []model.TopicGap
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			w, gaps := a.build(gctx, name)
			built[i] = w
			if name == widget.NameTopics {
				topicDS = gaps
			}
			return nil
		})
	}
	g.Go(func() error {
		snap.Headline, snap.HeadlineOK = a.headline(gctx)
		return nil
	})
	var findings []model.Finding
	g.Go(func() error {
		ds, err := a.loader.Load(gctx, model.TopicFindingsSummary)
		if err == nil {
			findings = model.Findings(ds)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	if len(findings) == 0 && len(topicDS) == 0 {
		// Callouts are derived from the gap series even when the topic
		// widget is not mounted.
		if ds, err := a.loader.Load(ctx, model.TopicGapOverTime); err == nil {
			topicDS = model.TopicGaps(ds)
		}
	}
	if len(findings) == 0 && len(topicDS) > 0 {
		findings = analysis.DeriveFindings(model.NewSeriesIndex(model.GapPoints(topicDS)))
		snap.Derived = true
	}
	snap.Callouts = analysis.CalloutsFromFindings(findings)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		debug.Log("article load %d superseded by %d; discarding", gen, a.generation)
		return false, nil
	}
	snap.Widgets = make(map[string]widget.Controller, len(names))
	for i, name := range names {
		if !a.mounted[name] {
			debug.Log("widget %s unmounted during load; dropping result", name)
			continue
		}
		snap.Widgets[name] = built[i]
		if _, ok := built[i].(*widget.Fallback); ok {
			snap.FailedNames = append(snap.FailedNames, name)
		} else if c, ok := built[i].(*widget.CoefficientToggle); ok && c.Fallback() {
			snap.FailedNames = append(snap.FailedNames, name)
		}
	}
	a.current = snap
	return true, nil
}

// Reload is Load under its reload name, for watcher callbacks.
func (a *Article) Reload(ctx context.Context) (bool, error) {
	debug.Log("reloading article datasets")
	return a.Load(ctx)
}

func (a *Article) build(ctx context.Context, name string) (widget.Controller, []model.TopicGap) {
	w, gaps, err := a.buildWidget(ctx, name)
	if err == nil {
		return w, gaps
	}
	debug.Log("widget %s falls back: %v", name, err)
	if name == widget.NameCoefficients {
		return widget.NewCoefficientFallback(), nil
	}
	return widget.NewFallback(name, err), nil
}

func (a *Article) buildWidget(ctx context.Context, name string) (widget.Controller, []model.TopicGap, error) {
	switch name {
	case widget.NameTopics:
		set, err := a.loader.LoadSet(ctx, model.TopicGapOverTime,
			model.TopicRateByYear, model.UncertaintyByTopic, model.UncertaintyEffects)
		if err != nil {
			return nil, nil, err
		}
		gaps := model.TopicGaps(set.Primary)
		t, err := widget.NewTopicExplorer(widget.TopicData{
			Gaps:         gaps,
			Rates:        model.TopicRates(set.Get(model.TopicRateByYear)),
			TopicEffects: model.TopicEffects(set.Get(model.UncertaintyByTopic)),
			ModelEffects: model.ModelEffects(set.Get(model.UncertaintyEffects)),
		}, a.opts.PreferredTopic)
		if err != nil {
			return nil, nil, err
		}
		return t, gaps, nil

	case widget.NameCoefficients:
		ds, err := a.loader.Load(ctx, model.ModelCoefficients)
		if err != nil {
			return nil, nil, err
		}
		return widget.NewCoefficientToggle(model.Coefficients(ds)), nil, nil

	case widget.NameParties:
		ds, err := a.loader.Load(ctx, model.PartyRateByYear)
		if err != nil {
			return nil, nil, err
		}
		f, err := widget.NewPartyFilter(model.PartyRates(ds), a.opts.PartyLimit, a.opts.PartySeed)
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil

	case widget.NameMembers:
		set, err := a.loader.LoadSet(ctx, model.MemberHecklerSummary, model.MemberHeckledSummary)
		if err != nil {
			return nil, nil, err
		}
		m, err := widget.NewMemberLookup(map[model.Perspective][]model.MemberSummary{
			model.PerspectiveHeckler: model.MemberSummaries(set.Primary, model.PerspectiveHeckler),
			model.PerspectiveHeckled: model.MemberSummaries(set.Get(model.MemberHeckledSummary), model.PerspectiveHeckled),
		}, a.opts.MinTurns)
		if err != nil {
			return nil, nil, err
		}
		return m, nil, nil
	}
	return nil, nil, errUnknownWidget
}

var errUnknownWidget = errors.New("unknown widget")

// headline loads the two yearly tables. It reports false when both failed,
// leaving the static headline in place.
func (a *Article) headline(ctx context.Context) (analysis.Headline, bool) {
	set, err := a.loader.LoadSet(ctx, model.YearlyGenderGap, model.YearlyRateByGender)
	if err != nil {
		rates, rerr := a.loader.Load(ctx, model.YearlyRateByGender)
		if rerr != nil {
			return analysis.Headline{}, false
		}
		return analysis.Headlines(nil, model.GenderRates(rates)), true
	}
	return analysis.Headlines(model.YearlyGaps(set.Primary), model.GenderRates(set.Get(model.YearlyRateByGender))), true
}
