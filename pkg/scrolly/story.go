package scrolly

import (
	"fmt"
	"sync"
)

// Chapter is one narrative step. Chart names what the sticky chart panel
// shows while the chapter is active.
type Chapter struct {
	ID    string `yaml:"id" json:"id"`
	Chart string `yaml:"chart" json:"chart"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// Layout samples the current chapter bounds and viewport height.
type Layout func() (sections []Section, viewportHeight float64)

// Option configures a Story.
type Option func(*Story)

// WithAnchor sets the reading line as a fraction of viewport height.
func WithAnchor(ratio float64) Option {
	return func(s *Story) { s.anchor = ratio }
}

// WithScheduler sets how coalesced recomputes are scheduled.
func WithScheduler(sch Scheduler) Option {
	return func(s *Story) { s.schedule = sch }
}

// WithLayout enables scroll-driven activation using the given sampler.
// Without a layout only clicks and navigation activate chapters.
func WithLayout(l Layout) Option {
	return func(s *Story) { s.layout = l }
}

// WithOnActivate sets the callback fired when the active chapter changes.
func WithOnActivate(fn func(Chapter)) Option {
	return func(s *Story) { s.onActivate = fn }
}

// Story binds chapters, the chart navigation and the scroll resolver.
type Story struct {
	mu          sync.Mutex
	chapters    []Chapter
	nav         []string
	activeChart string

	anchor     float64
	schedule   Scheduler
	layout     Layout
	onActivate func(Chapter)
	resolver   *Resolver
	coalescer  *Coalescer
}

// NewStory builds a story over chapters. The navigation lists each distinct
// chart once, in chapter order.
func NewStory(chapters []Chapter, opts ...Option) *Story {
	s := &Story{chapters: append([]Chapter(nil), chapters...)}
	for _, opt := range opts {
		opt(s)
	}
	seen := make(map[string]bool)
	for _, c := range s.chapters {
		if c.Chart != "" && !seen[c.Chart] {
			seen[c.Chart] = true
			s.nav = append(s.nav, c.Chart)
		}
	}
	s.resolver = NewResolver(s.anchor, s.activated)
	s.coalescer = NewCoalescer(FrameInterval, s.schedule, s.recompute)
	return s
}

// Nav returns the navigation entries.
func (s *Story) Nav() []string {
	return append([]string(nil), s.nav...)
}

// Active returns the active chapter index, -1 when none.
func (s *Story) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Active()
}

// ActiveChart returns the chart currently selected.
func (s *Story) ActiveChart() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChart
}

// Observing reports whether scroll samples drive activation.
func (s *Story) Observing() bool { return s.layout != nil }

// Scrolled requests a coalesced recompute after a scroll or resize. It is a
// no-op without a layout.
func (s *Story) Scrolled() {
	if s.layout == nil {
		return
	}
	s.coalescer.Request()
}

// Visible is the visibility observer hook: it only requests a recompute.
func (s *Story) Visible(int) { s.Scrolled() }

// Pending reports whether a recompute is scheduled.
func (s *Story) Pending() bool { return s.coalescer.Pending() }

// Click activates chapter i directly.
func (s *Story) Click(i int) error {
	if i < 0 || i >= len(s.chapters) {
		return fmt.Errorf("chapter %d out of range [0,%d)", i, len(s.chapters))
	}
	s.mu.Lock()
	changed := s.resolver.Set(i)
	s.mu.Unlock()
	if changed {
		s.notify(i)
	}
	return nil
}

// SelectNav selects a chart from the navigation and activates the first
// chapter showing it, if any.
func (s *Story) SelectNav(chart string) {
	idx := -1
	for i, c := range s.chapters {
		if c.Chart == chart {
			idx = i
			break
		}
	}
	s.mu.Lock()
	s.activeChart = chart
	changed := idx >= 0 && s.resolver.Set(idx)
	s.mu.Unlock()
	if changed {
		s.notify(idx)
	}
}

func (s *Story) recompute() {
	sections, h := s.layout()
	s.mu.Lock()
	prev := s.resolver.Active()
	s.resolver.Update(sections, h)
	next := s.resolver.Active()
	s.mu.Unlock()
	if next != prev {
		s.notify(next)
	}
}

// activated runs under s.mu from the resolver.
func (s *Story) activated(i int) {
	if i >= 0 && i < len(s.chapters) && s.chapters[i].Chart != "" {
		s.activeChart = s.chapters[i].Chart
	}
}

func (s *Story) notify(i int) {
	if s.onActivate != nil && i >= 0 && i < len(s.chapters) {
		s.onActivate(s.chapters[i])
	}
}
