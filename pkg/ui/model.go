package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/heckleviz/pkg/analysis"
	"github.com/vanderheijden86/heckleviz/pkg/article"
	"github.com/vanderheijden86/heckleviz/pkg/debug"
	"github.com/vanderheijden86/heckleviz/pkg/metrics"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
	"github.com/vanderheijden86/heckleviz/pkg/scrolly"
	"github.com/vanderheijden86/heckleviz/pkg/watcher"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

// FileChangedMsg is sent when a dataset in the watched directory changes.
type FileChangedMsg struct{}

// ReloadedMsg carries the outcome of a wholesale article reload.
type ReloadedMsg struct {
	Applied bool
	Err     error
}

// storyFlushMsg runs the scroll recompute the story scheduled.
type storyFlushMsg struct{}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd reloads every mounted widget off the update loop.
func ReloadCmd(ctx context.Context, a *article.Article) tea.Cmd {
	return func() tea.Msg {
		ok, err := a.Reload(ctx)
		return ReloadedMsg{Applied: ok, Err: err}
	}
}

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 120
	defaultHeight = 40

	headerRows = 3
	footerRows = 4
)

// storyFlow is shared by every copy of the Model: the story's scheduler
// parks its pending recompute here and its layout samples the narrative
// viewport from here.
type storyFlow struct {
	mu       sync.Mutex
	fire     func()
	delay    time.Duration
	sections []scrolly.Section
	offset   int
	height   int
}

func (f *storyFlow) schedule(d time.Duration, fire func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fire = fire
	f.delay = d
}

func (f *storyFlow) take() (func(), time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fire, d := f.fire, f.delay
	f.fire = nil
	return fire, d
}

func (f *storyFlow) layout() ([]scrolly.Section, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]scrolly.Section, len(f.sections))
	for i, s := range f.sections {
		out[i] = scrolly.Section{Top: s.Top - float64(f.offset), Bottom: s.Bottom - float64(f.offset)}
	}
	return out, float64(f.height)
}

func (f *storyFlow) sample(sections []scrolly.Section, offset, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sections != nil {
		f.sections = sections
	}
	f.offset = offset
	f.height = height
}

func (f *storyFlow) top(i int) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.sections) {
		return 0, false
	}
	return int(f.sections[i].Top), true
}

// Option configures a Model.
type Option func(*Model)

// WithWatcher reloads the article whenever w reports a change.
func WithWatcher(w *watcher.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithContext sets the context reloads run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithAnchor sets the narrative reading line as a fraction of its height.
func WithAnchor(ratio float64) Option {
	return func(m *Model) { m.anchor = ratio }
}

// WithTheme overrides the detected theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// Model is the article TUI: one tab per mounted widget with the narrative
// chapters in a scrollable side panel.
type Model struct {
	ctx     context.Context
	art     *article.Article
	watcher *watcher.Watcher
	theme   Theme
	anchor  float64

	story    *scrolly.Story
	chapters []scrolly.Chapter
	flow     *storyFlow

	tabs        []string
	active      int
	partyCursor int

	search    textinput.Model
	searching bool

	narrative     viewport.Model
	showNarrative bool
	chunks        []string
	mdWidth       int

	help    help.Model
	tooltip string
	status  string
	isError bool

	width, height int
}

// NewModel builds the TUI over a loaded article.
func NewModel(a *article.Article, chapters []scrolly.Chapter, opts ...Option) Model {
	m := Model{
		ctx:           context.Background(),
		art:           a,
		theme:         DefaultTheme(lipgloss.DefaultRenderer()),
		anchor:        scrolly.AnchorRatio,
		chapters:      chapters,
		flow:          &storyFlow{},
		showNarrative: len(chapters) > 0,
		help:          help.New(),
		width:         defaultWidth,
		height:        defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.story = scrolly.NewStory(chapters,
		scrolly.WithAnchor(m.anchor),
		scrolly.WithScheduler(m.flow.schedule),
		scrolly.WithLayout(m.flow.layout),
	)

	ti := textinput.New()
	ti.Placeholder = "name or id"
	ti.Prompt = "search: "
	ti.CharLimit = 64
	m.search = ti

	m.narrative = viewport.New(m.narrativeWidth(), m.bodyRows())
	m.refreshTabs()
	m.layoutNarrative()
	if len(m.tabs) > 0 {
		m.story.SelectNav(m.tabs[0])
		m.syncFromStory()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layoutNarrative()
		m.story.Scrolled()
		return m, m.flushCmd()

	case FileChangedMsg:
		m.setStatus("data changed, reloading", false)
		cmds := []tea.Cmd{ReloadCmd(m.ctx, m.art)}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case ReloadedMsg:
		switch {
		case msg.Err != nil:
			m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err), true)
		case msg.Applied:
			m.refreshTabs()
			m.clampPartyCursor()
			m.setStatus("reloaded", false)
		}
		return m, nil

	case storyFlushMsg:
		if fire, _ := m.flow.take(); fire != nil {
			fire()
		}
		m.syncFromStory()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.tooltip = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Next):
		m.selectTab(m.active + 1)
		return m, nil
	case key.Matches(msg, keys.Prev):
		m.selectTab(m.active - 1)
		return m, nil
	case key.Matches(msg, keys.Reload):
		m.setStatus("reloading", false)
		return m, ReloadCmd(m.ctx, m.art)
	case key.Matches(msg, keys.Narrative):
		if len(m.chapters) > 0 {
			m.showNarrative = !m.showNarrative
			m.layoutNarrative()
		}
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copyCaption()
		return m, nil
	case key.Matches(msg, keys.NextChapter):
		m.clickChapter(m.story.Active() + 1)
		return m, nil
	case key.Matches(msg, keys.PrevChapter):
		m.clickChapter(m.story.Active() - 1)
		return m, nil
	}

	if m.showNarrative {
		switch {
		case key.Matches(msg, keys.ScrollDown):
			m.scrollNarrative(scrollStep(msg, m.narrative.Height))
			return m, m.flushCmd()
		case key.Matches(msg, keys.ScrollUp):
			m.scrollNarrative(-scrollStep(msg, m.narrative.Height))
			return m, m.flushCmd()
		}
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		m.selectTab(int(s[0] - '1'))
		return m, nil
	}

	w, ok := m.current()
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	switch c := w.(type) {
	case *widget.TopicExplorer:
		m.topicKey(c, msg)
	case *widget.CoefficientToggle:
		if key.Matches(msg, keys.Metric) {
			models := widget.Models()
			m.dispatch(c, widget.SelectModel{Model: models[wrap(indexOf(models, c.Model())+1, len(models))]})
		}
	case *widget.PartyFilter:
		m.partyKey(c, msg)
	case *widget.MemberLookup:
		cmd = m.memberKey(c, msg)
	}
	return m, cmd
}

func scrollStep(msg tea.KeyMsg, page int) int {
	switch msg.String() {
	case "pgdown", "pgup":
		return max(page-1, 1)
	}
	return 1
}

func (m *Model) topicKey(c *widget.TopicExplorer, msg tea.KeyMsg) {
	st := c.State()
	switch {
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		if !c.ControlsVisible() {
			return
		}
		cats := c.Categories()
		if len(cats) == 0 {
			return
		}
		i := indexOf(cats, st.Active)
		if key.Matches(msg, keys.Left) {
			i--
		} else {
			i++
		}
		m.dispatch(c, widget.SelectCategory{Category: cats[wrap(i, len(cats))]})
	case key.Matches(msg, keys.View):
		next := widget.ViewCompare
		if st.View == widget.ViewCompare {
			next = widget.ViewFocus
		}
		m.dispatch(c, widget.SelectView{Mode: next})
	case key.Matches(msg, keys.Metric):
		metrics := widget.Metrics()
		i := indexOf(metrics, st.Metric)
		m.dispatch(c, widget.SelectMetric{Mode: metrics[wrap(i+1, len(metrics))]})
	}
}

func (m *Model) partyKey(c *widget.PartyFilter, msg tea.KeyMsg) {
	parties := c.Parties()
	if len(parties) == 0 {
		return
	}
	switch {
	case key.Matches(msg, keys.Left):
		m.partyCursor = wrap(m.partyCursor-1, len(parties))
	case key.Matches(msg, keys.Right):
		m.partyCursor = wrap(m.partyCursor+1, len(parties))
	case key.Matches(msg, keys.Toggle):
		m.clampPartyCursor()
		m.dispatch(c, widget.ToggleCategory{Category: parties[m.partyCursor]})
	}
}

func (m *Model) memberKey(c *widget.MemberLookup, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(c.Query())
		m.search.CursorEnd()
		return m.search.Focus()
	case key.Matches(msg, keys.Clear):
		m.search.SetValue("")
		m.dispatch(c, widget.ClearQuery{})
	case key.Matches(msg, keys.Sort):
		ks := rank.Keys()
		i := indexOf(ks, c.Order().Key)
		m.dispatch(c, widget.SortColumn{Key: ks[wrap(i+1, len(ks))]})
	case key.Matches(msg, keys.Perspective):
		ps := c.Perspectives()
		if len(ps) < 2 {
			return nil
		}
		i := indexOf(ps, c.Perspective())
		m.dispatch(c, widget.SelectPerspective{Perspective: ps[wrap(i+1, len(ps))]})
	}
	return nil
}

// handleSearchKey feeds the search box. Every edit re-runs the query.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c, ok := m.currentMembers()
	if !ok {
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.dispatch(c, widget.ClearQuery{})
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != c.Query() {
		m.dispatch(c, widget.SetQuery{Query: v})
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showNarrative && msg.X < m.narrativeWidth() {
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.scrollNarrative(1)
			return m, m.flushCmd()
		case tea.MouseButtonWheelUp:
			m.scrollNarrative(-1)
			return m, m.flushCmd()
		}
		return m, nil
	}
	w, ok := m.current()
	if !ok {
		return m, nil
	}
	t, ok := w.(*widget.TopicExplorer)
	if !ok {
		return m, nil
	}
	s := t.Render()
	x, y, inside := m.toScene(s, msg.X, msg.Y)
	if !inside {
		m.tooltip = ""
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		m.tooltip, _ = t.Tooltip(x, y)
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dispatch(t, widget.SelectPoint{X: x, Y: y})
		}
	}
	return m, nil
}

// toScene maps a terminal cell to scene coordinates at the cell center.
func (m Model) toScene(s *scene.Scene, col, row int) (float64, float64, bool) {
	x0, y0, cols, rows := m.chartBox()
	col -= x0
	row -= y0
	if s == nil || col < 0 || row < 0 || col >= cols || row >= rows {
		return 0, 0, false
	}
	return (float64(col) + 0.5) * s.Width / float64(cols),
		(float64(row) + 0.5) * s.Height / float64(rows), true
}

func (m *Model) dispatch(w widget.Controller, ev widget.Event) {
	if err := w.HandleEvent(ev); err != nil {
		debug.Log("%s: %T: %v", w.Name(), ev, err)
		m.setStatus(err.Error(), true)
		return
	}
	m.status = ""
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.isError = isErr
}

func (m *Model) copyCaption() {
	w, ok := m.current()
	if !ok {
		return
	}
	text := w.Caption()
	if c, ok := w.(*widget.MemberLookup); ok {
		if top, ok := c.Result().Top(); ok {
			text = rank.Summary(top, c.Perspective())
		}
	}
	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus(fmt.Sprintf("clipboard error: %v", err), true)
		return
	}
	m.setStatus("copied to clipboard", false)
}

func (m *Model) refreshTabs() {
	m.tabs = m.tabs[:0]
	for _, w := range m.art.Widgets() {
		m.tabs = append(m.tabs, w.Name())
	}
	if m.active >= len(m.tabs) {
		m.active = 0
	}
}

func (m *Model) selectTab(i int) {
	if len(m.tabs) == 0 {
		return
	}
	if i < 0 || i >= len(m.tabs) {
		i = wrap(i, len(m.tabs))
	}
	m.active = i
	m.story.SelectNav(m.tabs[i])
	m.syncFromStory()
	m.revealChapter(m.story.Active())
}

func (m *Model) clickChapter(i int) {
	if err := m.story.Click(i); err != nil {
		return
	}
	m.syncFromStory()
	m.revealChapter(i)
}

// syncFromStory selects the tab of the story's active chart.
func (m *Model) syncFromStory() {
	if i := indexOf(m.tabs, m.story.ActiveChart()); i >= 0 {
		m.active = i
	}
	m.renderNarrative()
}

func (m *Model) revealChapter(i int) {
	if !m.showNarrative {
		return
	}
	if top, ok := m.flow.top(i); ok {
		m.narrative.SetYOffset(top)
		m.flow.sample(nil, m.narrative.YOffset, m.narrative.Height)
	}
}

func (m *Model) scrollNarrative(n int) {
	m.narrative.SetYOffset(m.narrative.YOffset + n)
	m.flow.sample(nil, m.narrative.YOffset, m.narrative.Height)
	m.story.Scrolled()
}

// flushCmd turns a scheduled recompute into a tick on the update loop.
func (m Model) flushCmd() tea.Cmd {
	m.flow.mu.Lock()
	pending, d := m.flow.fire != nil, m.flow.delay
	m.flow.mu.Unlock()
	if !pending {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return storyFlushMsg{} })
}

func (m *Model) clampPartyCursor() {
	if c, ok := m.current(); ok {
		if p, ok := c.(*widget.PartyFilter); ok {
			if n := len(p.Parties()); m.partyCursor >= n {
				m.partyCursor = max(n-1, 0)
			}
		}
	}
}

func (m Model) current() (widget.Controller, bool) {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil, false
	}
	return m.art.Widget(m.tabs[m.active])
}

func (m Model) currentMembers() (*widget.MemberLookup, bool) {
	w, ok := m.current()
	if !ok {
		return nil, false
	}
	c, ok := w.(*widget.MemberLookup)
	return c, ok
}

// ActiveWidget returns the name of the selected tab.
func (m Model) ActiveWidget() string {
	if m.active < 0 || m.active >= len(m.tabs) {
		return ""
	}
	return m.tabs[m.active]
}

// ActiveChapter returns the story's active chapter index.
func (m Model) ActiveChapter() int { return m.story.Active() }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// ── layout ─────────────────────────────────────────────────────────────────

func (m Model) narrativeWidth() int {
	if !m.showNarrative {
		return 0
	}
	return max(m.width*2/5, 20)
}

func (m Model) bodyRows() int {
	return max(m.height-headerRows-footerRows, 4)
}

// chartBox is the cell rectangle the chart is drawn into.
func (m Model) chartBox() (x, y, cols, rows int) {
	x = 0
	if m.showNarrative {
		x = m.narrativeWidth() + 1
	}
	return x, headerRows, max(m.width-x, 10), m.bodyRows()
}

// layoutNarrative renders each chapter once per width and records the line
// span of every chapter for the scroll resolver.
func (m *Model) layoutNarrative() {
	m.narrative.Width = m.narrativeWidth()
	m.narrative.Height = m.bodyRows()
	if !m.showNarrative || len(m.chapters) == 0 {
		m.flow.sample([]scrolly.Section{}, 0, m.narrative.Height)
		return
	}
	wrapAt := max(m.narrative.Width-4, 10)
	if wrapAt != m.mdWidth || m.chunks == nil {
		m.chunks = renderChapters(m.chapters, wrapAt)
		m.mdWidth = wrapAt
	}
	sections := make([]scrolly.Section, len(m.chunks))
	line := 0
	for i, c := range m.chunks {
		n := strings.Count(c, "\n") + 1
		sections[i] = scrolly.Section{Top: float64(line), Bottom: float64(line + n)}
		line += n
	}
	m.flow.sample(sections, m.narrative.YOffset, m.narrative.Height)
	m.renderNarrative()
}

func (m *Model) renderNarrative() {
	if len(m.chunks) == 0 {
		return
	}
	active := m.story.Active()
	parts := make([]string, len(m.chunks))
	for i, c := range m.chunks {
		st := m.theme.ChapterOff
		if i == active {
			st = m.theme.ChapterOn
		}
		parts[i] = st.Render(c)
	}
	offset := m.narrative.YOffset
	m.narrative.SetContent(strings.Join(parts, "\n"))
	m.narrative.SetYOffset(offset)
}

func renderChapters(chapters []scrolly.Chapter, width int) []string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	out := make([]string, len(chapters))
	for i, c := range chapters {
		md := fmt.Sprintf("## %s\n\n%s\n", c.Title, strings.TrimSpace(c.Body))
		if err == nil {
			if s, rerr := r.Render(md); rerr == nil {
				out[i] = strings.Trim(s, "\n")
				continue
			}
		}
		out[i] = strings.TrimSpace(c.Title + "\n\n" + c.Body)
	}
	return out
}

// ── view ───────────────────────────────────────────────────────────────────

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	var sb strings.Builder
	sb.WriteString(m.headerView())
	sb.WriteByte('\n')
	sb.WriteString(m.tabsView())
	sb.WriteByte('\n')

	w, ok := m.current()
	if !ok {
		sb.WriteString(m.theme.MutedText.Render("No widgets mounted."))
		return sb.String()
	}
	sb.WriteString(m.controlsView(w))
	sb.WriteByte('\n')

	body := m.chartView(w)
	if m.showNarrative {
		left := lipgloss.NewStyle().Width(m.narrativeWidth()).Render(m.narrative.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", body)
	}
	sb.WriteString(body)
	sb.WriteByte('\n')
	sb.WriteString(m.captionView(w))
	sb.WriteByte('\n')
	sb.WriteString(m.statusView())
	sb.WriteByte('\n')
	sb.WriteString(m.help.View(keys))
	return sb.String()
}

func (m Model) headerView() string {
	snap := m.art.Snapshot()
	title := "heckleviz"
	if snap.HeadlineOK {
		title = fmt.Sprintf("heckleviz · %s interjections · mean gap %s",
			analysis.FormatEvents(snap.Headline.Events), snap.Headline.FormatGap())
	}
	return m.theme.Header.Render(truncateRunesHelper(title, max(m.width-2, 1), "…"))
}

func (m Model) tabsView() string {
	parts := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == m.active {
			parts[i] = m.theme.ActiveTab.Render(label)
		} else {
			parts[i] = m.theme.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) controlsView(w widget.Controller) string {
	muted := m.theme.MutedText
	sel := m.theme.Selected
	switch c := w.(type) {
	case *widget.TopicExplorer:
		st := c.State()
		var parts []string
		if c.ControlsVisible() {
			parts = append(parts, "◀ "+sel.Render(st.Active)+" ▶", muted.Render("view: ")+string(st.View))
		}
		parts = append(parts, muted.Render("metric: ")+sel.Render(string(st.Metric)))
		return strings.Join(parts, "   ")
	case *widget.CoefficientToggle:
		s := muted.Render("model: ") + sel.Render(c.Model())
		if c.Fallback() {
			s += muted.Render("  (static image " + c.Image() + ")")
		}
		return s
	case *widget.PartyFilter:
		colors := c.Colors()
		var parts []string
		for i, p := range c.Parties() {
			item := RenderSwatch(m.theme.Renderer, colors.Color(p), c.IsActive(p)) + " " + p
			if i == m.partyCursor {
				item = sel.Render("[") + item + sel.Render("]")
			} else {
				item = " " + item + " "
			}
			parts = append(parts, item)
		}
		return strings.Join(parts, " ")
	case *widget.MemberLookup:
		sort := "rank"
		if o := c.Order(); !o.IsZero() {
			sort = fmt.Sprintf("%s %s", o.Key, arrow(o.Desc))
		}
		search := muted.Render("/ to search")
		if m.searching {
			search = m.search.View()
		} else if q := c.Query(); q != "" {
			search = muted.Render("search: ") + sel.Render(q)
		}
		return fmt.Sprintf("%s%s   %s%s   %s",
			muted.Render("perspective: "), sel.Render(string(c.Perspective())),
			muted.Render("sort: "), sort, search)
	case *widget.Fallback:
		return m.theme.ErrorText.Render("data unavailable")
	}
	return ""
}

func arrow(desc bool) string {
	if desc {
		return "▼"
	}
	return "▲"
}

func (m Model) chartView(w widget.Controller) string {
	_, _, cols, rows := m.chartBox()
	if c, ok := w.(*widget.MemberLookup); ok {
		return m.memberTable(c, cols, rows)
	}
	return Rasterize(w.Render(), cols, rows).Render(m.theme.Renderer)
}

// memberTable renders the lookup result natively rather than rasterizing
// the table scene, so names stay legible at any width.
func (m Model) memberTable(c *widget.MemberLookup, cols, rows int) string {
	res := c.Result()
	p := c.Perspective()
	numW := 8
	nameW := max(cols-4-1-6-1-3*(numW+1), 8)

	header := padLeft("#", 4) + " " + cell("Name", nameW) + " " + cell("Party", 6) + " " +
		padLeft("Turns", numW) + " " + padLeft(titleCase(p.CountLabel()), numW) + " " + padLeft("Rate", numW)
	lines := []string{m.theme.Selected.Render(truncateRunesHelper(header, cols, ""))}

	for _, r := range res.Rows {
		if len(lines) >= rows {
			break
		}
		line := padLeft(fmt.Sprintf("%d", r.Rank), 4) + " " + cell(r.Name, nameW) + " " + cell(r.Party, 6) + " " +
			padLeft(analysis.FormatEvents(int(r.Turns)), numW) + " " +
			padLeft(analysis.FormatEvents(int(r.Count)), numW) + " " +
			padLeft(fmt.Sprintf("%.1f", r.Rate), numW)
		line = truncateRunesHelper(line, cols, "")
		if r.Hit {
			line = m.theme.HitRow.Render(padRight(line, cols))
		}
		lines = append(lines, line)
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m Model) captionView(w widget.Controller) string {
	text := w.Caption()
	if m.tooltip != "" {
		text = m.tooltip
	}
	if f, ok := w.(*widget.Fallback); ok && f.Image() != "" {
		text += " (" + f.Image() + ")"
	}
	return m.theme.Caption.Render(truncateRunesHelper(text, max(m.width, 1), "…"))
}

func (m Model) statusView() string {
	if m.status == "" {
		var parts []string
		if failed := m.art.Snapshot().FailedNames; len(failed) > 0 {
			parts = append(parts, "unavailable: "+strings.Join(failed, ", "))
		}
		if m.watcher != nil {
			parts = append(parts, "watching "+m.watcher.Dir())
		}
		return m.theme.Status.Render(strings.Join(parts, " · "))
	}
	if m.isError {
		return m.theme.ErrorText.Render(m.status)
	}
	return m.theme.StatText.Render(m.status)
}

func indexOf[T comparable](xs []T, v T) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
