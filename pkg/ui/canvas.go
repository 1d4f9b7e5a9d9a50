package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/heckleviz/pkg/render"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// Glyphs used when rasterizing a scene onto the terminal grid.
const (
	glyphHLine      = '─'
	glyphVLine      = '│'
	glyphHDash      = '┄'
	glyphVDash      = '┆'
	glyphDiagonal   = '·'
	glyphSeries     = '•'
	glyphSeriesFade = '·'
	glyphPoint      = '●'
	glyphPointFade  = '∘'
	glyphSwatch     = '■'
	glyphFill       = '█'
	glyphFillFade   = '░'
)

// Canvas is a character grid with one foreground color per cell.
type Canvas struct {
	cols, rows int
	cells      [][]rune
	colors     [][]string
}

// NewCanvas returns a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c := &Canvas{cols: cols, rows: rows}
	c.cells = make([][]rune, rows)
	c.colors = make([][]string, rows)
	for r := range c.cells {
		c.cells[r] = []rune(strings.Repeat(" ", cols))
		c.colors[r] = make([]string, cols)
	}
	return c
}

// Size returns the grid dimensions.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// At returns the rune at a cell, or a space outside the grid.
func (c *Canvas) At(col, row int) rune {
	if !c.inside(col, row) {
		return ' '
	}
	return c.cells[row][col]
}

// ColorAt returns the color of a cell.
func (c *Canvas) ColorAt(col, row int) string {
	if !c.inside(col, row) {
		return ""
	}
	return c.colors[row][col]
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *Canvas) set(col, row int, r rune, color string) {
	if !c.inside(col, row) {
		return
	}
	c.cells[row][col] = r
	c.colors[row][col] = color
}

// Lines returns the grid as plain text, trailing spaces trimmed.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	for r, row := range c.cells {
		out[r] = strings.TrimRight(string(row), " ")
	}
	return out
}

// String joins Lines with newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// Render returns the grid with runs of equal color styled through r.
func (c *Canvas) Render(r *lipgloss.Renderer) string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.colors[row][col] == c.colors[row][start] {
				continue
			}
			run := string(c.cells[row][start:col])
			if color := c.colors[row][start]; color != "" && strings.TrimSpace(run) != "" {
				run = r.NewStyle().Foreground(ThemeFg(color)).Render(run)
			}
			sb.WriteString(run)
			start = col
		}
	}
	return sb.String()
}

// Rasterize paints a scene onto a cols x rows grid. Canvas coordinates are
// scaled independently on each axis; paint order is preserved so later
// primitives overwrite earlier ones.
func Rasterize(s *scene.Scene, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return c
	}
	p := projector{sx: float64(c.cols) / s.Width, sy: float64(c.rows) / s.Height}
	for _, e := range s.Elements {
		switch e.Kind {
		case scene.KindRect:
			c.rect(p, e)
		case scene.KindLine:
			c.line(p, e)
		case scene.KindPolyline:
			c.polyline(p, e)
		case scene.KindCircle:
			glyph := glyphPoint
			if e.Style.Alpha() < 0.5 {
				glyph = glyphPointFade
			}
			col, row := p.cell(e.X, e.Y)
			c.set(col, row, glyph, paint(e.Style.Fill, e.Style.Stroke))
		case scene.KindText:
			c.text(p, e)
		}
	}
	return c
}

type projector struct{ sx, sy float64 }

func (p projector) cell(x, y float64) (int, int) {
	return int(math.Floor(x * p.sx)), int(math.Floor(y * p.sy))
}

func paint(primary, fallback string) string {
	if primary != "" && primary != "none" {
		return primary
	}
	if fallback == "none" {
		return ""
	}
	return fallback
}

func (c *Canvas) rect(p projector, e scene.Element) {
	if e.Class == render.ClassBackground || e.Class == render.ClassHitRow {
		return
	}
	color := paint(e.Style.Fill, e.Style.Stroke)
	if color == "" {
		return
	}
	c0, r0 := p.cell(e.X, e.Y)
	c1, r1 := p.cell(e.X+e.W, e.Y+e.H)
	if c1-c0 < 2 && r1-r0 < 2 {
		c.set((c0+c1)/2, (r0+r1)/2, glyphSwatch, color)
		return
	}
	if r1 == r0 {
		r1 = r0 + 1
	}
	glyph := glyphFill
	if e.Style.Alpha() < 0.5 {
		glyph = glyphFillFade
	}
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			c.set(col, row, glyph, color)
		}
	}
}

func (c *Canvas) line(p projector, e scene.Element) {
	color := paint(e.Style.Stroke, e.Style.Fill)
	c0, r0 := p.cell(e.X, e.Y)
	c1, r1 := p.cell(e.X2, e.Y2)
	dashed := len(e.Style.Dash) > 0
	switch {
	case r0 == r1:
		glyph := glyphHLine
		if dashed {
			glyph = glyphHDash
		}
		for col := min(c0, c1); col <= max(c0, c1); col++ {
			c.set(col, r0, glyph, color)
		}
	case c0 == c1:
		glyph := glyphVLine
		if dashed {
			glyph = glyphVDash
		}
		for row := min(r0, r1); row <= max(r0, r1); row++ {
			c.set(c0, row, glyph, color)
		}
	default:
		c.segment(c0, r0, c1, r1, glyphDiagonal, color)
	}
}

func (c *Canvas) polyline(p projector, e scene.Element) {
	if len(e.Points) == 0 {
		return
	}
	glyph := glyphSeries
	if e.Style.Alpha() < 0.5 {
		glyph = glyphSeriesFade
	}
	color := paint(e.Style.Stroke, e.Style.Fill)
	pc, pr := p.cell(e.Points[0].X, e.Points[0].Y)
	c.set(pc, pr, glyph, color)
	for _, pt := range e.Points[1:] {
		nc, nr := p.cell(pt.X, pt.Y)
		c.segment(pc, pr, nc, nr, glyph, color)
		pc, pr = nc, nr
	}
}

// segment draws a Bresenham line between two cells.
func (c *Canvas) segment(c0, r0, c1, r1 int, glyph rune, color string) {
	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	e := dc + dr
	for {
		c.set(c0, r0, glyph, color)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

func (c *Canvas) text(p projector, e scene.Element) {
	if e.Text == "" {
		return
	}
	col, row := p.cell(e.X, e.Y)
	// Baselines sit at the bottom of a glyph; pull them into the cell above
	// when they land exactly on a row boundary.
	if row > 0 && math.Mod(e.Y*p.sy, 1) == 0 {
		row--
	}
	w := runewidth.StringWidth(e.Text)
	switch e.Style.Anchor {
	case scene.AnchorMiddle:
		col -= w / 2
	case scene.AnchorEnd:
		col -= w
	}
	if col < 0 {
		col = 0
	}
	color := paint(e.Style.Fill, e.Style.Stroke)
	for _, r := range e.Text {
		c.set(col, row, r, color)
		col += max(runewidth.RuneWidth(r), 1)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
