// Package scene is the vector-graphics description produced by the chart
// renderers: an ordered list of typed primitives on a fixed-size canvas.
// Primitives may carry addressable metadata so a controller can resolve
// hover and click positions after rendering; the scene itself knows nothing
// about interaction. Encoders turn a scene into SVG or PNG.
package scene

import (
	"math"
)

// Kind identifies a primitive.
type Kind string

const (
	KindRect     Kind = "rect"
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindCircle   Kind = "circle"
	KindText     Kind = "text"
)

// Anchor is the horizontal text alignment.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Pt is a canvas coordinate.
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style holds paint attributes. Zero values mean "not set" except Opacity,
// where zero is treated as fully opaque.
type Style struct {
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
	Opacity     float64   `json:"opacity,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	FontSize    float64   `json:"font_size,omitempty"`
	Anchor      Anchor    `json:"anchor,omitempty"`
	Bold        bool      `json:"bold,omitempty"`
}

// Alpha returns the effective opacity.
func (s Style) Alpha() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// Meta is the addressable payload of a primitive: which category and data
// point it represents.
type Meta struct {
	Category string  `json:"category"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Label    string  `json:"label,omitempty"`
}

// Element is a single drawing primitive. Field use depends on Kind:
// rect uses X, Y, W, H; line uses X, Y, X2, Y2; circle uses X, Y, R; text
// uses X, Y, Text; polyline uses Points.
type Element struct {
	Kind    Kind    `json:"kind"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	X2      float64 `json:"x2,omitempty"`
	Y2      float64 `json:"y2,omitempty"`
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
	R       float64 `json:"r,omitempty"`
	Points  []Pt    `json:"points,omitempty"`
	Text    string  `json:"text,omitempty"`
	Title   string  `json:"title,omitempty"`
	Class   string  `json:"class,omitempty"`
	Style   Style   `json:"style"`
	Meta    *Meta   `json:"meta,omitempty"`
	Clipped bool    `json:"clipped,omitempty"`
}

// WithMeta attaches addressable metadata.
func (e Element) WithMeta(m Meta) Element {
	e.Meta = &m
	return e
}

// WithClass sets the element class.
func (e Element) WithClass(c string) Element {
	e.Class = c
	return e
}

// WithTitle sets tooltip text.
func (e Element) WithTitle(t string) Element {
	e.Title = t
	return e
}

// Clip marks the element as clipped to the scene's plot box.
func (e Element) Clip() Element {
	e.Clipped = true
	return e
}

// Rect builds a rectangle.
func Rect(x, y, w, h float64, st Style) Element {
	return Element{Kind: KindRect, X: x, Y: y, W: w, H: h, Style: st}
}

// Line builds a straight line.
func Line(x1, y1, x2, y2 float64, st Style) Element {
	return Element{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, Style: st}
}

// Polyline builds an open path through pts.
func Polyline(pts []Pt, st Style) Element {
	cp := make([]Pt, len(pts))
	copy(cp, pts)
	return Element{Kind: KindPolyline, Points: cp, Style: st}
}

// Circle builds a circle.
func Circle(cx, cy, r float64, st Style) Element {
	return Element{Kind: KindCircle, X: cx, Y: cy, R: r, Style: st}
}

// Text builds a text label anchored at (x, y) baseline.
func Text(x, y float64, s string, st Style) Element {
	return Element{Kind: KindText, X: x, Y: y, Text: s, Style: st}
}

// Box is an axis-aligned rectangle.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the point lies in the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Scene is a complete chart description.
type Scene struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Title    string    `json:"title,omitempty"`
	Clip     *Box      `json:"clip,omitempty"`
	Elements []Element `json:"elements"`
}

// New returns an empty scene of the given size.
func New(w, h float64) *Scene {
	return &Scene{Width: w, Height: h}
}

// Add appends elements in paint order.
func (s *Scene) Add(els ...Element) {
	s.Elements = append(s.Elements, els...)
}

// SetClip sets the box that clipped elements are confined to.
func (s *Scene) SetClip(b Box) {
	s.Clip = &b
}

// Len returns the number of elements.
func (s *Scene) Len() int { return len(s.Elements) }

// ByKind returns the elements of one kind in paint order.
func (s *Scene) ByKind(k Kind) []Element {
	var out []Element
	for _, e := range s.Elements {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// ByClass returns the elements with the given class in paint order.
func (s *Scene) ByClass(c string) []Element {
	var out []Element
	for _, e := range s.Elements {
		if e.Class == c {
			out = append(out, e)
		}
	}
	return out
}

// Texts returns every text string in paint order.
func (s *Scene) Texts() []string {
	var out []string
	for _, e := range s.Elements {
		if e.Kind == KindText {
			out = append(out, e.Text)
		}
	}
	return out
}

// HitSlack widens circle hit targets so small markers stay clickable.
const HitSlack = 3.0

// HitTest returns the metadata of the topmost addressable circle under
// (x, y), or nil when nothing addressable is there.
func (s *Scene) HitTest(x, y float64) *Meta {
	for i := len(s.Elements) - 1; i >= 0; i-- {
		e := s.Elements[i]
		if e.Meta == nil || e.Kind != KindCircle {
			continue
		}
		if math.Hypot(x-e.X, y-e.Y) <= e.R+HitSlack {
			m := *e.Meta
			return &m
		}
	}
	return nil
}

// Addressable returns the metadata of every addressable element.
func (s *Scene) Addressable() []Meta {
	var out []Meta
	for _, e := range s.Elements {
		if e.Meta != nil {
			out = append(out, *e.Meta)
		}
	}
	return out
}
