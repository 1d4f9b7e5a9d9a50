package scene

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/heckleviz/pkg/metrics"
)

// EncodePNG rasterises the scene. Text uses the fixed basic font, so font
// sizes are approximate.
func EncodePNG(w io.Writer, s *Scene) error {
	defer metrics.Timer(metrics.SceneEncode)()

	dc := gg.NewContext(int(math.Ceil(s.Width)), int(math.Ceil(s.Height)))
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	inClip := false
	for _, e := range s.Elements {
		clipped := e.Clipped && s.Clip != nil
		if clipped != inClip {
			if clipped {
				dc.DrawRectangle(s.Clip.X, s.Clip.Y, s.Clip.W, s.Clip.H)
				dc.Clip()
			} else {
				dc.ResetClip()
			}
			inClip = clipped
		}
		drawElement(dc, e)
	}
	if inClip {
		dc.ResetClip()
	}
	return dc.EncodePNG(w)
}

func drawElement(dc *gg.Context, e Element) {
	st := e.Style
	alpha := st.Alpha()
	if len(st.Dash) > 0 {
		dc.SetDash(st.Dash...)
		defer dc.SetDash()
	}
	lw := st.StrokeWidth
	if lw <= 0 {
		lw = 1
	}
	dc.SetLineWidth(lw)

	switch e.Kind {
	case KindRect:
		dc.DrawRectangle(e.X, e.Y, e.W, e.H)
		fillStroke(dc, st, alpha)
	case KindLine:
		dc.DrawLine(e.X, e.Y, e.X2, e.Y2)
		strokeOnly(dc, st, alpha)
	case KindPolyline:
		if len(e.Points) == 0 {
			return
		}
		dc.NewSubPath()
		dc.MoveTo(e.Points[0].X, e.Points[0].Y)
		for _, p := range e.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		strokeOnly(dc, st, alpha)
	case KindCircle:
		dc.DrawCircle(e.X, e.Y, e.R)
		fillStroke(dc, st, alpha)
	case KindText:
		c := ParseColor(st.Fill, color.RGBA{0x33, 0x33, 0x33, 0xff})
		dc.SetColor(withAlpha(c, alpha))
		ax := 0.0
		switch st.Anchor {
		case AnchorMiddle:
			ax = 0.5
		case AnchorEnd:
			ax = 1
		}
		dc.DrawStringAnchored(e.Text, e.X, e.Y, ax, 0)
	}
}

func fillStroke(dc *gg.Context, st Style, alpha float64) {
	hasFill := st.Fill != "" && st.Fill != "none"
	hasStroke := st.Stroke != "" && st.Stroke != "none"
	if hasFill {
		dc.SetColor(withAlpha(ParseColor(st.Fill, color.Black), alpha))
		if hasStroke {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if hasStroke {
		dc.SetColor(withAlpha(ParseColor(st.Stroke, color.Black), alpha))
		dc.Stroke()
	}
	if !hasFill && !hasStroke {
		dc.ClearPath()
	}
}

func strokeOnly(dc *gg.Context, st Style, alpha float64) {
	dc.SetColor(withAlpha(ParseColor(st.Stroke, color.Black), alpha))
	dc.Stroke()
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * alpha))}
}

// ParseColor parses "#rgb" or "#rrggbb", returning fallback on failure.
func ParseColor(s string, fallback color.Color) color.RGBA {
	if fallback == nil {
		fallback = color.Black
	}
	fb := color.RGBAModel.Convert(fallback).(color.RGBA)
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	}
	if len(s) != 6 {
		return fb
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fb
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
