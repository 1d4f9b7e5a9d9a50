package scene

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ajstarks/svgo"

	"github.com/vanderheijden86/heckleviz/pkg/metrics"
)

// svgUnit is the number of SVG user units per scene unit. svgo works in
// integers, so coordinates are scaled up and the viewBox scales them back,
// keeping a tenth of a unit of precision.
const svgUnit = 10

const fontFamily = "Georgia, serif"

const clipID = "plot-clip"

func u(v float64) int {
	return int(math.Round(v * svgUnit))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeSVG writes the scene as a standalone SVG document.
func EncodeSVG(w io.Writer, s *Scene) error {
	defer metrics.Timer(metrics.SceneEncode)()

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	width, height := int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
	canvas.Startview(width, height, 0, 0, width*svgUnit, height*svgUnit)
	if s.Title != "" {
		canvas.Title(s.Title)
	}
	if s.Clip != nil {
		canvas.Def()
		canvas.ClipPath(fmt.Sprintf(`id="%s"`, clipID))
		canvas.Rect(u(s.Clip.X), u(s.Clip.Y), u(s.Clip.W), u(s.Clip.H))
		canvas.ClipEnd()
		canvas.DefEnd()
	}

	inClip := false
	for _, e := range s.Elements {
		clipped := e.Clipped && s.Clip != nil
		if clipped != inClip {
			if clipped {
				canvas.Group(fmt.Sprintf(`clip-path="url(#%s)"`, clipID))
			} else {
				canvas.Gend()
			}
			inClip = clipped
		}
		writeElement(canvas, e)
	}
	if inClip {
		canvas.Gend()
	}
	canvas.End()
	return ew.err
}

func writeElement(canvas *svg.SVG, e Element) {
	attrs := elementAttrs(e)
	if e.Title != "" {
		canvas.Group()
		canvas.Title(e.Title)
		defer canvas.Gend()
	}
	switch e.Kind {
	case KindRect:
		canvas.Rect(u(e.X), u(e.Y), u(e.W), u(e.H), attrs...)
	case KindLine:
		canvas.Line(u(e.X), u(e.Y), u(e.X2), u(e.Y2), attrs...)
	case KindPolyline:
		xs := make([]int, len(e.Points))
		ys := make([]int, len(e.Points))
		for i, p := range e.Points {
			xs[i], ys[i] = u(p.X), u(p.Y)
		}
		canvas.Polyline(xs, ys, attrs...)
	case KindCircle:
		canvas.Circle(u(e.X), u(e.Y), u(e.R), attrs...)
	case KindText:
		canvas.Text(u(e.X), u(e.Y), e.Text, attrs...)
	}
}

// elementAttrs returns svgo attribute strings: entries containing '=' are
// written as attributes, the rest as the style attribute.
func elementAttrs(e Element) []string {
	var attrs []string
	if e.Class != "" {
		attrs = append(attrs, fmt.Sprintf(`class="%s"`, html.EscapeString(e.Class)))
	}
	if e.Meta != nil {
		attrs = append(attrs,
			fmt.Sprintf(`data-category="%s"`, html.EscapeString(e.Meta.Category)),
			fmt.Sprintf(`data-x="%s"`, num(e.Meta.X)),
			fmt.Sprintf(`data-y="%s"`, num(e.Meta.Y)),
		)
	}
	if st := cssStyle(e.Kind, e.Style); st != "" {
		attrs = append(attrs, st)
	}
	return attrs
}

func cssStyle(k Kind, st Style) string {
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}
	switch {
	case st.Fill != "":
		add("fill:%s", st.Fill)
	case k == KindPolyline || k == KindLine:
		add("fill:none")
	}
	if st.Stroke != "" {
		add("stroke:%s", st.Stroke)
	}
	if st.StrokeWidth > 0 {
		add("stroke-width:%s", num(st.StrokeWidth*svgUnit))
	}
	if a := st.Alpha(); a < 1 {
		add("opacity:%s", num(a))
	}
	if len(st.Dash) > 0 {
		ds := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			ds[i] = num(d * svgUnit)
		}
		add("stroke-dasharray:%s", strings.Join(ds, " "))
	}
	if k == KindText {
		size := st.FontSize
		if size <= 0 {
			size = 12
		}
		add("font-size:%spx", num(size*svgUnit))
		add("font-family:%s", fontFamily)
		if st.Anchor != "" && st.Anchor != AnchorStart {
			add("text-anchor:%s", st.Anchor)
		}
		if st.Bold {
			add("font-weight:bold")
		}
	}
	return strings.Join(parts, ";")
}

type errWriter struct {
	w   io.Writer
	err error
}

func (c *errWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	if err != nil {
		c.err = err
	}
	return n, err
}
