package scale

// Margin is the space between the canvas edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Frame is a fixed-size canvas with a plot area inset by Margin.
type Frame struct {
	Width, Height float64
	Margin        Margin
}

// InnerWidth is the plot area width.
func (f Frame) InnerWidth() float64 { return f.Width - f.Margin.Left - f.Margin.Right }

// InnerHeight is the plot area height.
func (f Frame) InnerHeight() float64 { return f.Height - f.Margin.Top - f.Margin.Bottom }

// Left is the x of the plot area's left edge.
func (f Frame) Left() float64 { return f.Margin.Left }

// Right is the x of the plot area's right edge.
func (f Frame) Right() float64 { return f.Width - f.Margin.Right }

// Top is the y of the plot area's top edge.
func (f Frame) Top() float64 { return f.Margin.Top }

// Bottom is the y of the plot area's bottom edge.
func (f Frame) Bottom() float64 { return f.Height - f.Margin.Bottom }

// X returns a horizontal scale across the plot area.
func (f Frame) X(d Domain) Linear {
	return New(d, Range{R0: f.Left(), R1: f.Right()})
}

// Y returns an inverted vertical scale across the plot area.
func (f Frame) Y(d Domain) Linear {
	return Vertical(d, f.Top(), f.Bottom())
}

// Band returns the centre of row i when n rows share the plot height.
func (f Frame) Band(i, n int) float64 {
	if n < 1 {
		n = 1
	}
	return f.Top() + (float64(i)+0.5)*(f.InnerHeight()/float64(n))
}
