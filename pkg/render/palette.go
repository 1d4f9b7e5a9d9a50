package render

// TopicPalette colours policy topics in index order.
var TopicPalette = []string{"#4c72b0", "#c44e52", "#55a868", "#8172b3", "#ccb974", "#64b5cd", "#dd8452"}

// PartyPalette colours parties in volume order.
var PartyPalette = []string{"#4c72b0", "#c44e52", "#55a868", "#8172b3", "#dd8452", "#64b5cd", "#937860", "#ccb974"}

const (
	positiveColor = "#4c72b0"
	negativeColor = "#c44e52"
	fallbackColor = "#888888"
)

// ColorMap assigns each category a colour once per load so colours stay put
// while the visible subset changes.
type ColorMap map[string]string

// NewColorMap cycles the palette over categories in the given order.
func NewColorMap(categories, palette []string) ColorMap {
	m := make(ColorMap, len(categories))
	if len(palette) == 0 {
		palette = TopicPalette
	}
	for i, c := range categories {
		m[c] = palette[i%len(palette)]
	}
	return m
}

// Color returns the colour of a category, grey when unknown.
func (m ColorMap) Color(category string) string {
	if c, ok := m[category]; ok {
		return c
	}
	return fallbackColor
}

func signColor(v float64) string {
	if v < 0 {
		return negativeColor
	}
	return positiveColor
}
