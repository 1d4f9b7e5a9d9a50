package article

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/heckleviz/pkg/scrolly"
)

//go:embed chapters.yaml
var defaultChapters []byte

// DefaultChapters returns the built-in narrative.
func DefaultChapters() []scrolly.Chapter {
	chapters, err := ParseChapters(defaultChapters)
	if err != nil {
		panic(fmt.Sprintf("embedded chapters: %v", err))
	}
	return chapters
}

// ParseChapters decodes a YAML list of chapters. Every chapter needs an id.
func ParseChapters(data []byte) ([]scrolly.Chapter, error) {
	var chapters []scrolly.Chapter
	if err := yaml.Unmarshal(data, &chapters); err != nil {
		return nil, fmt.Errorf("parsing chapters: %w", err)
	}
	seen := make(map[string]bool, len(chapters))
	for i, c := range chapters {
		if c.ID == "" {
			return nil, fmt.Errorf("chapter %d has no id", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate chapter id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return chapters, nil
}

// LoadChapters reads chapters from path, or returns the built-in narrative
// when path is empty.
func LoadChapters(path string) ([]scrolly.Chapter, error) {
	if path == "" {
		return DefaultChapters(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chapters: %w", err)
	}
	return ParseChapters(data)
}
