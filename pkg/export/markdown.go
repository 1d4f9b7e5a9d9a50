package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/vanderheijden86/heckleviz/pkg/analysis"
	"github.com/vanderheijden86/heckleviz/pkg/article"
	"github.com/vanderheijden86/heckleviz/pkg/scrolly"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

// GenerateBrief renders the article's headline, callouts, chapters and
// widget captions as markdown.
func GenerateBrief(snap article.Snapshot, chapters []scrolly.Chapter, title string) string {
	var sb strings.Builder
	if title == "" {
		title = "Heckling in the Australian Parliament"
	}
	sb.WriteString("# " + title + "\n\n")

	if snap.HeadlineOK {
		sb.WriteString("| Interjection events | Average yearly gap |\n")
		sb.WriteString("|---|---|\n")
		fmt.Fprintf(&sb, "| %s | %s |\n\n", analysis.FormatEvents(snap.Headline.Events), snap.Headline.FormatGap())
	}

	c := snap.Callouts
	if c.LargestWidening != "" || c.Reversal != "" || c.MostStable != "" {
		sb.WriteString("## Topic callouts\n\n")
		if c.LargestWidening != "" {
			fmt.Fprintf(&sb, "- **Largest widening:** %s\n", c.LargestWidening)
		}
		if c.Reversal != "" {
			fmt.Fprintf(&sb, "- **Reversal:** %s\n", c.Reversal)
		}
		if c.MostStable != "" {
			fmt.Fprintf(&sb, "- **Most stable:** %s\n", c.MostStable)
		}
		if snap.Derived {
			sb.WriteString("\n_Callouts computed from the topic gap series._\n")
		}
		sb.WriteString("\n")
	}

	for _, ch := range chapters {
		fmt.Fprintf(&sb, "## %s\n\n", ch.Title)
		sb.WriteString(strings.TrimSpace(ch.Body))
		sb.WriteString("\n\n")
		if w, ok := snap.Widgets[ch.Chart]; ok {
			if caption := w.Caption(); caption != "" {
				fmt.Fprintf(&sb, "> %s\n\n", caption)
			}
		}
	}

	var failed []string
	for _, n := range widget.Names() {
		for _, f := range snap.FailedNames {
			if f == n {
				failed = append(failed, n)
			}
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(&sb, "_Static charts shown for: %s._\n", strings.Join(failed, ", "))
	}
	return sb.String()
}

// SaveBrief writes the brief to path.
func SaveBrief(snap article.Snapshot, chapters []scrolly.Chapter, path string) error {
	if err := os.WriteFile(path, []byte(GenerateBrief(snap, chapters, "")), 0o644); err != nil {
		return fmt.Errorf("write brief: %w", err)
	}
	return nil
}
