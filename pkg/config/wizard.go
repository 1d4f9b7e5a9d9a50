package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

// RunWizard asks for the common settings, starting from cfg, and returns
// the edited copy. The caller saves it.
func RunWizard(cfg Config) (Config, error) {
	fmt.Println("")
	fmt.Println("hv configuration")
	fmt.Println("────────────────")

	out := cfg
	limit := strconv.Itoa(cfg.Article.PartyLimit)
	seed := strconv.Itoa(cfg.Article.PartySeed)
	minTurns := strconv.Itoa(cfg.Article.MemberMinTurns)

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should datasets come from?").
				Options(
					huh.NewOption("Discover in the data directory", SourceAuto),
					huh.NewOption("CSV files in the data directory", SourceDir),
					huh.NewOption("SQLite database in the data directory", SourceSQLite),
					huh.NewOption("HTTP base URL", SourceHTTP),
				).
				Value(&out.Data.Source),
			huh.NewInput().
				Title("Data directory").
				Description("Leave empty for $HV_DATA_DIR or ./data").
				Value(&out.Data.Dir),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Value(&out.Data.URL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("a URL is required for the http source")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return out.Data.Source != SourceHTTP }),
		huh.NewGroup(
			huh.NewInput().
				Title("Preferred topic").
				Value(&out.Article.PreferredTopic),
			huh.NewInput().
				Title("Parties shown").
				Value(&limit).
				Validate(positiveInt),
			huh.NewInput().
				Title("Parties initially active").
				Value(&seed).
				Validate(positiveInt),
			huh.NewInput().
				Title("Minimum turns for the member ranking").
				Value(&minTurns).
				Validate(positiveInt),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Export format").
				Options(
					huh.NewOption("SVG", FormatSVG),
					huh.NewOption("PNG", FormatPNG),
				).
				Value(&out.Export.Format),
			huh.NewConfirm().
				Title("Reload when datasets change?").
				Value(&out.Watch),
		),
	)

	if err := form.Run(); err != nil {
		return cfg, err
	}

	out.Article.PartyLimit, _ = strconv.Atoi(limit)
	out.Article.PartySeed, _ = strconv.Atoi(seed)
	out.Article.MemberMinTurns, _ = strconv.Atoi(minTurns)
	out.Data.Dir = expandHome(out.Data.Dir)

	if err := out.Validate(); err != nil {
		return cfg, err
	}
	return out, nil
}
