package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/heckleviz/internal/datasource"
	"github.com/vanderheijden86/heckleviz/pkg/article"
	"github.com/vanderheijden86/heckleviz/pkg/config"
	"github.com/vanderheijden86/heckleviz/pkg/debug"
	"github.com/vanderheijden86/heckleviz/pkg/export"
	"github.com/vanderheijden86/heckleviz/pkg/hooks"
	"github.com/vanderheijden86/heckleviz/pkg/loader"
	"github.com/vanderheijden86/heckleviz/pkg/metrics"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/scrolly"
	"github.com/vanderheijden86/heckleviz/pkg/ui"
	"github.com/vanderheijden86/heckleviz/pkg/version"
	"github.com/vanderheijden86/heckleviz/pkg/watcher"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	help         bool
	version      bool
	init         bool
	metrics      bool
	watch        bool
	sources      bool
	noHooks      bool
	exportDir    string
	format       string
	robotScene   string
	robotMembers string
	perspective  string
	importSQLite string
	dataDir      string
	url          string
	configPath   string
	chapters     string
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("hv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&o.help, "help", false, "Show help")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.BoolVar(&o.init, "init", false, "Run the interactive config wizard")
	fs.BoolVar(&o.metrics, "metrics", false, "Print timing metrics on exit")
	fs.BoolVar(&o.watch, "watch", false, "Reload when datasets in the data directory change")
	fs.BoolVar(&o.sources, "sources", false, "Report inconsistencies between discovered data sources")
	fs.BoolVar(&o.noHooks, "no-hooks", false, "Skip hooks.yaml commands around --export")
	fs.StringVar(&o.exportDir, "export", "", "Export every chart variant into `DIR`")
	fs.StringVar(&o.format, "format", "", "Export format: svg or png")
	fs.StringVar(&o.robotScene, "robot-scene", "", "Print the scene of `WIDGET` as JSON")
	fs.StringVar(&o.robotMembers, "robot-members", "", "Print the member lookup for `QUERY` as JSON")
	fs.StringVar(&o.perspective, "perspective", string(model.PerspectiveHeckler), "Member perspective: heckler or heckled")
	fs.StringVar(&o.importSQLite, "import-sqlite", "", "Copy every dataset into the SQLite database `DB`")
	fs.StringVar(&o.dataDir, "data", "", "Data directory (CSV files and/or heckleviz.db)")
	fs.StringVar(&o.url, "url", "", "Fetch datasets over HTTP from `BASE`")
	fs.StringVar(&o.configPath, "config", "", "Config file `PATH`")
	fs.StringVar(&o.chapters, "chapters", "", "Narrative chapters YAML `PATH`")
	err := fs.Parse(args)
	return o, fs, err
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if o.help {
		fmt.Fprintln(stdout, "Usage: hv [options]")
		fmt.Fprintln(stdout, "\nAn interactive article on heckling in the Australian Parliament.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}

	if o.version {
		fmt.Fprintf(stdout, "hv %s\n", version.Version)
		return 0
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	if o.init {
		return runInit(cfg, o.configPath, stdout, stderr)
	}

	if o.metrics {
		defer printMetrics(stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.sources {
		return runSources(ctx, cfg, stdout, stderr)
	}

	src, err := openSource(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening data source: %v\n", err)
		return 1
	}

	if o.importSQLite != "" {
		report, err := export.ImportSQLite(ctx, src, o.importSQLite)
		if err != nil {
			fmt.Fprintf(stderr, "Import failed: %v\n", err)
			return 1
		}
		if err := export.WriteJSON(stdout, report); err != nil {
			return 1
		}
		return 0
	}

	chapters := article.DefaultChapters()
	if o.chapters != "" {
		if chapters, err = article.LoadChapters(o.chapters); err != nil {
			fmt.Fprintf(stderr, "Error loading chapters: %v\n", err)
			return 1
		}
	}

	art := article.New(loader.New(src), articleOptions(cfg))
	if _, err := art.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "Error loading article: %v\n", err)
		return 1
	}

	switch {
	case o.robotScene != "":
		return runRobotScene(art, o.robotScene, stdout, stderr)
	case o.robotMembers != "":
		return runRobotMembers(art, o.robotMembers, model.Perspective(o.perspective), stdout, stderr)
	case o.exportDir != "":
		job := exportJob{
			art:      art,
			chapters: chapters,
			dir:      o.exportDir,
			format:   cfg.Export.Format,
			hooksDir: hooksDir(o.configPath),
			noHooks:  o.noHooks,
		}
		if err := job.run(stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return 1
		}
		if cfg.Watch {
			return watchExport(ctx, cfg, job, stdout, stderr)
		}
		return 0
	}

	var opts []ui.Option
	opts = append(opts, ui.WithContext(ctx), ui.WithAnchor(cfg.Article.ScrollAnchor))
	if cfg.Watch {
		w, err := startWatcher(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: not watching: %v\n", err)
		} else {
			defer w.Stop()
			opts = append(opts, ui.WithWatcher(w))
		}
	}
	if err := runTUIProgram(ui.NewModel(art, chapters, opts...)); err != nil {
		fmt.Fprintf(stderr, "Error running hv: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(o options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
		if cfg.Data.Source == config.SourceHTTP {
			cfg.Data.Source = config.SourceAuto
		}
	}
	if o.url != "" {
		cfg.Data.URL = o.url
		cfg.Data.Source = config.SourceHTTP
	}
	if o.format != "" {
		cfg.Export.Format = o.format
	}
	if o.watch {
		cfg.Watch = true
	}
	return cfg, cfg.Validate()
}

func articleOptions(cfg config.Config) article.Options {
	return article.Options{
		PreferredTopic: cfg.Article.PreferredTopic,
		PartyLimit:     cfg.Article.PartyLimit,
		PartySeed:      cfg.Article.PartySeed,
		MinTurns:       float64(cfg.Article.MemberMinTurns),
	}
}

// openSource builds the dataset source the config names.
func openSource(cfg config.Config) (loader.Source, error) {
	switch cfg.Data.Source {
	case config.SourceHTTP:
		return loader.NewHTTPSource(cfg.Data.URL), nil
	case config.SourceDir:
		dir, err := datasource.ResolveDataDir(cfg.Data.Dir)
		if err != nil {
			return nil, err
		}
		return loader.DirSource{Dir: dir}, nil
	case config.SourceSQLite:
		dir, err := datasource.ResolveDataDir(cfg.Data.Dir)
		if err != nil {
			return nil, err
		}
		return loader.SQLiteSource{Path: filepath.Join(dir, datasource.DatabaseName)}, nil
	default:
		return loader.Discover(cfg.Data.Dir)
	}
}

func startWatcher(cfg config.Config) (*watcher.Watcher, error) {
	if cfg.Data.Source == config.SourceHTTP {
		return nil, errors.New("http sources cannot be watched")
	}
	dir, err := datasource.ResolveDataDir(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	w, err := watcher.NewWatcher(dir, watcher.WithOnError(func(err error) {
		debug.Log("watcher %s: %v", dir, err)
	}))
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

func runInit(cfg config.Config, path string, stdout, stderr io.Writer) int {
	updated, err := config.RunWizard(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Wizard cancelled: %v\n", err)
		return 1
	}
	if path == "" {
		path = config.ConfigPath()
	}
	if err := config.SaveTo(updated, path); err != nil {
		fmt.Fprintf(stderr, "Error saving config: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Saved %s\n", path)
	return 0
}

func runSources(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) int {
	dir, err := datasource.ResolveDataDir(cfg.Data.Dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
		DataDir:                dir,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error discovering sources: %v\n", err)
		return 1
	}
	report := datasource.GenerateInconsistencyReport(ctx, sources)
	if err := export.WriteJSON(stdout, report); err != nil {
		return 1
	}
	if report.TotalInconsistencies > 0 {
		for _, d := range report.Diffs {
			fmt.Fprintln(stderr, d.Summary())
		}
		return 3
	}
	return 0
}

func runRobotScene(art *article.Article, name string, stdout, stderr io.Writer) int {
	w, ok := art.Widget(name)
	if !ok {
		fmt.Fprintf(stderr, "Unknown widget %q (want one of %s)\n", name, strings.Join(widget.Names(), ", "))
		return 2
	}
	if err := export.WriteJSON(stdout, export.NewRobotScene(w)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runRobotMembers(art *article.Article, query string, p model.Perspective, stdout, stderr io.Writer) int {
	w, ok := art.Widget(widget.NameMembers)
	if !ok {
		fmt.Fprintln(stderr, "Member lookup is not mounted")
		return 1
	}
	lookup, ok := w.(*widget.MemberLookup)
	if !ok {
		fmt.Fprintf(stderr, "Member data unavailable: %s\n", w.Caption())
		return 1
	}
	if p != lookup.Perspective() {
		if err := lookup.HandleEvent(widget.SelectPerspective{Perspective: p}); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}
	if err := lookup.HandleEvent(widget.SetQuery{Query: query}); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := export.WriteJSON(stdout, export.NewRobotMembers(lookup.Result(), lookup.Perspective())); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type exportJob struct {
	art      *article.Article
	chapters []scrolly.Chapter
	dir      string
	format   string
	hooksDir string
	noHooks  bool
}

// hooksDir is the directory holding hooks.yaml: next to an explicit config
// file, or the default config directory.
func hooksDir(configPath string) string {
	if configPath != "" {
		return filepath.Dir(configPath)
	}
	return config.ConfigDir()
}

// run writes every chart variant plus a markdown brief, wrapped in the
// configured pre- and post-export hooks.
func (j exportJob) run(stdout, stderr io.Writer) error {
	hctx := hooks.ExportContext{
		ExportDir:    j.dir,
		ExportFormat: j.format,
		Timestamp:    time.Now(),
	}
	executor, err := hooks.RunHooks(j.hooksDir, hctx, j.noHooks)
	if err != nil {
		return fmt.Errorf("loading hooks: %w", err)
	}
	if executor != nil {
		defer func() {
			if summary := executor.Summary(); summary != "" {
				fmt.Fprintln(stderr, summary)
			}
		}()
		if err := executor.RunPreExport(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}
	written, err := export.ExportWidgets(j.art.Widgets(), j.dir, j.format)
	if err != nil {
		return err
	}
	brief := filepath.Join(j.dir, "README.md")
	if err := export.SaveBrief(j.art.Snapshot(), j.chapters, brief); err != nil {
		return err
	}
	written = append(written, brief)
	for _, p := range written {
		fmt.Fprintln(stdout, p)
	}

	if executor != nil {
		executor.SetFileCount(len(written))
		if err := executor.RunPostExport(); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
	}
	return nil
}

// watchExport re-exports after every change until ctx is cancelled.
func watchExport(ctx context.Context, cfg config.Config, job exportJob, stdout, stderr io.Writer) int {
	w, err := startWatcher(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Stop()
	fmt.Fprintf(stderr, "Watching %s (ctrl+c to stop)\n", w.Dir())
	for {
		select {
		case <-ctx.Done():
			return 0
		case <-w.Changed():
		}
		if _, err := job.art.Reload(ctx); err != nil {
			fmt.Fprintf(stderr, "Reload failed: %v\n", err)
			continue
		}
		if err := job.run(stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
		}
	}
}

func printMetrics(w io.Writer) {
	fmt.Fprintf(w, "%-16s %8s %10s %10s %10s\n", "metric", "count", "total ms", "avg ms", "max ms")
	for _, s := range metrics.AllTimingStats() {
		fmt.Fprintf(w, "%-16s %8d %10.2f %10.3f %10.3f\n", s.Name, s.Count, s.TotalMs, s.AvgMs, s.MaxMs)
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set HV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("HV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
