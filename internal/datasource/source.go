// Package datasource discovers where the article's datasets live and picks
// the freshest valid location. A data directory may hold the published CSV
// files, a SQLite database with one table per dataset, or both.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (heckleviz.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeCSVDir is a directory of CSV files
	SourceTypeCSVDir SourceType = "csv_dir"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityCSVDir = 80
)

// DatabaseName is the SQLite file looked for inside a data directory.
const DatabaseName = "heckleviz.db"

// DataDirEnvVar overrides the data directory.
const DataDirEnvVar = "HV_DATA_DIR"

// DataSource represents a potential source of datasets
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the database file or the CSV directory
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the newest modification time among the source's files
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// DatasetCount is the number of known datasets present (set during validation)
	DatasetCount int `json:"dataset_count"`
	// Size is the total size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, datasets=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.DatasetCount, status)
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// DataDir is the directory to search (optional, HV_DATA_DIR or ./data if empty)
	DataDir string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// Verbose enables detailed logging during discovery
	Verbose bool
	// Logger receives log messages when Verbose is true
	Logger func(msg string)
}

// ResolveDataDir applies the HV_DATA_DIR and ./data defaults.
func ResolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if envDir := os.Getenv(DataDirEnvVar); envDir != "" {
		return envDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, "data"), nil
}

// DiscoverSources finds all potential data sources in the data directory,
// freshest first.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	dataDir, err := ResolveDataDir(opts.DataDir)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovering sources in: %s", dataDir))
	}

	var sources []DataSource
	if s, ok := discoverSQLiteSource(dataDir, opts); ok {
		sources = append(sources, s)
	}
	csv, err := discoverCSVSource(dataDir, opts)
	if err != nil && opts.Verbose {
		opts.Logger(fmt.Sprintf("CSV discovery warning: %v", err))
	}
	if csv != nil {
		sources = append(sources, *csv)
	}

	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil && opts.Verbose {
				opts.Logger(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
			}
		}
		if !opts.IncludeInvalid {
			var valid []DataSource
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sortSources(sources)

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}
	return sources, nil
}

func sortSources(sources []DataSource) {
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
}

func discoverSQLiteSource(dataDir string, opts DiscoveryOptions) (DataSource, bool) {
	dbPath := filepath.Join(dataDir, DatabaseName)
	info, err := os.Stat(dbPath)
	if err != nil || info.IsDir() {
		return DataSource{}, false
	}
	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Found SQLite: %s (mod=%s)", dbPath, info.ModTime().Format(time.RFC3339)))
	}
	return DataSource{
		Type:     SourceTypeSQLite,
		Path:     dbPath,
		Priority: PrioritySQLite,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}, true
}

// discoverCSVSource reports the directory when it holds at least one known
// dataset file. Its ModTime is that of the newest such file.
func discoverCSVSource(dataDir string, opts DiscoveryOptions) (*DataSource, error) {
	if _, err := os.Stat(dataDir); err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	var (
		found  bool
		newest time.Time
		size   int64
	)
	for _, name := range model.AllDatasets() {
		info, err := os.Stat(filepath.Join(dataDir, name))
		if err != nil || info.IsDir() {
			continue
		}
		found = true
		size += info.Size()
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	if !found {
		return nil, nil
	}
	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Found CSV directory: %s (mod=%s)", dataDir, newest.Format(time.RFC3339)))
	}
	return &DataSource{
		Type:     SourceTypeCSVDir,
		Path:     dataDir,
		Priority: PriorityCSVDir,
		ModTime:  newest,
		Size:     size,
	}, nil
}
