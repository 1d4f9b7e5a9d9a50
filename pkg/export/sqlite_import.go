package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/heckleviz/internal/datasource"
	"github.com/vanderheijden86/heckleviz/pkg/loader"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// ImportReport describes a SQLite import.
type ImportReport struct {
	Database string   `json:"database"`
	Written  []string `json:"written"`
	Missing  []string `json:"missing,omitempty"`
	Rows     int      `json:"rows"`
}

// ImportSQLite copies every known dataset the source provides into a
// SQLite database at dbPath, one table per dataset. Datasets the source
// lacks are reported, not fatal; an import with nothing to write fails.
func ImportSQLite(ctx context.Context, src loader.Source, dbPath string) (*ImportReport, error) {
	l := loader.New(src)
	report := &ImportReport{Database: dbPath}

	var datasets []tabular.Dataset
	for _, name := range model.AllDatasets() {
		ds, err := l.Load(ctx, name)
		if err != nil {
			var re *model.RetrievalError
			if errors.As(err, &re) {
				report.Missing = append(report.Missing, name)
				continue
			}
			return nil, err
		}
		datasets = append(datasets, ds)
		report.Written = append(report.Written, name)
		report.Rows += ds.Len()
	}
	if len(datasets) == 0 {
		return report, fmt.Errorf("no datasets found in %s", src)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create parent dir: %w", err)
	}
	if err := datasource.WriteDatasets(ctx, dbPath, datasets); err != nil {
		return nil, err
	}
	return report, nil
}
