package datasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// SourceDiff represents differences between two data sources
type SourceDiff struct {
	// SourceA is the path of the first source
	SourceA string `json:"source_a"`
	// SourceB is the path of the second source
	SourceB string `json:"source_b"`
	// MissingInA lists datasets present in B but not in A
	MissingInA []string `json:"missing_in_a,omitempty"`
	// MissingInB lists datasets present in A but not in B
	MissingInB []string `json:"missing_in_b,omitempty"`
	// RowMismatch lists datasets whose row counts or headers differ
	RowMismatch []DatasetDifference `json:"row_mismatch,omitempty"`
}

// DatasetDifference is a shape mismatch for one dataset
type DatasetDifference struct {
	Dataset string `json:"dataset"`
	RowsA   int    `json:"rows_a"`
	RowsB   int    `json:"rows_b"`
	HeaderA string `json:"header_a,omitempty"`
	HeaderB string `json:"header_b,omitempty"`
}

// HasInconsistencies returns true if there are any differences between sources
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.RowMismatch) > 0
}

// Summary returns a human-readable summary of the differences
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return "Sources match"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)
	if len(d.MissingInA) > 0 {
		fmt.Fprintf(&b, "  - %d datasets in %s but not %s: %s\n", len(d.MissingInA), d.SourceB, d.SourceA, strings.Join(d.MissingInA, ", "))
	}
	if len(d.MissingInB) > 0 {
		fmt.Fprintf(&b, "  - %d datasets in %s but not %s: %s\n", len(d.MissingInB), d.SourceA, d.SourceB, strings.Join(d.MissingInB, ", "))
	}
	for _, m := range d.RowMismatch {
		fmt.Fprintf(&b, "  - %s: %d vs %d rows\n", m.Dataset, m.RowsA, m.RowsB)
		if m.HeaderA != m.HeaderB {
			fmt.Fprintf(&b, "    header %q vs %q\n", m.HeaderA, m.HeaderB)
		}
	}
	return b.String()
}

// ReadDataset reads one dataset from any source type. A dataset the source
// does not hold yields os.ErrNotExist or ErrNoSuchTable.
func ReadDataset(ctx context.Context, source DataSource, name string) (tabular.Dataset, error) {
	switch source.Type {
	case SourceTypeSQLite:
		r, err := NewSQLiteReader(source.Path)
		if err != nil {
			return tabular.Dataset{}, err
		}
		defer r.Close()
		return r.ReadDataset(ctx, name)
	case SourceTypeCSVDir:
		data, err := os.ReadFile(filepath.Join(source.Path, name))
		if err != nil {
			return tabular.Dataset{}, err
		}
		return tabular.ParseBytes(name, data), nil
	default:
		return tabular.Dataset{}, fmt.Errorf("unsupported source type: %s", source.Type)
	}
}

func missing(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrNoSuchTable)
}

// CompareSources reads every known dataset from both sources and reports
// datasets missing on one side or differing in shape.
func CompareSources(ctx context.Context, a, b DataSource) (*SourceDiff, error) {
	diff := &SourceDiff{SourceA: a.Path, SourceB: b.Path}
	for _, name := range model.AllDatasets() {
		dsA, errA := ReadDataset(ctx, a, name)
		if errA != nil && !missing(errA) {
			return nil, fmt.Errorf("failed to load source A (%s): %w", a.Path, errA)
		}
		dsB, errB := ReadDataset(ctx, b, name)
		if errB != nil && !missing(errB) {
			return nil, fmt.Errorf("failed to load source B (%s): %w", b.Path, errB)
		}
		switch {
		case errA != nil && errB != nil:
		case errA != nil:
			diff.MissingInA = append(diff.MissingInA, name)
		case errB != nil:
			diff.MissingInB = append(diff.MissingInB, name)
		default:
			hA, hB := strings.Join(dsA.Header, ","), strings.Join(dsB.Header, ",")
			if dsA.Len() != dsB.Len() || hA != hB {
				diff.RowMismatch = append(diff.RowMismatch, DatasetDifference{
					Dataset: name, RowsA: dsA.Len(), RowsB: dsB.Len(), HeaderA: hA, HeaderB: hB,
				})
			}
		}
	}
	sort.Strings(diff.MissingInA)
	sort.Strings(diff.MissingInB)
	return diff, nil
}

// InconsistencyReport covers every pair of valid sources
type InconsistencyReport struct {
	Sources              []DataSource `json:"sources"`
	Diffs                []SourceDiff `json:"diffs"`
	TotalInconsistencies int          `json:"total_inconsistencies"`
}

// GenerateInconsistencyReport compares each valid source with every other.
// Pairs that cannot be read are skipped.
func GenerateInconsistencyReport(ctx context.Context, sources []DataSource) *InconsistencyReport {
	report := &InconsistencyReport{Sources: sources}
	for i := 0; i < len(sources); i++ {
		if !sources[i].Valid {
			continue
		}
		for j := i + 1; j < len(sources); j++ {
			if !sources[j].Valid {
				continue
			}
			diff, err := CompareSources(ctx, sources[i], sources[j])
			if err != nil || !diff.HasInconsistencies() {
				continue
			}
			report.Diffs = append(report.Diffs, *diff)
			report.TotalInconsistencies += len(diff.MissingInA) + len(diff.MissingInB) + len(diff.RowMismatch)
		}
	}
	return report
}
