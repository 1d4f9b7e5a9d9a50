package datasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

// ErrNoValidSource is returned when discovery finds nothing usable.
var ErrNoValidSource = errors.New("no valid data source")

// ValidateSource counts the known datasets a source provides and marks it
// valid when at least one is present.
func ValidateSource(s *DataSource) error {
	s.Valid = false
	s.ValidationError = ""
	s.DatasetCount = 0

	var err error
	switch s.Type {
	case SourceTypeSQLite:
		err = validateSQLite(s)
	case SourceTypeCSVDir:
		for _, name := range model.AllDatasets() {
			info, statErr := os.Stat(filepath.Join(s.Path, name))
			if statErr == nil && !info.IsDir() && info.Size() > 0 {
				s.DatasetCount++
			}
		}
	default:
		err = fmt.Errorf("unknown source type: %s", s.Type)
	}
	if err == nil && s.DatasetCount == 0 {
		err = fmt.Errorf("no known datasets in %s", s.Path)
	}
	if err != nil {
		s.ValidationError = err.Error()
		return err
	}
	s.Valid = true
	return nil
}

func validateSQLite(s *DataSource) error {
	r, err := NewSQLiteReader(s.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx := context.Background()
	for _, name := range model.AllDatasets() {
		ok, err := r.HasTable(ctx, name)
		if err != nil {
			return err
		}
		if ok {
			s.DatasetCount++
		}
	}
	return nil
}

// SelectBestSource returns the freshest valid source, preferring higher
// priority on equal timestamps.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	cands := make([]DataSource, 0, len(sources))
	for _, s := range sources {
		if s.Valid {
			cands = append(cands, s)
		}
	}
	if len(cands) == 0 {
		return DataSource{}, ErrNoValidSource
	}
	sortSources(cands)
	return cands[0], nil
}
