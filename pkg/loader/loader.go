// Package loader retrieves named datasets from a directory, an HTTP base URL
// or a SQLite database and parses them into tabular datasets.
package loader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/heckleviz/pkg/debug"
	"github.com/vanderheijden86/heckleviz/pkg/metrics"
	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// Loader fetches and parses datasets from one source.
type Loader struct {
	src Source
}

// New returns a loader over src.
func New(src Source) *Loader {
	return &Loader{src: src}
}

// Source returns the underlying source.
func (l *Loader) Source() Source { return l.src }

// Load fetches one dataset. Retrieval failures are *model.RetrievalError.
func (l *Loader) Load(ctx context.Context, name string) (tabular.Dataset, error) {
	defer metrics.Timer(metrics.DatasetLoad)()

	data, err := l.src.Fetch(ctx, name)
	if err != nil {
		debug.Log("load %s from %s: %v", name, l.src, err)
		return tabular.Dataset{}, err
	}
	return tabular.ParseBytes(name, data), nil
}

// Set is the result of a primary load plus its auxiliary datasets.
type Set struct {
	Primary tabular.Dataset
	Aux     map[string]tabular.Dataset
}

// Get returns the named dataset, empty when it failed to load.
func (s Set) Get(name string) tabular.Dataset {
	if name == s.Primary.Name {
		return s.Primary
	}
	if ds, ok := s.Aux[name]; ok {
		return ds
	}
	return tabular.Dataset{Name: name}
}

// LoadSet loads a primary dataset and any auxiliary datasets concurrently.
// Only a primary failure is returned; an auxiliary failure is logged and
// replaced by an empty dataset.
func (l *Loader) LoadSet(ctx context.Context, primary string, aux ...string) (Set, error) {
	set := Set{Aux: make(map[string]tabular.Dataset, len(aux))}
	results := make([]tabular.Dataset, len(aux))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ds, err := l.Load(gctx, primary)
		if err != nil {
			return err
		}
		set.Primary = ds
		return nil
	})
	for i, name := range aux {
		g.Go(func() error {
			ds, err := l.Load(ctx, name)
			if err != nil {
				debug.Log("auxiliary dataset %s unavailable: %v", name, err)
				ds = tabular.Dataset{Name: name}
			}
			results[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Set{}, err
	}
	for i, name := range aux {
		set.Aux[name] = results[i]
	}
	return set, nil
}
