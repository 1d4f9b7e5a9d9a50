package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/heckleviz/internal/datasource"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// Source fetches the raw text of a named dataset.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	String() string
}

// DirSource reads datasets from a directory on disk.
type DirSource struct {
	Dir string
}

func (s DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.RetrievalError{Name: name, Err: err}
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, &model.RetrievalError{Name: name, Err: err}
	}
	return data, nil
}

func (s DirSource) String() string { return "dir:" + s.Dir }

// DefaultHTTPTimeout bounds a single dataset request.
const DefaultHTTPTimeout = 15 * time.Second

// HTTPSource fetches datasets relative to a base URL. Any 2xx status is a
// success.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns a source with the default timeout.
func NewHTTPSource(base string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(base, "/"),
		Client:  &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target, err := url.JoinPath(s.BaseURL, name)
	if err != nil {
		return nil, &model.RetrievalError{Name: name, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &model.RetrievalError{Name: name, Err: err}
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &model.RetrievalError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.RetrievalError{Name: name, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.RetrievalError{Name: name, Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

func (s *HTTPSource) String() string { return s.BaseURL }

// SQLiteSource serves datasets from tables of a SQLite database. Each fetch
// opens the database read-only so a concurrent import never blocks a load.
type SQLiteSource struct {
	Path string
}

func (s SQLiteSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	r, err := datasource.NewSQLiteReader(s.Path)
	if err != nil {
		return nil, &model.RetrievalError{Name: name, Err: err}
	}
	defer r.Close()

	ds, err := r.ReadDataset(ctx, name)
	if err != nil {
		if errors.Is(err, datasource.ErrNoSuchTable) {
			return nil, &model.RetrievalError{Name: name, Err: err}
		}
		return nil, &model.ParseError{Name: name, Err: err}
	}
	return []byte(tabular.FormatString(ds)), nil
}

func (s SQLiteSource) String() string { return "sqlite:" + s.Path }

// SourceFor builds the source backing a discovered data source.
func SourceFor(ds datasource.DataSource) (Source, error) {
	switch ds.Type {
	case datasource.SourceTypeSQLite:
		return SQLiteSource{Path: ds.Path}, nil
	case datasource.SourceTypeCSVDir:
		return DirSource{Dir: ds.Path}, nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", ds.Type)
	}
}

// Discover picks the best source in dataDir (or the resolved default).
func Discover(dataDir string) (Source, error) {
	dir, err := datasource.ResolveDataDir(dataDir)
	if err != nil {
		return nil, err
	}
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
		DataDir:                dir,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		return nil, err
	}
	best, err := datasource.SelectBestSource(sources)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return SourceFor(best)
}
