package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/heckleviz/internal/datasource"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

const partyCSV = "year,party,n_turns,heckle_rate_per_100_turns\n2001,ALP,120,3.5\n2001,LIB,80,2.0\n"

func TestDirSource_Load(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, model.PartyRateByYear), []byte(partyCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := New(DirSource{Dir: dir}).Load(context.Background(), model.PartyRateByYear)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 2 || ds.Rows[1].Get("party") != "LIB" {
		t.Fatalf("dataset = %+v", ds)
	}

	_, err = New(DirSource{Dir: dir}).Load(context.Background(), model.ModelCoefficients)
	var re *model.RetrievalError
	if !errors.As(err, &re) || re.Name != model.ModelCoefficients {
		t.Errorf("err = %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/" + model.PartyRateByYear:
			_, _ = w.Write([]byte("\uFEFF" + partyCSV))
		case "/data/" + model.ModelCoefficients:
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := New(NewHTTPSource(srv.URL + "/data/"))
	ds, err := l.Load(context.Background(), model.PartyRateByYear)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Header[0] != "year" || ds.Len() != 2 {
		t.Fatalf("dataset = %+v", ds)
	}

	ds, err = l.Load(context.Background(), model.ModelCoefficients)
	if err != nil || !ds.Empty() {
		t.Errorf("204 should load an empty dataset, got %+v, %v", ds, err)
	}

	_, err = l.Load(context.Background(), model.MemberHecklerSummary)
	var re *model.RetrievalError
	if !errors.As(err, &re) || re.Status != http.StatusNotFound {
		t.Errorf("err = %v", err)
	}
}

func TestSQLiteSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), datasource.DatabaseName)
	party := tabular.Parse(model.PartyRateByYear, partyCSV)
	if err := datasource.WriteDatasets(context.Background(), path, []tabular.Dataset{party}); err != nil {
		t.Fatal(err)
	}

	l := New(SQLiteSource{Path: path})
	ds, err := l.Load(context.Background(), model.PartyRateByYear)
	if err != nil {
		t.Fatal(err)
	}
	if tabular.FormatString(ds) != tabular.FormatString(party) {
		t.Errorf("got %q", tabular.FormatString(ds))
	}

	_, err = l.Load(context.Background(), model.ModelCoefficients)
	var re *model.RetrievalError
	if !errors.As(err, &re) {
		t.Errorf("missing table err = %v", err)
	}
}

func TestSQLiteSource_EmptySingleColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), datasource.DatabaseName)
	notes := tabular.Dataset{Name: "notes.csv", Header: []string{"note"}}
	for _, v := range []string{"", "x\ry", ""} {
		notes.Rows = append(notes.Rows, tabular.NewRow(notes.Header, []string{v}))
	}
	if err := datasource.WriteDatasets(context.Background(), path, []tabular.Dataset{notes}); err != nil {
		t.Fatal(err)
	}

	ds, err := New(SQLiteSource{Path: path}).Load(context.Background(), "notes.csv")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 3 {
		t.Fatalf("rows = %d, want 3", ds.Len())
	}
	for i, want := range []string{"", "x\ry", ""} {
		if got := ds.Rows[i].Get("note"); got != want {
			t.Errorf("row %d = %q, want %q", i, got, want)
		}
	}
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, model.PartyRateByYear), []byte(partyCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	l := New(DirSource{Dir: dir})

	t.Run("auxiliary failure substitutes empty", func(t *testing.T) {
		set, err := l.LoadSet(context.Background(), model.PartyRateByYear, model.TopicRateByYear)
		if err != nil {
			t.Fatal(err)
		}
		if set.Primary.Len() != 2 {
			t.Errorf("primary = %+v", set.Primary)
		}
		aux := set.Get(model.TopicRateByYear)
		if !aux.Empty() || aux.Name != model.TopicRateByYear {
			t.Errorf("aux = %+v", aux)
		}
	})

	t.Run("primary failure propagates", func(t *testing.T) {
		_, err := l.LoadSet(context.Background(), model.TopicGapOverTime, model.PartyRateByYear)
		var re *model.RetrievalError
		if !errors.As(err, &re) || re.Name != model.TopicGapOverTime {
			t.Errorf("err = %v", err)
		}
	})
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	if _, err := Discover(dir); !errors.Is(err, datasource.ErrNoValidSource) {
		t.Errorf("empty dir err = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, model.PartyRateByYear), []byte(partyCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(DirSource); !ok {
		t.Errorf("source = %T", src)
	}
}
