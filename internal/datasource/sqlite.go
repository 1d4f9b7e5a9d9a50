package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/heckleviz/pkg/tabular"
)

// ErrNoSuchTable is returned when a dataset has no table in the database.
var ErrNoSuchTable = errors.New("no such table")

// TableName maps a dataset name to its table name.
func TableName(dataset string) string {
	return strings.TrimSuffix(dataset, ".csv")
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SQLiteReader provides read access to a dataset database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(path string) (*SQLiteReader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (r *SQLiteReader) Path() string { return r.path }

// HasTable reports whether a dataset's table exists.
func (r *SQLiteReader) HasTable(ctx context.Context, dataset string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, TableName(dataset)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReadDataset reads a dataset's table in rowid order. Every column is read
// as text; NULL becomes "".
func (r *SQLiteReader) ReadDataset(ctx context.Context, dataset string) (tabular.Dataset, error) {
	ok, err := r.HasTable(ctx, dataset)
	if err != nil {
		return tabular.Dataset{}, fmt.Errorf("read %s: %w", dataset, err)
	}
	if !ok {
		return tabular.Dataset{}, fmt.Errorf("read %s: %w", dataset, ErrNoSuchTable)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, quoteIdent(TableName(dataset))))
	if err != nil {
		return tabular.Dataset{}, fmt.Errorf("read %s: %w", dataset, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return tabular.Dataset{}, fmt.Errorf("read %s: %w", dataset, err)
	}
	ds := tabular.Dataset{Name: dataset, Header: cols}
	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return tabular.Dataset{}, fmt.Errorf("read %s: %w", dataset, err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				rec[i] = v.String
			}
		}
		ds.Rows = append(ds.Rows, tabular.NewRow(cols, rec))
	}
	return ds, rows.Err()
}

// WriteDatasets creates or replaces one table per dataset in a single
// transaction. Columns are stored as text in header order.
func WriteDatasets(ctx context.Context, path string, datasets []tabular.Dataset) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, ds := range datasets {
		if len(ds.Header) == 0 {
			continue
		}
		if err := writeTable(ctx, tx, ds); err != nil {
			return fmt.Errorf("write %s: %w", ds.Name, err)
		}
	}
	return tx.Commit()
}

func writeTable(ctx context.Context, tx *sql.Tx, ds tabular.Dataset) error {
	table := quoteIdent(TableName(ds.Name))
	cols := make([]string, len(ds.Header))
	marks := make([]string, len(ds.Header))
	for i, h := range ds.Header {
		cols[i] = quoteIdent(h) + " TEXT"
		marks[i] = "?"
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(ds.Header))
	for _, row := range ds.Rows {
		vals := row.Values()
		for i := range args {
			args[i] = ""
			if i < len(vals) {
				args[i] = vals[i]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}
