// Package tabular turns delimited text into ordered rows and back.
//
// The parser is line oriented: a record never spans lines, quoted fields may
// contain the delimiter, and a doubled quote inside a quoted field yields a
// literal quote. Every value stays a string; numeric coercion happens in the
// consuming component.
package tabular

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/vanderheijden86/heckleviz/pkg/metrics"
)

// Delimiter separates fields on a line.
const Delimiter = ','

const bom = "\uFEFF"

var lineBreak = regexp.MustCompile(`\r?\n`)

// Row maps field names to values in source column order. Rows are immutable
// once parsed; accessors return copies.
type Row struct {
	names  []string
	values []string
}

// NewRow zips names with values. Missing trailing values become "".
func NewRow(names, values []string) Row {
	r := Row{
		names:  make([]string, len(names)),
		values: make([]string, len(names)),
	}
	copy(r.names, names)
	for i := range names {
		if i < len(values) {
			r.values[i] = values[i]
		}
	}
	return r
}

// Get returns the value for name, or "" when the field is absent.
func (r Row) Get(name string) string {
	v, _ := r.Lookup(name)
	return v
}

// Lookup returns the value for name and whether the field exists.
func (r Row) Lookup(name string) (string, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return "", false
}

// Names returns the field names in column order.
func (r Row) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Values returns the values in column order.
func (r Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of fields.
func (r Row) Len() int { return len(r.names) }

// Dataset is an ordered sequence of rows sharing one header, identified by
// the resource name it was loaded from.
type Dataset struct {
	Name   string
	Header []string
	Rows   []Row
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// Empty reports whether the dataset has no rows.
func (d Dataset) Empty() bool { return len(d.Rows) == 0 }

// ParseLine splits a single line into fields.
func ParseLine(line string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == Delimiter && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(out, cur.String())
}

// Parse reads a whole text blob. The first line is the header; header names
// and values are trimmed. Empty input yields an empty dataset.
func Parse(name, text string) Dataset {
	defer metrics.Timer(metrics.CSVParse)()

	text = strings.TrimPrefix(text, bom)
	text = strings.TrimSpace(text)
	ds := Dataset{Name: name}
	if text == "" {
		return ds
	}

	lines := lineBreak.Split(text, -1)
	header := ParseLine(lines[0])
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	ds.Header = header

	ds.Rows = make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		vals := ParseLine(line)
		for i := range vals {
			vals[i] = strings.TrimSpace(vals[i])
		}
		ds.Rows = append(ds.Rows, NewRow(header, vals))
	}
	return ds
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(name string, data []byte) Dataset {
	return Parse(name, string(data))
}

// Format writes the dataset back as delimited text with a header line.
// Fields are quoted only when they contain the delimiter, a quote or a CR.
func Format(w io.Writer, ds Dataset) error {
	bw := bufio.NewWriter(w)
	if len(ds.Header) == 0 {
		return bw.Flush()
	}
	writeLine(bw, ds.Header)
	for _, r := range ds.Rows {
		writeLine(bw, r.values)
	}
	return bw.Flush()
}

// FormatString is Format into a string.
func FormatString(ds Dataset) string {
	var b strings.Builder
	_ = Format(&b, ds)
	return b.String()
}

func writeLine(w *bufio.Writer, fields []string) {
	// A lone empty field would print as a blank line, which Parse skips.
	if len(fields) == 1 && fields[0] == "" {
		w.WriteString(`""` + "\n")
		return
	}
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(Delimiter)
		}
		w.WriteString(quote(f))
	}
	w.WriteByte('\n')
}

// quote escapes a field for writeLine. Records never span lines, so line
// breaks become spaces; a lone CR is kept inside quotes.
func quote(field string) string {
	field = strings.NewReplacer("\r\n", " ", "\n", " ").Replace(field)
	if !strings.ContainsAny(field, ",\"\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
