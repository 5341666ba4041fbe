// Package record reads CSV rows as header-keyed records.
package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const bom = "\ufeff"

// ErrInvalidUTF8 is returned when the input is not valid UTF-8
var ErrInvalidUTF8 = encoding.ErrInvalidUTF8

// Record is one CSV row keyed by header name
type Record struct {
	Line   int
	Fields map[string]string
}

// Get returns the cell for column, or "" when the row has no such column
func (r *Record) Get(column string) string {
	if r == nil {
		return ""
	}
	return r.Fields[column]
}

// DecodeError reports input that is not valid UTF-8
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("near line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Reader is a forward-only reader over CSV records
type Reader struct {
	closer io.Closer
	csv    *csv.Reader
	header []string
	line   int
}

// Open opens the CSV file at path and reads its header row
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header row from src. An empty input yields a reader
// without header that returns io.EOF on the first Next. A quote inside an
// unquoted cell is kept as a literal character.
func NewReader(src io.Reader) (*Reader, error) {
	cr := csv.NewReader(transform.NewReader(src, encoding.UTF8Validator))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	r := &Reader{csv: cr}

	header, err := cr.Read()
	if err == io.EOF {
		return r, nil
	}
	if err != nil {
		return nil, r.wrap(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	r.header = header
	r.line, _ = cr.FieldPos(0)
	return r, nil
}

// Header returns the column names of the CSV file
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next record, or io.EOF when the input is exhausted.
// Cells missing from a short row read as empty; extra cells are dropped.
func (r *Reader) Next() (*Record, error) {
	row, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, r.wrap(err)
	}
	r.line, _ = r.csv.FieldPos(0)

	rec := &Record{
		Line:   r.line,
		Fields: make(map[string]string, len(r.header)),
	}
	for i, name := range r.header {
		if i < len(row) {
			rec.Fields[name] = row[i]
		}
	}
	return rec, nil
}

// Close releases the underlying file, if any
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) wrap(err error) error {
	if errors.Is(err, ErrInvalidUTF8) {
		return &DecodeError{Line: r.line + 1, Err: err}
	}
	return err
}
