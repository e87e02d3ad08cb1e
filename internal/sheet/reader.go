package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Extensions lists the file extensions Open understands.
var Extensions = []string{".xlsx", ".csv", ".parquet"}

// source yields raw rows of one table. The first row is the header.
type source interface {
	Next() ([]string, error)
	Close() error
}

// Reader streams header-indexed records from a CSV, XLSX or Parquet file.
// For workbooks only the first sheet is read.
type Reader struct {
	path    string
	src     source
	columns []string
	index   map[string]int
	line    int
}

// Open opens the file at path, picking the format from its extension, and
// reads the header row.
func Open(path string) (*Reader, error) {
	var (
		src source
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		src, err = openCSV(path)
	case ".xlsx":
		src, err = openXLSX(path)
	case ".parquet":
		src, err = openParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return nil, err
	}

	header, err := src.Next()
	if err != nil {
		src.Close()
		if err == io.EOF {
			err = errors.New("no header row")
		}
		return nil, &MalformedError{Path: path, Line: 1, Err: err}
	}

	r := &Reader{
		path:  path,
		src:   src,
		index: make(map[string]int, len(header)),
		line:  1,
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		r.columns = append(r.columns, h)
		if _, dup := r.index[h]; !dup {
			r.index[h] = i
		}
	}
	return r, nil
}

// Path returns the file path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Columns returns the trimmed header names in file order.
func (r *Reader) Columns() []string {
	return r.columns
}

// Next returns the next non-blank record, or io.EOF when the file is exhausted.
func (r *Reader) Next() (Record, error) {
	for {
		values, err := r.src.Next()
		if err == io.EOF {
			return Record{}, io.EOF
		}
		r.line++
		if err != nil {
			return Record{}, &MalformedError{Path: r.path, Line: r.line, Err: err}
		}
		if blank(values) {
			continue
		}
		return Record{Path: r.path, Line: r.line, values: values, index: r.index}, nil
	}
}

// Close releases all resources.
func (r *Reader) Close() error {
	return r.src.Close()
}

func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Record is one data row addressed by column name.
type Record struct {
	Path   string
	Line   int
	values []string
	index  map[string]int
}

// Get returns the raw cell for column, or "" when the column or cell is absent.
func (r Record) Get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// Trimmed returns the cell for column with surrounding whitespace removed.
func (r Record) Trimmed(column string) string {
	return strings.TrimSpace(r.Get(column))
}

// Required returns the trimmed cell for column, failing with a
// MalformedError when it is blank.
func (r Record) Required(column string) (string, error) {
	v := r.Trimmed(column)
	if v == "" {
		return "", r.Malformed(column, ErrMissingValue)
	}
	return v, nil
}

// Malformed builds a MalformedError located at this record.
func (r Record) Malformed(column string, err error) *MalformedError {
	return &MalformedError{Path: r.Path, Line: r.Line, Column: column, Err: err}
}
