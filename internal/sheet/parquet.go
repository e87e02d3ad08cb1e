package sheet

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const parquetReadBatch = 256

// parquetSource reads a flat Parquet file row group by row group. The leaf
// column paths serve as the header row.
type parquetSource struct {
	file    *os.File
	columns []string
	groups  []parquet.RowGroup
	next    int
	rows    parquet.Rows
	buf     []parquet.Row
	pending []parquet.Row
	started bool
}

func openParquet(path string) (*parquetSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	var columns []string
	for _, p := range pf.Schema().Columns() {
		columns = append(columns, strings.Join(p, "."))
	}

	return &parquetSource{
		file:    f,
		columns: columns,
		groups:  pf.RowGroups(),
		buf:     make([]parquet.Row, parquetReadBatch),
	}, nil
}

func (s *parquetSource) Next() ([]string, error) {
	if !s.started {
		s.started = true
		return s.columns, nil
	}

	for len(s.pending) == 0 {
		if s.rows == nil {
			if s.next >= len(s.groups) {
				return nil, io.EOF
			}
			s.rows = s.groups[s.next].Rows()
			s.next++
		}
		n, err := s.rows.ReadRows(s.buf)
		s.pending = s.buf[:n]
		if err == io.EOF || (err == nil && n == 0) {
			s.rows.Close()
			s.rows = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}

	row := s.pending[0]
	s.pending = s.pending[1:]

	out := make([]string, len(s.columns))
	for _, v := range row {
		if c := v.Column(); c >= 0 && c < len(out) && !v.IsNull() {
			out[c] = formatValue(v)
		}
	}
	return out, nil
}

func (s *parquetSource) Close() error {
	if s.rows != nil {
		s.rows.Close()
	}
	return s.file.Close()
}

func formatValue(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
