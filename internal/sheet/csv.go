package sheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

type csvSource struct {
	file *os.File
	csv  *csv.Reader
}

func openCSV(path string) (*csvSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	return &csvSource{file: file, csv: reader}, nil
}

func (s *csvSource) Next() ([]string, error) {
	rec, err := s.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rec, nil
}

func (s *csvSource) Close() error {
	return s.file.Close()
}
