package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/smallbiznis/salesdw/internal/extract/domain"
)

// csvTable is a header-addressed view of a CSV file.
type csvTable struct {
	columns map[string]int
	rows    []csvRow
}

// csvRow keeps the file line a record starts on; quoted fields may span lines.
type csvRow struct {
	line   int
	fields []string
}

func readCSV(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &csvTable{columns: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	table := &csvTable{columns: make(map[string]int, len(header))}
	for i, name := range header {
		table.columns[normalizeColumn(name)] = i
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)
		table.rows = append(table.rows, csvRow{line: line, fields: record})
	}
	return table, nil
}

// text returns the trimmed cell, or nil when the column or the value is absent.
func (t *csvTable) text(record []string, column string) *string {
	idx, ok := t.columns[normalizeColumn(column)]
	if !ok || idx >= len(record) {
		return nil
	}
	value := strings.TrimSpace(record[idx])
	if value == "" {
		return nil
	}
	return &value
}

func (t *csvTable) value(record []string, column string) string {
	if v := t.text(record, column); v != nil {
		return *v
	}
	return ""
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", "")
}
