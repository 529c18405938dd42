package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	ioutils "github.com/handiism/imagedata/internal/io"
	"github.com/handiism/imagedata/internal/model"
)

// ErrNoHeader is returned when a CSV has no header row.
var ErrNoHeader = errors.New("csv has no header row")

// Table is a CSV file held in memory with its column order preserved.
//
// Unlike model.Row, a Table keeps every column it was read with, so a file
// that carries extra columns (x, y, site, ...) survives a read/modify/write
// cycle untouched apart from the cells that were Set.
type Table struct {
	header  []string
	records [][]string
	index   map[string]int
}

// NewTable creates an empty table with the given header.
func NewTable(header []string) *Table {
	t := &Table{header: append([]string(nil), header...)}
	t.index = make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t
}

// FromRows builds a table in the dataset layout from rows.
func FromRows(rows []model.Row) *Table {
	t := NewTable(model.Header)
	for _, row := range rows {
		t.records = append(t.records, row.Record())
	}
	return t
}

// Header returns a copy of the column names.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Has reports whether the table has a column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Append adds a record. Short records are padded with empty cells.
func (t *Table) Append(record []string) {
	t.records = append(t.records, t.pad(record))
}

// Get returns a cell, or "" if the column does not exist.
func (t *Table) Get(row int, column string) string {
	i, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.records[row][i]
}

// Set updates a cell. It returns false if the column does not exist.
func (t *Table) Set(row int, column, value string) bool {
	i, ok := t.index[column]
	if !ok {
		return false
	}
	t.records[row][i] = value
	return true
}

// Rows converts the table into dataset rows, looking columns up by name.
func (t *Table) Rows() []model.Row {
	rows := make([]model.Row, t.Len())
	for i := range t.records {
		rows[i] = model.Row{
			Src:     t.Get(i, model.ColumnSrc),
			Bgc:     t.Get(i, model.ColumnBgc),
			Audio:   t.Get(i, model.ColumnAudio),
			Describ: t.Get(i, model.ColumnDescrib),
			Title:   t.Get(i, model.ColumnTitle),
		}
	}
	return rows
}

func (t *Table) pad(record []string) []string {
	if len(record) >= len(t.header) {
		return record
	}
	padded := make([]string, len(t.header))
	copy(padded, record)
	return padded
}

// Read parses CSV data with a header row.
//
// Records may have a different number of fields than the header: short
// records are padded with empty cells, long records are kept as they are.
// A leading byte order mark is dropped and UTF-16 input is decoded.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(ioutils.NewTextReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := NewTable(header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Append(record)
	}

	return t, nil
}

// ReadFile parses the CSV file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write encodes the table as CSV: header first, then every record.
//
// Records end in CRLF and fields are quoted only when needed. Line breaks
// inside a quoted field are written exactly as stored, so a lone "\r" in a
// cell survives a round trip through Read.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	var line bytes.Buffer
	writer := csv.NewWriter(&line)

	for _, record := range append([][]string{t.header}, t.records...) {
		line.Reset()
		if err := writer.Write(record); err != nil {
			return err
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return err
		}

		bw.Write(bytes.TrimSuffix(line.Bytes(), []byte("\n")))
		bw.WriteString("\r\n")
	}

	return bw.Flush()
}

// WriteFile replaces the file at path with the encoded table.
func (t *Table) WriteFile(ctx context.Context, path string) error {
	return ioutils.WriteFileAtomic(ctx, path, func(w io.Writer) error {
		return Write(w, t)
	})
}
