package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05.999999999"
	dateZoneLayout = "2006-01-02 15:04:05.999999999-07:00"
)

// ReadRawCSV parses a climate CSV. The header must name Date and the six
// measured columns; other columns are kept as extra text. A source Year
// column is ignored since Year is always derived from Date.
func ReadRawCSV(r io.Reader) (RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return RawTable{}, fmt.Errorf("%w: empty file, no header", ErrMissingColumn)
	}
	if err != nil {
		return RawTable{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	dateIdx, ok := idx[ColumnDate]
	if !ok {
		return RawTable{}, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnDate)
	}
	var fieldIdx [numFields]int
	for _, f := range MeasuredFields {
		i, ok := idx[f.Column()]
		if !ok {
			return RawTable{}, fmt.Errorf("%w: %q", ErrMissingColumn, f.Column())
		}
		fieldIdx[f] = i
	}

	table := RawTable{}
	var extraIdx []int
	for i, h := range header {
		if h == ColumnYear {
			continue
		}
		table.Columns = append(table.Columns, h)
		if i == dateIdx || isMeasuredColumn(h) {
			continue
		}
		table.ExtraColumns = append(table.ExtraColumns, h)
		extraIdx = append(extraIdx, i)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) > len(header) {
			return RawTable{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformed, line, len(row), len(header))
		}

		rec := RawRecord{Line: line, Date: cell(row, dateIdx)}
		for _, f := range MeasuredFields {
			rd, err := parseReading(cell(row, fieldIdx[f]))
			if err != nil {
				return RawTable{}, fmt.Errorf("%w: line %d column %q: %v",
					ErrMalformed, line, f.Column(), err)
			}
			rec.Readings[f] = rd
		}
		if len(extraIdx) > 0 {
			rec.Extra = make([]string, len(extraIdx))
			for j, i := range extraIdx {
				rec.Extra[j] = cell(row, i)
			}
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isMeasuredColumn(h string) bool {
	for _, f := range MeasuredFields {
		if f.Column() == h {
			return true
		}
	}
	return false
}

func parseReading(s string) (Reading, error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return Reading{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Reading{}, nil
	}
	return Measured(v), nil
}

// WriteCSV writes records as UTF-8 CSV without an index column. Columns
// follow the table's source order with Year appended. An empty table still
// gets its header row.
func WriteCSV(w io.Writer, t *Table) error {
	columns := t.Columns
	if len(columns) == 0 {
		columns = canonicalColumns(t.ExtraColumns)
	}

	extraPos := make(map[string]int, len(t.ExtraColumns))
	for i, c := range t.ExtraColumns {
		extraPos[c] = i
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), columns...), ColumnYear)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	layout := exportDateLayout(t.Records)
	row := make([]string, len(columns)+1)
	for _, rec := range t.Records {
		for i, c := range columns {
			row[i] = exportCell(rec, c, layout, extraPos)
		}
		row[len(columns)] = strconv.Itoa(rec.Year)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func canonicalColumns(extra []string) []string {
	cols := []string{ColumnDate}
	for _, f := range MeasuredFields {
		cols = append(cols, f.Column())
	}
	return append(cols, extra...)
}

func exportCell(rec Record, column, layout string, extraPos map[string]int) string {
	if column == ColumnDate {
		return rec.Date.Format(layout)
	}
	for _, f := range MeasuredFields {
		if f.Column() == column {
			return strconv.FormatFloat(rec.Values[f], 'f', -1, 64)
		}
	}
	if i, ok := extraPos[column]; ok && i < len(rec.Extra) {
		return rec.Extra[i]
	}
	return ""
}

// exportDateLayout writes bare dates unless some record carries a time of day.
// A zone offset is written when any record is not in UTC.
func exportDateLayout(records []Record) string {
	for _, r := range records {
		if r.Date.Location() != time.UTC {
			return dateZoneLayout
		}
	}
	for _, r := range records {
		h, m, s := r.Date.Clock()
		if h != 0 || m != 0 || s != 0 || r.Date.Nanosecond() != 0 {
			return dateTimeLayout
		}
	}
	return dateLayout
}
