package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CleanReport counts what each cleaning step did.
type CleanReport struct {
	RowsIn             int
	DroppedMissing     int
	Filled             int
	DroppedDuplicates  int
	DroppedInvalidDate int
	RowsOut            int
}

// Clean runs the cleaning sequence over raw and returns the cleaned table.
// An empty input, or one where no date parses, yields an empty table.
func Clean(raw RawTable) (Table, CleanReport) {
	report := CleanReport{RowsIn: len(raw.Records)}

	rows := dropMissing(raw.Records)
	report.DroppedMissing = len(raw.Records) - len(rows)

	// Step 1 already removed every row with a missing reading, so this never
	// fills anything on real input. Kept in sequence for output parity.
	rows, report.Filled = fillMissingWithMean(rows)

	deduped := dropDuplicates(rows)
	report.DroppedDuplicates = len(rows) - len(deduped)

	records := make([]Record, 0, len(deduped))
	for _, r := range deduped {
		date, ok := ParseDate(r.Date)
		if !ok {
			report.DroppedInvalidDate++
			continue
		}
		rec := Record{
			Date:  date,
			Year:  date.Year(),
			Extra: r.Extra,
		}
		for _, f := range MeasuredFields {
			rec.Values[f] = r.Readings[f].Value
		}
		records = append(records, rec)
	}
	report.RowsOut = len(records)

	return Table{
		Columns:      raw.Columns,
		ExtraColumns: raw.ExtraColumns,
		Records:      records,
		CleanedAt:    clock.Now(),
	}, report
}

func dropMissing(in []RawRecord) []RawRecord {
	out := make([]RawRecord, 0, len(in))
	for _, r := range in {
		if complete(r) {
			out = append(out, r)
		}
	}
	return out
}

func complete(r RawRecord) bool {
	for _, f := range MeasuredFields {
		if !r.Readings[f].Valid {
			return false
		}
	}
	return true
}

// fillMissingWithMean replaces invalid readings with the mean of the valid
// readings in the same column. Columns with no valid readings stay missing.
func fillMissingWithMean(rows []RawRecord) ([]RawRecord, int) {
	var (
		sums   [numFields]float64
		counts [numFields]int
	)
	for _, r := range rows {
		for _, f := range MeasuredFields {
			if r.Readings[f].Valid {
				sums[f] += r.Readings[f].Value
				counts[f]++
			}
		}
	}

	filled := 0
	for i := range rows {
		for _, f := range MeasuredFields {
			if rows[i].Readings[f].Valid || counts[f] == 0 {
				continue
			}
			rows[i].Readings[f] = Measured(sums[f] / float64(counts[f]))
			filled++
		}
	}
	return rows, filled
}

func dropDuplicates(rows []RawRecord) []RawRecord {
	seen := make(map[string]struct{}, len(rows))
	out := make([]RawRecord, 0, len(rows))
	for _, r := range rows {
		k := duplicateKey(dateKey(r.Date), r.Readings, r.Extra)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// dateKey normalizes a raw date so "2000-01-01" and "2000-01-01 00:00:00"
// compare equal. The offset is part of the key since Year is derived in it.
// Unparsable text keys as itself; such rows are dropped later.
func dateKey(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return t.Format(time.RFC3339Nano)
	}
	return "raw:" + raw
}

// duplicateKey covers every field of a row. Numbers are keyed by value so
// "1" and "1.0" compare equal.
func duplicateKey(date string, readings [numFields]Reading, extra []string) string {
	var b strings.Builder
	b.WriteString(date)
	for _, f := range MeasuredFields {
		b.WriteByte(0x1f)
		rd := readings[f]
		if !rd.Valid {
			b.WriteString("NA")
			continue
		}
		v := rd.Value
		if v == 0 {
			v = 0 // fold -0 into 0
		}
		b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
	}
	for _, e := range extra {
		b.WriteByte(0x1f)
		b.WriteString(e)
	}
	return b.String()
}
