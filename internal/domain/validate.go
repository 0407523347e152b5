package domain

import (
	"fmt"
	"math"
	"time"
)

// Validate checks the invariants every cleaned table must hold and returns
// one error per violation: a zero Date, a Year that disagrees with Date, a
// NaN or infinite measurement, or a record identical to an earlier one.
func Validate(t *Table) []error {
	var errs []error
	seen := make(map[string]int, len(t.Records))

	for i, r := range t.Records {
		if r.Date.IsZero() {
			errs = append(errs, fmt.Errorf("record %d: missing date", i))
		}
		if r.Year != r.Date.Year() {
			errs = append(errs, fmt.Errorf("record %d: year %d does not match date %s",
				i, r.Year, r.Date.Format(dateLayout)))
		}
		for _, f := range MeasuredFields {
			switch v := r.Values[f]; {
			case math.IsNaN(v):
				errs = append(errs, fmt.Errorf("record %d: missing %s", i, f.Column()))
			case math.IsInf(v, 0):
				errs = append(errs, fmt.Errorf("record %d: non-finite %s", i, f.Column()))
			}
		}

		k := recordKey(r)
		if first, dup := seen[k]; dup {
			errs = append(errs, fmt.Errorf("record %d: duplicate of record %d", i, first))
			continue
		}
		seen[k] = i
	}
	return errs
}

func recordKey(r Record) string {
	var readings [numFields]Reading
	for _, f := range MeasuredFields {
		readings[f] = Measured(r.Values[f])
	}
	return duplicateKey(r.Date.Format(time.RFC3339Nano), readings, r.Extra)
}
