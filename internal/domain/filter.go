package domain

import "fmt"

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year lies within the range, bounds included.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// Extent returns the smallest range covering every record's Year.
// ok is false for an empty table.
func (t *Table) Extent() (YearRange, bool) {
	if t.Empty() {
		return YearRange{}, false
	}
	ext := YearRange{From: t.Records[0].Year, To: t.Records[0].Year}
	for _, r := range t.Records[1:] {
		ext.From = min(ext.From, r.Year)
		ext.To = max(ext.To, r.Year)
	}
	return ext, true
}

// Clamp bounds each end of r to the extent, the way a range slider pins its
// handles. An inverted r stays inverted; callers run Validate afterwards.
func (r YearRange) Clamp(extent YearRange) YearRange {
	return YearRange{
		From: min(max(r.From, extent.From), extent.To),
		To:   max(min(r.To, extent.To), extent.From),
	}
}

// Validate returns ErrInvalidRange when From > To.
func (r YearRange) Validate() error {
	if r.From > r.To {
		return fmt.Errorf("%w: from %d is after to %d", ErrInvalidRange, r.From, r.To)
	}
	return nil
}

// Filter returns the records whose Year lies in r, in table order.
// The returned slice never aliases the table's backing array.
func (t *Table) Filter(r YearRange) []Record {
	out := make([]Record, 0, len(t.Records))
	for _, rec := range t.Records {
		if r.Contains(rec.Year) {
			out = append(out, rec)
		}
	}
	return out
}

// Subset returns a table sharing t's columns but holding only records.
func (t *Table) Subset(records []Record) *Table {
	return &Table{
		Columns:      t.Columns,
		ExtraColumns: t.ExtraColumns,
		Records:      records,
		CleanedAt:    t.CleanedAt,
	}
}
