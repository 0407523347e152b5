package domain

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic names one row of the summary table.
type Statistic string

const (
	StatCount  Statistic = "Count"
	StatMean   Statistic = "Mean"
	StatStdDev Statistic = "Standard Deviation"
	StatMin    Statistic = "Minimum"
	StatP25    Statistic = "25th Percentile"
	StatMedian Statistic = "Median"
	StatP75    Statistic = "75th Percentile"
	StatMax    Statistic = "Maximum"
)

// Statistics lists the summary rows in display order.
var Statistics = []Statistic{StatCount, StatMean, StatStdDev, StatMin, StatP25, StatMedian, StatP75, StatMax}

// ColumnSummary holds the descriptive statistics of one numeric column.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Get returns the value for one statistic.
func (c ColumnSummary) Get(s Statistic) float64 {
	switch s {
	case StatCount:
		return float64(c.Count)
	case StatMean:
		return c.Mean
	case StatStdDev:
		return c.StdDev
	case StatMin:
		return c.Min
	case StatP25:
		return c.P25
	case StatMedian:
		return c.Median
	case StatP75:
		return c.P75
	case StatMax:
		return c.Max
	}
	return math.NaN()
}

// Summary is the statistics table for a filtered subset: one column per
// measured field plus Year.
type Summary struct {
	Columns []ColumnSummary `json:"columns"`
}

// Summarize computes per-column statistics. It returns ErrNoData for an
// empty subset.
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoData
	}

	cols := make([]ColumnSummary, 0, len(MeasuredFields)+1)
	values := make([]float64, len(records))
	for _, f := range MeasuredFields {
		for i, r := range records {
			values[i] = r.Values[f]
		}
		cols = append(cols, describe(f.Column(), values))
	}
	for i, r := range records {
		values[i] = float64(r.Year)
	}
	cols = append(cols, describe(ColumnYear, values))

	return Summary{Columns: cols}, nil
}

func describe(name string, values []float64) ColumnSummary {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = math.NaN()
	}
	return ColumnSummary{
		Column: name,
		Count:  len(sorted),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(sorted),
		P25:    percentile(sorted, 0.25),
		Median: percentile(sorted, 0.5),
		P75:    percentile(sorted, 0.75),
		Max:    floats.Max(sorted),
	}
}

// percentile interpolates linearly between the two closest ranks of sorted,
// i.e. position p*(n-1). gonum's stat.Quantile has no estimator with this
// definition, so it is computed here.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
