package domain

import "time"

// Field identifies one of the six measured columns.
type Field int

const (
	FieldTemperature Field = iota
	FieldCO2Emissions
	FieldSeaLevelRise
	FieldPrecipitation
	FieldHumidity
	FieldWindSpeed

	numFields
)

// ColumnDate is the header of the date column.
const ColumnDate = "Date"

// ColumnYear is the header of the derived year column.
const ColumnYear = "Year"

// MeasuredFields lists the measured columns in canonical order.
var MeasuredFields = [numFields]Field{
	FieldTemperature,
	FieldCO2Emissions,
	FieldSeaLevelRise,
	FieldPrecipitation,
	FieldHumidity,
	FieldWindSpeed,
}

// Column returns the CSV header text for the field.
func (f Field) Column() string {
	switch f {
	case FieldTemperature:
		return "Temperature"
	case FieldCO2Emissions:
		return "CO2 Emissions"
	case FieldSeaLevelRise:
		return "Sea Level Rise"
	case FieldPrecipitation:
		return "Precipitation"
	case FieldHumidity:
		return "Humidity"
	case FieldWindSpeed:
		return "Wind Speed"
	}
	return ""
}

// Unit returns the measurement unit shown on axis labels.
func (f Field) Unit() string {
	switch f {
	case FieldTemperature:
		return "°C"
	case FieldCO2Emissions:
		return "ppm"
	case FieldSeaLevelRise, FieldPrecipitation:
		return "mm"
	case FieldHumidity:
		return "%"
	case FieldWindSpeed:
		return "km/h"
	}
	return ""
}

func (f Field) String() string { return f.Column() }

// Reading is a measured value that may be missing.
type Reading struct {
	Value float64
	Valid bool
}

// Measured returns a valid reading.
func Measured(v float64) Reading { return Reading{Value: v, Valid: true} }

// RawRecord is one source row before cleaning.
type RawRecord struct {
	Line     int // 1-based line in the source file, header is line 1
	Date     string
	Readings [numFields]Reading
	Extra    []string // aligned with RawTable.ExtraColumns
}

// RawTable is the loader's output: the source header plus every data row.
type RawTable struct {
	// Columns is the full source header in file order.
	Columns      []string
	ExtraColumns []string
	Records      []RawRecord
}

// Record is a cleaned climate observation.
type Record struct {
	Date   time.Time
	Year   int
	Values [numFields]float64
	Extra  []string
}

// Value returns the record's value for a measured field.
func (r Record) Value(f Field) float64 { return r.Values[f] }

// Table is the cleaned dataset. It is never mutated after Clean returns.
type Table struct {
	Columns      []string
	ExtraColumns []string
	Records      []Record
	CleanedAt    time.Time
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// Empty reports whether the table has no records.
func (t *Table) Empty() bool { return len(t.Records) == 0 }
