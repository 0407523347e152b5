// Package domain models the climate insights dataset and the rules that turn
// a raw CSV export into the table the dashboard renders.
//
// # Data Source
//
// The dataset is the Kaggle "Climate Insights" export
// (goyaladi/climate-insights-dataset). It is a single CSV with one row per
// observation:
//
//	Date,Location,Country,Temperature,CO2 Emissions,Sea Level Rise,Precipitation,Humidity,Wind Speed
//
// Only Date and the six measured columns are required. Any other column is
// carried through as opaque text and written back on export.
//
// Units:
//
//	Temperature      °C
//	CO2 Emissions    ppm
//	Sea Level Rise   mm
//	Precipitation    mm
//	Humidity         %
//	Wind Speed       km/h
//
// Missing values:
//
//	Empty cells and the common NA spellings ("NA", "NaN", "null", "None", ...)
//	are read as missing. A measured cell holding anything else that is not a
//	number makes the file malformed.
//
// # Cleaning
//
// [Clean] applies a fixed sequence to a [RawTable]:
//
//  1. drop rows missing any measured value
//  2. fill missing measured values with the column mean (never fires after 1)
//  3. drop exact duplicates, keeping the first
//  4. parse Date, dropping rows where it does not parse
//  5. derive Year from Date
//
// The output [Table] is immutable for the rest of the process. Filtering,
// statistics and export all read from it without copying the underlying
// records.
package domain
