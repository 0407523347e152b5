// Command genmock writes a synthetic climate CSV in the Kaggle dataset's
// layout, for local runs and demos without Kaggle credentials. With -dirty
// it also injects missing values, duplicate rows and unparsable dates, then
// runs the real cleaning step over the output to report what would be
// dropped.
//
// Usage:
//
//	go run ./cmd/genmock -out data/climate_change_data.csv -from 1990 -to 2023 -per-year 12 -dirty
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
)

var header = []string{
	"Date", "Location", "Country",
	"Temperature", "CO2 Emissions", "Sea Level Rise", "Precipitation", "Humidity", "Wind Speed",
}

var places = [][2]string{
	{"Oslo", "Norway"},
	{"Lima", "Peru"},
	{"Nairobi", "Kenya"},
	{"Perth", "Australia"},
	{"Osaka", "Japan"},
	{"Quito", "Ecuador"},
	{"Reykjavik", "Iceland"},
	{"Dakar", "Senegal"},
}

type options struct {
	from, to int
	perYear  int
	dirty    bool
	seed     uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/climate_change_data.csv", "output CSV path")
	from := flag.Int("from", 1990, "first year")
	to := flag.Int("to", 2023, "last year")
	perYear := flag.Int("per-year", 12, "rows per year")
	dirty := flag.Bool("dirty", false, "inject missing values, duplicates and bad dates")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	opts := options{from: *from, to: *to, perYear: *perYear, dirty: *dirty, seed: *seed}
	if opts.from > opts.to || opts.perYear < 1 {
		flag.Usage()
		return fmt.Errorf("need -from <= -to and -per-year >= 1")
	}

	rows := generate(opts)
	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d rows to %s", len(rows)-1, *out)

	return report(*out)
}

// generate returns the header followed by the data rows. Values follow a
// gentle warming trend with seasonal and random noise.
func generate(opts options) [][]string {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	rows := [][]string{header}

	for year := opts.from; year <= opts.to; year++ {
		t := float64(year - opts.from)
		for i := range opts.perYear {
			day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
				AddDate(0, 0, i*365/opts.perYear)
			season := math.Sin(2 * math.Pi * float64(day.YearDay()) / 365)
			place := places[rng.IntN(len(places))]

			rows = append(rows, []string{
				day.Format(time.DateOnly),
				place[0],
				place[1],
				num(14+0.02*t+6*season+rng.NormFloat64(), 2),
				num(340+2.1*t+rng.NormFloat64()*3, 1),
				num(0.5+0.032*t+rng.Float64()*0.3, 3),
				num(math.Max(0, 900+150*season+rng.NormFloat64()*120), 1),
				num(math.Min(100, math.Max(5, 65+10*season+rng.NormFloat64()*8)), 1),
				num(math.Max(0, 12+rng.NormFloat64()*4), 1),
			})
		}
	}

	if opts.dirty {
		rows = corrupt(rows, rng)
	}
	return rows
}

// corrupt damages roughly 5% of data rows: a blanked measurement, an
// unparsable date, or a repeated row.
func corrupt(rows [][]string, rng *rand.Rand) [][]string {
	out := [][]string{rows[0]}
	for _, row := range rows[1:] {
		if rng.Float64() >= 0.05 {
			out = append(out, row)
			continue
		}
		switch rng.IntN(3) {
		case 0:
			bad := append([]string(nil), row...)
			bad[3+rng.IntN(6)] = []string{"", "NA", "null"}[rng.IntN(3)]
			out = append(out, bad)
		case 1:
			bad := append([]string(nil), row...)
			bad[0] = "not-a-date"
			out = append(out, bad)
		default:
			out = append(out, row, row)
		}
	}
	return out
}

func num(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func writeCSV(path string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// report reloads the file through the dashboard's cleaning step.
func report(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := domain.ReadRawCSV(f)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	table, rep := domain.Clean(raw)
	ext, _ := table.Extent()

	fmt.Printf("rows in:              %d\n", rep.RowsIn)
	fmt.Printf("dropped missing:      %d\n", rep.DroppedMissing)
	fmt.Printf("dropped duplicates:   %d\n", rep.DroppedDuplicates)
	fmt.Printf("dropped invalid date: %d\n", rep.DroppedInvalidDate)
	fmt.Printf("rows out:             %d (years %s)\n", rep.RowsOut, ext)
	return nil
}
