// Command validate checks a climate CSV end to end: it loads the file,
// cleans it, verifies the cleaned-table invariants and confirms that the
// CSV export parses back to the same records.
//
// Usage:
//
//	go run ./cmd/validate -file data/climate_change_data.csv
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "data/climate_change_data.csv", "climate CSV to validate")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Climate Data Validation ===")
	fmt.Println()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open %s: %v\n", path, err)
		return 1
	}
	raw, err := domain.ReadRawCSV(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse %s: %v\n", path, err)
		return 1
	}

	table, rep := domain.Clean(raw)

	phases := []*phase{
		validateCleaning(rep),
		validateRecords(&table),
		validateRoundTrip(&table),
	}

	fmt.Printf("Rows: %d read, %d dropped (missing), %d dropped (duplicate), %d dropped (date), %d kept\n",
		rep.RowsIn, rep.DroppedMissing, rep.DroppedDuplicates, rep.DroppedInvalidDate, rep.RowsOut)
	if ext, ok := table.Extent(); ok {
		fmt.Printf("Years: %s\n", ext)
	}
	fmt.Println()

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-36s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateCleaning(rep domain.CleanReport) *phase {
	p := &phase{name: "Phase 1: Cleaning accounting"}
	dropped := rep.DroppedMissing + rep.DroppedDuplicates + rep.DroppedInvalidDate
	if rep.RowsIn-dropped != rep.RowsOut {
		p.errorf("rows in %d minus dropped %d != rows out %d", rep.RowsIn, dropped, rep.RowsOut)
	}
	if rep.RowsOut == 0 {
		p.errorf("no rows survived cleaning")
	}
	return p
}

func validateRecords(t *domain.Table) *phase {
	p := &phase{name: "Phase 2: Record invariants"}
	for _, err := range domain.Validate(t) {
		p.errorf("%v", err)
	}
	return p
}

func validateRoundTrip(t *domain.Table) *phase {
	p := &phase{name: "Phase 3: Export round trip"}
	var buf bytes.Buffer
	if err := domain.WriteCSV(&buf, t); err != nil {
		p.errorf("export: %v", err)
		return p
	}
	raw, err := domain.ReadRawCSV(&buf)
	if err != nil {
		p.errorf("re-read export: %v", err)
		return p
	}
	back, rep := domain.Clean(raw)
	if rep.RowsOut != t.Len() {
		p.errorf("export re-cleaned to %d rows, want %d", rep.RowsOut, t.Len())
	}
	if diff := cmp.Diff(t.Records, back.Records); diff != "" {
		p.errorf("records differ after round trip (-want +got):\n%s", diff)
	}
	return p
}
