package dashboard

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// View is the model of the dashboard page.
type View struct {
	Selection Selection
	Extent    Extent
	Options   []VariableOption
	Chart     domain.ChartSpec
	ChartURL  string
	ExportURL string
	Rows      int

	// Summary is nil when the selection is empty; Message says why.
	Summary *SummaryTable
	Message string

	ReferenceURL string
}

// VariableOption is one entry of the variable selector.
type VariableOption struct {
	Slug     string
	Label    string
	Selected bool
}

// SummaryTable is the display form of domain.Summary: one row per
// statistic, one column per numeric field.
type SummaryTable struct {
	Columns []string
	Rows    []SummaryRow
}

// SummaryRow holds the formatted values of one statistic.
type SummaryRow struct {
	Statistic string
	Values    []string
}

// View builds the page model for sel.
func (d *Dashboard) View(sel Selection) (View, error) {
	records := d.table.Filter(sel.Range)
	query := sel.Query()

	v := View{
		Selection:    sel,
		Extent:       d.Extent(),
		Options:      options(sel.Variable),
		Chart:        sel.Variable.Chart(),
		ChartURL:     "/chart?" + query,
		ExportURL:    "/export?" + query,
		Rows:         len(records),
		ReferenceURL: ReferenceURL,
	}

	summary, err := domain.Summarize(records)
	switch {
	case errors.Is(err, domain.ErrNoData):
		d.metrics.EmptySelections.Inc()
		v.Message = NoDataMessage
	case err != nil:
		return View{}, fmt.Errorf("summarize %s: %w", sel.Range, err)
	default:
		v.Summary = summaryTable(summary)
	}
	return v, nil
}

// RenderPage writes the full dashboard page for sel.
func (d *Dashboard) RenderPage(w io.Writer, sel Selection) error {
	v, err := d.View(sel)
	if err != nil {
		return err
	}
	if err := pageTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func options(selected domain.Variable) []VariableOption {
	out := make([]VariableOption, len(domain.Variables))
	for i, v := range domain.Variables {
		out[i] = VariableOption{Slug: v.Slug(), Label: v.Label(), Selected: v == selected}
	}
	return out
}

func summaryTable(s domain.Summary) *SummaryTable {
	t := &SummaryTable{Columns: make([]string, len(s.Columns))}
	for i, c := range s.Columns {
		t.Columns[i] = c.Column
	}
	for _, stat := range domain.Statistics {
		row := SummaryRow{Statistic: string(stat), Values: make([]string, len(s.Columns))}
		for i, c := range s.Columns {
			row.Values[i] = formatStat(stat, c.Get(stat))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func formatStat(stat domain.Statistic, v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case stat == domain.StatCount:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
