// Package dashboard builds the interactive views over the cleaned climate
// table: the year/variable selection, the page model, the chart document,
// summary statistics and the CSV export.
package dashboard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
	"github.com/couchcryptid/climate-insights-dashboard/internal/observability"
)

// ReferenceURL is the external reading link shown in the sidebar.
const ReferenceURL = "https://www.ipcc.ch/"

// ExportFilename is the attachment name of the CSV download.
const ExportFilename = "filtered_climate_data.csv"

// NoDataMessage replaces the summary table when the selection is empty.
const NoDataMessage = "No data available to display summary statistics."

// Dashboard serves every view over one cleaned table. The table is shared
// between requests and must not be mutated after New.
type Dashboard struct {
	table    *domain.Table
	defaults domain.YearRange
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Dashboard over table. defaults is the year window used when
// a request names no bounds.
func New(table *domain.Table, defaults domain.YearRange, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		table:    table,
		defaults: defaults,
		logger:   logger,
		metrics:  metrics,
	}
}

// Selection is one user choice of year window and variable.
type Selection struct {
	Range    domain.YearRange
	Variable domain.Variable
}

// Query encodes the selection as URL query parameters.
func (s Selection) Query() string {
	q := url.Values{}
	q.Set("from", strconv.Itoa(s.Range.From))
	q.Set("to", strconv.Itoa(s.Range.To))
	q.Set("variable", s.Variable.Slug())
	return q.Encode()
}

// Extent describes the selectable year window.
type Extent struct {
	Extent  domain.YearRange `json:"extent"`
	Default domain.YearRange `json:"default"`
	HasData bool             `json:"has_data"`
}

// Extent returns the table's year extent and the clamped default window.
func (d *Dashboard) Extent() Extent {
	ext, ok := d.table.Extent()
	if !ok {
		return Extent{Default: d.defaults}
	}
	return Extent{Extent: ext, Default: d.defaults.Clamp(ext), HasData: true}
}

// ParseSelection reads from, to and variable from q. Missing bounds take the
// default window; both bounds are clamped to the table's extent. A bound that
// is not an integer, or a window that ends before it starts, wraps
// domain.ErrInvalidRange. An unknown variable wraps domain.ErrUnknownVariable.
func (d *Dashboard) ParseSelection(q url.Values) (Selection, error) {
	from, err := parseYear(q, "from", d.defaults.From)
	if err != nil {
		return Selection{}, err
	}
	to, err := parseYear(q, "to", d.defaults.To)
	if err != nil {
		return Selection{}, err
	}
	v, err := domain.ParseVariable(q.Get("variable"))
	if err != nil {
		return Selection{}, err
	}

	r := domain.YearRange{From: from, To: to}
	if ext, ok := d.table.Extent(); ok {
		r = r.Clamp(ext)
	}
	if err := r.Validate(); err != nil {
		return Selection{}, err
	}
	return Selection{Range: r, Variable: v}, nil
}

func parseYear(q url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a year", domain.ErrInvalidRange, key, s)
	}
	return n, nil
}

// IsBadRequest reports whether err comes from invalid selection input.
func IsBadRequest(err error) bool {
	return errors.Is(err, domain.ErrInvalidRange) || errors.Is(err, domain.ErrUnknownVariable)
}

// Summary computes the statistics of the selected subset. It returns
// domain.ErrNoData when the selection matches no records.
func (d *Dashboard) Summary(sel Selection) (domain.Summary, error) {
	return domain.Summarize(d.table.Filter(sel.Range))
}

// Chart writes the chart document for sel.
func (d *Dashboard) Chart(w io.Writer, sel Selection) error {
	start := time.Now()
	records := d.table.Filter(sel.Range)
	if err := RenderChart(w, sel.Variable.Chart(), records); err != nil {
		return fmt.Errorf("render %s chart: %w", sel.Variable.Slug(), err)
	}
	d.metrics.Renders.WithLabelValues(sel.Variable.Slug()).Inc()
	d.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	return nil
}

// Export writes the selected subset as CSV. An empty selection writes the
// header only.
func (d *Dashboard) Export(w io.Writer, sel Selection) error {
	subset := d.table.Subset(d.table.Filter(sel.Range))
	if err := domain.WriteCSV(w, subset); err != nil {
		return fmt.Errorf("export %s: %w", sel.Range, err)
	}
	d.metrics.Exports.Inc()
	d.logger.Debug("export written", "from", sel.Range.From, "to", sel.Range.To, "rows", subset.Len())
	return nil
}
