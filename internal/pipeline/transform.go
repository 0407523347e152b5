package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
	"github.com/couchcryptid/climate-insights-dashboard/internal/observability"
)

// ClimateTransformer implements Transformer with domain.Clean, logging and
// counting what each cleaning step removed.
type ClimateTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ClimateTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *ClimateTransformer {
	return &ClimateTransformer{
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ClimateTransformer) Transform(_ context.Context, raw domain.RawTable) (domain.Table, error) {
	table, report := domain.Clean(raw)

	t.metrics.RecordsDropped.WithLabelValues("missing_value").Add(float64(report.DroppedMissing))
	t.metrics.RecordsDropped.WithLabelValues("duplicate").Add(float64(report.DroppedDuplicates))
	t.metrics.RecordsDropped.WithLabelValues("invalid_date").Add(float64(report.DroppedInvalidDate))

	if report.Filled > 0 {
		t.logger.Warn("filled missing readings with column means", "filled", report.Filled)
	}

	t.logger.Info("dataset cleaned",
		"rows_in", report.RowsIn,
		"dropped_missing", report.DroppedMissing,
		"dropped_duplicates", report.DroppedDuplicates,
		"dropped_invalid_date", report.DroppedInvalidDate,
		"rows_out", report.RowsOut,
	)
	return table, nil
}
