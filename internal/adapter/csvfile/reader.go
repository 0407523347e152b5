package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
)

// Reader loads the climate CSV from a fixed path.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract opens and parses the file. A missing file or malformed content
// is returned as an error; the caller decides whether that is fatal.
func (r *Reader) Extract(ctx context.Context) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	raw, err := domain.ReadRawCSV(f)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", r.path, err)
	}

	r.logger.Info("dataset loaded", "path", r.path, "rows", len(raw.Records), "columns", len(raw.Columns))
	return raw, nil
}
