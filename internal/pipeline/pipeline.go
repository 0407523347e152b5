package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
	"github.com/couchcryptid/climate-insights-dashboard/internal/observability"
)

// Extractor reads the raw dataset from its source.
type Extractor interface {
	Extract(ctx context.Context) (domain.RawTable, error)
}

// Transformer turns the raw dataset into the cleaned table.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawTable) (domain.Table, error)
}

// Publisher forwards the cleaned table to an external sink.
type Publisher interface {
	Publish(ctx context.Context, table *domain.Table) error
}

// Pipeline runs extract-transform-publish once and owns the result. Every
// caller of Run after the first gets the same table, or the same error.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics

	once  sync.Once
	table *domain.Table
	err   error
	ready atomic.Bool
}

// New creates a Pipeline with the given stages and observability. Pass a nil
// publisher to skip publishing.
func New(e Extractor, t Transformer, pub Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		publisher:   pub,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the cleaned table is available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Run loads and cleans the dataset on first call and returns the memoized
// result on every call. The returned table must not be modified.
func (p *Pipeline) Run(ctx context.Context) (*domain.Table, error) {
	p.once.Do(func() {
		p.table, p.err = p.run(ctx)
	})
	return p.table, p.err
}

func (p *Pipeline) run(ctx context.Context) (*domain.Table, error) {
	raw, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	p.metrics.RecordsLoaded.Add(float64(len(raw.Records)))

	table, err := p.transformer.Transform(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	p.metrics.RecordsCleaned.Set(float64(table.Len()))

	if table.Empty() {
		p.logger.Warn("cleaned table is empty", "rows_in", len(raw.Records))
	}

	// Publishing is best-effort: the dashboard serves the table either way.
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, &table); err != nil {
			p.logger.Error("publish cleaned records failed", "error", err, "rows", table.Len())
		}
	}

	p.ready.Store(true)
	p.metrics.DatasetReady.Set(1)
	return &table, nil
}
