package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-insights-dashboard/internal/config"
	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
	"github.com/couchcryptid/climate-insights-dashboard/internal/observability"
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes cleaned climate records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer    messageWriter
	batchSize int
	source    string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{
		writer:    w,
		batchSize: cfg.KafkaBatchSize,
		source:    cfg.KaggleDataset,
		logger:    logger,
		metrics:   metrics,
	}
}

// Publish sends every record of table, in table order, in batches of the
// configured size. It stops at the first failed batch.
func (w *Writer) Publish(ctx context.Context, table *domain.Table) error {
	if table.Empty() {
		return nil
	}
	msgs := make([]kafkago.Message, 0, w.batchSize)
	sent := 0
	for i := range table.Records {
		msg, err := serializeToMessage(table, &table.Records[i], w.source)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		if len(msgs) == w.batchSize || i == len(table.Records)-1 {
			if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
				return fmt.Errorf("publish batch at record %d: %w", sent, err)
			}
			sent += len(msgs)
			w.metrics.RecordsPublished.Add(float64(len(msgs)))
			msgs = msgs[:0]
		}
	}
	w.logger.Info("records published", "count", sent)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// recordMessage is the JSON shape of one published record.
type recordMessage struct {
	Date      string             `json:"date"`
	Year      int                `json:"year"`
	Values    map[string]float64 `json:"values"`
	Extra     map[string]string  `json:"extra,omitempty"`
	CleanedAt time.Time          `json:"cleaned_at"`
}

// serializeToMessage marshals a cleaned record into a Kafka message keyed by
// its date.
func serializeToMessage(table *domain.Table, rec *domain.Record, source string) (kafkago.Message, error) {
	date := formatDate(rec.Date)
	m := recordMessage{
		Date:      date,
		Year:      rec.Year,
		Values:    make(map[string]float64, len(domain.MeasuredFields)),
		CleanedAt: table.CleanedAt,
	}
	for _, f := range domain.MeasuredFields {
		m.Values[f.Column()] = rec.Value(f)
	}
	if len(table.ExtraColumns) > 0 {
		m.Extra = make(map[string]string, len(table.ExtraColumns))
		for i, col := range table.ExtraColumns {
			if i < len(rec.Extra) {
				m.Extra[col] = rec.Extra[i]
			}
		}
	}

	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record %s: %w", date, err)
	}
	return kafkago.Message{
		Key:   []byte(date),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(strconv.Itoa(rec.Year))},
			{Key: "source", Value: []byte(source)},
		},
	}, nil
}

func formatDate(t time.Time) string {
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}
