package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
	"github.com/couchcryptid/climate-insights-dashboard/internal/observability"
)

type fakeWriter struct {
	batches [][]kafkago.Message
	failAt  int // 1-based batch number that fails; 0 never fails
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.failAt == len(f.batches)+1 {
		return errors.New("broker unavailable")
	}
	f.batches = append(f.batches, append([]kafkago.Message(nil), msgs...))
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var cleanedAt = time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)

func testTable(n int) *domain.Table {
	t := &domain.Table{
		Columns:      []string{"Date", "Location", "Temperature", "CO2 Emissions", "Sea Level Rise", "Precipitation", "Humidity", "Wind Speed"},
		ExtraColumns: []string{"Location"},
		CleanedAt:    cleanedAt,
	}
	for i := range n {
		y := 2000 + i
		t.Records = append(t.Records, domain.Record{
			Date:   time.Date(y, time.March, 4, 0, 0, 0, 0, time.UTC),
			Year:   y,
			Values: [6]float64{14.5, 400, 2.5, 900, 60, 12},
			Extra:  []string{"Oslo"},
		})
	}
	return t
}

func newTestWriter(fw *fakeWriter, batchSize int) (*Writer, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return &Writer{
		writer:    fw,
		batchSize: batchSize,
		source:    "goyaladi/climate-insights-dataset",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   metrics,
	}, metrics
}

func TestSerializeToMessage(t *testing.T) {
	table := testTable(1)

	msg, err := serializeToMessage(table, &table.Records[0], "goyaladi/climate-insights-dataset")
	require.NoError(t, err)

	assert.Equal(t, []byte("2000-03-04"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "year", msg.Headers[0].Key)
	assert.Equal(t, []byte("2000"), msg.Headers[0].Value)
	assert.Equal(t, "source", msg.Headers[1].Key)
	assert.Equal(t, []byte("goyaladi/climate-insights-dataset"), msg.Headers[1].Value)

	var body recordMessage
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "2000-03-04", body.Date)
	assert.Equal(t, 2000, body.Year)
	assert.Equal(t, 14.5, body.Values["Temperature"])
	assert.Equal(t, 12.0, body.Values["Wind Speed"])
	assert.Equal(t, map[string]string{"Location": "Oslo"}, body.Extra)
	assert.True(t, cleanedAt.Equal(body.CleanedAt))
}

func TestSerializeToMessage_TimeOfDayKey(t *testing.T) {
	table := testTable(1)
	table.Records[0].Date = time.Date(2000, time.March, 4, 6, 30, 0, 0, time.UTC)

	msg, err := serializeToMessage(table, &table.Records[0], "src")
	require.NoError(t, err)
	assert.Equal(t, []byte("2000-03-04 06:30:00"), msg.Key)
}

func TestPublish_Batches(t *testing.T) {
	fw := &fakeWriter{}
	w, metrics := newTestWriter(fw, 2)

	require.NoError(t, w.Publish(context.Background(), testTable(5)))

	require.Len(t, fw.batches, 3)
	assert.Len(t, fw.batches[0], 2)
	assert.Len(t, fw.batches[1], 2)
	assert.Len(t, fw.batches[2], 1)
	assert.Equal(t, []byte("2004-03-04"), fw.batches[2][0].Key)
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.RecordsPublished))
}

func TestPublish_EmptyTable(t *testing.T) {
	fw := &fakeWriter{}
	w, _ := newTestWriter(fw, 10)

	require.NoError(t, w.Publish(context.Background(), testTable(0)))
	assert.Empty(t, fw.batches)
}

func TestPublish_StopsAtFailedBatch(t *testing.T) {
	fw := &fakeWriter{failAt: 2}
	w, metrics := newTestWriter(fw, 2)

	err := w.Publish(context.Background(), testTable(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
	assert.Len(t, fw.batches, 1)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RecordsPublished))
}

func TestClose(t *testing.T) {
	fw := &fakeWriter{}
	w, _ := newTestWriter(fw, 1)
	require.NoError(t, w.Close())
	assert.True(t, fw.closed)
}
