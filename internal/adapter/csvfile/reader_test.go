package csvfile

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Date,Location,Country,Temperature,CO2 Emissions,Sea Level Rise,Precipitation,Humidity,Wind Speed
2000-01-01 00:00:00.000000000,New Williamtown,Latvia,10.688064,403.118906,0.717182,13.835237,23.631256,18.492026
2000-01-01 20:09:43.258325832,North Rachel,South Africa,13.814430,396.663499,1.205715,40.974084,43.982946,34.249300
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "climate_change_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReader_Extract(t *testing.T) {
	r := NewReader(writeFile(t, sample), discardLogger())

	raw, err := r.Extract(context.Background())
	require.NoError(t, err)

	require.Len(t, raw.Records, 2)
	assert.Equal(t, []string{"Location", "Country"}, raw.ExtraColumns)
	assert.Equal(t, "North Rachel", raw.Records[1].Extra[0])
	assert.InDelta(t, 13.814430, raw.Records[1].Readings[domain.FieldTemperature].Value, 1e-9)

	table, _ := domain.Clean(raw)
	require.Len(t, table.Records, 2)
	assert.Equal(t, 2000, table.Records[1].Year)
}

func TestReader_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "absent.csv"), discardLogger())

	_, err := r.Extract(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReader_Malformed(t *testing.T) {
	r := NewReader(writeFile(t, "Date,Temperature\n2000-01-01,1\n"), discardLogger())

	_, err := r.Extract(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestReader_CancelledContext(t *testing.T) {
	r := NewReader(writeFile(t, sample), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
