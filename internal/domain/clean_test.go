package domain

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "Date,Location,Country,Temperature,CO2 Emissions,Sea Level Rise,Precipitation,Humidity,Wind Speed"

func readRaw(t *testing.T, rows ...string) RawTable {
	t.Helper()
	raw, err := ReadRawCSV(strings.NewReader(testHeader + "\n" + strings.Join(rows, "\n") + "\n"))
	require.NoError(t, err)
	return raw
}

func TestClean(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	t.Run("drops rows with a missing measurement", func(t *testing.T) {
		raw := readRaw(t,
			"2001-03-04,Oslo,Norway,10.5,400,2.1,50,60,12",
			"2002-03-04,Oslo,Norway,,400,2.1,50,60,12",
			"2003-03-04,Oslo,Norway,11.0,400,NaN,50,60,12",
		)
		table, report := Clean(raw)

		require.Len(t, table.Records, 1)
		assert.Equal(t, 2001, table.Records[0].Year)
		assert.Equal(t, 2, report.DroppedMissing)
		assert.Equal(t, 0, report.Filled)
		assert.Equal(t, 1, report.RowsOut)
	})

	t.Run("drops unparsable dates", func(t *testing.T) {
		raw := readRaw(t,
			"2001-03-04,Oslo,Norway,10.5,400,2.1,50,60,12",
			"not-a-date,Oslo,Norway,10.5,400,2.1,50,60,12",
			",Oslo,Norway,10.5,400,2.1,50,60,12",
		)
		table, report := Clean(raw)

		require.Len(t, table.Records, 1)
		assert.Equal(t, time.Date(2001, time.March, 4, 0, 0, 0, 0, time.UTC), table.Records[0].Date)
		assert.Equal(t, 2, report.DroppedInvalidDate)
	})

	t.Run("keeps exactly one of identical rows", func(t *testing.T) {
		raw := readRaw(t,
			"2001-03-04,Oslo,Norway,10.5,400,2.1,50,60,12",
			"2001-03-04,Oslo,Norway,10.50,400.0,2.1,50,60,12",
			"2001-03-04 00:00:00,Oslo,Norway,10.5,400,2.1,50,60,12",
			"2001-03-04,Bergen,Norway,10.5,400,2.1,50,60,12",
		)
		table, report := Clean(raw)

		require.Len(t, table.Records, 2)
		assert.Equal(t, []string{"Oslo", "Norway"}, table.Records[0].Extra)
		assert.Equal(t, []string{"Bergen", "Norway"}, table.Records[1].Extra)
		assert.Equal(t, 2, report.DroppedDuplicates)
	})

	t.Run("keeps rows at the same instant in different offsets", func(t *testing.T) {
		table, report := Clean(readRaw(t,
			"2020-01-01T02:00:00+05:00,Oslo,Norway,1,2,3,4,5,6",
			"2019-12-31T21:00:00Z,Oslo,Norway,1,2,3,4,5,6",
		))

		require.Equal(t, 2, table.Len())
		assert.Zero(t, report.DroppedDuplicates)
		assert.Equal(t, 2020, table.Records[0].Year)
		assert.Equal(t, 2019, table.Records[1].Year)
	})

	t.Run("derives year and stamps clean time", func(t *testing.T) {
		raw := readRaw(t,
			"1999-12-31 23:59:59,Oslo,Norway,10.5,400,2.1,50,60,12",
			"2020-01-01T00:00:00Z,Oslo,Norway,10.5,400,2.1,50,60,12",
		)
		table, _ := Clean(raw)

		require.Len(t, table.Records, 2)
		assert.Equal(t, 1999, table.Records[0].Year)
		assert.Equal(t, 2020, table.Records[1].Year)
		assert.Equal(t, fakeClock.Now(), table.CleanedAt)
	})

	t.Run("empty input yields an empty table", func(t *testing.T) {
		table, report := Clean(readRaw(t))

		assert.True(t, table.Empty())
		assert.Equal(t, CleanReport{}, report)
	})

	t.Run("all dates invalid yields an empty table", func(t *testing.T) {
		table, report := Clean(readRaw(t,
			"soon,Oslo,Norway,10.5,400,2.1,50,60,12",
			"later,Oslo,Norway,11.5,400,2.1,50,60,12",
		))

		assert.True(t, table.Empty())
		assert.Equal(t, 2, report.DroppedInvalidDate)
	})

	t.Run("keeps the source column order", func(t *testing.T) {
		table, _ := Clean(readRaw(t, "2001-03-04,Oslo,Norway,10.5,400,2.1,50,60,12"))

		assert.Equal(t, strings.Split(testHeader, ","), table.Columns)
		assert.Equal(t, []string{"Location", "Country"}, table.ExtraColumns)
	})
}

func TestClean_Invariants(t *testing.T) {
	raw := readRaw(t,
		"2001-03-04,Oslo,Norway,10.5,400,2.1,50,60,12",
		"2001-03-04,Oslo,Norway,10.5,400,2.1,50,60,12",
		"2002-07-01,Lima,Peru,,401,2.2,51,61,13",
		"bad,Lima,Peru,20,401,2.2,51,61,13",
		"2003-07-01,Lima,Peru,20,401,2.2,51,61,NA",
		"2004/07/01,Lima,Peru,21,402,2.3,52,62,14",
		"07/01/2005,Lima,Peru,22,403,2.4,53,63,15",
	)
	table, report := Clean(raw)

	assert.Empty(t, Validate(&table))
	assert.Equal(t, 3, report.RowsOut)
	assert.Equal(t, report.RowsIn,
		report.DroppedMissing+report.DroppedDuplicates+report.DroppedInvalidDate+report.RowsOut)
}

func TestFillMissingWithMean(t *testing.T) {
	rows := []RawRecord{
		{Date: "2001-01-01", Readings: [numFields]Reading{Measured(10), Measured(1), Measured(1), Measured(1), Measured(1), Measured(1)}},
		{Date: "2002-01-01", Readings: [numFields]Reading{{}, Measured(3), Measured(1), Measured(1), Measured(1), Measured(1)}},
		{Date: "2003-01-01", Readings: [numFields]Reading{Measured(20), {}, Measured(1), Measured(1), Measured(1), Measured(1)}},
	}

	filled, n := fillMissingWithMean(rows)

	assert.Equal(t, 2, n)
	assert.Equal(t, Measured(15), filled[1].Readings[FieldTemperature])
	assert.Equal(t, Measured(2), filled[2].Readings[FieldCO2Emissions])
}

func TestFillMissingWithMean_NoOpAfterDropMissing(t *testing.T) {
	raw := readRaw(t,
		"2001-03-04,Oslo,Norway,10.5,400,2.1,50,60,12",
		"2002-03-04,Oslo,Norway,,401,2.1,50,60,12",
	)
	rows := dropMissing(raw.Records)
	_, n := fillMissingWithMean(rows)

	assert.Zero(t, n)
}

func TestValidate_ReportsNonFinite(t *testing.T) {
	d := time.Date(2010, time.May, 5, 0, 0, 0, 0, time.UTC)
	table := Table{Records: []Record{
		{Date: d, Year: 2010, Values: [numFields]float64{math.Inf(1)}},
	}}

	errs := Validate(&table)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "non-finite Temperature")
}

func TestValidate_ReportsViolations(t *testing.T) {
	d := time.Date(2010, time.May, 5, 0, 0, 0, 0, time.UTC)
	table := Table{Records: []Record{
		{Date: d, Year: 2010},
		{Date: d, Year: 2010},
		{Date: d, Year: 2011, Values: [numFields]float64{1}},
		{Year: 1},
	}}

	errs := Validate(&table)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "duplicate of record 0")
	assert.Contains(t, errs[1].Error(), "does not match")
	assert.Contains(t, errs[2].Error(), "missing date")
}
