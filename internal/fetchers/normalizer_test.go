package fetchers

import (
	"testing"
	"time"

	"pricecast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawSeries(values map[string]float64) models.RawSeries {
	raw := make(models.RawSeries, len(values))
	for k, v := range values {
		v := v
		raw[k] = &v
	}
	return raw
}

func TestNormalizeSeriesSortsByDate(t *testing.T) {
	raw := rawSeries(map[string]float64{
		"2021-01-01": 100,
		"2021-01-03": 90,
		"2021-01-02": 95,
	})

	series, err := NormalizeSeries(raw, models.HistoricalSeries)
	require.NoError(t, err)

	assert.Equal(t, models.HistoricalSeries, series.Kind)
	assert.Equal(t, []float64{100, 95, 90}, series.Values())
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), series.Dates()[0])
}

func TestNormalizeSeriesAcceptsTimestampLayouts(t *testing.T) {
	raw := rawSeries(map[string]float64{
		"2023-05-02T00:00:00":       2,
		"2023-05-01 00:00:00":       1,
		"2023-05-03T10:30:00+05:30": 3,
	})

	series, err := NormalizeSeries(raw, models.ForecastSeries)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, series.Values())
	for _, d := range series.Dates() {
		assert.Zero(t, d.Hour(), "dates should be truncated to the day")
	}
}

func TestNormalizeSeriesFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawSeries
	}{
		{"unparsable key", rawSeries(map[string]float64{"2021-01-01": 1, "yesterday": 2})},
		{"duplicate day", rawSeries(map[string]float64{"2021-01-01": 1, "2021-01-01 12:00:00": 2})},
		{"null price", models.RawSeries{"2021-01-01": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := NormalizeSeries(tt.raw, models.HistoricalSeries)
			assert.Error(t, err)
			assert.True(t, series.IsEmpty())
		})
	}
}

func TestNormalizeSeriesEmptyInput(t *testing.T) {
	series, err := NormalizeSeries(models.RawSeries{}, models.ForecastSeries)
	require.NoError(t, err)
	assert.True(t, series.IsEmpty())
}
