package mocks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pricecast/internal/fetchers"
	"pricecast/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fetchers.PriceSource = (*MockService)(nil)

func TestMockHistory(t *testing.T) {
	m := NewMockService("data")

	series, err := m.FetchHistory(context.Background(), "KL", "Rice")
	require.NoError(t, err)
	assert.Equal(t, 60, series.Len())

	dates := series.Dates()
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i-1].Before(dates[i]))
	}

	again, err := m.FetchHistory(context.Background(), "KL", "Rice")
	require.NoError(t, err)
	assert.Equal(t, series.Values(), again.Values(), "mock output must be stable")
}

func TestMockForecastTruncatesToHorizon(t *testing.T) {
	m := NewMockService("data")

	series, err := m.FetchForecast(context.Background(), "MH", "onion", 120)
	require.NoError(t, err)
	assert.Equal(t, 120, series.Len())

	_, err = m.FetchForecast(context.Background(), "MH", "onion", 20)
	assert.True(t, fetchers.IsKind(err, fetchers.KindInvalidInput))
}

func TestMockSimulatedFailure(t *testing.T) {
	m := NewMockService("data")

	series, err := m.FetchForecast(context.Background(), "SK", "onion", 150)
	require.Error(t, err)
	assert.True(t, series.IsEmpty())
	assert.Equal(t, "Error fetching predictions: 503", fetchers.UserMessage(err))

	result := fetchers.NewDataFetcher(m, reference.Default(), 4).FetchForecastAllStates(context.Background(), "onion", 150)
	assert.Equal(t, 31, result.Succeeded())
}

func TestMockBoundaryCoversTable(t *testing.T) {
	b, err := NewMockService("data").Boundary().Fetch(context.Background())
	require.NoError(t, err)

	for _, name := range reference.Default().StateNames() {
		for _, region := range reference.MapRegions(name) {
			assert.True(t, b.Has(region), "boundary is missing %s", region)
		}
	}
}

func TestMockMissingFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewMockService(dir)

	_, err := m.FetchHistory(context.Background(), "KL", "Rice")
	assert.True(t, fetchers.IsKind(err, fetchers.KindParse))

	_, err = m.Boundary().Fetch(context.Background())
	assert.True(t, fetchers.IsKind(err, fetchers.KindBoundary))

	require.NoError(t, os.WriteFile(filepath.Join(dir, failuresFile), []byte("{"), 0644))
	_, err = m.FetchHistory(context.Background(), "KL", "Rice")
	assert.Error(t, err)
}
