package fetchers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pricecast/internal/models"
	"pricecast/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource answers forecasts with the state's table position as the
// headline value and fails for the codes in fail
type fakeSource struct {
	fail  map[string]bool
	empty map[string]bool
	delay time.Duration

	mu       sync.Mutex
	order    []string
	inFlight int32
	maxSeen  int32
}

func (f *fakeSource) FetchHistory(ctx context.Context, stateCode, token string) (models.PriceSeries, error) {
	return models.NewPriceSeries(models.HistoricalSeries), nil
}

func (f *fakeSource) FetchForecast(ctx context.Context, stateCode, token string, horizon int) (models.PriceSeries, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.order = append(f.order, stateCode)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if f.fail[stateCode] {
		return models.NewPriceSeries(models.ForecastSeries), &FetchError{
			Kind: KindTransport, Op: OpForecast, State: stateCode, Status: 500, Err: errors.New("boom"),
		}
	}
	series := models.NewPriceSeries(models.ForecastSeries)
	if f.empty[stateCode] {
		return series, nil
	}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series.Points = append(series.Points,
		models.PricePoint{Date: day, Value: float64(len(stateCode)) * 1000},
		models.PricePoint{Date: day.AddDate(0, 0, 1), Value: 1},
	)
	return series, nil
}

func TestFetchForecastAllStatesPartialFailure(t *testing.T) {
	tables := reference.Default()
	source := &fakeSource{fail: map[string]bool{"KL": true, "MH": true}}
	fetcher := NewDataFetcher(source, tables, 4)

	result := fetcher.FetchForecastAllStates(context.Background(), "rice", 150)

	assert.Equal(t, 30, result.Succeeded())
	require.Len(t, result.Failures, 2)
	for _, f := range result.Failures {
		assert.Contains(t, []string{"KL", "MH"}, f.State.Code)
		assert.True(t, IsKind(f.Err, KindTransport))
	}

	merged := MergeWithDefaults(tables.States(), result.Predictions)
	require.Len(t, merged, 32)
	for i, v := range merged {
		assert.Equal(t, tables.States()[i], v.State, "merge keeps table order")
		switch v.State.Code {
		case "KL", "MH":
			assert.False(t, v.Fetched)
			assert.Zero(t, v.Value)
		default:
			assert.True(t, v.Fetched)
			assert.Equal(t, float64(len(v.State.Code))*1000, v.Value)
		}
	}
}

func TestFetchForecastAllStatesEmptySeriesIsFailure(t *testing.T) {
	source := &fakeSource{empty: map[string]bool{"GJ": true}}
	result := NewDataFetcher(source, reference.Default(), 8).FetchForecastAllStates(context.Background(), "wheat", 150)

	assert.Equal(t, 31, result.Succeeded())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "GJ", result.Failures[0].State.Code)
	assert.True(t, IsKind(result.Failures[0].Err, KindParse))
}

func TestFetchForecastAllStatesRespectsLimit(t *testing.T) {
	source := &fakeSource{delay: 5 * time.Millisecond}
	NewDataFetcher(source, reference.Default(), 3).FetchForecastAllStates(context.Background(), "rice", 150)

	assert.LessOrEqual(t, atomic.LoadInt32(&source.maxSeen), int32(3))
	assert.Len(t, source.order, 32)
}

func TestFetchForecastAllStatesSequential(t *testing.T) {
	tables := reference.Default()
	source := &fakeSource{}
	NewDataFetcher(source, tables, 1).FetchForecastAllStates(context.Background(), "rice", 150)

	want := make([]string, 0, 32)
	for _, s := range tables.States() {
		want = append(want, s.Code)
	}
	assert.Equal(t, want, source.order)
	assert.Equal(t, int32(1), source.maxSeen)
}

func TestFetchForecastAllStatesInvalidHorizon(t *testing.T) {
	source := &fakeSource{}
	result := NewDataFetcher(source, reference.Default(), 8).FetchForecastAllStates(context.Background(), "rice", 30)

	assert.Zero(t, result.Succeeded())
	assert.Len(t, result.Failures, 32)
	assert.Empty(t, source.order)
	assert.True(t, IsKind(result.Failures[0].Err, KindInvalidInput))
}

func TestMergeWithDefaultsAllMissing(t *testing.T) {
	states := reference.Default().States()
	merged := MergeWithDefaults(states, nil)

	require.Len(t, merged, len(states))
	for _, v := range merged {
		assert.False(t, v.Fetched)
		assert.Zero(t, v.Value)
	}
}
