package fetchers

import (
	"context"
	"errors"
	"time"

	"pricecast/internal/logger"
	"pricecast/internal/models"
	"pricecast/internal/reference"

	"golang.org/x/sync/errgroup"
)

// StateFailure records why one state is missing from an all-states result
type StateFailure struct {
	State models.StateEntry
	Err   error
}

// AllStatesResult is the outcome of a forecast fan-out over every state.
// Predictions is keyed by state display name.
type AllStatesResult struct {
	Predictions map[string]models.StatePrediction
	Failures    []StateFailure
}

// Succeeded returns the number of states with a usable prediction
func (r AllStatesResult) Succeeded() int {
	return len(r.Predictions)
}

// DataFetcher combines a price source with the reference tables
type DataFetcher struct {
	source      PriceSource
	tables      *reference.Tables
	concurrency int
	log         *logger.Logger
}

// NewDataFetcher creates a new data fetcher. A concurrency of 1 fetches
// states strictly one after another.
func NewDataFetcher(source PriceSource, tables *reference.Tables, concurrency int) *DataFetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &DataFetcher{
		source:      source,
		tables:      tables,
		concurrency: concurrency,
		log:         logger.Component("fetchers"),
	}
}

// Tables returns the reference tables the fetcher resolves names with
func (f *DataFetcher) Tables() *reference.Tables {
	return f.tables
}

// FetchHistory delegates to the underlying source
func (f *DataFetcher) FetchHistory(ctx context.Context, stateCode, token string) (models.PriceSeries, error) {
	return f.source.FetchHistory(ctx, stateCode, token)
}

// FetchForecast delegates to the underlying source
func (f *DataFetcher) FetchForecast(ctx context.Context, stateCode, token string, horizon int) (models.PriceSeries, error) {
	return f.source.FetchForecast(ctx, stateCode, token, horizon)
}

// FetchForecastAllStates requests a forecast for every state in the table.
// Failed states are logged, listed in Failures and left out of Predictions.
func (f *DataFetcher) FetchForecastAllStates(ctx context.Context, token string, horizon int) AllStatesResult {
	states := f.tables.States()
	result := AllStatesResult{Predictions: make(map[string]models.StatePrediction, len(states))}

	if err := reference.ValidateHorizon(horizon); err != nil {
		f.log.Warn("Skipping all-states forecast", map[string]interface{}{
			"commodity": token,
			"horizon":   horizon,
			"error":     err.Error(),
		})
		for _, state := range states {
			result.Failures = append(result.Failures, StateFailure{
				State: state,
				Err:   &FetchError{Kind: KindInvalidInput, Op: OpForecast, State: state.Code, Err: err},
			})
		}
		return result
	}

	start := time.Now()
	preds := make([]models.StatePrediction, len(states))
	errs := make([]error, len(states))

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, state := range states {
		i, state := i, state
		g.Go(func() error {
			series, err := f.source.FetchForecast(ctx, state.Code, token, horizon)
			if err != nil {
				errs[i] = err
				return nil
			}
			head, ok := series.First()
			if !ok {
				errs[i] = &FetchError{
					Kind:  KindParse,
					Op:    OpForecast,
					State: state.Code,
					Err:   errors.New("forecast series is empty"),
				}
				return nil
			}
			preds[i] = models.StatePrediction{State: state, Series: series, HeadlineValue: head.Value}
			return nil
		})
	}
	_ = g.Wait()

	for i, state := range states {
		if errs[i] != nil {
			f.log.Warn("Could not fetch prediction for "+state.DisplayName, map[string]interface{}{
				"state": state.Code,
				"error": errs[i].Error(),
			})
			result.Failures = append(result.Failures, StateFailure{State: state, Err: errs[i]})
			continue
		}
		result.Predictions[state.DisplayName] = preds[i]
	}

	f.log.Info("All-states forecast complete", map[string]interface{}{
		"commodity":   token,
		"horizon":     horizon,
		"succeeded":   result.Succeeded(),
		"failed":      len(result.Failures),
		"concurrency": f.concurrency,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return result
}

// MergeWithDefaults returns one value per state in table order. States
// without a prediction get a headline value of 0.
func MergeWithDefaults(states []models.StateEntry, predictions map[string]models.StatePrediction) []models.StateValue {
	values := make([]models.StateValue, 0, len(states))
	for _, state := range states {
		v := models.StateValue{State: state}
		if pred, ok := predictions[state.DisplayName]; ok {
			v.Value = pred.HeadlineValue
			v.Fetched = true
		}
		values = append(values, v)
	}
	return values
}
