package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"os"
	"path/filepath"

	"pricecast/internal/fetchers"
	"pricecast/internal/models"
	"pricecast/internal/reference"
)

const (
	historyFile  = "history.json"
	forecastFile = "forecast.json"
	boundaryFile = "india_states.geojson"
	failuresFile = "failures.json"
)

// failureList names the state codes the mock should fail for
type failureList struct {
	History  []string `json:"history"`
	Forecast []string `json:"forecast"`
}

// MockService serves price series and boundaries from files on disk. Every
// state shares the same base series, scaled by a stable per state and
// commodity factor so the map has something to colour.
type MockService struct {
	mocksDir string
}

// NewMockService creates a new mock service
func NewMockService(mocksDir string) *MockService {
	return &MockService{
		mocksDir: mocksDir,
	}
}

// Dir is the fixture directory the service reads from
func (m *MockService) Dir() string {
	return m.mocksDir
}

// FetchHistory returns the mock history series
func (m *MockService) FetchHistory(ctx context.Context, stateCode, token string) (models.PriceSeries, error) {
	if err := m.simulatedFailure(fetchers.OpHistory, stateCode); err != nil {
		return models.NewPriceSeries(models.HistoricalSeries), err
	}

	var payload models.HistoryResponse
	if err := m.loadTypedJSONFile(historyFile, &payload); err != nil {
		return models.NewPriceSeries(models.HistoricalSeries), &fetchers.FetchError{
			Kind: fetchers.KindParse, Op: fetchers.OpHistory, State: stateCode, Err: err,
		}
	}

	series, err := fetchers.NormalizeSeries(payload.ModalRsQuintal, models.HistoricalSeries)
	if err != nil {
		return series, &fetchers.FetchError{Kind: fetchers.KindParse, Op: fetchers.OpHistory, State: stateCode, Err: err}
	}
	return scale(series, stateCode, token), nil
}

// FetchForecast returns the first horizon days of the mock forecast series
func (m *MockService) FetchForecast(ctx context.Context, stateCode, token string, horizon int) (models.PriceSeries, error) {
	if err := reference.ValidateHorizon(horizon); err != nil {
		return models.NewPriceSeries(models.ForecastSeries), &fetchers.FetchError{
			Kind: fetchers.KindInvalidInput, Op: fetchers.OpForecast, State: stateCode, Err: err,
		}
	}
	if err := m.simulatedFailure(fetchers.OpForecast, stateCode); err != nil {
		return models.NewPriceSeries(models.ForecastSeries), err
	}

	var payload models.ForecastResponse
	if err := m.loadTypedJSONFile(forecastFile, &payload); err != nil {
		return models.NewPriceSeries(models.ForecastSeries), &fetchers.FetchError{
			Kind: fetchers.KindParse, Op: fetchers.OpForecast, State: stateCode, Err: err,
		}
	}

	series, err := fetchers.NormalizeSeries(payload.Y, models.ForecastSeries)
	if err != nil {
		return series, &fetchers.FetchError{Kind: fetchers.KindParse, Op: fetchers.OpForecast, State: stateCode, Err: err}
	}
	if series.Len() > horizon {
		series.Points = series.Points[:horizon]
	}
	return scale(series, stateCode, token), nil
}

// Boundary returns a boundary source reading the bundled GeoJSON file
func (m *MockService) Boundary() fetchers.BoundarySource {
	return mockBoundary{m}
}

type mockBoundary struct {
	m *MockService
}

func (b mockBoundary) Fetch(ctx context.Context) (*fetchers.Boundary, error) {
	content, err := b.m.readFile(boundaryFile)
	if err != nil {
		return nil, &fetchers.FetchError{Kind: fetchers.KindBoundary, Op: fetchers.OpBoundary, Err: err}
	}
	boundary, err := fetchers.ParseBoundary(content)
	if err != nil {
		return nil, &fetchers.FetchError{Kind: fetchers.KindBoundary, Op: fetchers.OpBoundary, Err: err}
	}
	return boundary, nil
}

// simulatedFailure returns a 503 error for states listed in failures.json.
// A missing file means nothing fails.
func (m *MockService) simulatedFailure(op, stateCode string) error {
	var failures failureList
	if _, err := os.Stat(filepath.Join(m.mocksDir, failuresFile)); err != nil {
		return nil
	}
	if err := m.loadTypedJSONFile(failuresFile, &failures); err != nil {
		return &fetchers.FetchError{Kind: fetchers.KindParse, Op: op, State: stateCode, Err: err}
	}

	codes := failures.History
	if op == fetchers.OpForecast {
		codes = failures.Forecast
	}
	for _, c := range codes {
		if c == stateCode {
			return &fetchers.FetchError{
				Kind:   fetchers.KindTransport,
				Op:     op,
				State:  stateCode,
				Status: 503,
				Err:    fmt.Errorf("simulated failure for %s", stateCode),
			}
		}
	}
	return nil
}

// scale multiplies every value by a factor in [0.8, 1.2) derived from the
// state and commodity
func scale(series models.PriceSeries, stateCode, token string) models.PriceSeries {
	h := fnv.New32a()
	h.Write([]byte(stateCode + "|" + token))
	factor := 0.8 + float64(h.Sum32()%400)/1000

	points := make([]models.PricePoint, len(series.Points))
	for i, p := range series.Points {
		points[i] = models.PricePoint{Date: p.Date, Value: math.Round(p.Value*factor*100) / 100}
	}
	return models.PriceSeries{Kind: series.Kind, Points: points}
}

func (m *MockService) readFile(filename string) ([]byte, error) {
	file, err := os.Open(filepath.Join(m.mocksDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return content, nil
}

// loadTypedJSONFile loads a JSON file and unmarshals it into target
func (m *MockService) loadTypedJSONFile(filename string, target interface{}) error {
	content, err := m.readFile(filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("failed to unmarshal file %s: %w", filename, err)
	}
	return nil
}
