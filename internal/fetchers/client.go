package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pricecast/internal/config"
	"pricecast/internal/logger"
	"pricecast/internal/models"
	"pricecast/internal/reference"

	"github.com/go-resty/resty/v2"
)

// PriceSource is anything that can produce history and forecast series
// for one state and commodity.
type PriceSource interface {
	FetchHistory(ctx context.Context, stateCode, token string) (models.PriceSeries, error)
	FetchForecast(ctx context.Context, stateCode, token string, horizon int) (models.PriceSeries, error)
}

// ClientOptions configures the outbound price client
type ClientOptions struct {
	HistoryURL  string
	ForecastURL string
	Timeout     time.Duration
	RetryCount  int
}

// OptionsFromConfig builds client options from the service configuration
func OptionsFromConfig(cfg *config.Config) ClientOptions {
	return ClientOptions{
		HistoryURL:  cfg.HistoryURL(),
		ForecastURL: cfg.ForecastURL(),
		Timeout:     cfg.HTTPTimeout,
		RetryCount:  cfg.RetryCount,
	}
}

// PriceClient talks to the remote price service
type PriceClient struct {
	client      *resty.Client
	historyURL  string
	forecastURL string
}

// NewPriceClient creates a new price client
func NewPriceClient(opts ClientOptions) *PriceClient {
	return &PriceClient{
		client:      newRestyClient(opts.Timeout, opts.RetryCount),
		historyURL:  opts.HistoryURL,
		forecastURL: opts.ForecastURL,
	}
}

func newRestyClient(timeout time.Duration, retries int) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(retries)
	client.SetRetryWaitTime(2 * time.Second)
	client.SetLogger(logger.Component("http"))
	return client
}

// FetchHistory fetches the historical modal price series
func (c *PriceClient) FetchHistory(ctx context.Context, stateCode, token string) (models.PriceSeries, error) {
	req := models.HistoryRequest{State: stateCode, Commodity: token}

	body, err := c.post(ctx, OpHistory, stateCode, c.historyURL, req)
	if err != nil {
		return models.NewPriceSeries(models.HistoricalSeries), err
	}

	var payload models.HistoryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.NewPriceSeries(models.HistoricalSeries), parseError(OpHistory, stateCode, err)
	}
	if payload.ModalRsQuintal == nil {
		return models.NewPriceSeries(models.HistoricalSeries),
			parseError(OpHistory, stateCode, fmt.Errorf("response has no %s", models.HistoricalSeries.WireKey()))
	}

	series, err := NormalizeSeries(payload.ModalRsQuintal, models.HistoricalSeries)
	if err != nil {
		return series, parseError(OpHistory, stateCode, err)
	}
	return series, nil
}

// FetchForecast fetches the predicted price series for the next horizon days
func (c *PriceClient) FetchForecast(ctx context.Context, stateCode, token string, horizon int) (models.PriceSeries, error) {
	if err := reference.ValidateHorizon(horizon); err != nil {
		return models.NewPriceSeries(models.ForecastSeries), &FetchError{
			Kind: KindInvalidInput, Op: OpForecast, State: stateCode, Err: err,
		}
	}

	req := models.ForecastRequest{State: stateCode, Commodity: token, Horizon: horizon}

	body, err := c.post(ctx, OpForecast, stateCode, c.forecastURL, req)
	if err != nil {
		return models.NewPriceSeries(models.ForecastSeries), err
	}

	var payload models.ForecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.NewPriceSeries(models.ForecastSeries), parseError(OpForecast, stateCode, err)
	}
	if payload.Y == nil {
		return models.NewPriceSeries(models.ForecastSeries),
			parseError(OpForecast, stateCode, fmt.Errorf("response has no %s", models.ForecastSeries.WireKey()))
	}

	series, err := NormalizeSeries(payload.Y, models.ForecastSeries)
	if err != nil {
		return series, parseError(OpForecast, stateCode, err)
	}
	return series, nil
}

func (c *PriceClient) post(ctx context.Context, op, stateCode, url string, payload interface{}) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(payload).
		Post(url)

	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Op: op, State: stateCode, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &FetchError{
			Kind:   KindTransport,
			Op:     op,
			State:  stateCode,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("%s returned %s", url, resp.Status()),
		}
	}

	return resp.Body(), nil
}

func parseError(op, stateCode string, err error) *FetchError {
	return &FetchError{Kind: KindParse, Op: op, State: stateCode, Err: err}
}
