package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the commodity price dashboard
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8080"`

	// Price service
	PriceAPIURL  string `env:"PRICE_API_URL,default=http://3.85.3.0:8080/krushijyotishi"`
	HistoryPath  string `env:"HISTORY_PATH,default=/getData"`
	ForecastPath string `env:"FORECAST_PATH,default=/predict"`
	BoundaryURL  string `env:"BOUNDARY_URL,default=https://gist.githubusercontent.com/jbrobst/56c13bbbf9d97d187fea01ca62ea5112/raw/e388c4cae20aa53cb5090210a42ebb9b765c0a36/india_states.geojson"`

	// Outbound HTTP behaviour
	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT,default=30s"`
	RetryCount        int           `env:"RETRY_COUNT,default=0"`
	FanOutConcurrency int           `env:"FANOUT_CONCURRENCY,default=8"`

	// Offline mode
	MockupMode bool   `env:"MOCKUP_MODE,default=false"`
	MocksDir   string `env:"MOCKS_DIR,default=internal/mocks/data"`

	// Snapshot output. Snapshots go to GCS when a bucket is set.
	LocalReportsDir string `env:"LOCAL_REPORTS_DIR,default=./reports"`
	GCSBucket       string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from the environment. A .env file in the
// working directory is read first if present; real environment variables
// take precedence over it.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom loads configuration using the given lookuper
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express in tags
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if !strings.HasPrefix(c.PriceAPIURL, "http://") && !strings.HasPrefix(c.PriceAPIURL, "https://") {
		errs = append(errs, fmt.Errorf("PRICE_API_URL must be an http(s) URL, got %q", c.PriceAPIURL))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT must be >= 0, got %s", c.HTTPTimeout))
	}
	if c.RetryCount < 0 {
		errs = append(errs, fmt.Errorf("RETRY_COUNT must be >= 0, got %d", c.RetryCount))
	}
	if c.FanOutConcurrency < 1 {
		errs = append(errs, fmt.Errorf("FANOUT_CONCURRENCY must be >= 1, got %d", c.FanOutConcurrency))
	}
	return errors.Join(errs...)
}

// HistoryURL is the full URL of the historical price endpoint
func (c *Config) HistoryURL() string {
	return strings.TrimRight(c.PriceAPIURL, "/") + c.HistoryPath
}

// ForecastURL is the full URL of the forecast endpoint
func (c *Config) ForecastURL() string {
	return strings.TrimRight(c.PriceAPIURL, "/") + c.ForecastPath
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
