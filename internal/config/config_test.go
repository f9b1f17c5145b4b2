package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:        "defaults",
			envVars:     map[string]string{},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8080" {
					t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
				}
				if cfg.HistoryURL() != "http://3.85.3.0:8080/krushijyotishi/getData" {
					t.Errorf("Unexpected default history URL '%s'", cfg.HistoryURL())
				}
				if cfg.ForecastURL() != "http://3.85.3.0:8080/krushijyotishi/predict" {
					t.Errorf("Unexpected default forecast URL '%s'", cfg.ForecastURL())
				}
				if !strings.HasSuffix(cfg.BoundaryURL, "/india_states.geojson") {
					t.Errorf("Unexpected default boundary URL '%s'", cfg.BoundaryURL)
				}
				if cfg.HTTPTimeout != 30*time.Second {
					t.Errorf("Expected default HTTPTimeout 30s, got %s", cfg.HTTPTimeout)
				}
				if cfg.RetryCount != 0 {
					t.Errorf("Expected default RetryCount 0, got %d", cfg.RetryCount)
				}
				if cfg.FanOutConcurrency != 8 {
					t.Errorf("Expected default FanOutConcurrency 8, got %d", cfg.FanOutConcurrency)
				}
				if cfg.MockupMode {
					t.Errorf("Expected MockupMode to default to false")
				}
				if cfg.GCSBucket != "" || cfg.LocalReportsDir != "./reports" {
					t.Errorf("Unexpected snapshot defaults %q/%q", cfg.GCSBucket, cfg.LocalReportsDir)
				}
				if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
					t.Errorf("Unexpected log defaults %q/%q", cfg.LogLevel, cfg.LogFormat)
				}
			},
		},
		{
			name: "custom configuration values",
			envVars: map[string]string{
				"PORT":               "9000",
				"PRICE_API_URL":      "https://prices.example.com/api/",
				"HISTORY_PATH":       "/history",
				"HTTP_TIMEOUT":       "5s",
				"FANOUT_CONCURRENCY": "1",
				"MOCKUP_MODE":        "true",
				"LOG_FORMAT":         "text",
				"GCS_BUCKET":         "pricecast-snapshots",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("Expected Port '9000', got '%s'", cfg.Port)
				}
				if cfg.HistoryURL() != "https://prices.example.com/api/history" {
					t.Errorf("Unexpected history URL '%s'", cfg.HistoryURL())
				}
				if cfg.HTTPTimeout != 5*time.Second {
					t.Errorf("Expected HTTPTimeout 5s, got %s", cfg.HTTPTimeout)
				}
				if cfg.FanOutConcurrency != 1 {
					t.Errorf("Expected FanOutConcurrency 1, got %d", cfg.FanOutConcurrency)
				}
				if !cfg.MockupMode {
					t.Errorf("Expected MockupMode true")
				}
				if cfg.GCSBucket != "pricecast-snapshots" {
					t.Errorf("Expected GCSBucket 'pricecast-snapshots', got '%s'", cfg.GCSBucket)
				}
			},
		},
		{
			name:        "zero concurrency rejected",
			envVars:     map[string]string{"FANOUT_CONCURRENCY": "0"},
			expectError: true,
		},
		{
			name:        "non-http price url rejected",
			envVars:     map[string]string{"PRICE_API_URL": "ftp://prices"},
			expectError: true,
		},
		{
			name:        "negative retries rejected",
			envVars:     map[string]string{"RETRY_COUNT": "-1"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.envVars))
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := &Config{PriceAPIURL: "nope", FanOutConcurrency: 0}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	for _, want := range []string{"PORT", "PRICE_API_URL", "FANOUT_CONCURRENCY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got: %v", want, err)
		}
	}
}
