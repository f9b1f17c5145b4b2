package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pricecast/internal/config"
	"pricecast/internal/dashboard"
	"pricecast/internal/fetchers"
	"pricecast/internal/logger"
	"pricecast/internal/mocks"
	"pricecast/internal/reference"
)

// Server represents the main application server
type Server struct {
	Config      *config.Config
	Fetcher     *fetchers.DataFetcher
	Boundary    fetchers.BoundarySource
	Dashboard   *dashboard.Service
	MockService *mocks.MockService
	log         *logger.Logger
}

// NewServer creates a new server instance. In mockup mode prices and
// boundaries come from files under MOCKS_DIR.
func NewServer(cfg *config.Config) (*Server, error) {
	log := logger.Component("server")

	var (
		source   fetchers.PriceSource
		boundary fetchers.BoundarySource
		mock     *mocks.MockService
	)
	if cfg.MockupMode {
		mock = mocks.NewMockService(cfg.MocksDir)
		source = mock
		boundary = mock.Boundary()
		log.Info("Mockup mode enabled", map[string]interface{}{"mocks_dir": cfg.MocksDir})
	} else {
		source = fetchers.NewPriceClient(fetchers.OptionsFromConfig(cfg))
		boundary = fetchers.NewBoundaryFetcher(cfg.BoundaryURL, cfg.HTTPTimeout, cfg.RetryCount)
		log.Info("Using remote price service", map[string]interface{}{
			"history_url":  cfg.HistoryURL(),
			"forecast_url": cfg.ForecastURL(),
			"boundary_url": cfg.BoundaryURL,
		})
	}

	s, err := NewServerWith(cfg, source, boundary)
	if err != nil {
		return nil, err
	}
	s.MockService = mock
	return s, nil
}

// NewServerWith creates a server around explicit price and boundary sources
func NewServerWith(cfg *config.Config, source fetchers.PriceSource, boundary fetchers.BoundarySource) (*Server, error) {
	fetcher := fetchers.NewDataFetcher(source, reference.Default(), cfg.FanOutConcurrency)
	dash, err := dashboard.NewService(fetcher, boundary)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dashboard: %w", err)
	}
	return &Server{
		Config:    cfg,
		Fetcher:   fetcher,
		Boundary:  boundary,
		Dashboard: dash,
		log:       logger.Component("server"),
	}, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/generate", s.HandleGenerate)
	mux.HandleFunc("/chart.png", s.HandleChartPNG)
	mux.HandleFunc("/api/reference", s.HandleReference)
	mux.HandleFunc("/api/history", s.HandleHistory)
	mux.HandleFunc("/api/forecast", s.HandleForecast)
	mux.HandleFunc("/api/forecast/all", s.HandleForecastAll)

	// Handle root path last (catch-all)
	mux.HandleFunc("/", s.HandleRoot)

	return s.withMiddleware(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", map[string]interface{}{
			"port":        s.Config.Port,
			"environment": s.Config.Environment,
			"version":     config.GetVersion(),
			"mockup_mode": s.Config.MockupMode,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
