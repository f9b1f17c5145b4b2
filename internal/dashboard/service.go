package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"pricecast/internal/charts"
	"pricecast/internal/fetchers"
	"pricecast/internal/logger"
	"pricecast/internal/reference"
)

// Service produces dashboard views. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	fetcher  *fetchers.DataFetcher
	boundary fetchers.BoundarySource
	builder  *HTMLBuilder
	log      *logger.Logger
}

// NewService creates a new dashboard service
func NewService(fetcher *fetchers.DataFetcher, boundary fetchers.BoundarySource) (*Service, error) {
	builder, err := NewHTMLBuilder(fetcher.Tables())
	if err != nil {
		return nil, err
	}
	return &Service{
		fetcher:  fetcher,
		boundary: boundary,
		builder:  builder,
		log:      logger.Component("dashboard"),
	}, nil
}

// Tables returns the reference tables the service validates requests with
func (s *Service) Tables() *reference.Tables {
	return s.fetcher.Tables()
}

// IdleView is the form before anything was generated
func (s *Service) IdleView(req Request) *View {
	return &View{State: Idle, Request: req, GeneratedAt: time.Now().UTC()}
}

// InvalidView reports a request that failed validation
func (s *Service) InvalidView(req Request, err error) *View {
	return &View{State: Failed, Request: req, Fatal: err.Error(), GeneratedAt: time.Now().UTC()}
}

// Generate fetches the data for req and builds the chart. Fetch failures in
// line mode become inline errors; only a missing boundary fails a map view.
func (s *Service) Generate(ctx context.Context, req Request) *View {
	view := &View{State: Loading, Request: req}
	if err := req.Validate(s.Tables()); err != nil {
		return s.InvalidView(req, err)
	}

	start := time.Now()
	s.log.Debug("Generating view", map[string]interface{}{
		"mode":      string(req.Mode),
		"commodity": req.Commodity,
		"state":     req.State,
		"horizon":   req.Horizon,
	})

	switch req.Mode {
	case MapView:
		s.generateMap(ctx, view)
	default:
		s.generateLine(ctx, view)
	}
	view.GeneratedAt = time.Now().UTC()

	s.log.Info("View generated", map[string]interface{}{
		"mode":        string(req.Mode),
		"commodity":   req.Commodity,
		"view_state":  view.State.String(),
		"errors":      len(view.Errors),
		"warnings":    len(view.Warnings),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return view
}

func (s *Service) generateLine(ctx context.Context, view *View) {
	req := view.Request
	tables := s.Tables()
	code := tables.MustStateCode(req.State)
	token := tables.MustCommodityToken(req.Commodity)

	view.Title = charts.LineTitle(req.Commodity, req.State)

	history, err := s.fetcher.FetchHistory(ctx, code, token)
	if err != nil {
		view.Errors = append(view.Errors, fetchers.UserMessage(err))
		s.log.Warn("History fetch failed", map[string]interface{}{"state": code, "error": err.Error()})
	}
	forecast, err := s.fetcher.FetchForecast(ctx, code, token, req.Horizon)
	if err != nil {
		view.Errors = append(view.Errors, fetchers.UserMessage(err))
		s.log.Warn("Forecast fetch failed", map[string]interface{}{"state": code, "error": err.Error()})
	}
	view.History = history
	view.Forecast = forecast

	snippet, err := charts.LineChart(history, forecast, req.Commodity, req.State)
	if err != nil && !errors.Is(err, charts.ErrNoData) {
		view.Errors = append(view.Errors, err.Error())
	}
	if err == nil {
		view.PNGLink = "/chart.png?" + req.Query().Encode()
	}
	view.Chart = template.HTML(snippet.HTML)

	if req.ShowRaw {
		view.Tables = []Table{
			SeriesTable("Historical Data", history),
			SeriesTable("Predictions", forecast),
		}
	}
	view.State = Rendered
}

func (s *Service) generateMap(ctx context.Context, view *View) {
	req := view.Request
	tables := s.Tables()
	token := tables.MustCommodityToken(req.Commodity)

	view.Title = charts.MapTitle(req.Commodity)

	result := s.fetcher.FetchForecastAllStates(ctx, token, req.Horizon)
	for _, f := range result.Failures {
		view.Warnings = append(view.Warnings,
			fmt.Sprintf("Could not fetch prediction for %s: %s", f.State.DisplayName, fetchers.UserMessage(f.Err)))
	}
	view.StateValues = fetchers.MergeWithDefaults(tables.States(), result.Predictions)

	boundary, err := s.boundary.Fetch(ctx)
	if err != nil {
		s.log.Error("Boundary fetch failed", err)
		view.State = Failed
		view.Fatal = fmt.Sprintf("Error generating visualization: %s", fetchers.UserMessage(err))
		return
	}

	snippet, err := charts.Choropleth(view.StateValues, boundary, req.Commodity)
	if err != nil {
		view.State = Failed
		view.Fatal = fmt.Sprintf("Error generating visualization: %v", err)
		return
	}
	view.Chart = template.HTML(snippet.HTML)

	if req.ShowRaw {
		view.Tables = []Table{StateTable(view.StateValues)}
	}
	view.State = Rendered
}

// RenderPage writes the complete HTML page for view
func (s *Service) RenderPage(w io.Writer, view *View) error {
	return s.builder.Render(w, view)
}
