package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pricecast/internal/charts"
	"pricecast/internal/config"
	"pricecast/internal/dashboard"
	"pricecast/internal/fetchers"
	"pricecast/internal/models"
	"pricecast/internal/reference"
)

// HandleRoot serves the empty dashboard form
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := s.Dashboard.IdleView(dashboard.DefaultRequest(s.Dashboard.Tables()))
	s.writePage(w, r, http.StatusOK, view)
}

// HandleGenerate runs the selected visualization and renders the result page
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := dashboard.ParseRequest(r.URL.Query(), s.Dashboard.Tables())
	if err != nil {
		s.writePage(w, r, http.StatusBadRequest, s.Dashboard.InvalidView(req, err))
		return
	}

	view := s.Dashboard.Generate(r.Context(), req)
	status := http.StatusOK
	if view.State == dashboard.Failed {
		status = http.StatusBadGateway
	}
	s.writePage(w, r, status, view)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, view *dashboard.View) {
	var buf bytes.Buffer
	if err := s.Dashboard.RenderPage(&buf, view); err != nil {
		s.log.Error("Failed to render page", err, map[string]interface{}{"request_id": RequestID(r.Context())})
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// HandleChartPNG renders the line chart for the query as a PNG image
func (s *Server) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tables := s.Dashboard.Tables()
	req, err := dashboard.ParseRequest(r.URL.Query(), tables)
	if err == nil && req.Mode != dashboard.LineView {
		err = errors.New("chart.png only renders the line view")
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	code := tables.MustStateCode(req.State)
	token := tables.MustCommodityToken(req.Commodity)
	ctx := r.Context()

	history, err := s.Fetcher.FetchHistory(ctx, code, token)
	if err != nil {
		http.Error(w, fetchers.UserMessage(err), http.StatusBadGateway)
		return
	}
	forecast, err := s.Fetcher.FetchForecast(ctx, code, token, req.Horizon)
	if err != nil {
		http.Error(w, fetchers.UserMessage(err), http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderLinePNG(&buf, history, forecast, charts.LineTitle(req.Commodity, req.State)); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			http.Error(w, charts.NoDataMessage, http.StatusNotFound)
			return
		}
		s.log.Error("Failed to render PNG", err, map[string]interface{}{"request_id": RequestID(ctx)})
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	buf.WriteTo(w)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := map[string]string{
		"config": "ok",
		"source": "remote",
	}
	if s.MockService != nil {
		checks["source"] = "mock"
		checks["mocks_dir"] = s.MockService.Dir()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
		"checks":    checks,
	})
}

type referenceResponse struct {
	States         []models.StateEntry     `json:"states"`
	Commodities    []models.CommodityEntry `json:"commodities"`
	MinHorizon     int                     `json:"min_horizon"`
	MaxHorizon     int                     `json:"max_horizon"`
	DefaultHorizon int                     `json:"default_horizon"`
}

// HandleReference lists the states, commodities and horizon bounds
func (s *Server) HandleReference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tables := s.Dashboard.Tables()
	writeJSON(w, http.StatusOK, referenceResponse{
		States:         tables.States(),
		Commodities:    tables.Commodities(),
		MinHorizon:     reference.MinHorizon,
		MaxHorizon:     reference.MaxHorizon,
		DefaultHorizon: reference.DefaultHorizon,
	})
}

type seriesResponse struct {
	State     string              `json:"state"`
	StateCode string              `json:"state_code"`
	Commodity string              `json:"commodity"`
	Token     string              `json:"token"`
	Kind      string              `json:"kind"`
	Horizon   int                 `json:"horizon,omitempty"`
	Points    []models.PricePoint `json:"points"`
}

// HandleHistory returns the normalized history series as JSON
func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, ok := s.resolveSeriesQuery(w, r)
	if !ok {
		return
	}

	series, err := s.Fetcher.FetchHistory(r.Context(), resp.StateCode, resp.Token)
	if err != nil {
		writeFetchError(w, err)
		return
	}
	resp.Kind = series.Kind.String()
	resp.Points = nonNilPoints(series)
	writeJSON(w, http.StatusOK, resp)
}

// HandleForecast returns the normalized forecast series as JSON
func (s *Server) HandleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, ok := s.resolveSeriesQuery(w, r)
	if !ok {
		return
	}
	horizon, ok := parseHorizon(w, r)
	if !ok {
		return
	}

	series, err := s.Fetcher.FetchForecast(r.Context(), resp.StateCode, resp.Token, horizon)
	if err != nil {
		writeFetchError(w, err)
		return
	}
	resp.Kind = series.Kind.String()
	resp.Horizon = horizon
	resp.Points = nonNilPoints(series)
	writeJSON(w, http.StatusOK, resp)
}

type stateFailure struct {
	State string `json:"state"`
	Error string `json:"error"`
}

type allStatesResponse struct {
	Commodity string              `json:"commodity"`
	Token     string              `json:"token"`
	Horizon   int                 `json:"horizon"`
	Succeeded int                 `json:"succeeded"`
	States    []models.StateValue `json:"states"`
	Failures  []stateFailure      `json:"failures"`
}

// HandleForecastAll returns the headline forecast of every state
func (s *Server) HandleForecastAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tables := s.Dashboard.Tables()
	commodity := r.URL.Query().Get("commodity")
	token, ok := tables.CommodityToken(commodity)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "unknown commodity "+strconv.Quote(commodity))
		return
	}
	horizon, ok := parseHorizon(w, r)
	if !ok {
		return
	}

	result := s.Fetcher.FetchForecastAllStates(r.Context(), token, horizon)
	resp := allStatesResponse{
		Commodity: commodity,
		Token:     token,
		Horizon:   horizon,
		Succeeded: result.Succeeded(),
		States:    fetchers.MergeWithDefaults(tables.States(), result.Predictions),
		Failures:  []stateFailure{},
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, stateFailure{State: f.State.DisplayName, Error: fetchers.UserMessage(f.Err)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveSeriesQuery maps the state and commodity display names in the query
// to service codes. It writes a 400 and returns false when either is unknown.
func (s *Server) resolveSeriesQuery(w http.ResponseWriter, r *http.Request) (seriesResponse, bool) {
	tables := s.Dashboard.Tables()
	q := r.URL.Query()
	resp := seriesResponse{State: q.Get("state"), Commodity: q.Get("commodity")}

	code, ok := tables.StateCode(resp.State)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "unknown state "+strconv.Quote(resp.State))
		return resp, false
	}
	token, ok := tables.CommodityToken(resp.Commodity)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "unknown commodity "+strconv.Quote(resp.Commodity))
		return resp, false
	}
	resp.StateCode = code
	resp.Token = token
	return resp, true
}

func parseHorizon(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("horizon")
	if raw == "" {
		return reference.DefaultHorizon, true
	}
	horizon, err := strconv.Atoi(raw)
	if err == nil {
		err = reference.ValidateHorizon(horizon)
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid horizon: "+err.Error())
		return 0, false
	}
	return horizon, true
}

func nonNilPoints(series models.PriceSeries) []models.PricePoint {
	if series.Points == nil {
		return []models.PricePoint{}
	}
	return series.Points
}

func writeFetchError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if fetchers.IsKind(err, fetchers.KindInvalidInput) {
		status = http.StatusBadRequest
	}
	writeJSONError(w, status, fetchers.UserMessage(err))
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
