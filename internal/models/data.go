package models

import (
	"sort"
	"time"
)

// StateEntry maps a human-readable Indian state name to the two-letter code
// understood by the price service
type StateEntry struct {
	DisplayName string `json:"display_name"`
	Code        string `json:"code"`
}

// CommodityEntry maps a commodity display name to its request token
type CommodityEntry struct {
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// SeriesKind distinguishes historical modal prices from forecasts
type SeriesKind int

const (
	HistoricalSeries SeriesKind = iota
	ForecastSeries
)

// String returns the column name used when the series is shown as a table
func (k SeriesKind) String() string {
	switch k {
	case HistoricalSeries:
		return "modal price"
	case ForecastSeries:
		return "predicted price"
	default:
		return "unknown"
	}
}

// WireKey returns the response field that carries this kind of series
func (k SeriesKind) WireKey() string {
	switch k {
	case HistoricalSeries:
		return "modal_rs_quintal"
	case ForecastSeries:
		return "y"
	default:
		return ""
	}
}

// PricePoint is a single price observation in Rs per quintal
type PricePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// PriceSeries is a date-keyed sequence of prices, ascending by date
type PriceSeries struct {
	Kind   SeriesKind   `json:"-"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries returns an empty series of the given kind
func NewPriceSeries(kind SeriesKind) PriceSeries {
	return PriceSeries{Kind: kind}
}

// Len returns the number of points in the series
func (s PriceSeries) Len() int {
	return len(s.Points)
}

// IsEmpty reports whether the series has no points
func (s PriceSeries) IsEmpty() bool {
	return len(s.Points) == 0
}

// First returns the earliest point. ok is false for an empty series.
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[0], true
}

// Dates returns the point dates in series order
func (s PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the point values in series order
func (s PriceSeries) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Normalize sorts the points ascending by date. Calling it on an already
// normalized series leaves it unchanged.
func (s PriceSeries) Normalize() PriceSeries {
	if sort.SliceIsSorted(s.Points, func(i, j int) bool { return s.Points[i].Date.Before(s.Points[j].Date) }) {
		return s
	}
	points := make([]PricePoint, len(s.Points))
	copy(points, s.Points)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return PriceSeries{Kind: s.Kind, Points: points}
}

// StatePrediction is a forecast for one state; HeadlineValue is the first
// forecast value and is what the map colours the state by
type StatePrediction struct {
	State         StateEntry  `json:"state"`
	Series        PriceSeries `json:"series"`
	HeadlineValue float64     `json:"headline_value"`
}

// StateValue is one row of the merged all-states view. Fetched is false for
// states whose forecast call failed; their Value is 0.
type StateValue struct {
	State   StateEntry `json:"state"`
	Value   float64    `json:"value"`
	Fetched bool       `json:"fetched"`
}
