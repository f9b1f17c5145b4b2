package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"pricecast/internal/reference"
)

// ViewMode selects the visualization
type ViewMode string

const (
	// LineView plots one state's history and forecast
	LineView ViewMode = "line"
	// MapView colours every state by its headline forecast
	MapView ViewMode = "map"
)

// Label is the text of the mode's radio button
func (m ViewMode) Label() string {
	if m == MapView {
		return "Choropleth Map (All States)"
	}
	return "Line Plot (Single State)"
}

// ErrInvalidRequest is wrapped by every request validation error
var ErrInvalidRequest = errors.New("invalid request")

// Request holds the dashboard controls. Commodity and State are display
// names.
type Request struct {
	Mode      ViewMode
	Commodity string
	State     string
	Horizon   int
	ShowRaw   bool
}

// DefaultRequest returns the controls as they appear on first load
func DefaultRequest(tables *reference.Tables) Request {
	req := Request{Mode: LineView, Horizon: reference.DefaultHorizon}
	if names := tables.CommodityNames(); len(names) > 0 {
		req.Commodity = names[0]
	}
	if names := tables.StateNames(); len(names) > 0 {
		req.State = names[0]
	}
	return req
}

// ParseRequest reads the controls from query values. Missing values fall
// back to DefaultRequest; values that are present must be valid.
func ParseRequest(values url.Values, tables *reference.Tables) (Request, error) {
	req := DefaultRequest(tables)

	if v := strings.TrimSpace(values.Get("view")); v != "" {
		req.Mode = ViewMode(strings.ToLower(v))
	}
	if v := strings.TrimSpace(values.Get("commodity")); v != "" {
		req.Commodity = v
	}
	if v := strings.TrimSpace(values.Get("state")); v != "" {
		req.State = v
	}
	if v := strings.TrimSpace(values.Get("horizon")); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: horizon %q is not a number", ErrInvalidRequest, v)
		}
		req.Horizon = h
	}
	if v := strings.TrimSpace(values.Get("raw")); v != "" {
		req.ShowRaw = v == "on" || v == "1" || strings.EqualFold(v, "true")
	}

	return req, req.Validate(tables)
}

// Validate checks the request against the reference tables
func (r Request) Validate(tables *reference.Tables) error {
	var errs []error
	if r.Mode != LineView && r.Mode != MapView {
		errs = append(errs, fmt.Errorf("%w: unknown view %q", ErrInvalidRequest, r.Mode))
	}
	if _, ok := tables.CommodityToken(r.Commodity); !ok {
		errs = append(errs, fmt.Errorf("%w: unknown commodity %q", ErrInvalidRequest, r.Commodity))
	}
	if r.Mode == LineView {
		if _, ok := tables.StateCode(r.State); !ok {
			errs = append(errs, fmt.Errorf("%w: unknown state %q", ErrInvalidRequest, r.State))
		}
	}
	if err := reference.ValidateHorizon(r.Horizon); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	}
	return errors.Join(errs...)
}

// Query encodes the request back into query values
func (r Request) Query() url.Values {
	q := url.Values{}
	q.Set("view", string(r.Mode))
	q.Set("commodity", r.Commodity)
	if r.Mode == LineView {
		q.Set("state", r.State)
	}
	q.Set("horizon", strconv.Itoa(r.Horizon))
	if r.ShowRaw {
		q.Set("raw", "on")
	}
	return q
}
