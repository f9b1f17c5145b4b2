package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RegionNameProperty is the GeoJSON feature property holding the state name
const RegionNameProperty = "ST_NM"

// Boundary is a state boundary GeoJSON document
type Boundary struct {
	Raw   json.RawMessage
	names map[string]struct{}
}

// Has reports whether the document has a region with the given name
func (b *Boundary) Has(name string) bool {
	_, ok := b.names[name]
	return ok
}

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Properties map[string]interface{} `json:"properties"`
	} `json:"features"`
}

// ParseBoundary validates a GeoJSON FeatureCollection and indexes its
// region names
func ParseBoundary(raw []byte) (*Boundary, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse boundary GeoJSON: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("boundary document is a %q, not a FeatureCollection", fc.Type)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("boundary document has no features")
	}

	b := &Boundary{Raw: json.RawMessage(raw), names: make(map[string]struct{}, len(fc.Features))}
	for _, f := range fc.Features {
		if name, ok := f.Properties[RegionNameProperty].(string); ok && name != "" {
			b.names[name] = struct{}{}
		}
	}
	if len(b.names) == 0 {
		return nil, fmt.Errorf("no feature carries a %s property", RegionNameProperty)
	}
	return b, nil
}

// BoundarySource supplies the state boundary document
type BoundarySource interface {
	Fetch(ctx context.Context) (*Boundary, error)
}

// BoundaryFetcher downloads the state boundary document. Nothing is cached;
// every map view fetches it again.
type BoundaryFetcher struct {
	client *resty.Client
	url    string
}

// NewBoundaryFetcher creates a new boundary fetcher
func NewBoundaryFetcher(url string, timeout time.Duration, retries int) *BoundaryFetcher {
	return &BoundaryFetcher{
		client: newRestyClient(timeout, retries),
		url:    url,
	}
}

// Fetch downloads and parses the boundary document
func (f *BoundaryFetcher) Fetch(ctx context.Context) (*Boundary, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.url)

	if err != nil {
		return nil, &FetchError{Kind: KindBoundary, Op: OpBoundary, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &FetchError{
			Kind:   KindBoundary,
			Op:     OpBoundary,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("%s returned %s", f.url, resp.Status()),
		}
	}

	b, err := ParseBoundary(resp.Body())
	if err != nil {
		return nil, &FetchError{Kind: KindBoundary, Op: OpBoundary, Err: err}
	}
	return b, nil
}
