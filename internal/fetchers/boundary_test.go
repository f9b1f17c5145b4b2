package fetchers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"ST_NM": "Kerala"}, "geometry": null},
    {"type": "Feature", "properties": {"ST_NM": "Ladakh"}, "geometry": null},
    {"type": "Feature", "properties": {"name": "unnamed"}, "geometry": null}
  ]
}`

func TestBoundaryFetch(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(sampleGeoJSON))
	}))
	defer server.Close()

	fetcher := NewBoundaryFetcher(server.URL, 5*time.Second, 0)

	b, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, b.Has("Kerala"))
	assert.True(t, b.Has("Ladakh"))
	assert.False(t, b.Has("Goa"))
	assert.JSONEq(t, sampleGeoJSON, string(b.Raw))

	_, err = fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "boundary must be fetched on every call")
}

func TestBoundaryFetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, ""},
		{"not json", http.StatusOK, "nope"},
		{"wrong type", http.StatusOK, `{"type":"Feature","features":[]}`},
		{"no features", http.StatusOK, `{"type":"FeatureCollection","features":[]}`},
		{"no names", http.StatusOK, `{"type":"FeatureCollection","features":[{"properties":{}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			b, err := NewBoundaryFetcher(server.URL, time.Second, 0).Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, IsKind(err, KindBoundary))
			assert.Contains(t, UserMessage(err), "Could not load state boundaries")
		})
	}
}
