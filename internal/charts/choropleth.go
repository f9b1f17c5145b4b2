package charts

import (
	"encoding/json"
	"fmt"
	"math"

	"pricecast/internal/fetchers"
	"pricecast/internal/logger"
	"pricecast/internal/models"
	"pricecast/internal/reference"
)

const (
	choroplethID     = "chart-price-map"
	choroplethHeight = "700px"
	choroplethMap    = "india"
)

// viridis is the continuous colour scale of the state map
var viridis = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// MapTitle is the title of the all-states map
func MapTitle(commodity string) string {
	return fmt.Sprintf("%s Prices Across Indian States", commodity)
}

// Region is one coloured area of the map
type Region struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MapRegions expands the merged state values into map regions. The
// combined Jammu & Kashmir and Ladakh entry becomes two regions with the
// same value. Regions missing from the boundary are returned in unmatched.
func MapRegions(values []models.StateValue, boundary *fetchers.Boundary) (regions []Region, unmatched []string) {
	for _, v := range values {
		for _, name := range reference.MapRegions(v.State.DisplayName) {
			regions = append(regions, Region{Name: name, Value: v.Value})
			if boundary != nil && !boundary.Has(name) {
				unmatched = append(unmatched, name)
			}
		}
	}
	return regions, unmatched
}

// Choropleth colours each state by its headline forecast value. The
// boundary document is registered with ECharts before the chart is created.
func Choropleth(values []models.StateValue, boundary *fetchers.Boundary, commodity string) (ChartSnippet, error) {
	if boundary == nil {
		return ChartSnippet{}, fmt.Errorf("choropleth needs a boundary document")
	}
	if len(values) == 0 {
		return Placeholder(), ErrNoData
	}

	regions, unmatched := MapRegions(values, boundary)
	if len(unmatched) > 0 {
		logger.Component("charts").Warn("Regions not found in boundary document", map[string]interface{}{
			"regions": unmatched,
		})
	}

	lo, hi := valueRange(regions)
	option := map[string]interface{}{
		"title": map[string]interface{}{"text": MapTitle(commodity), "left": "center"},
		"tooltip": map[string]interface{}{
			"trigger":   "item",
			"formatter": "{b}: {c}",
		},
		"visualMap": map[string]interface{}{
			"type":       "continuous",
			"min":        lo,
			"max":        hi,
			"calculable": true,
			"left":       "right",
			"text":       []string{"High", "Low"},
			"inRange":    map[string]interface{}{"color": viridis},
		},
		"series": []interface{}{
			map[string]interface{}{
				"name":         MapTitle(commodity),
				"type":         "map",
				"map":          choroplethMap,
				"nameProperty": fetchers.RegionNameProperty,
				"roam":         true,
				"emphasis":     map[string]interface{}{"label": map[string]interface{}{"show": true}},
				"data":         regions,
			},
		},
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return Placeholder(), fmt.Errorf("failed to encode map options: %w", err)
	}
	// compacted and HTML-escaped for the script block
	geoJSON, err := json.Marshal(boundary.Raw)
	if err != nil {
		return Placeholder(), fmt.Errorf("failed to encode boundary document: %w", err)
	}

	body := fmt.Sprintf("echarts.registerMap('%s',%s);var c=echarts.init(el);c.setOption(%s)", choroplethMap, geoJSON, optJSON)
	return newSnippet(choroplethID, MapTitle(commodity), choroplethHeight, body), nil
}

func valueRange(regions []Region) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range regions {
		lo = math.Min(lo, r.Value)
		hi = math.Max(hi, r.Value)
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}
