package charts

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecast/internal/fetchers"
	"pricecast/internal/models"
	"pricecast/internal/reference"
)

func series(kind models.SeriesKind, start string, values ...float64) models.PriceSeries {
	s := models.NewPriceSeries(kind)
	day, _ := time.Parse("2006-01-02", start)
	for i, v := range values {
		s.Points = append(s.Points, models.PricePoint{Date: day.AddDate(0, 0, i), Value: v})
	}
	return s
}

const testBoundary = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"ST_NM":"Kerala"},"geometry":null},
 {"type":"Feature","properties":{"ST_NM":"Jammu & Kashmir"},"geometry":null},
 {"type":"Feature","properties":{"ST_NM":"Ladakh"},"geometry":null}
]}`

func TestLineChart(t *testing.T) {
	history := series(models.HistoricalSeries, "2024-01-01", 100, 110, 105)
	forecast := series(models.ForecastSeries, "2024-01-04", 107, 109)

	snippet, err := LineChart(history, forecast, "Rice", "Kerala")
	require.NoError(t, err)

	assert.Equal(t, "Rice - Kerala", snippet.Title)
	assert.Contains(t, snippet.Div, "height:600px")
	for _, want := range []string{HistorySeriesName, ForecastSeriesName, PriceAxisName, "echarts.init", "2024-01-04"} {
		assert.Contains(t, snippet.Script, want)
	}
	assert.Contains(t, snippet.HTML, snippet.Div)
}

func TestLineChartOptions(t *testing.T) {
	history := series(models.HistoricalSeries, "2024-01-01", 100, 110)
	forecast := series(models.ForecastSeries, "2024-01-03", 107, 109)

	snippet, err := LineChart(history, forecast, "Rice", "Kerala")
	require.NoError(t, err)

	assert.Contains(t, snippet.Script, `"scale":true`)
	assert.Contains(t, snippet.Script, `"trigger":"axis"`)
	assert.Contains(t, snippet.Script, `"type":"time"`)
}

func TestLineChartNoData(t *testing.T) {
	empty := models.NewPriceSeries(models.HistoricalSeries)
	forecast := series(models.ForecastSeries, "2024-01-04", 107, 109)

	snippet, err := LineChart(empty, forecast, "Rice", "Kerala")
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Contains(t, snippet.HTML, NoDataMessage)
	assert.NotContains(t, snippet.HTML, "echarts.init")

	_, err = LineChart(forecast, models.NewPriceSeries(models.ForecastSeries), "Rice", "Kerala")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestRenderLinePage(t *testing.T) {
	history := series(models.HistoricalSeries, "2024-01-01", 100, 110)
	forecast := series(models.ForecastSeries, "2024-01-03", 107, 109)

	var buf bytes.Buffer
	require.NoError(t, RenderLinePage(&buf, history, forecast, "Onion", "Goa"))
	assert.Contains(t, buf.String(), "Onion - Goa")
	assert.Contains(t, buf.String(), "echarts.min.js")
}

func TestMapRegionsSplitsCombinedEntry(t *testing.T) {
	boundary, err := fetchers.ParseBoundary([]byte(testBoundary))
	require.NoError(t, err)

	values := []models.StateValue{
		{State: models.StateEntry{DisplayName: "Kerala", Code: "KL"}, Value: 2500, Fetched: true},
		{State: models.StateEntry{DisplayName: reference.CombinedJKName, Code: "JK"}, Value: 3100, Fetched: true},
		{State: models.StateEntry{DisplayName: "Goa", Code: "GO"}},
	}

	regions, unmatched := MapRegions(values, boundary)
	assert.Equal(t, []Region{
		{Name: "Kerala", Value: 2500},
		{Name: "Jammu & Kashmir", Value: 3100},
		{Name: "Ladakh", Value: 3100},
		{Name: "Goa", Value: 0},
	}, regions)
	assert.Equal(t, []string{"Goa"}, unmatched)
}

func TestChoropleth(t *testing.T) {
	boundary, err := fetchers.ParseBoundary([]byte(testBoundary))
	require.NoError(t, err)

	values := []models.StateValue{
		{State: models.StateEntry{DisplayName: "Kerala", Code: "KL"}, Value: 2500, Fetched: true},
		{State: models.StateEntry{DisplayName: reference.CombinedJKName, Code: "JK"}, Value: 3100, Fetched: true},
	}

	snippet, err := Choropleth(values, boundary, "Wheat")
	require.NoError(t, err)
	assert.Equal(t, "Wheat Prices Across Indian States", snippet.Title)

	script := snippet.Script
	register := strings.Index(script, "echarts.registerMap")
	initAt := strings.Index(script, "echarts.init")
	require.True(t, register >= 0 && initAt >= 0)
	assert.Less(t, register, initAt, "map must be registered before the chart is created")

	assert.Contains(t, script, `"nameProperty":"ST_NM"`)
	assert.Contains(t, script, viridis[0])
	assert.Contains(t, script, `"min":2500`)
	assert.Contains(t, script, `"max":3100`)
	assert.Contains(t, script, "Ladakh")
	assert.NotContains(t, script, "Jammu \\u0026 Kashmir and Ladakh")
}

func TestChoroplethRequiresBoundary(t *testing.T) {
	_, err := Choropleth([]models.StateValue{{Value: 1}}, nil, "Wheat")
	assert.Error(t, err)
}

func TestValueRangeFlat(t *testing.T) {
	lo, hi := valueRange([]Region{{Name: "a", Value: 0}, {Name: "b", Value: 0}})
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestRenderLinePNG(t *testing.T) {
	history := series(models.HistoricalSeries, "2024-01-01", 100, 110, 105, 108)
	forecast := series(models.ForecastSeries, "2024-01-05", 107, 109, 112)

	var buf bytes.Buffer
	require.NoError(t, RenderLinePNG(&buf, history, forecast, "Rice - Kerala"))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1100, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	err = RenderLinePNG(&buf, history, models.NewPriceSeries(models.ForecastSeries), "x")
	assert.True(t, errors.Is(err, ErrNoData))
}
