package charts

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"pricecast/internal/models"
)

// Series and axis labels of the price line chart
const (
	HistorySeriesName  = "Historical Data"
	ForecastSeriesName = "Prediction"
	PriceAxisName      = "Price (Rs/Quintal)"
	DateAxisName       = "Date"

	lineChartID     = "chart-price-line"
	lineChartHeight = "600px"
)

// LineTitle is the title of the price line chart
func LineTitle(commodity, state string) string {
	return fmt.Sprintf("%s - %s", commodity, state)
}

// newPriceLine builds the go-echarts line chart for both series
func newPriceLine(history, forecast models.PriceSeries, commodity, state string) (*charts.Line, error) {
	if history.IsEmpty() || forecast.IsEmpty() {
		return nil, ErrNoData
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: LineTitle(commodity, state),
			Theme:     types.ThemeWesteros,
			Width:     "100%",
			Height:    lineChartHeight,
			ChartID:   lineChartID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: LineTitle(commodity, state),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    true,
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: DateAxisName,
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  PriceAxisName,
			Type:  "value",
			Scale: true,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
			Top:  "bottom",
		}),
	)

	line.AddSeries(HistorySeriesName, lineData(history)).
		AddSeries(ForecastSeriesName, lineData(forecast)).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: false}))

	line.Validate()
	return line, nil
}

func lineData(series models.PriceSeries) []opts.LineData {
	data := make([]opts.LineData, 0, series.Len())
	for _, p := range series.Normalize().Points {
		data = append(data, opts.LineData{Value: []interface{}{p.Date.Format("2006-01-02"), p.Value}})
	}
	return data
}

// LineChart renders history and forecast on a shared time axis. Returns
// ErrNoData when either series is empty.
func LineChart(history, forecast models.PriceSeries, commodity, state string) (ChartSnippet, error) {
	line, err := newPriceLine(history, forecast, commodity, state)
	if err != nil {
		return Placeholder(), err
	}

	optJSON, err := json.Marshal(line.JSON())
	if err != nil {
		return Placeholder(), fmt.Errorf("failed to encode line chart options: %w", err)
	}

	body := fmt.Sprintf("var c=echarts.init(el,'%s');c.setOption(%s)", types.ThemeWesteros, optJSON)
	return newSnippet(lineChartID, LineTitle(commodity, state), lineChartHeight, body), nil
}

// RenderLinePage writes the line chart as a standalone HTML page
func RenderLinePage(w io.Writer, history, forecast models.PriceSeries, commodity, state string) error {
	line, err := newPriceLine(history, forecast, commodity, state)
	if err != nil {
		return err
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render line chart page: %w", err)
	}
	return nil
}
