package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pricecast/internal/models"
)

var (
	historyColor  = drawing.Color{R: 51, G: 102, B: 204, A: 255}  // Blue
	forecastColor = drawing.Color{R: 255, G: 107, B: 53, A: 255} // Orange
)

// RenderLinePNG draws the history and forecast series as a static PNG
func RenderLinePNG(w io.Writer, history, forecast models.PriceSeries, title string) error {
	if history.IsEmpty() || forecast.IsEmpty() {
		return ErrNoData
	}

	graph := chart.Chart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Height: 600,
		Width:  1100,
		XAxis: chart.XAxis{
			Name: DateAxisName,
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 9,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return chart.TimeFromFloat64(f).Format("Jan 2006")
				}
				if t, ok := v.(time.Time); ok {
					return t.Format("Jan 2006")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: PriceAxisName,
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
		Series: []chart.Series{
			timeSeries(HistorySeriesName, history, historyColor),
			timeSeries(ForecastSeriesName, forecast, forecastColor),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render price chart: %w", err)
	}
	return nil
}

func timeSeries(name string, series models.PriceSeries, color drawing.Color) chart.TimeSeries {
	sorted := series.Normalize()
	return chart.TimeSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
		},
		XValues: sorted.Dates(),
		YValues: sorted.Values(),
	}
}
