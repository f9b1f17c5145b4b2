package dashboard

import (
	"fmt"
	"html/template"
	"time"

	"pricecast/internal/models"
	"pricecast/internal/reference"
)

// ViewState is where a dashboard view is in its lifecycle
type ViewState int

const (
	Idle ViewState = iota
	Loading
	Rendered
	Failed
)

func (s ViewState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Table is a titled raw data table
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// View is everything the page template needs
type View struct {
	State   ViewState
	Request Request

	Title string
	Chart template.HTML
	// PNGLink points at the static rendering of a line chart
	PNGLink string

	// Errors are inline fetch failures, Warnings are per-state notices
	Errors   []string
	Warnings []string
	// Fatal is set when the view could not be produced at all
	Fatal string

	History     models.PriceSeries
	Forecast    models.PriceSeries
	StateValues []models.StateValue

	Tables      []Table
	GeneratedAt time.Time
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// SeriesTable lists a series as date/value rows
func SeriesTable(title string, series models.PriceSeries) Table {
	t := Table{Title: title, Headers: []string{"Date", reference.Capitalize(series.Kind.String())}}
	for _, p := range series.Normalize().Points {
		t.Rows = append(t.Rows, []string{p.Date.Format("2006-01-02"), formatPrice(p.Value)})
	}
	return t
}

// StateTable lists the headline value of every state
func StateTable(values []models.StateValue) Table {
	t := Table{Title: "Detailed State Prices", Headers: []string{"State", "Latest Price (Rs/Quintal)"}}
	for _, v := range values {
		t.Rows = append(t.Rows, []string{v.State.DisplayName, formatPrice(v.Value)})
	}
	return t
}
