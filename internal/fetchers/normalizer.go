package fetchers

import (
	"fmt"
	"strings"
	"time"

	"pricecast/internal/models"
)

// dateLayouts are tried in order for every series key
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeSeries turns a raw date->value mapping into a date-ordered series.
// A single unparsable key, a null price, or two keys landing on the same
// day fails the whole series.
func NormalizeSeries(raw models.RawSeries, kind models.SeriesKind) (models.PriceSeries, error) {
	series := models.NewPriceSeries(kind)
	seen := make(map[time.Time]string, len(raw))

	for key, value := range raw {
		date, err := parseDate(key)
		if err != nil {
			return models.NewPriceSeries(kind), err
		}
		if value == nil {
			return models.NewPriceSeries(kind), fmt.Errorf("null price for %q", key)
		}
		if prev, dup := seen[date]; dup {
			return models.NewPriceSeries(kind), fmt.Errorf("keys %q and %q fall on the same date", prev, key)
		}
		seen[date] = key
		series.Points = append(series.Points, models.PricePoint{Date: date, Value: *value})
	}

	return series.Normalize(), nil
}

func parseDate(key string) (time.Time, error) {
	s := strings.TrimSpace(key)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", key)
}
