package weather

import (
	"github.com/i474232898/weatherdash/internal/common"
)

const (
	highTempThreshold Fahrenheit = 60

	// Sunrise and sunset are fixed-width HH:MM, so string order is clock order.
	earlySunriseBefore = "07:00"
	lateSunsetAfter    = "19:00"
)

// Matches reports whether r passes every filter in fs.
func (fs FilterState) Matches(r WeatherRecord) bool {
	return fs.matchesSearch(r) && fs.matchesTemp(r) && fs.matchesTime(r)
}

func (fs FilterState) matchesSearch(r WeatherRecord) bool {
	return common.ContainsFold(r.Date, fs.Search)
}

// Unknown buckets match everything.
func (fs FilterState) matchesTemp(r WeatherRecord) bool {
	switch fs.Temp {
	case TempHigh:
		return r.Temp > highTempThreshold
	case TempLow:
		return r.Temp <= highTempThreshold
	default:
		return true
	}
}

func (fs FilterState) matchesTime(r WeatherRecord) bool {
	switch fs.Time {
	case TimeMorning:
		return r.Sunrise < earlySunriseBefore
	case TimeEvening:
		return r.Sunset > lateSunsetAfter
	default:
		return true
	}
}

// Filter returns the records matching fs in their original order.
// The result never aliases records and is empty, not nil, when nothing matches.
func Filter(records []WeatherRecord, fs FilterState) []WeatherRecord {
	visible := make([]WeatherRecord, 0, len(records))
	for _, r := range records {
		if fs.Matches(r) {
			visible = append(visible, r)
		}
	}
	return visible
}

// DeriveView computes the statistics over all records and the filtered subset.
func DeriveView(records []WeatherRecord, fs FilterState) View {
	stats := AggregateRecords(records)
	return View{
		Mean:    stats.Mean,
		Max:     stats.Max,
		Min:     stats.Min,
		Total:   len(records),
		Visible: Filter(records, fs),
		Filters: fs,
	}
}
