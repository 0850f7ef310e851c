package weather

import (
	"strconv"
	"time"
)

// Condition represents a simulated sky condition for a day.
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionPartlyCloudy Condition = "Partly Cloudy"
	ConditionCloudy       Condition = "Cloudy"
	ConditionRain         Condition = "Rain"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionFoggy        Condition = "Foggy"
)

// Conditions lists every condition in the order the generator samples from.
var Conditions = []Condition{
	ConditionClear,
	ConditionPartlyCloudy,
	ConditionCloudy,
	ConditionRain,
	ConditionThunderstorm,
	ConditionFoggy,
}

// Fahrenheit is a temperature in °F, already rounded to one decimal digit.
type Fahrenheit float64

// String formats the value with exactly one fractional digit.
func (f Fahrenheit) String() string {
	return strconv.FormatFloat(float64(f), 'f', 1, 64)
}

// MarshalJSON encodes the value as a number with one fractional digit (58.0, not 58).
func (f Fahrenheit) MarshalJSON() ([]byte, error) {
	return []byte(f.String()), nil
}

// WeatherRecord is one simulated day of weather.
// Date is the unique key within a generated set.
type WeatherRecord struct {
	Date       string     `json:"date"` // YYYY-MM-DD
	Temp       Fahrenheit `json:"temp"`
	HighTemp   Fahrenheit `json:"high_temp"`
	LowTemp    Fahrenheit `json:"low_temp"`
	Sunrise    string     `json:"sunrise"` // HH:MM, 24-hour
	Sunset     string     `json:"sunset"`  // HH:MM, 24-hour
	Conditions Condition  `json:"conditions"`
}

// TempBucket is the coarse temperature filter.
type TempBucket string

const (
	TempAll  TempBucket = "all"
	TempHigh TempBucket = "high"
	TempLow  TempBucket = "low"
)

// TimeBucket is the coarse sunrise/sunset filter.
type TimeBucket string

const (
	TimeAll     TimeBucket = "all"
	TimeMorning TimeBucket = "morning"
	TimeEvening TimeBucket = "evening"
)

// FilterState holds the three independent dashboard filters.
// The zero value matches every record.
type FilterState struct {
	Search string     `json:"search"`
	Temp   TempBucket `json:"tempFilter"`
	Time   TimeBucket `json:"timeFilter"`
}

// DefaultFilters returns the filter state a new session starts with.
func DefaultFilters() FilterState {
	return FilterState{Temp: TempAll, Time: TimeAll}
}

// FilterUpdate carries the filter fields changed by a single input event.
// Nil fields are left untouched.
type FilterUpdate struct {
	Search *string
	Temp   *TempBucket
	Time   *TimeBucket
}

// Apply returns a copy of fs with the non-nil fields of u applied.
func (u FilterUpdate) Apply(fs FilterState) FilterState {
	if u.Search != nil {
		fs.Search = *u.Search
	}
	if u.Temp != nil {
		fs.Temp = *u.Temp
	}
	if u.Time != nil {
		fs.Time = *u.Time
	}
	return fs
}

// Session is the state owned by one dashboard instance.
type Session struct {
	ID         string          `json:"id"`
	Records    []WeatherRecord `json:"records"`
	Filters    FilterState     `json:"filters"`
	Generation int             `json:"generation"`
	CreatedAt  time.Time       `json:"createdAt"`
	LastSeen   time.Time       `json:"lastSeen"`
}

// View is the derived view model rendered for a session.
type View struct {
	Mean    float64         `json:"mean"`
	Max     float64         `json:"max"`
	Min     float64         `json:"min"`
	Total   int             `json:"total"`
	Visible []WeatherRecord `json:"visible"`
	Filters FilterState     `json:"filters"`
}
