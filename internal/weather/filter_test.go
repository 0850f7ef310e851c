package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRecord = WeatherRecord{
	Date:       "2024-11-01",
	Temp:       58.0,
	HighTemp:   62.0,
	LowTemp:    54.0,
	Sunrise:    "06:20",
	Sunset:     "19:05",
	Conditions: ConditionRain,
}

func TestFilterState_Matches(t *testing.T) {
	tests := []struct {
		name    string
		filters FilterState
		record  WeatherRecord
		want    bool
	}{
		{
			name:    "month search, low temp, late sunset",
			filters: FilterState{Search: "2024-11", Temp: TempLow, Time: TimeEvening},
			record:  sampleRecord,
			want:    true,
		},
		{
			name:    "early sunrise compares lexically",
			filters: FilterState{Search: "2024-11", Temp: TempLow, Time: TimeMorning},
			record:  sampleRecord,
			want:    true,
		},
		{
			name:    "zero value matches everything",
			filters: FilterState{},
			record:  sampleRecord,
			want:    true,
		},
		{
			name:    "search miss",
			filters: FilterState{Search: "2024-10"},
			record:  sampleRecord,
			want:    false,
		},
		{
			name:    "search ignores case",
			filters: FilterState{Search: "Nov-01"},
			record:  WeatherRecord{Date: "2024-NOV-01"},
			want:    true,
		},
		{
			name:    "high excludes 58",
			filters: FilterState{Temp: TempHigh},
			record:  sampleRecord,
			want:    false,
		},
		{
			name:    "exactly 60 is low",
			filters: FilterState{Temp: TempLow},
			record:  WeatherRecord{Temp: 60.0},
			want:    true,
		},
		{
			name:    "exactly 60 is not high",
			filters: FilterState{Temp: TempHigh},
			record:  WeatherRecord{Temp: 60.0},
			want:    false,
		},
		{
			name:    "60.1 is high",
			filters: FilterState{Temp: TempHigh},
			record:  WeatherRecord{Temp: 60.1},
			want:    true,
		},
		{
			name:    "sunset at 19:00 is not late",
			filters: FilterState{Time: TimeEvening},
			record:  WeatherRecord{Sunset: "19:00"},
			want:    false,
		},
		{
			name:    "sunrise at 07:00 is not early",
			filters: FilterState{Time: TimeMorning},
			record:  WeatherRecord{Sunrise: "07:00"},
			want:    false,
		},
		{
			name:    "unknown buckets match",
			filters: FilterState{Temp: TempBucket("warm"), Time: TimeBucket("noon")},
			record:  sampleRecord,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Matches(tt.record))
		})
	}
}

func TestContainsFoldOnUpperCaseSearch(t *testing.T) {
	fs := FilterState{Search: "NOV"}
	assert.True(t, fs.Matches(WeatherRecord{Date: "nov-01"}))
}

func TestDeriveView_StatsIgnoreFilters(t *testing.T) {
	records := NewGenerator(WithSeed(11)).Generate()

	var sum float64
	maxHigh, minLow := float64(records[0].HighTemp), float64(records[0].LowTemp)
	for _, r := range records {
		sum += float64(r.Temp)
		maxHigh = max(maxHigh, float64(r.HighTemp))
		minLow = min(minLow, float64(r.LowTemp))
	}

	filters := []FilterState{
		{},
		{Search: "2024-11", Temp: TempLow},
		{Search: "no-such-date"},
		{Temp: TempHigh, Time: TimeEvening},
	}
	for _, fs := range filters {
		v := DeriveView(records, fs)
		assert.InDelta(t, sum/float64(len(records)), v.Mean, 1e-9)
		assert.Equal(t, maxHigh, v.Max)
		assert.Equal(t, minLow, v.Min)
		assert.Equal(t, len(records), v.Total)
		assert.Equal(t, fs, v.Filters)
	}
}

func TestDeriveView_TemperatureBuckets(t *testing.T) {
	records := NewGenerator(WithSeed(5)).Generate()

	low := DeriveView(records, FilterState{Temp: TempLow}).Visible
	high := DeriveView(records, FilterState{Temp: TempHigh}).Visible

	require.Len(t, low, 4)
	assert.Equal(t, []string{"2024-10-30", "2024-10-31", "2024-11-01", "2024-11-02"}, dates(low))
	assert.Len(t, high, RecordCount-4)
}

func TestDeriveView_PreservesOrderAndDoesNotAlias(t *testing.T) {
	records := NewGenerator(WithSeed(9)).Generate()

	v := DeriveView(records, FilterState{Search: "2024-11"})
	require.Len(t, v.Visible, 10)
	assert.Equal(t, "2024-11-01", v.Visible[0].Date)
	assert.Equal(t, "2024-11-10", v.Visible[9].Date)

	v.Visible[0].Date = "mutated"
	assert.Equal(t, "2024-11-01", records[10].Date)
}

func TestDeriveView_IsPure(t *testing.T) {
	records := NewGenerator(WithSeed(13)).Generate()
	fs := FilterState{Search: "10-2", Temp: TempHigh, Time: TimeEvening}

	assert.Equal(t, DeriveView(records, fs), DeriveView(records, fs))
}

func TestDeriveView_Empty(t *testing.T) {
	for _, records := range [][]WeatherRecord{nil, {}} {
		v := DeriveView(records, FilterState{Search: "2024"})
		assert.Zero(t, v.Mean)
		assert.Zero(t, v.Max)
		assert.Zero(t, v.Min)
		assert.Zero(t, v.Total)
		assert.NotNil(t, v.Visible)
		assert.Empty(t, v.Visible)
	}
}

func TestFilterUpdate_AppliesOnlyNamedFields(t *testing.T) {
	search := "2024-10"
	temp := TempHigh
	base := FilterState{Search: "x", Temp: TempLow, Time: TimeEvening}

	got := FilterUpdate{Search: &search}.Apply(base)
	assert.Equal(t, FilterState{Search: "2024-10", Temp: TempLow, Time: TimeEvening}, got)

	got = FilterUpdate{Temp: &temp}.Apply(got)
	assert.Equal(t, FilterState{Search: "2024-10", Temp: TempHigh, Time: TimeEvening}, got)

	assert.Equal(t, base, FilterUpdate{}.Apply(base))
}

func dates(records []WeatherRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Date)
	}
	return out
}
