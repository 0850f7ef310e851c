package weather

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// RecordCount is the number of days produced by every generation.
	RecordCount = 20

	// DateLayout is the ISO calendar date layout used for WeatherRecord.Date.
	DateLayout = "2006-01-02"

	clockLayout = "15:04"
)

// BaseDate is the first day of every generated set.
var BaseDate = time.Date(2024, time.October, 22, 0, 0, 0, 0, time.UTC)

// Generator produces synthetic weather records.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRand makes the generator draw from r instead of a freshly seeded source.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithSeed makes generation reproducible.
func WithSeed(seed uint64) GeneratorOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Generate returns RecordCount consecutive days starting at BaseDate.
func (g *Generator) Generate() []WeatherRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]WeatherRecord, 0, RecordCount)
	for i := 0; i < RecordCount; i++ {
		date := BaseDate.AddDate(0, 0, i)

		baseTemp := 65 + math.Sin(float64(i)*0.5)*10
		highTemp := baseTemp + g.rng.Float64()*5
		lowTemp := baseTemp - g.rng.Float64()*5

		sunrise := date.Add(6*time.Hour + 15*time.Minute).
			Add(time.Duration(g.rng.IntN(10)) * time.Minute)
		sunset := date.Add(19 * time.Hour).
			Add(time.Duration(g.rng.IntN(10)) * time.Minute)

		// Both offsets are non-negative and rounding is monotonic, so
		// LowTemp <= Temp <= HighTemp holds for every record.
		records = append(records, WeatherRecord{
			Date:       date.Format(DateLayout),
			Temp:       roundTenth(baseTemp),
			HighTemp:   roundTenth(highTemp),
			LowTemp:    roundTenth(lowTemp),
			Sunrise:    sunrise.Format(clockLayout),
			Sunset:     sunset.Format(clockLayout),
			Conditions: Conditions[g.rng.IntN(len(Conditions))],
		})
	}
	return records
}

func roundTenth(v float64) Fahrenheit {
	return Fahrenheit(math.Round(v*10) / 10)
}
