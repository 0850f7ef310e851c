package weather

// Stats holds the summary statistics shown above the table.
type Stats struct {
	Mean float64
	Max  float64
	Min  float64
}

// AggregateRecords computes the dashboard statistics over every record.
// Mean is over Temp, Max over HighTemp, Min over LowTemp; all are 0 for an empty set.
// The rounded field values are used, so the statistics agree with the table.
func AggregateRecords(records []WeatherRecord) Stats {
	if len(records) == 0 {
		return Stats{}
	}

	var sumTemp float64
	maxTemp := float64(records[0].HighTemp)
	minTemp := float64(records[0].LowTemp)

	for _, r := range records {
		sumTemp += float64(r.Temp)
		maxTemp = max(maxTemp, float64(r.HighTemp))
		minTemp = min(minTemp, float64(r.LowTemp))
	}

	return Stats{
		Mean: sumTemp / float64(len(records)),
		Max:  maxTemp,
		Min:  minTemp,
	}
}
