package weather

import (
	"time"
)

// DateLayout is the calendar date format used on the wire and by providers.
const DateLayout = "2006-01-02"

// LocationQuery is one persisted resolution+retrieval request.
// Dates are calendar days stored as midnight UTC.
type LocationQuery struct {
	ID        int64
	Location  string // canonical name, not the raw input
	Latitude  float64
	Longitude float64
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time

	// Records are owned exclusively by the query, ordered by date ascending.
	Records []DailyObservation
}

// DailyObservation is one day's min/max temperature for a query.
type DailyObservation struct {
	QueryID  int64
	Date     time.Time
	TempMinC float64
	TempMaxC float64
}

// DailyReading is a single day of a provider's daily series.
type DailyReading struct {
	Date     time.Time
	TempMinC float64
	TempMaxC float64
}

// CurrentConditions is an instantaneous observation, units as delivered by the provider.
type CurrentConditions struct {
	TemperatureC     *float64
	WindSpeedKph     *float64
	WindDirectionDeg *float64
}

// ResolvedLocation is the normalized outcome of location resolution.
type ResolvedLocation struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// ExportRow is one line of the flattened query/observation join.
type ExportRow struct {
	QueryID   int64
	Location  string
	Latitude  float64
	Longitude float64
	Date      time.Time
	TempMinC  float64
	TempMaxC  float64
}

// observationsFromReadings turns fetched readings into records owned by queryID.
func observationsFromReadings(queryID int64, readings []DailyReading) []DailyObservation {
	out := make([]DailyObservation, 0, len(readings))
	for _, r := range readings {
		out = append(out, DailyObservation{
			QueryID:  queryID,
			Date:     r.Date,
			TempMinC: r.TempMinC,
			TempMaxC: r.TempMaxC,
		})
	}
	return out
}
