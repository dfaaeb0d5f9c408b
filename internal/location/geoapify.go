package location

import (
	"github.com/i474232898/weather-queries/internal/weather"
)

// geocodeResponse is either the flat "results" shape or the GeoJSON
// "features" shape; both decode into the same entry type.
type geocodeResponse struct {
	Results  []geocodeEntry `json:"results"`
	Features []geocodeEntry `json:"features"`
}

type geocodeEntry struct {
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Formatted  string   `json:"formatted"`
	ResultType string   `json:"result_type"`

	Geometry *struct {
		// GeoJSON order: [lon, lat].
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties *struct {
		Formatted  string `json:"formatted"`
		ResultType string `json:"result_type"`
	} `json:"properties"`
}

func (r geocodeResponse) first() (geocodeEntry, bool) {
	switch {
	case len(r.Results) > 0:
		return r.Results[0], true
	case len(r.Features) > 0:
		return r.Features[0], true
	default:
		return geocodeEntry{}, false
	}
}

// resolve normalizes the first entry into a ResolvedLocation. query is the
// normalized text used as the last-resort display name.
func (r geocodeResponse) resolve(query string) (weather.ResolvedLocation, error) {
	e, ok := r.first()
	if !ok {
		return weather.ResolvedLocation{}, ErrNotFound
	}

	lat, lon, ok := e.coordinates()
	if !ok {
		return weather.ResolvedLocation{}, ErrNotFound
	}

	return weather.ResolvedLocation{
		Latitude:  lat,
		Longitude: lon,
		Name:      e.name(query),
	}, nil
}

func (e geocodeEntry) coordinates() (lat, lon float64, ok bool) {
	var nested []float64
	if e.Geometry != nil && len(e.Geometry.Coordinates) >= 2 {
		nested = e.Geometry.Coordinates
	}

	switch {
	case e.Lat != nil:
		lat = *e.Lat
	case nested != nil:
		lat = nested[1]
	default:
		return 0, 0, false
	}

	switch {
	case e.Lon != nil:
		lon = *e.Lon
	case nested != nil:
		lon = nested[0]
	default:
		return 0, 0, false
	}

	return lat, lon, true
}

func (e geocodeEntry) name(fallback string) string {
	formatted, resultType := e.Formatted, e.ResultType
	if e.Properties != nil {
		if formatted == "" {
			formatted = e.Properties.Formatted
		}
		if resultType == "" {
			resultType = e.Properties.ResultType
		}
	}

	switch {
	case formatted != "":
		return formatted
	case resultType != "":
		return resultType
	default:
		return fallback
	}
}
