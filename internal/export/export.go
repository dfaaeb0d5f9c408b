// Package export renders the flattened query/record join.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/i474232898/weather-queries/internal/weather"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Header is the column order of every export.
var Header = []string{"query_id", "location", "lat", "lon", "date", "tmin_c", "tmax_c"}

// Record is the JSON shape of one exported row.
type Record struct {
	QueryID  int64   `json:"query_id"`
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Date     string  `json:"date"`
	TminC    float64 `json:"tmin_c"`
	TmaxC    float64 `json:"tmax_c"`
}

// ValidFormat reports whether f names a supported export format.
func ValidFormat(f string) bool {
	return f == FormatCSV || f == FormatJSON
}

// Records converts rows to their JSON shape.
func Records(rows []weather.ExportRow) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			QueryID:  r.QueryID,
			Location: r.Location,
			Lat:      r.Latitude,
			Lon:      r.Longitude,
			Date:     r.Date.Format(weather.DateLayout),
			TminC:    r.TempMinC,
			TmaxC:    r.TempMaxC,
		})
	}
	return out
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []weather.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		line := []string{
			strconv.FormatInt(r.QueryID, 10),
			r.Location,
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			r.Date.Format(weather.DateLayout),
			formatFloat(r.TempMinC),
			formatFloat(r.TempMaxC),
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns rows rendered as a CSV document.
func CSV(rows []weather.ExportRow) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
