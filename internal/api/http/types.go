package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-queries/internal/weather"
)

// locationQuery holds the query parameter identifying a location.
type locationQuery struct {
	Location string `validate:"required,max=256"`
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	q := locationQuery{Location: strings.TrimSpace(c.Query("location"))}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

type createQueryRequest struct {
	Location  string  `json:"location" validate:"required,max=256"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r createQueryRequest) toInput() (weather.CreateQueryInput, error) {
	r.Location = strings.TrimSpace(r.Location)
	normalizeEmpty(&r.StartDate, &r.EndDate)
	if err := validate.Struct(r); err != nil {
		return weather.CreateQueryInput{}, err
	}

	start, end, err := parseBounds(r.StartDate, r.EndDate)
	if err != nil {
		return weather.CreateQueryInput{}, err
	}
	return weather.CreateQueryInput{Location: r.Location, StartDate: start, EndDate: end}, nil
}

type updateQueryRequest struct {
	Location  *string `json:"location" validate:"omitempty,max=256"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r updateQueryRequest) toInput() (weather.UpdateQueryInput, error) {
	normalizeEmpty(&r.Location, &r.StartDate, &r.EndDate)
	if err := validate.Struct(r); err != nil {
		return weather.UpdateQueryInput{}, err
	}

	start, end, err := parseBounds(r.StartDate, r.EndDate)
	if err != nil {
		return weather.UpdateQueryInput{}, err
	}
	return weather.UpdateQueryInput{Location: r.Location, StartDate: start, EndDate: end}, nil
}

// normalizeEmpty treats blank optional fields as absent.
func normalizeEmpty(fields ...**string) {
	for _, f := range fields {
		if *f == nil {
			continue
		}
		v := strings.TrimSpace(**f)
		if v == "" {
			*f = nil
			continue
		}
		*f = &v
	}
}

func parseBounds(start, end *string) (*time.Time, *time.Time, error) {
	var s, e *time.Time
	if start != nil {
		t, err := weather.ParseDate(*start)
		if err != nil {
			return nil, nil, err
		}
		s = &t
	}
	if end != nil {
		t, err := weather.ParseDate(*end)
		if err != nil {
			return nil, nil, err
		}
		e = &t
	}
	return s, e, nil
}

type currentResponse struct {
	TemperatureC     *float64 `json:"temperature_c"`
	WindSpeedKph     *float64 `json:"windspeed_kph"`
	WindDirectionDeg *float64 `json:"winddirection_deg"`
	Description      string   `json:"description"`
}

// forecastResponse keeps the provider's parallel-array layout expected by clients.
type forecastResponse struct {
	Time    []string  `json:"time"`
	TempMin []float64 `json:"temperature_2m_min"`
	TempMax []float64 `json:"temperature_2m_max"`
}

func newForecastResponse(readings []weather.DailyReading) forecastResponse {
	out := forecastResponse{
		Time:    make([]string, 0, len(readings)),
		TempMin: make([]float64, 0, len(readings)),
		TempMax: make([]float64, 0, len(readings)),
	}
	for _, r := range readings {
		out.Time = append(out.Time, r.Date.Format(weather.DateLayout))
		out.TempMin = append(out.TempMin, r.TempMinC)
		out.TempMax = append(out.TempMax, r.TempMaxC)
	}
	return out
}

type recordResponse struct {
	Date     string  `json:"date"`
	TempMinC float64 `json:"temp_min_c"`
	TempMaxC float64 `json:"temp_max_c"`
}

type queryResponse struct {
	ID          int64            `json:"id"`
	RawLocation string           `json:"raw_location"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	CreatedAt   time.Time        `json:"created_at"`
	Records     []recordResponse `json:"records"`
}

func newQueryResponse(q weather.LocationQuery) queryResponse {
	out := queryResponse{
		ID:          q.ID,
		RawLocation: q.Location,
		Latitude:    q.Latitude,
		Longitude:   q.Longitude,
		StartDate:   q.StartDate.Format(weather.DateLayout),
		EndDate:     q.EndDate.Format(weather.DateLayout),
		CreatedAt:   q.CreatedAt,
		Records:     make([]recordResponse, 0, len(q.Records)),
	}
	for _, r := range q.Records {
		out.Records = append(out.Records, recordResponse{
			Date:     r.Date.Format(weather.DateLayout),
			TempMinC: r.TempMinC,
			TempMaxC: r.TempMaxC,
		})
	}
	return out
}
