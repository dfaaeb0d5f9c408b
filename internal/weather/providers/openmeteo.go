package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weather-queries/internal/logger"
	"github.com/i474232898/weather-queries/internal/weather"
)

const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *resty.Client
}

// NewOpenMeteoProvider creates the provider. An empty baseURL selects the public endpoint.
func NewOpenMeteoProvider(client *resty.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = defaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchCurrent implements weather.Provider.
func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, lat, lon float64) (*weather.CurrentConditions, error) {
	params := coordinateParams(lat, lon)
	params["current"] = "temperature_2m,wind_speed_10m,wind_direction_10m"

	var payload struct {
		Current *struct {
			Temperature   *float64 `json:"temperature_2m"`
			WindSpeed     *float64 `json:"wind_speed_10m"`
			WindDirection *float64 `json:"wind_direction_10m"`
		} `json:"current"`
	}
	if err := p.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	if payload.Current == nil {
		return nil, nil
	}
	return &weather.CurrentConditions{
		TemperatureC:     payload.Current.Temperature,
		WindSpeedKph:     payload.Current.WindSpeed,
		WindDirectionDeg: payload.Current.WindDirection,
	}, nil
}

// FetchDaily implements weather.Provider. The provider's parallel arrays are
// reassembled into one reading per day, by index.
func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, lat, lon float64, start, end time.Time) ([]weather.DailyReading, error) {
	params := coordinateParams(lat, lon)
	params["daily"] = "temperature_2m_min,temperature_2m_max"
	params["start_date"] = start.Format(weather.DateLayout)
	params["end_date"] = end.Format(weather.DateLayout)

	var payload struct {
		Daily *struct {
			Time    []string   `json:"time"`
			TempMin []*float64 `json:"temperature_2m_min"`
			TempMax []*float64 `json:"temperature_2m_max"`
		} `json:"daily"`
	}
	if err := p.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	if payload.Daily == nil {
		return []weather.DailyReading{}, nil
	}

	d := payload.Daily
	if len(d.TempMin) != len(d.Time) || len(d.TempMax) != len(d.Time) {
		return nil, &RequestError{
			Method: "GET",
			URL:    p.baseURL,
			Cause: fmt.Errorf("daily arrays differ in length: time=%d min=%d max=%d",
				len(d.Time), len(d.TempMin), len(d.TempMax)),
		}
	}

	readings := make([]weather.DailyReading, 0, len(d.Time))
	for i, day := range d.Time {
		date, err := weather.ParseDate(day)
		if err != nil {
			return nil, &RequestError{Method: "GET", URL: p.baseURL, Cause: err}
		}
		if d.TempMin[i] == nil || d.TempMax[i] == nil {
			logger.Debugf("openmeteo: no temperatures for %s, skipping day", day)
			continue
		}
		readings = append(readings, weather.DailyReading{
			Date:     date,
			TempMinC: *d.TempMin[i],
			TempMaxC: *d.TempMax[i],
		})
	}

	return readings, nil
}

func (p *OpenMeteoProvider) get(ctx context.Context, params map[string]string, out interface{}) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(p.baseURL)
	if err != nil {
		return &RequestError{Method: "GET", URL: p.baseURL, Cause: err}
	}
	if !resp.IsSuccess() {
		return &RequestError{
			Method:     "GET",
			URL:        p.baseURL,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &RequestError{
			Method: "GET",
			URL:    p.baseURL,
			Cause:  fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func coordinateParams(lat, lon float64) map[string]string {
	return map[string]string{
		"latitude":  strconv.FormatFloat(lat, 'f', -1, 64),
		"longitude": strconv.FormatFloat(lon, 'f', -1, 64),
		"timezone":  "auto",
	}
}
