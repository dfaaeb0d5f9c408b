// Package location resolves free-form location strings to coordinates.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weather-queries/internal/logger"
	"github.com/i474232898/weather-queries/internal/weather"
	"github.com/i474232898/weather-queries/internal/weather/providers"
)

const defaultGeoapifyURL = "https://api.geoapify.com/v1/geocode/search"

var (
	// ErrNotFound is returned when the geocoder has no usable result.
	ErrNotFound = errors.New("location not found")
	// ErrConfiguration is returned when a geocoder call is needed but no API key is set.
	ErrConfiguration = errors.New("missing GEOAPIFY_API_KEY")
)

// Resolver resolves locations through the Geoapify geocoding API.
// Coordinate pairs are parsed locally and never reach the API.
type Resolver struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

// NewResolver creates a Resolver. An empty baseURL selects the public endpoint.
func NewResolver(client *resty.Client, baseURL, apiKey string) *Resolver {
	if baseURL == "" {
		baseURL = defaultGeoapifyURL
	}
	return &Resolver{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Resolve implements weather.Resolver.
func (r *Resolver) Resolve(ctx context.Context, raw string) (weather.ResolvedLocation, error) {
	c := Classify(raw)
	if c.Kind == KindCoordinates {
		return weather.ResolvedLocation{Latitude: c.Lat, Longitude: c.Lon, Name: c.Text}, nil
	}
	if c.Text == "" {
		return weather.ResolvedLocation{}, ErrNotFound
	}

	if r.apiKey == "" {
		return weather.ResolvedLocation{}, ErrConfiguration
	}

	params := map[string]string{
		"text":   c.Text,
		"limit":  "1",
		"format": "json",
		"apiKey": r.apiKey,
	}
	if c.Bias != "" {
		params["bias"] = c.Bias
	}

	logger.Debugf("geocoding %q as %s", c.Text, c.Kind)

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(r.baseURL)
	if err != nil {
		return weather.ResolvedLocation{}, &providers.RequestError{Method: "GET", URL: r.baseURL, Cause: err}
	}
	if !resp.IsSuccess() {
		return weather.ResolvedLocation{}, &providers.RequestError{
			Method:     "GET",
			URL:        r.baseURL,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	var payload geocodeResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return weather.ResolvedLocation{}, &providers.RequestError{
			Method: "GET",
			URL:    r.baseURL,
			Cause:  fmt.Errorf("decode geocoder response: %w", err),
		}
	}

	return payload.resolve(c.Text)
}
