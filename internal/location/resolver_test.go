package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tj/assert"

	"github.com/i474232898/weather-queries/internal/weather"
	"github.com/i474232898/weather-queries/internal/weather/providers"
)

func newTestResolver(t *testing.T, apiKey string, handler http.HandlerFunc) (*Resolver, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewResolver(providers.NewHTTPClient(2*time.Second), srv.URL, apiKey), &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestResolveCoordinatesSkipsGeocoder(t *testing.T) {
	r, hits := newTestResolver(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	loc, err := r.Resolve(context.Background(), "51.05,-114.07")
	assert.NoError(t, err)
	assert.Equal(t, weather.ResolvedLocation{Latitude: 51.05, Longitude: -114.07, Name: "51.05,-114.07"}, loc)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestResolveMissingKey(t *testing.T) {
	r, hits := newTestResolver(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	_, err := r.Resolve(context.Background(), "Calgary")
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestResolveFlatResults(t *testing.T) {
	r, _ := newTestResolver(t, "secret", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("text") != "T2P 1J9" || q.Get("bias") != "countrycode:ca" || q.Get("apiKey") != "secret" || q.Get("limit") != "1" {
			writeJSON(w, http.StatusBadRequest, `{"message":"unexpected query"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"results":[{"lat":51.0486,"lon":-114.0708,"formatted":"T2P 1J9, Calgary, AB, Canada"}]}`)
	})

	loc, err := r.Resolve(context.Background(), "t2p1j9")
	assert.NoError(t, err)
	assert.Equal(t, 51.0486, loc.Latitude)
	assert.Equal(t, -114.0708, loc.Longitude)
	assert.Equal(t, "T2P 1J9, Calgary, AB, Canada", loc.Name)
}

func TestResolveFeaturesSwapsCoordinates(t *testing.T) {
	r, _ := newTestResolver(t, "secret", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"features":[{"geometry":{"coordinates":[-79.3832,43.6532]},"properties":{"result_type":"city"}}]}`)
	})

	loc, err := r.Resolve(context.Background(), "Toronto")
	assert.NoError(t, err)
	assert.Equal(t, 43.6532, loc.Latitude)
	assert.Equal(t, -79.3832, loc.Longitude)
	assert.Equal(t, "city", loc.Name)
}

func TestResolveNameFallsBackToQuery(t *testing.T) {
	r, _ := newTestResolver(t, "secret", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"results":[{"lat":40.7,"lon":-74.0}]}`)
	})

	loc, err := r.Resolve(context.Background(), "10001")
	assert.NoError(t, err)
	assert.Equal(t, "10001", loc.Name)
}

func TestResolveNotFound(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "no results", body: `{"results":[]}`},
		{name: "no coordinates", body: `{"features":[{"properties":{"formatted":"Nowhere"}}]}`},
		{name: "empty object", body: `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestResolver(t, "secret", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, tc.body)
			})

			_, err := r.Resolve(context.Background(), "Atlantis")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestResolveUpstreamError(t *testing.T) {
	r, _ := newTestResolver(t, "secret", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
	})

	_, err := r.Resolve(context.Background(), "Calgary")
	assert.True(t, errors.Is(err, weather.ErrUpstream))

	var reqErr *providers.RequestError
	assert.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}

func TestResolveEmptyInput(t *testing.T) {
	r, _ := newTestResolver(t, "secret", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	_, err := r.Resolve(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveBiasHint(t *testing.T) {
	cases := []struct {
		raw      string
		wantText string
		wantBias string
	}{
		{raw: "90210", wantText: "90210", wantBias: "countrycode:us"},
		{raw: "k1a 0b1", wantText: "K1A 0B1", wantBias: "countrycode:ca"},
		{raw: "Paris", wantText: "Paris", wantBias: ""},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			var gotText, gotBias string
			var hasBias bool
			r, _ := newTestResolver(t, "secret", func(w http.ResponseWriter, req *http.Request) {
				q := req.URL.Query()
				gotText, gotBias = q.Get("text"), q.Get("bias")
				_, hasBias = q["bias"]
				writeJSON(w, http.StatusOK, `{"results":[{"lat":1,"lon":2}]}`)
			})

			_, err := r.Resolve(context.Background(), tc.raw)
			assert.NoError(t, err)
			assert.Equal(t, tc.wantText, gotText)
			assert.Equal(t, tc.wantBias, gotBias)
			assert.Equal(t, tc.wantBias != "", hasBias)
		})
	}
}
