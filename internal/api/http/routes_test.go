package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/tj/assert"

	mock "github.com/i474232898/weather-queries/internal/api/http/mock"
	"github.com/i474232898/weather-queries/internal/location"
	"github.com/i474232898/weather-queries/internal/weather"
)

var errTest = errors.New("test error")

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func newTestApp(t *testing.T) (*fiber.App, *mock.MockWeatherService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mock.NewMockWeatherService(ctrl)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc)
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	assert.Nil(t, err)
	defer func() {
		err := resp.Body.Close()
		assert.Nil(t, err)
	}()

	raw, err := io.ReadAll(resp.Body)
	assert.Nil(t, err)
	return resp.StatusCode, raw
}

func mustDate(s string) time.Time {
	d, err := weather.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleQuery() weather.LocationQuery {
	return weather.LocationQuery{
		ID:        7,
		Location:  "Calgary, AB, Canada",
		Latitude:  51.05,
		Longitude: -114.07,
		StartDate: mustDate("2024-06-01"),
		EndDate:   mustDate("2024-06-02"),
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Records: []weather.DailyObservation{
			{QueryID: 7, Date: mustDate("2024-06-01"), TempMinC: 4, TempMaxC: 17.5},
			{QueryID: 7, Date: mustDate("2024-06-02"), TempMinC: 5, TempMaxC: 19},
		},
	}
}

func TestCurrentHandler(t *testing.T) {
	temp, wind := 12.5, 8.0

	cases := []struct {
		name           string
		target         string
		current        weather.CurrentConditions
		serviceErr     error
		expectedStatus int
		isMockCalled   bool
	}{
		{
			name:           "missing location",
			target:         "/api/current",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank location",
			target:         "/api/current?location=%20%20",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "ok",
			target:         "/api/current?location=Calgary",
			current:        weather.CurrentConditions{TemperatureC: &temp, WindSpeedKph: &wind},
			expectedStatus: http.StatusOK,
			isMockCalled:   true,
		},
		{
			name:           "no current block",
			target:         "/api/current?location=Calgary",
			serviceErr:     weather.ErrNoCurrentWeather,
			expectedStatus: http.StatusNotFound,
			isMockCalled:   true,
		},
		{
			name:           "unknown location",
			target:         "/api/current?location=Atlantis",
			serviceErr:     location.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			isMockCalled:   true,
		},
		{
			name:           "missing api key",
			target:         "/api/current?location=Calgary",
			serviceErr:     location.ErrConfiguration,
			expectedStatus: http.StatusInternalServerError,
			isMockCalled:   true,
		},
		{
			name:           "upstream failure",
			target:         "/api/current?location=Calgary",
			serviceErr:     fmt.Errorf("fetch current weather: %w", weather.ErrUpstream),
			expectedStatus: http.StatusBadGateway,
			isMockCalled:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, svc := newTestApp(t)

			if tc.isMockCalled {
				svc.EXPECT().
					Current(gomock.Any(), gomock.Any()).
					Return(tc.current, tc.serviceErr)
			}

			code, body := do(t, app, http.MethodGet, tc.target, "")
			assert.Equal(t, tc.expectedStatus, code)

			if code != http.StatusOK {
				var resBody errorResponse
				assert.Nil(t, json.Unmarshal(body, &resBody))
				assert.True(t, resBody.Error)
				assert.NotEmpty(t, resBody.Message)
				return
			}

			var resBody currentResponse
			assert.Nil(t, json.Unmarshal(body, &resBody))
			assert.Equal(t, 12.5, *resBody.TemperatureC)
			assert.Nil(t, resBody.WindDirectionDeg)
			assert.Equal(t, "Current conditions", resBody.Description)
		})
	}
}

func TestForecast5Handler(t *testing.T) {
	app, svc := newTestApp(t)

	svc.EXPECT().
		Forecast5(gomock.Any(), "T2P 1J9").
		Return([]weather.DailyReading{
			{Date: mustDate("2024-06-01"), TempMinC: 3, TempMaxC: 14},
			{Date: mustDate("2024-06-02"), TempMinC: 4.5, TempMaxC: 16},
		}, nil)

	code, body := do(t, app, http.MethodGet, "/api/forecast5?location=T2P%201J9", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{
		"time": ["2024-06-01", "2024-06-02"],
		"temperature_2m_min": [3, 4.5],
		"temperature_2m_max": [14, 16]
	}`, string(body))
}

func TestCreateQueryHandler(t *testing.T) {
	cases := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		isMockCalled   bool
	}{
		{
			name:           "created",
			body:           `{"location":"Calgary","start_date":"2024-06-01","end_date":"2024-06-02"}`,
			expectedStatus: http.StatusCreated,
			isMockCalled:   true,
		},
		{
			name:           "missing location",
			body:           `{"start_date":"2024-06-01"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed date",
			body:           `{"location":"Calgary","start_date":"2024-13-01"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"location":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid range",
			body:           `{"location":"Calgary","start_date":"2024-06-05","end_date":"2024-06-01"}`,
			serviceErr:     weather.ErrInvalidRange,
			expectedStatus: http.StatusBadRequest,
			isMockCalled:   true,
		},
		{
			name:           "service error",
			body:           `{"location":"Calgary"}`,
			serviceErr:     errTest,
			expectedStatus: http.StatusInternalServerError,
			isMockCalled:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, svc := newTestApp(t)

			if tc.isMockCalled {
				q := sampleQuery()
				if tc.serviceErr != nil {
					q = weather.LocationQuery{}
				}
				svc.EXPECT().
					CreateQuery(gomock.Any(), gomock.Any()).
					Return(q, tc.serviceErr)
			}

			code, _ := do(t, app, http.MethodPost, "/api/queries", tc.body)
			assert.Equal(t, tc.expectedStatus, code)
		})
	}
}

func TestCreateQueryHandlerInput(t *testing.T) {
	app, svc := newTestApp(t)

	svc.EXPECT().
		CreateQuery(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in weather.CreateQueryInput) (weather.LocationQuery, error) {
			assert.Equal(t, "Calgary", in.Location)
			assert.NotNil(t, in.StartDate)
			assert.Equal(t, "2024-06-01", in.StartDate.Format(weather.DateLayout))
			// blank strings count as absent
			assert.Nil(t, in.EndDate)
			return sampleQuery(), nil
		})

	code, body := do(t, app, http.MethodPost, "/api/queries", `{"location":"  Calgary ","start_date":"2024-06-01","end_date":""}`)
	assert.Equal(t, http.StatusCreated, code)

	var resBody queryResponse
	assert.Nil(t, json.Unmarshal(body, &resBody))
	assert.Equal(t, int64(7), resBody.ID)
	assert.Equal(t, "Calgary, AB, Canada", resBody.RawLocation)
	assert.Equal(t, "2024-06-01", resBody.StartDate)
	assert.Equal(t, "2024-06-02", resBody.EndDate)
	assert.Len(t, resBody.Records, 2)
	assert.Equal(t, recordResponse{Date: "2024-06-02", TempMinC: 5, TempMaxC: 19}, resBody.Records[1])
}

func TestGetQueryHandler(t *testing.T) {
	cases := []struct {
		name           string
		target         string
		serviceErr     error
		expectedStatus int
		isMockCalled   bool
	}{
		{name: "ok", target: "/api/queries/7", expectedStatus: http.StatusOK, isMockCalled: true},
		{name: "not found", target: "/api/queries/7", serviceErr: weather.ErrQueryNotFound, expectedStatus: http.StatusNotFound, isMockCalled: true},
		{name: "bad id", target: "/api/queries/abc", expectedStatus: http.StatusBadRequest},
		{name: "zero id", target: "/api/queries/0", expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, svc := newTestApp(t)

			if tc.isMockCalled {
				svc.EXPECT().
					GetQuery(gomock.Any(), int64(7)).
					Return(sampleQuery(), tc.serviceErr)
			}

			code, _ := do(t, app, http.MethodGet, tc.target, "")
			assert.Equal(t, tc.expectedStatus, code)
		})
	}
}

func TestListQueriesHandler(t *testing.T) {
	app, svc := newTestApp(t)

	svc.EXPECT().
		ListQueries(gomock.Any()).
		Return(nil, nil)

	code, body := do(t, app, http.MethodGet, "/api/queries", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", string(body))
}

func TestUpdateQueryHandler(t *testing.T) {
	app, svc := newTestApp(t)

	svc.EXPECT().
		UpdateQuery(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, in weather.UpdateQueryInput) (weather.LocationQuery, error) {
			assert.NotNil(t, in.Location)
			assert.Equal(t, "Toronto", *in.Location)
			assert.Nil(t, in.StartDate)
			assert.Equal(t, "2024-06-09", in.EndDate.Format(weather.DateLayout))
			return sampleQuery(), nil
		})

	code, _ := do(t, app, http.MethodPut, "/api/queries/7", `{"location":"Toronto","end_date":"2024-06-09"}`)
	assert.Equal(t, http.StatusOK, code)

	app, svc = newTestApp(t)
	svc.EXPECT().
		UpdateQuery(gomock.Any(), int64(8), gomock.Any()).
		Return(weather.LocationQuery{}, weather.ErrQueryNotFound)

	code, _ = do(t, app, http.MethodPut, "/api/queries/8", `{}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteQueryHandler(t *testing.T) {
	cases := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "deleted", expectedStatus: http.StatusNoContent},
		{name: "not found", serviceErr: weather.ErrQueryNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, svc := newTestApp(t)

			svc.EXPECT().
				DeleteQuery(gomock.Any(), int64(3)).
				Return(tc.serviceErr)

			code, body := do(t, app, http.MethodDelete, "/api/queries/3", "")
			assert.Equal(t, tc.expectedStatus, code)
			if code == http.StatusNoContent {
				assert.Empty(t, body)
			}
		})
	}
}

func TestExportHandler(t *testing.T) {
	rows := []weather.ExportRow{{
		QueryID:   7,
		Location:  "Calgary",
		Latitude:  51.05,
		Longitude: -114.07,
		Date:      mustDate("2024-06-01"),
		TempMinC:  4,
		TempMaxC:  17.5,
	}}

	t.Run("csv by default", func(t *testing.T) {
		app, svc := newTestApp(t)
		svc.EXPECT().Export(gomock.Any()).Return(rows, nil)

		code, body := do(t, app, http.MethodGet, "/api/export", "")
		assert.Equal(t, http.StatusOK, code)

		var resBody struct {
			CSV string `json:"csv"`
		}
		assert.Nil(t, json.Unmarshal(body, &resBody))
		assert.Equal(t, "query_id,location,lat,lon,date,tmin_c,tmax_c\n7,Calgary,51.05,-114.07,2024-06-01,4,17.5\n", resBody.CSV)
	})

	t.Run("json", func(t *testing.T) {
		app, svc := newTestApp(t)
		svc.EXPECT().Export(gomock.Any()).Return(rows, nil)

		code, body := do(t, app, http.MethodGet, "/api/export?fmt=json", "")
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `[{"query_id":7,"location":"Calgary","lat":51.05,"lon":-114.07,"date":"2024-06-01","tmin_c":4,"tmax_c":17.5}]`, string(body))
	})

	t.Run("empty json", func(t *testing.T) {
		app, svc := newTestApp(t)
		svc.EXPECT().Export(gomock.Any()).Return(nil, nil)

		code, body := do(t, app, http.MethodGet, "/api/export?fmt=json", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "[]", string(body))
	})

	t.Run("unsupported format", func(t *testing.T) {
		app, _ := newTestApp(t)

		code, _ := do(t, app, http.MethodGet, "/api/export?fmt=xml", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
