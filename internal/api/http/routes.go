package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-queries/internal/export"
	"github.com/i474232898/weather-queries/internal/location"
	"github.com/i474232898/weather-queries/internal/logger"
	"github.com/i474232898/weather-queries/internal/weather"
)

//go:generate mockgen -source=routes.go -destination=mock/mock.go WeatherService

// WeatherService provides the operations behind the HTTP API.
type WeatherService interface {
	Current(ctx context.Context, raw string) (weather.CurrentConditions, error)
	Forecast5(ctx context.Context, raw string) ([]weather.DailyReading, error)
	CreateQuery(ctx context.Context, in weather.CreateQueryInput) (weather.LocationQuery, error)
	GetQuery(ctx context.Context, id int64) (weather.LocationQuery, error)
	ListQueries(ctx context.Context) ([]weather.LocationQuery, error)
	UpdateQuery(ctx context.Context, id int64, in weather.UpdateQueryInput) (weather.LocationQuery, error)
	DeleteQuery(ctx context.Context, id int64) error
	Export(ctx context.Context) ([]weather.ExportRow, error)
}

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService) {
	api := app.Group("/api")

	api.Get("/current", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		cur, err := service.Current(c.UserContext(), loc.Location)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(currentResponse{
			TemperatureC:     cur.TemperatureC,
			WindSpeedKph:     cur.WindSpeedKph,
			WindDirectionDeg: cur.WindDirectionDeg,
			Description:      "Current conditions",
		})
	})

	api.Get("/forecast5", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := service.Forecast5(c.UserContext(), loc.Location)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(newForecastResponse(readings))
	})

	api.Post("/queries", func(c *fiber.Ctx) error {
		var req createQueryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		in, err := req.toInput()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		q, err := service.CreateQuery(c.UserContext(), in)
		if err != nil {
			return httpError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(newQueryResponse(q))
	})

	api.Get("/queries", func(c *fiber.Ctx) error {
		queries, err := service.ListQueries(c.UserContext())
		if err != nil {
			return httpError(err)
		}

		out := make([]queryResponse, 0, len(queries))
		for _, q := range queries {
			out = append(out, newQueryResponse(q))
		}
		return c.JSON(out)
	})

	api.Get("/queries/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		q, err := service.GetQuery(c.UserContext(), id)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(newQueryResponse(q))
	})

	api.Put("/queries/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var req updateQueryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		in, err := req.toInput()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		q, err := service.UpdateQuery(c.UserContext(), id, in)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(newQueryResponse(q))
	})

	api.Delete("/queries/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		if err := service.DeleteQuery(c.UserContext(), id); err != nil {
			return httpError(err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	})

	api.Get("/export", func(c *fiber.Ctx) error {
		format := c.Query("fmt", export.FormatCSV)
		if !export.ValidFormat(format) {
			return fiber.NewError(fiber.StatusBadRequest, "fmt must be one of: csv, json")
		}

		rows, err := service.Export(c.UserContext())
		if err != nil {
			return httpError(err)
		}

		if format == export.FormatJSON {
			return c.JSON(export.Records(rows))
		}

		doc, err := export.CSV(rows)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"csv": doc})
	})
}

// ErrorHandler renders every error as a JSON body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// httpError maps service errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, weather.ErrInvalidRange):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, location.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrQueryNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, weather.ErrNoCurrentWeather):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, location.ErrConfiguration):
		logger.Error(err)
		return fiber.NewError(fiber.StatusInternalServerError, "geocoder is not configured")
	case errors.Is(err, weather.ErrUpstream):
		logger.Error(err)
		return fiber.NewError(fiber.StatusBadGateway, "upstream provider failed")
	default:
		logger.Error(err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
