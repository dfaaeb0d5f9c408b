package weather

import "errors"

var (
	// ErrInvalidRange is returned when start date is after end date.
	ErrInvalidRange = errors.New("start_date must be <= end_date")
	// ErrQueryNotFound is returned when a query identifier does not exist.
	ErrQueryNotFound = errors.New("not found")
	// ErrQuerySuperseded is returned when a query's coordinates or range
	// changed after it was read.
	ErrQuerySuperseded = errors.New("query changed since it was read")
	// ErrNoCurrentWeather is returned when the provider has no current conditions block.
	ErrNoCurrentWeather = errors.New("no current weather found")
	// ErrUpstream marks network failures, timeouts and non-success statuses from providers.
	ErrUpstream = errors.New("upstream provider error")
)
