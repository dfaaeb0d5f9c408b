package weather

import (
	"context"
	"time"
)

// Resolver turns a raw location string into coordinates and a canonical name.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (ResolvedLocation, error)
}

// Provider abstracts the weather data source (Open-Meteo).
type Provider interface {
	Name() string
	// FetchCurrent returns nil without error when the provider has no current block.
	FetchCurrent(ctx context.Context, lat, lon float64) (*CurrentConditions, error)
	// FetchDaily returns one reading per day in [start, end], ordered by date.
	FetchDaily(ctx context.Context, lat, lon float64, start, end time.Time) ([]DailyReading, error)
}

// Store is the contract the persistent and in-memory stores must satisfy.
// Every write is atomic: readers never see a query with a partial record set.
type Store interface {
	// CreateQuery inserts q and its records, assigning q.ID and q.CreatedAt.
	CreateQuery(ctx context.Context, q *LocationQuery) error
	GetQuery(ctx context.Context, id int64) (LocationQuery, error)
	// ListQueries returns all queries, most recently created first.
	ListQueries(ctx context.Context) ([]LocationQuery, error)
	// ReplaceQuery overwrites the header of q.ID and replaces all of its records.
	ReplaceQuery(ctx context.Context, q *LocationQuery) error
	// ReplaceRecords replaces only the records of q.ID, provided the stored
	// coordinates and range still equal q's. Otherwise it returns
	// ErrQuerySuperseded and writes nothing. The header is never modified.
	ReplaceRecords(ctx context.Context, q *LocationQuery) error
	DeleteQuery(ctx context.Context, id int64) error
	// ExportRows returns the query/record join ordered by query id desc, date asc.
	ExportRows(ctx context.Context) ([]ExportRow, error)
	Close() error
}
