package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/weather-queries/internal/logger"
)

// CreateQueryInput holds the parameters of a new query. Nil dates are defaulted.
type CreateQueryInput struct {
	Location  string
	StartDate *time.Time
	EndDate   *time.Time
}

// UpdateQueryInput holds optional replacements for a stored query.
type UpdateQueryInput struct {
	Location  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// Service orchestrates location resolution, the weather provider and the store.
type Service struct {
	resolver Resolver
	provider Provider
	store    Store
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service.
func NewService(resolver Resolver, provider Provider, store Store, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		provider: provider,
		store:    store,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return Truncate(s.now())
}

// Current resolves raw and returns the provider's current conditions.
func (s *Service) Current(ctx context.Context, raw string) (CurrentConditions, error) {
	loc, err := s.resolver.Resolve(ctx, raw)
	if err != nil {
		return CurrentConditions{}, err
	}

	cur, err := s.provider.FetchCurrent(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return CurrentConditions{}, fmt.Errorf("fetch current weather: %w", err)
	}
	if cur == nil {
		return CurrentConditions{}, ErrNoCurrentWeather
	}
	return *cur, nil
}

// Forecast5 returns the daily series for today and the following four days.
// Nothing is persisted.
func (s *Service) Forecast5(ctx context.Context, raw string) ([]DailyReading, error) {
	loc, err := s.resolver.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}

	today := s.today()
	r := DateRange{Start: today, End: today.AddDate(0, 0, DefaultWindowDays-1)}
	readings, err := s.provider.FetchDaily(ctx, loc.Latitude, loc.Longitude, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("fetch daily weather: %w", err)
	}
	return readings, nil
}

// CreateQuery resolves the location, fetches the daily series for the
// effective range and stores the query with one record per returned day.
func (s *Service) CreateQuery(ctx context.Context, in CreateQueryInput) (LocationQuery, error) {
	r, err := FillDefaults(in.StartDate, in.EndDate, s.today())
	if err != nil {
		return LocationQuery{}, err
	}

	loc, err := s.resolver.Resolve(ctx, in.Location)
	if err != nil {
		return LocationQuery{}, err
	}

	readings, err := s.provider.FetchDaily(ctx, loc.Latitude, loc.Longitude, r.Start, r.End)
	if err != nil {
		return LocationQuery{}, fmt.Errorf("fetch daily weather: %w", err)
	}

	q := LocationQuery{
		Location:  loc.Name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		StartDate: r.Start,
		EndDate:   r.End,
		Records:   observationsFromReadings(0, readings),
	}
	if err := s.store.CreateQuery(ctx, &q); err != nil {
		return LocationQuery{}, fmt.Errorf("store query: %w", err)
	}

	logger.WithFields(logger.Fields{
		"query_id": q.ID,
		"location": q.Location,
		"days":     len(q.Records),
	}).Info("query created")

	return q, nil
}

// GetQuery returns a stored query with its records.
func (s *Service) GetQuery(ctx context.Context, id int64) (LocationQuery, error) {
	return s.store.GetQuery(ctx, id)
}

// ListQueries returns all stored queries, most recent first.
func (s *Service) ListQueries(ctx context.Context) ([]LocationQuery, error) {
	return s.store.ListQueries(ctx)
}

// UpdateQuery recomputes the range using stored bounds as defaults,
// optionally re-resolves the location, re-fetches the full series and
// replaces every stored record of the query.
func (s *Service) UpdateQuery(ctx context.Context, id int64, in UpdateQueryInput) (LocationQuery, error) {
	q, err := s.store.GetQuery(ctx, id)
	if err != nil {
		return LocationQuery{}, err
	}

	start, end := q.StartDate, q.EndDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	r, err := FillDefaults(&start, &end, s.today())
	if err != nil {
		return LocationQuery{}, err
	}

	if in.Location != nil && *in.Location != "" {
		loc, err := s.resolver.Resolve(ctx, *in.Location)
		if err != nil {
			return LocationQuery{}, err
		}
		q.Location, q.Latitude, q.Longitude = loc.Name, loc.Latitude, loc.Longitude
	}
	q.StartDate, q.EndDate = r.Start, r.End

	if err := s.refresh(ctx, &q); err != nil {
		return LocationQuery{}, err
	}

	logger.WithFields(logger.Fields{
		"query_id": q.ID,
		"location": q.Location,
		"days":     len(q.Records),
	}).Info("query updated")

	return q, nil
}

// refresh fetches the series for q's current coordinates and range and
// replaces the stored records.
func (s *Service) refresh(ctx context.Context, q *LocationQuery) error {
	readings, err := s.provider.FetchDaily(ctx, q.Latitude, q.Longitude, q.StartDate, q.EndDate)
	if err != nil {
		return fmt.Errorf("fetch daily weather: %w", err)
	}
	q.Records = observationsFromReadings(q.ID, readings)

	if err := s.store.ReplaceQuery(ctx, q); err != nil {
		return fmt.Errorf("replace query: %w", err)
	}
	return nil
}

// DeleteQuery removes a query and all of its records.
func (s *Service) DeleteQuery(ctx context.Context, id int64) error {
	if err := s.store.DeleteQuery(ctx, id); err != nil {
		return err
	}
	logger.WithFields(logger.Fields{"query_id": id}).Info("query deleted")
	return nil
}

// Export returns the flattened join of all queries and their records.
func (s *Service) Export(ctx context.Context) ([]ExportRow, error) {
	return s.store.ExportRows(ctx)
}

// RefreshResult counts the outcomes of one RefreshQueries run.
type RefreshResult struct {
	Refreshed int
	// Superseded queries were updated or deleted while being refreshed and
	// were left as the other writer stored them.
	Superseded int
	Failed     int
}

// RefreshQueries re-fetches the daily series of every stored query for its
// stored coordinates and range. Only the records are written, and only if
// the query still has those coordinates and range. Failures are logged per
// query and do not stop the run.
func (s *Service) RefreshQueries(ctx context.Context) (RefreshResult, error) {
	var res RefreshResult

	queries, err := s.store.ListQueries(ctx)
	if err != nil {
		return res, fmt.Errorf("list queries: %w", err)
	}

	for i := range queries {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		q := queries[i]
		readings, err := s.provider.FetchDaily(ctx, q.Latitude, q.Longitude, q.StartDate, q.EndDate)
		if err == nil {
			q.Records = observationsFromReadings(q.ID, readings)
			err = s.store.ReplaceRecords(ctx, &q)
		}

		switch {
		case err == nil:
			res.Refreshed++
		case errors.Is(err, ErrQuerySuperseded), errors.Is(err, ErrQueryNotFound):
			res.Superseded++
			logger.Debugf("refresh of query %d skipped: %v", q.ID, err)
		default:
			res.Failed++
			logger.WithFields(logger.Fields{
				"query_id": q.ID,
				"error":    err.Error(),
			}).Warn("query refresh failed")
		}
	}

	return res, nil
}
