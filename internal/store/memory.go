package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-queries/internal/weather"
)

var (
	// ErrDuplicateDate is returned when a query would own two records for the same day.
	ErrDuplicateDate = errors.New("duplicate record date for query")
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: query id
	queries map[int64]*weather.LocationQuery
	nextID  int64
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		queries: make(map[int64]*weather.LocationQuery),
		nextID:  1,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateQuery stores q and its records, assigning ID and CreatedAt.
func (s *MemoryStore) CreateQuery(_ context.Context, q *weather.LocationQuery) error {
	if err := checkUniqueDates(q.Records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q.ID = s.nextID
	s.nextID++
	q.CreatedAt = s.now()
	for i := range q.Records {
		q.Records[i].QueryID = q.ID
	}

	stored := cloneQuery(*q)
	s.queries[q.ID] = &stored
	return nil
}

// GetQuery returns a copy of the stored query.
func (s *MemoryStore) GetQuery(_ context.Context, id int64) (weather.LocationQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.queries[id]
	if !ok {
		return weather.LocationQuery{}, weather.ErrQueryNotFound
	}
	return cloneQuery(*q), nil
}

// ListQueries returns all queries, most recent first.
func (s *MemoryStore) ListQueries(_ context.Context) ([]weather.LocationQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.LocationQuery, 0, len(s.queries))
	for _, q := range s.queries {
		out = append(out, cloneQuery(*q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ReplaceQuery overwrites the header and the whole record set of q.ID.
func (s *MemoryStore) ReplaceQuery(_ context.Context, q *weather.LocationQuery) error {
	if err := checkUniqueDates(q.Records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.queries[q.ID]
	if !ok {
		return weather.ErrQueryNotFound
	}

	q.CreatedAt = existing.CreatedAt
	for i := range q.Records {
		q.Records[i].QueryID = q.ID
	}

	stored := cloneQuery(*q)
	s.queries[q.ID] = &stored
	return nil
}

// ReplaceRecords swaps the record set of q.ID if its coordinates and range
// are unchanged.
func (s *MemoryStore) ReplaceRecords(_ context.Context, q *weather.LocationQuery) error {
	if err := checkUniqueDates(q.Records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.queries[q.ID]
	if !ok {
		return weather.ErrQueryNotFound
	}
	if !sameTarget(*existing, *q) {
		return weather.ErrQuerySuperseded
	}

	records := make([]weather.DailyObservation, len(q.Records))
	copy(records, q.Records)
	for i := range records {
		records[i].QueryID = q.ID
		q.Records[i].QueryID = q.ID
	}
	existing.Records = records
	return nil
}

// DeleteQuery removes a query together with its records.
func (s *MemoryStore) DeleteQuery(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.queries[id]; !ok {
		return weather.ErrQueryNotFound
	}
	delete(s.queries, id)
	return nil
}

// ExportRows flattens every query with its records.
func (s *MemoryStore) ExportRows(ctx context.Context) ([]weather.ExportRow, error) {
	queries, err := s.ListQueries(ctx)
	if err != nil {
		return nil, err
	}

	var rows []weather.ExportRow
	for _, q := range queries {
		records := q.Records
		sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
		for _, r := range records {
			rows = append(rows, weather.ExportRow{
				QueryID:   q.ID,
				Location:  q.Location,
				Latitude:  q.Latitude,
				Longitude: q.Longitude,
				Date:      r.Date,
				TempMinC:  r.TempMinC,
				TempMaxC:  r.TempMaxC,
			})
		}
	}
	return rows, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func cloneQuery(q weather.LocationQuery) weather.LocationQuery {
	records := make([]weather.DailyObservation, len(q.Records))
	copy(records, q.Records)
	q.Records = records
	return q
}

func checkUniqueDates(records []weather.DailyObservation) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		day := r.Date.Format(weather.DateLayout)
		if _, dup := seen[day]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateDate, day)
		}
		seen[day] = struct{}{}
	}
	return nil
}

// sameTarget reports whether a and b describe the same coordinates and range.
func sameTarget(a, b weather.LocationQuery) bool {
	return a.Latitude == b.Latitude &&
		a.Longitude == b.Longitude &&
		weather.Truncate(a.StartDate).Equal(weather.Truncate(b.StartDate)) &&
		weather.Truncate(a.EndDate).Equal(weather.Truncate(b.EndDate))
}
