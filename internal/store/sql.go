package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/i474232898/weather-queries/internal/weather"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const opTimeout = 5 * time.Second

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown database driver")

type queryRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	RawLocation string    `gorm:"column:raw_location;index;not null"`
	Latitude    float64   `gorm:"column:latitude;not null"`
	Longitude   float64   `gorm:"column:longitude;not null"`
	StartDate   time.Time `gorm:"column:start_date;type:date"`
	EndDate     time.Time `gorm:"column:end_date;type:date"`
	CreatedAt   time.Time `gorm:"column:created_at"`

	Records []observationRow `gorm:"foreignKey:QueryID;constraint:OnDelete:CASCADE"`
}

func (queryRow) TableName() string {
	return "weather_queries"
}

type observationRow struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	QueryID  int64     `gorm:"column:query_id;not null;index;uniqueIndex:uq_query_date,priority:1"`
	Date     time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uq_query_date,priority:2"`
	TempMinC float64   `gorm:"column:temp_min_c"`
	TempMaxC float64   `gorm:"column:temp_max_c"`
}

func (observationRow) TableName() string {
	return "daily_weather"
}

type exportRow struct {
	QueryID   int64     `gorm:"column:query_id"`
	Location  string    `gorm:"column:location"`
	Latitude  float64   `gorm:"column:lat"`
	Longitude float64   `gorm:"column:lon"`
	Date      time.Time `gorm:"column:date"`
	TempMinC  float64   `gorm:"column:tmin_c"`
	TempMaxC  float64   `gorm:"column:tmax_c"`
}

// SQLStore implements weather.Store on a relational database through gorm.
type SQLStore struct {
	db *gorm.DB
}

// Open connects to the database and returns a store. The schema is not
// created; call Migrate for that.
func Open(driver, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty dsn for driver %q", driver)
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if driver == DriverSQLite {
		// single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Migrate creates or updates the schema.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&queryRow{}, &observationRow{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// CreateQuery inserts the query header and all of its records in one transaction.
func (s *SQLStore) CreateQuery(ctx context.Context, q *weather.LocationQuery) error {
	if err := checkUniqueDates(q.Records); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := queryRow{
		RawLocation: q.Location,
		Latitude:    q.Latitude,
		Longitude:   q.Longitude,
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Records").Create(&row).Error; err != nil {
			return fmt.Errorf("insert query: %w", err)
		}
		return insertRecords(tx, row.ID, q.Records)
	})
	if err != nil {
		return err
	}

	q.ID = row.ID
	q.CreatedAt = row.CreatedAt
	for i := range q.Records {
		q.Records[i].QueryID = row.ID
	}
	return nil
}

// GetQuery loads a query with its records in creation order.
func (s *SQLStore) GetQuery(ctx context.Context, id int64) (weather.LocationQuery, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var row queryRow
	err := s.db.WithContext(ctx).
		Preload("Records", orderByID).
		First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.LocationQuery{}, weather.ErrQueryNotFound
	}
	if err != nil {
		return weather.LocationQuery{}, err
	}
	return row.toDomain(), nil
}

// ListQueries returns all queries, most recently created first.
func (s *SQLStore) ListQueries(ctx context.Context) ([]weather.LocationQuery, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rows []queryRow
	err := s.db.WithContext(ctx).
		Preload("Records", orderByID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]weather.LocationQuery, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ReplaceQuery updates the header and swaps the whole record set in one transaction.
func (s *SQLStore) ReplaceQuery(ctx context.Context, q *weather.LocationQuery) error {
	if err := checkUniqueDates(q.Records); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var existing queryRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "created_at").First(&existing, q.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return weather.ErrQueryNotFound
			}
			return err
		}

		err := tx.Model(&queryRow{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
			"raw_location": q.Location,
			"latitude":     q.Latitude,
			"longitude":    q.Longitude,
			"start_date":   q.StartDate,
			"end_date":     q.EndDate,
		}).Error
		if err != nil {
			return fmt.Errorf("update query: %w", err)
		}

		if err := tx.Where("query_id = ?", q.ID).Delete(&observationRow{}).Error; err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		return insertRecords(tx, q.ID, q.Records)
	})
	if err != nil {
		return err
	}

	q.CreatedAt = existing.CreatedAt
	for i := range q.Records {
		q.Records[i].QueryID = q.ID
	}
	return nil
}

// ReplaceRecords swaps the record set of q.ID in one transaction if its
// coordinates and range are unchanged. The header row is locked for the
// duration on engines that support row locks.
func (s *SQLStore) ReplaceRecords(ctx context.Context, q *weather.LocationQuery) error {
	if err := checkUniqueDates(q.Records); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row queryRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "latitude", "longitude", "start_date", "end_date").
			First(&row, q.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return weather.ErrQueryNotFound
		}
		if err != nil {
			return err
		}
		if !sameTarget(row.toDomain(), *q) {
			return weather.ErrQuerySuperseded
		}

		if err := tx.Where("query_id = ?", q.ID).Delete(&observationRow{}).Error; err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		return insertRecords(tx, q.ID, q.Records)
	})
	if err != nil {
		return err
	}

	for i := range q.Records {
		q.Records[i].QueryID = q.ID
	}
	return nil
}

// DeleteQuery removes a query and its records. Records are deleted
// explicitly so the cascade holds even where foreign keys are not enforced.
func (s *SQLStore) DeleteQuery(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("query_id = ?", id).Delete(&observationRow{}).Error; err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		res := tx.Delete(&queryRow{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete query: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return weather.ErrQueryNotFound
		}
		return nil
	})
}

// ExportRows joins every query with its records.
func (s *SQLStore) ExportRows(ctx context.Context) ([]weather.ExportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rows []exportRow
	err := s.db.WithContext(ctx).
		Table("weather_queries AS q").
		Select("q.id AS query_id, q.raw_location AS location, q.latitude AS lat, q.longitude AS lon, " +
			"d.date AS date, d.temp_min_c AS tmin_c, d.temp_max_c AS tmax_c").
		Joins("JOIN daily_weather AS d ON d.query_id = q.id").
		Order("q.id DESC, d.date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]weather.ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, weather.ExportRow{
			QueryID:   r.QueryID,
			Location:  r.Location,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Date:      weather.Truncate(r.Date),
			TempMinC:  r.TempMinC,
			TempMaxC:  r.TempMaxC,
		})
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func insertRecords(tx *gorm.DB, queryID int64, records []weather.DailyObservation) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]observationRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, observationRow{
			QueryID:  queryID,
			Date:     r.Date,
			TempMinC: r.TempMinC,
			TempMaxC: r.TempMaxC,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r queryRow) toDomain() weather.LocationQuery {
	q := weather.LocationQuery{
		ID:        r.ID,
		Location:  r.RawLocation,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		StartDate: weather.Truncate(r.StartDate),
		EndDate:   weather.Truncate(r.EndDate),
		CreatedAt: r.CreatedAt,
		Records:   make([]weather.DailyObservation, 0, len(r.Records)),
	}
	for _, rec := range r.Records {
		q.Records = append(q.Records, weather.DailyObservation{
			QueryID:  rec.QueryID,
			Date:     weather.Truncate(rec.Date),
			TempMinC: rec.TempMinC,
			TempMaxC: rec.TempMaxC,
		})
	}
	return q
}
