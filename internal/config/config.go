package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-queries/internal/logger"
)

// Storage backends selectable with DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type AppConfig struct {
	Env      string
	Port     string
	LogLevel string

	GeoapifyAPIKey string
	GeoapifyURL    string
	OpenMeteoURL   string

	// HTTPTimeout bounds every single outbound provider call.
	HTTPTimeout time.Duration

	DBDriver    string
	DatabaseURL string

	CORSOrigins []string

	// RefreshInterval controls the stored-query refresh job (0 = disabled).
	RefreshInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Env = getenvDefault("APP_ENV", "dev")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	// Checked lazily by the resolver, only when a geocoder call is needed.
	cfg.GeoapifyAPIKey = os.Getenv("GEOAPIFY_API_KEY")
	cfg.GeoapifyURL = os.Getenv("GEOAPIFY_URL")
	cfg.OpenMeteoURL = os.Getenv("OPEN_METEO_URL")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "12s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}
	cfg.HTTPTimeout = timeout

	cfg.DBDriver = strings.ToLower(getenvDefault("DB_DRIVER", DriverPostgres))
	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DatabaseURL = postgresURL()
	case DriverSQLite:
		cfg.DatabaseURL = sqliteDSN(getenvDefault("SQLITE_PATH", "weather.db"))
	case DriverMemory:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q", cfg.DBDriver)
	}

	cfg.CORSOrigins = splitList(getenvDefault("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"))

	refresh, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = refresh

	return cfg, nil
}

// postgresURL prefers DATABASE_URL and otherwise assembles one from the
// individual connection variables.
func postgresURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getenvDefault("POSTGRES_USER", "weather"), getenvDefault("POSTGRES_PASSWORD", "weatherpw")),
		Host:     getenvDefault("DB_HOST", "localhost") + ":" + strconv.Itoa(getenvInt("DB_PORT", 5432)),
		Path:     "/" + getenvDefault("POSTGRES_DB", "weatherdb"),
		RawQuery: "sslmode=" + getenvDefault("DB_SSLMODE", "disable"),
	}
	return u.String()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
