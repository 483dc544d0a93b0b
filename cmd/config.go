package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"ordering/internal/adapters/out/broadcast"
	"ordering/internal/jobs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RabbitMQURL    string
	EventsExchange string

	GeocoderURL     string
	GeocoderTimeout time.Duration

	CatalogTTL             time.Duration
	CatalogRefreshSchedule string
	ZonesFile              string
	MenuFile               string

	Currency  string
	LogLevel  slog.Level
	LogFormat string
}

const (
	DefaultHTTPPort        = "8080"
	DefaultGeocoderTimeout = 3 * time.Second
	DefaultCatalogTTL      = time.Minute
	DefaultCurrency        = "EUR"
)

// LoadConfig reads the configuration through getenv, usually os.Getenv
// after .env has been loaded. Unset optional values take their defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPPort:               orDefault(getenv("HTTP_PORT"), DefaultHTTPPort),
		DBHost:                 getenv("DB_HOST"),
		DBPort:                 orDefault(getenv("DB_PORT"), "5432"),
		DBUser:                 getenv("DB_USER"),
		DBPassword:             getenv("DB_PASSWORD"),
		DBName:                 getenv("DB_NAME"),
		DBSslMode:              orDefault(getenv("DB_SSLMODE"), "disable"),
		RabbitMQURL:            getenv("RABBITMQ_URL"),
		EventsExchange:         orDefault(getenv("EVENTS_EXCHANGE"), broadcast.DefaultExchange),
		GeocoderURL:            getenv("GEOCODER_URL"),
		CatalogRefreshSchedule: orDefault(getenv("CATALOG_REFRESH_SCHEDULE"), jobs.DefaultCatalogRefreshSchedule),
		ZonesFile:              getenv("ZONES_FILE"),
		MenuFile:               getenv("MENU_FILE"),
		Currency:               strings.ToUpper(orDefault(getenv("CURRENCY"), DefaultCurrency)),
		LogFormat:              strings.ToLower(orDefault(getenv("LOG_FORMAT"), "text")),
	}

	var problems []error
	for _, required := range []struct{ name, value string }{
		{"DB_HOST", cfg.DBHost},
		{"DB_USER", cfg.DBUser},
		{"DB_NAME", cfg.DBName},
		{"GEOCODER_URL", cfg.GeocoderURL},
	} {
		if required.value == "" {
			problems = append(problems, fmt.Errorf("%s is required", required.name))
		}
	}

	var err error
	if cfg.GeocoderTimeout, err = durationOr(getenv, "GEOCODER_TIMEOUT", DefaultGeocoderTimeout); err != nil {
		problems = append(problems, err)
	}
	if cfg.CatalogTTL, err = durationOr(getenv, "CATALOG_TTL", DefaultCatalogTTL); err != nil {
		problems = append(problems, err)
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		if err = cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			problems = append(problems, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		problems = append(problems, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat))
	}

	if err = errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func durationOr(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}
