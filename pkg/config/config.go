package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported persistence drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log         LogConfig
	CORS        CORSConfig
	Trip        TripConfig
	Weather     WeatherConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Persistence PersistenceConfig
	Export      ExportConfig
	Metrics     MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// TripConfig identifies the itinerary served by this process.
type TripConfig struct {
	ID       string
	SeedFile string
}

// WeatherConfig controls the cache placed in front of the weather provider.
type WeatherConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

// PersistenceConfig gates snapshot saving and tunes its job queue.
type PersistenceConfig struct {
	Enabled    bool
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// ExportConfig tunes document exports.
type ExportConfig struct {
	PDFFontPath   string
	TimeZone      string
	EventDuration time.Duration
}

// MetricsConfig toggles the Prometheus endpoints.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Trip = TripConfig{
		ID:       v.GetString("TRIP_ID"),
		SeedFile: v.GetString("TRIP_SEED_FILE"),
	}

	cfg.Weather = WeatherConfig{
		CacheEnabled: v.GetBool("ENABLE_WEATHER_CACHE"),
		CacheTTL:     parseDuration(v.GetString("WEATHER_CACHE_TTL"), 30*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		SQLitePath:   v.GetString("DB_SQLITE_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Persistence = PersistenceConfig{
		Enabled:    v.GetBool("ENABLE_PERSISTENCE"),
		Workers:    v.GetInt("PERSISTENCE_WORKERS"),
		Retries:    v.GetInt("PERSISTENCE_RETRIES"),
		RetryDelay: parseDuration(v.GetString("PERSISTENCE_RETRY_DELAY"), time.Second),
	}

	cfg.Export = ExportConfig{
		PDFFontPath:   v.GetString("EXPORT_PDF_FONT"),
		TimeZone:      v.GetString("EXPORT_TIMEZONE"),
		EventDuration: parseDuration(v.GetString("EXPORT_EVENT_DURATION"), time.Hour),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("TRIP_ID", "kyoto-flow")
	v.SetDefault("TRIP_SEED_FILE", "")

	v.SetDefault("ENABLE_WEATHER_CACHE", false)
	v.SetDefault("WEATHER_CACHE_TTL", "30m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "kyoto_flow")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "./data/itinerary.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_PERSISTENCE", false)
	v.SetDefault("PERSISTENCE_WORKERS", 1)
	v.SetDefault("PERSISTENCE_RETRIES", 3)
	v.SetDefault("PERSISTENCE_RETRY_DELAY", "1s")

	v.SetDefault("EXPORT_PDF_FONT", "")
	v.SetDefault("EXPORT_TIMEZONE", "Asia/Tokyo")
	v.SetDefault("EXPORT_EVENT_DURATION", "1h")

	v.SetDefault("ENABLE_METRICS", true)
}

// isMissingFile reports whether viper failed only because .env is absent.
// SetConfigFile bypasses viper's own ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
