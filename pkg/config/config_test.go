package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "kyoto-flow", cfg.Trip.ID)
	assert.False(t, cfg.Persistence.Enabled)
	assert.False(t, cfg.Weather.CacheEnabled)
	assert.Equal(t, 30*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "Asia/Tokyo", cfg.Export.TimeZone)
	assert.Equal(t, time.Hour, cfg.Export.EventDuration)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "SQLite3")
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("PERSISTENCE_RETRY_DELAY", "not-a-duration")

	cfg := fromViper(v)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Second, cfg.Persistence.RetryDelay)
}
