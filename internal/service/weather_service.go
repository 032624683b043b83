package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

// WeatherProvider resolves the forecast for a date key. found=false means
// no forecast is known, which is not an error.
type WeatherProvider interface {
	Weather(ctx context.Context, date string) (info models.WeatherInfo, found bool, err error)
}

// StaticWeatherProvider serves a fixed table, typically from the seed file.
type StaticWeatherProvider struct {
	table map[string]models.WeatherInfo
}

// NewStaticWeatherProvider copies table.
func NewStaticWeatherProvider(table map[string]models.WeatherInfo) *StaticWeatherProvider {
	copied := make(map[string]models.WeatherInfo, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &StaticWeatherProvider{table: copied}
}

// Weather implements WeatherProvider.
func (p *StaticWeatherProvider) Weather(_ context.Context, date string) (models.WeatherInfo, bool, error) {
	info, ok := p.table[date]
	return info, ok, nil
}

type cachedWeather struct {
	Found bool               `json:"found"`
	Info  models.WeatherInfo `json:"info"`
}

// WeatherService looks up weather through an optional cache.
type WeatherService struct {
	provider WeatherProvider
	cache    *CacheService
	logger   *zap.Logger
}

// NewWeatherService constructs a WeatherService. cache may be nil.
func NewWeatherService(provider WeatherProvider, cache *CacheService, logger *zap.Logger) *WeatherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherService{provider: provider, cache: cache, logger: logger}
}

// Lookup returns the weather for date. Provider and cache failures are
// logged and reported as absent.
func (s *WeatherService) Lookup(ctx context.Context, date string) (models.WeatherInfo, bool) {
	if s == nil || s.provider == nil {
		return models.WeatherInfo{}, false
	}

	key := ""
	if s.cache.Enabled() {
		key = s.cache.Key("weather", date)
		var cached cachedWeather
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached.Info, cached.Found
		}
	}

	info, found, err := s.provider.Weather(ctx, date)
	if err != nil {
		s.logger.Warn("weather provider failed", zap.String("date", date), zap.Error(err))
		return models.WeatherInfo{}, false
	}

	if key != "" {
		_ = s.cache.Set(ctx, key, cachedWeather{Found: found, Info: info}, 0)
	}
	return info, found
}
