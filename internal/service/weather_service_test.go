package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
)

type memoryCacheRepo struct {
	items  map[string][]byte
	getErr error
	sets   int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	m.sets++
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	m.items = map[string][]byte{}
	return nil
}

type countingProvider struct {
	table map[string]models.WeatherInfo
	err   error
	calls int
}

func (p *countingProvider) Weather(_ context.Context, date string) (models.WeatherInfo, bool, error) {
	p.calls++
	if p.err != nil {
		return models.WeatherInfo{}, false, p.err
	}
	info, ok := p.table[date]
	return info, ok, nil
}

func TestWeatherLookupStatic(t *testing.T) {
	provider := NewStaticWeatherProvider(map[string]models.WeatherInfo{
		"2024-11-15": {Date: "2024-11-15", Condition: models.WeatherSunny, TempMin: 12, TempMax: 20},
	})
	svc := NewWeatherService(provider, nil, nil)

	info, ok := svc.Lookup(context.Background(), "2024-11-15")
	require.True(t, ok)
	assert.Equal(t, models.WeatherSunny, info.Condition)

	_, ok = svc.Lookup(context.Background(), "2024-12-01")
	assert.False(t, ok)
}

func TestWeatherLookupUsesCache(t *testing.T) {
	provider := &countingProvider{table: map[string]models.WeatherInfo{
		"2024-11-16": {Date: "2024-11-16", Condition: models.WeatherCloudy},
	}}
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, "itinerary", time.Minute, nil, true)
	svc := NewWeatherService(provider, cache, nil)

	for i := 0; i < 3; i++ {
		info, ok := svc.Lookup(context.Background(), "2024-11-16")
		require.True(t, ok)
		assert.Equal(t, models.WeatherCloudy, info.Condition)
	}
	_, ok := svc.Lookup(context.Background(), "2024-12-01")
	assert.False(t, ok)
	_, ok = svc.Lookup(context.Background(), "2024-12-01")
	assert.False(t, ok)

	assert.Equal(t, 2, provider.calls, "absent days are cached too")
	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(3), snapshot.CacheHits)
	assert.Equal(t, uint64(2), snapshot.CacheMisses)
}

func TestWeatherLookupDegradesOnFailures(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.getErr = errors.New("redis down")
	provider := &countingProvider{table: map[string]models.WeatherInfo{
		"2024-11-17": {Date: "2024-11-17", Condition: models.WeatherRainy},
	}}
	svc := NewWeatherService(provider, NewCacheService(repo, nil, "", time.Minute, nil, true), nil)

	info, ok := svc.Lookup(context.Background(), "2024-11-17")
	require.True(t, ok)
	assert.Equal(t, models.WeatherRainy, info.Condition)

	provider.err = errors.New("upstream timeout")
	_, ok = svc.Lookup(context.Background(), "2024-11-17")
	assert.False(t, ok)
}
