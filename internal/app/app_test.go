package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggorockee/localdirectory/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerEnv:   "test",
		DatabaseURL: "sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared",
		Cache:       config.CacheConfig{TTL: time.Hour},
		RateLimit: config.RateLimitConfig{
			GlobalMax: 10, GlobalWindow: time.Hour,
			IPMax: 1, IPWindow: time.Hour,
		},
		Data: config.DataConfig{
			KeywordsPath:  "../../data/keywords.json",
			LocationsPath: "../../data/locations.csv",
		},
	}
}

func TestNew(t *testing.T) {
	a, err := New(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.Len(t, a.Data.Keywords, 8)
	assert.Len(t, a.Data.Locations, 8)
	assert.Equal(t, time.Hour, a.Store.TTL())
	require.NoError(t, a.Maintenance.Ping(context.Background()))

	limiter, closeFn, err := a.Limiter(context.Background())
	require.NoError(t, err)
	defer closeFn()

	d, err := limiter.Check(context.Background(), "10.1.1.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	d, err = limiter.Check(context.Background(), "10.1.1.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestNew_MissingDataset(t *testing.T) {
	cfg := testConfig()
	cfg.Data.KeywordsPath = "does-not-exist.json"

	_, err := New(cfg)
	assert.ErrorContains(t, err, "load dataset")
}
