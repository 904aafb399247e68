package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrends() *services.Trends {
	return &services.Trends{
		Dates:    []string{"03/10", "03/11"},
		Scores:   []float64{0.82, 0.4},
		Keywords: []services.KeywordCount{{Word: "sunny", Count: 2}},
	}
}

func runCacheContract(t *testing.T, c services.InsightsCache) {
	ctx := context.Background()

	got, err := c.Get(ctx, "alice", "30d")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "alice", "30d", sampleTrends()))
	require.NoError(t, c.Set(ctx, "alice", "7d", sampleTrends()))
	require.NoError(t, c.Set(ctx, "bob", "30d", sampleTrends()))

	got, err = c.Get(ctx, "alice", "30d")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleTrends(), got)

	require.NoError(t, c.Invalidate(ctx, "alice"))

	for _, r := range []string{"30d", "7d"} {
		got, err = c.Get(ctx, "alice", r)
		require.NoError(t, err)
		assert.Nil(t, got, r)
	}

	got, err = c.Get(ctx, "bob", "30d")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryInsightsCache(t *testing.T) {
	runCacheContract(t, NewMemoryInsightsCache(time.Minute))
}

func TestMemoryInsightsCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	c := NewMemoryInsightsCache(time.Minute)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "alice", "30d", sampleTrends()))

	now = now.Add(2 * time.Minute)
	got, err := c.Get(ctx, "alice", "30d")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNoopInsightsCache(t *testing.T) {
	ctx := context.Background()
	c := NoopInsightsCache{}

	require.NoError(t, c.Set(ctx, "alice", "30d", sampleTrends()))
	got, err := c.Get(ctx, "alice", "30d")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(ctx, "alice"))
}

func TestRedisInsightsCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)

	c := NewRedisInsightsCache(client, time.Minute)
	t.Cleanup(func() {
		_ = c.Invalidate(ctx, "alice")
		_ = c.Invalidate(ctx, "bob")
		_ = c.Close()
	})

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Invalidate(ctx, "alice"))
	require.NoError(t, c.Invalidate(ctx, "bob"))
	runCacheContract(t, c)
}
