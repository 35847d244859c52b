package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

func cachedResult(raw, version string) *models.AddressResult {
	return models.NewAddressResult(raw, parser.ParseResult{Province: "广东省", ProvinceCode: "44"}, version)
}

func newRedisCache(t *testing.T) (*RedisCacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rcs, err := NewRedisCacheService("redis://"+mr.Addr(), time.Hour, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rcs.Close() })
	return rcs, mr
}

func TestBuildCacheKey(t *testing.T) {
	opts := parser.Options{ExtractName: true, ExtractPhone: true, ExtractPostalCode: true}

	base := BuildCacheKey("广东省深圳市", opts, "v1")
	assert.Equal(t, base, BuildCacheKey("  广东省深圳市 ", opts, "v1"))
	assert.NotEqual(t, base, BuildCacheKey("广东省深圳市", opts, "v2"))

	noName := opts
	noName.ExtractName = false
	assert.NotEqual(t, base, BuildCacheKey("广东省深圳市", noName, "v1"))

	a := opts
	a.TextFilter = []string{"备注", "快递"}
	b := opts
	b.TextFilter = []string{"快递", "备注"}
	assert.Equal(t, BuildCacheKey("x", a, "v1"), BuildCacheKey("x", b, "v1"))
	assert.Contains(t, base, "sha256:")
}

func TestCacheService(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(time.Hour)

	_, found, err := cs.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cs.Set(ctx, "k1", cachedResult("a", "v1")))
	require.NoError(t, cs.Set(ctx, "k2", cachedResult("b", "v2")))

	got, found, err := cs.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", got.Raw)

	require.NoError(t, cs.InvalidateByGazetteerVersion(ctx, "v2"))
	exists, _ := cs.Exists(ctx, "k1")
	assert.False(t, exists)
	exists, _ = cs.Exists(ctx, "k2")
	assert.True(t, exists)

	stats, err := cs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMiss)
	assert.Equal(t, int64(1), stats.TotalItems)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)

	require.NoError(t, cs.Clear(ctx))
	assert.Equal(t, 0, cs.Size())
}

func TestCacheServiceExpiry(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(time.Millisecond)

	require.NoError(t, cs.Set(ctx, "k", cachedResult("a", "v1")))
	time.Sleep(5 * time.Millisecond)

	_, found, err := cs.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheService(t *testing.T) {
	ctx := context.Background()
	rcs, mr := newRedisCache(t)

	require.NoError(t, rcs.Set(ctx, "k1", cachedResult("a", "v1")))
	require.NoError(t, rcs.Set(ctx, "k2", cachedResult("b", "v2")))
	assert.True(t, mr.Exists("addr_parser:r:k1"))

	got, found, err := rcs.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "广东省", got.Province)
	assert.Equal(t, models.StatusPartial, got.Status)

	ttl, err := rcs.GetTTL(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	require.NoError(t, rcs.InvalidateByGazetteerVersion(ctx, "v2"))
	exists, err := rcs.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = rcs.Exists(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, exists)

	stats, err := rcs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalItems)

	require.NoError(t, rcs.Clear(ctx))
	_, found, err = rcs.Get(ctx, "k2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHybridCacheService(t *testing.T) {
	ctx := context.Background()
	l1 := NewCacheService(time.Hour)
	l2, _ := newRedisCache(t)
	hcs := NewHybridCacheService(l1, l2, zap.NewNop())

	require.NoError(t, l2.Set(ctx, "k", cachedResult("a", "v1")))

	got, found, err := hcs.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a", got.Raw)

	assert.Eventually(t, func() bool {
		exists, _ := l1.Exists(ctx, "k")
		return exists
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hcs.Set(ctx, "k2", cachedResult("b", "v2")))
	require.NoError(t, hcs.InvalidateByGazetteerVersion(ctx, "v2"))

	exists, err := hcs.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = hcs.Exists(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, hcs.Clear(ctx))
	assert.Equal(t, 0, l1.Size())
}
