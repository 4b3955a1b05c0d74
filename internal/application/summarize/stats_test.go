package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summarize-api/internal/domain/entity"
	apperrors "summarize-api/pkg/errors"
)

type fakeCacheInfo struct {
	dbSize    int64
	dbSizeErr error
	sections  map[string]map[string]string
}

func (f *fakeCacheInfo) DBSize(_ context.Context) (int64, error) {
	return f.dbSize, f.dbSizeErr
}

func (f *fakeCacheInfo) InfoMap(_ context.Context, section string) (map[string]string, error) {
	info, ok := f.sections[section]
	if !ok {
		return nil, errors.New("section unavailable")
	}
	return info, nil
}

func TestStatsServiceCollect(t *testing.T) {
	repo := newFakeSummaryRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.Summary{ID: "s1"}))

	info := &fakeCacheInfo{
		dbSize: 42,
		sections: map[string]map[string]string{
			"server":  {"redis_version": "7.2.0", "uptime_in_seconds": "3600"},
			"memory":  {"used_memory_human": "1.5M"},
			"clients": {"connected_clients": "3"},
		},
	}

	svc := NewStatsService(info, repo)
	stats, err := svc.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), stats.CachedSummaries)
	assert.Equal(t, int64(1), stats.SummariesLast24h)
	assert.Equal(t, "7.2.0", stats.RedisVersion)
	assert.Equal(t, "3600", stats.UptimeSeconds)
	assert.Equal(t, "1.5M", stats.UsedMemory)
	assert.Equal(t, "3", stats.ConnectedClients)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestStatsServiceCollectPartialInfo(t *testing.T) {
	// INFO 字段缺失时返回部分数据而不报错
	info := &fakeCacheInfo{dbSize: 7, sections: map[string]map[string]string{}}

	svc := NewStatsService(info, newFakeSummaryRepo())
	stats, err := svc.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), stats.CachedSummaries)
	assert.Empty(t, stats.RedisVersion)
	assert.Empty(t, stats.UsedMemory)
}

func TestStatsServiceCollectCacheDown(t *testing.T) {
	info := &fakeCacheInfo{dbSizeErr: errors.New("connection refused")}

	svc := NewStatsService(info, newFakeSummaryRepo())
	_, err := svc.Collect(context.Background())
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeCacheError, appErr.Code)
}

func TestStatsServiceReportsProcessCacheCounters(t *testing.T) {
	svc, deps := newTestService(testConfig())

	hitsBefore := cacheHits.Load()
	missesBefore := cacheMisses.Load()

	// 第一次请求走 LLM，第二次命中精确缓存
	_, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)
	_, err = svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)

	stats, err := NewStatsService(&fakeCacheInfo{sections: map[string]map[string]string{}}, deps.summaries).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, hitsBefore+1, stats.CacheHits)
	assert.Equal(t, missesBefore+1, stats.CacheMisses)
}
