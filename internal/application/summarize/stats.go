package summarize

import (
	"context"
	"sync/atomic"
	"time"

	"summarize-api/internal/domain/repository"
	"summarize-api/pkg/errors"
	"summarize-api/pkg/logger"
)

// 进程内缓存命中计数，随进程重启归零
var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

func recordCacheHit() { cacheHits.Add(1) }

func recordCacheMiss() { cacheMisses.Add(1) }

// Stats 服务运行统计
type Stats struct {
	CachedSummaries  int64     `json:"cached_summaries"`
	CacheHits        int64     `json:"cache_hits"`
	CacheMisses      int64     `json:"cache_misses"`
	SummariesLast24h int64     `json:"summaries_last_24h"`
	RedisVersion     string    `json:"redis_version,omitempty"`
	UsedMemory       string    `json:"redis_memory_used,omitempty"`
	ConnectedClients string    `json:"redis_connected_clients,omitempty"`
	UptimeSeconds    string    `json:"redis_uptime_seconds,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// CacheInfo 缓存运行信息依赖
type CacheInfo interface {
	DBSize(ctx context.Context) (int64, error)
	InfoMap(ctx context.Context, section string) (map[string]string, error)
}

// StatsService 统计查询服务
type StatsService struct {
	cache     CacheInfo
	summaries repository.SummaryRepository
}

// NewStatsService 创建统计查询服务
func NewStatsService(cache CacheInfo, summaries repository.SummaryRepository) *StatsService {
	return &StatsService{cache: cache, summaries: summaries}
}

// Collect 汇总缓存与历史统计。
// Redis INFO 字段缺失时返回部分数据而不报错。
func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	ctx, span := tracer.Start(ctx, "summarize.StatsService.Collect")
	defer span.End()

	stats := &Stats{
		CacheHits:   cacheHits.Load(),
		CacheMisses: cacheMisses.Load(),
		GeneratedAt: time.Now().UTC(),
	}

	dbSize, err := s.cache.DBSize(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to query cache stats")
	}
	stats.CachedSummaries = dbSize

	if info, err := s.cache.InfoMap(ctx, "server"); err == nil {
		stats.RedisVersion = info["redis_version"]
		stats.UptimeSeconds = info["uptime_in_seconds"]
	} else {
		logger.FromContext(ctx).Warn("failed to read redis server info", "error", err)
	}
	if info, err := s.cache.InfoMap(ctx, "memory"); err == nil {
		stats.UsedMemory = info["used_memory_human"]
	}
	if info, err := s.cache.InfoMap(ctx, "clients"); err == nil {
		stats.ConnectedClients = info["connected_clients"]
	}

	count, err := s.summaries.CountSince(ctx, 24)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to count recent summaries", "error", err)
	} else {
		stats.SummariesLast24h = count
	}

	return stats, nil
}
