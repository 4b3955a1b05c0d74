package dto

import (
	"time"

	"summarize-api/internal/application/summarize"
)

// StatsResponse 运行统计响应
type StatsResponse struct {
	CachedSummaries  int64     `json:"total_cached_summaries"`
	CacheHits        int64     `json:"cache_hits"`
	CacheMisses      int64     `json:"cache_misses"`
	SummariesLast24h int64     `json:"summaries_last_24h"`
	RedisVersion     string    `json:"redis_version,omitempty"`
	UsedMemory       string    `json:"redis_memory_used,omitempty"`
	ConnectedClients string    `json:"redis_connected_clients,omitempty"`
	UptimeSeconds    string    `json:"redis_uptime_seconds,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// ToStatsResponse 转换统计结果
func ToStatsResponse(s *summarize.Stats) *StatsResponse {
	return &StatsResponse{
		CachedSummaries:  s.CachedSummaries,
		CacheHits:        s.CacheHits,
		CacheMisses:      s.CacheMisses,
		SummariesLast24h: s.SummariesLast24h,
		RedisVersion:     s.RedisVersion,
		UsedMemory:       s.UsedMemory,
		ConnectedClients: s.ConnectedClients,
		UptimeSeconds:    s.UptimeSeconds,
		GeneratedAt:      s.GeneratedAt,
	}
}
