// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/config"
	"summarize-api/internal/infrastructure/embedding"
	"summarize-api/internal/infrastructure/messaging"
	"summarize-api/internal/infrastructure/persistence/milvus"
	"summarize-api/internal/infrastructure/persistence/postgres"
	"summarize-api/internal/infrastructure/persistence/redis"
	"summarize-api/pkg/logger"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	// PostgreSQL
	PgClient    *postgres.Client
	SummaryRepo *postgres.SummaryRepository
	JobRepo     *postgres.JobRepository

	// Redis
	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter

	// Messaging
	Producer *messaging.Producer

	// Milvus（可选，未启用语义缓存时为 nil）
	MilvusClient *milvus.Client
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Migrate(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideMilvusClientOptional 提供可选的 Milvus 客户端。
// 未开启语义缓存或 Milvus 不可达时返回 nil，摘要服务退化为精确缓存。
func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	if !cfg.Summarize.SemanticCache.Enabled {
		return nil, func() {}, nil
	}
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, semantic cache disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideVectorCacheOptional 提供可选的语义缓存向量仓储
func ProvideVectorCacheOptional(ctx context.Context, client *milvus.Client) summarize.VectorCache {
	if client == nil {
		return nil
	}
	repo := milvus.NewRepository(client)
	if err := repo.EnsureSummaryCacheCollection(ctx); err != nil {
		logger.Warn(ctx, "failed to prepare summary cache collection, semantic cache disabled", "error", err.Error())
		return nil
	}
	return repo
}

// ProvideEmbedderOptional 提供可选的 Embedder
func ProvideEmbedderOptional(cfg *config.Config) summarize.Embedder {
	if !cfg.Summarize.SemanticCache.Enabled || cfg.Embedding.Endpoint == "" {
		return nil
	}
	return embedding.NewClient(&cfg.Embedding)
}
