//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/config"
	"summarize-api/internal/domain/repository"
	"summarize-api/internal/infrastructure/llm"
	"summarize-api/internal/infrastructure/messaging"
	"summarize-api/internal/infrastructure/persistence/postgres"
	"summarize-api/internal/infrastructure/persistence/redis"
	"summarize-api/internal/interfaces/http/handler"
	"summarize-api/internal/interfaces/http/middleware"
	"summarize-api/internal/interfaces/http/router"
)

// InitializeDataLayer 初始化数据层（worker 等非 HTTP 进程使用）
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		RedisSet,
		MessagingSet,
		ProvideMilvusClientOptional,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		MilvusAppSet,
		EmbeddingSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewSummaryRepository,
	postgres.NewJobRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.SummaryRepository), new(*postgres.SummaryRepository)),
	wire.Bind(new(repository.JobRepository), new(*postgres.JobRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(summarize.ResultCache), new(*redis.Cache)),
	wire.Bind(new(summarize.CacheInfo), new(*redis.Client)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	wire.Bind(new(summarize.JobPublisher), new(*messaging.Producer)),
)

// MilvusAppSet API 服务可选 Milvus（不可达时不阻塞启动）
var MilvusAppSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideVectorCacheOptional,
)

// EmbeddingSet 可选 Embedder（未启用语义缓存时为 nil）
var EmbeddingSet = wire.NewSet(
	ProvideEmbedderOptional,
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(summarize.ChatModelFactory), new(*llm.EinoFactory)),
	summarize.NewGenerator,
	summarize.NewService,
	summarize.NewStatsService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewPageHandler,
	handler.NewSummaryHandler,
	handler.NewJobHandler,
	handler.NewStatsHandler,
	handler.NewHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
