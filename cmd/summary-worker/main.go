// Package main 批量摘要任务执行器入口（summary-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/config"
	"summarize-api/internal/infrastructure/llm"
	"summarize-api/internal/infrastructure/messaging"
	"summarize-api/internal/wire"
	"summarize-api/pkg/logger"
	"summarize-api/pkg/tracer"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "summary-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	dl, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize data layer", err)
	}
	defer cleanup()

	embedder := wire.ProvideEmbedderOptional(cfg)
	vector := wire.ProvideVectorCacheOptional(ctx, dl.MilvusClient)

	factory := llm.NewEinoFactory(cfg)
	generator := summarize.NewGenerator(factory)
	service := summarize.NewService(
		cfg,
		dl.Cache,
		dl.SummaryRepo,
		dl.JobRepo,
		generator,
		embedder,
		vector,
		dl.Producer,
	)

	consumer := messaging.NewConsumer(dl.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamSummaryBatch,
		Group:         messaging.ConsumerGroupBatchWorker,
		ConsumerName:  hostnameConsumerName(),
		BlockTimeout:  cfg.Messaging.RedisStream.BlockTimeout,
		ClaimInterval: cfg.Messaging.RedisStream.ClaimInterval,
		RetryLimit:    cfg.Messaging.RedisStream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
			Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
		},
	})

	consumer.RegisterHandler(messaging.MessageTypeBatchJob, service.HandleBatchMessage)

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}

	go consumer.MonitorDLQ(ctx, 100)

	log := logger.FromContext(ctx)
	log.Info("summary-worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("summary-worker shutting down")
	consumer.Stop()
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
