// Package messaging 提供消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishBatchJob 发布批量摘要任务
func (p *Producer) PublishBatchJob(ctx context.Context, job *BatchJobMessage) (string, error) {
	msg, err := NewMessage(job.JobID, MessageTypeBatchJob, job)
	if err != nil {
		return "", err
	}

	if job.RequestID != "" {
		msg.SetMetadata("request_id", job.RequestID)
	}
	if job.TraceID != "" {
		msg.SetMetadata("trace_id", job.TraceID)
	}

	return p.Publish(ctx, StreamSummaryBatch, msg)
}

// BatchJobMessage 批量摘要任务消息
// 文本内容由数据库持有，消息只携带任务引用，避免大消息体。
type BatchJobMessage struct {
	JobID     string `json:"job_id"`
	Length    string `json:"length"`
	TextCount int    `json:"text_count"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}
