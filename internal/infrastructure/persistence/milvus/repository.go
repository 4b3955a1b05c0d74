// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"summarize-api/pkg/metrics"
)

// Repository 语义缓存向量仓储
type Repository struct {
	client *Client
}

// NewRepository 创建语义缓存向量仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// SimilarResult 相似检索结果
type SimilarResult struct {
	ID          string
	Score       float32
	SummaryText string
	Length      string
}

// CreateCollection 创建集合
func (r *Repository) CreateCollection(ctx context.Context, schema *entity.Schema) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", schema.CollectionName)))
	defer span.End()

	collName := r.client.CollectionName(schema.CollectionName)
	schema.CollectionName = collName

	err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context, collection string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	collName := r.client.CollectionName(collection)

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// FindSimilar 检索与输入向量最相近的缓存条目
// 仅在相同 length 选项内检索，返回 Top1。集合不存在时返回空结果。
func (r *Repository) FindSimilar(ctx context.Context, vector []float32, length string) (*SimilarResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.FindSimilar",
		trace.WithAttributes(attribute.String("length", length)))
	defer span.End()

	start := time.Now()
	collName := r.client.CollectionName(CollectionSummaryCache)

	if has, err := r.client.milvus.HasCollection(ctx, collName); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to check collection: %w", err)
	} else if !has {
		return nil, nil
	}

	filter := fmt.Sprintf(`length == "%s"`, length)

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		filter,
		[]string{"id", "summary_text", "length"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		1,
		sp,
	)
	metrics.MilvusSearchDuration.WithLabelValues(CollectionSummaryCache).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MilvusSearchTotal.WithLabelValues(CollectionSummaryCache, "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	metrics.MilvusSearchTotal.WithLabelValues(CollectionSummaryCache, "ok").Inc()

	for _, result := range results {
		if result.ResultCount == 0 {
			continue
		}
		sr := &SimilarResult{
			Score: result.Scores[0],
		}
		if idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
			sr.ID = idCol.Data()[0]
		}
		if textCol, ok := result.Fields.GetColumn("summary_text").(*entity.ColumnVarChar); ok {
			sr.SummaryText = textCol.Data()[0]
		}
		if lenCol, ok := result.Fields.GetColumn("length").(*entity.ColumnVarChar); ok {
			sr.Length = lenCol.Data()[0]
		}
		span.SetAttributes(attribute.Float64("score", float64(sr.Score)))
		return sr, nil
	}

	return nil, nil
}

// Insert 插入语义缓存条目
func (r *Repository) Insert(ctx context.Context, entry *SummaryCacheEntry) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Insert",
		trace.WithAttributes(attribute.String("id", entry.ID)))
	defer span.End()

	collName := r.client.CollectionName(CollectionSummaryCache)

	idCol := entity.NewColumnVarChar("id", []string{entry.ID})
	vectorCol := entity.NewColumnFloatVector("vector", VectorDimension, [][]float32{entry.Vector})
	lengthCol := entity.NewColumnVarChar("length", []string{entry.Length})
	textCol := entity.NewColumnVarChar("summary_text", []string{entry.SummaryText})
	createdCol := entity.NewColumnInt64("created_at", []int64{entry.CreatedAt})

	_, err := r.client.milvus.Insert(ctx, collName, "",
		idCol, vectorCol, lengthCol, textCol, createdCol)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// EnsureSummaryCacheCollection 确保 summary_cache 集合与索引可用（不存在则创建）。
// 约束：不会做 drop/rebuild 等破坏性操作。
func (r *Repository) EnsureSummaryCacheCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	exists, err := r.client.HasCollection(ctx, CollectionSummaryCache)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.CreateCollection(ctx, SummaryCacheSchema()); err != nil {
			return err
		}
		// 新建集合时创建索引；若失败，允许后续由运维介入。
		_ = r.CreateIndex(ctx, CollectionSummaryCache)
	}

	return r.client.LoadCollection(ctx, CollectionSummaryCache)
}
