// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionSummaryCache 语义摘要缓存集合
	CollectionSummaryCache = "summary_cache"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// SummaryCacheSchema 语义摘要缓存 Collection Schema
func SummaryCacheSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionSummaryCache,
		Description:    "Input embeddings with generated summaries for semantic cache lookup",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "length",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "16",
				},
			},
			{
				Name:     "summary_text",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "created_at",
				DataType: entity.FieldTypeInt64,
			},
		},
	}
}

// SummaryCacheEntry 语义缓存条目
type SummaryCacheEntry struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	Length      string    `json:"length"`
	SummaryText string    `json:"summary_text"`
	CreatedAt   int64     `json:"created_at"`
}
