package summarize

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"

	"summarize-api/internal/infrastructure/messaging"
	"summarize-api/internal/infrastructure/persistence/milvus"
)

// ChatModelFactory 定义应用层对 LLM ChatModel 的最小依赖（port）。
// 由基础设施层提供具体实现（例如 EinoFactory）。
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
	DefaultProvider() string
	ModelName(name string) string
}

// Embedder 文本向量化依赖
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// VectorCache 语义缓存向量检索依赖
type VectorCache interface {
	FindSimilar(ctx context.Context, vector []float32, length string) (*milvus.SimilarResult, error)
	Insert(ctx context.Context, entry *milvus.SummaryCacheEntry) error
}

// ResultCache 摘要结果缓存依赖
type ResultCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, bool, error)
}

// JobPublisher 批量任务发布依赖
type JobPublisher interface {
	PublishBatchJob(ctx context.Context, job *messaging.BatchJobMessage) (string, error)
}
