// Package summarize 实现摘要生成的应用服务
package summarize

import (
	"context"
	"encoding/json"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"summarize-api/internal/config"
	"summarize-api/internal/domain/entity"
	"summarize-api/internal/domain/repository"
	"summarize-api/internal/infrastructure/persistence/milvus"
	"summarize-api/pkg/errors"
	"summarize-api/pkg/logger"
	"summarize-api/pkg/metrics"
)

var tracer = otel.Tracer("summarize")

// Service 摘要应用服务
type Service struct {
	cfg       *config.Config
	cache     ResultCache
	summaries repository.SummaryRepository
	jobs      repository.JobRepository
	generator *Generator
	embedder  Embedder
	vector    VectorCache
	publisher JobPublisher
}

// NewService 创建摘要应用服务。
// embedder 和 vector 可以为 nil，此时语义缓存退化为未启用。
func NewService(
	cfg *config.Config,
	cache ResultCache,
	summaries repository.SummaryRepository,
	jobs repository.JobRepository,
	generator *Generator,
	embedder Embedder,
	vector VectorCache,
	publisher JobPublisher,
) *Service {
	return &Service{
		cfg:       cfg,
		cache:     cache,
		summaries: summaries,
		jobs:      jobs,
		generator: generator,
		embedder:  embedder,
		vector:    vector,
		publisher: publisher,
	}
}

// Result 摘要结果
type Result struct {
	ID               string               `json:"id"`
	Summary          string               `json:"summary"`
	OriginalWords    int                  `json:"original_length"`
	SummaryWords     int                  `json:"summary_length"`
	CompressionRatio float64              `json:"compression_ratio"`
	InferenceTime    float64              `json:"inference_time"`
	Cached           bool                 `json:"cached"`
	Source           entity.SummarySource `json:"source"`
	Timestamp        time.Time            `json:"timestamp"`
}

// cachePayload 写入 Redis 的缓存载荷
type cachePayload struct {
	ID            string               `json:"id"`
	Summary       string               `json:"summary"`
	SummaryWords  int                  `json:"summary_words"`
	Source        entity.SummarySource `json:"source"`
	InferenceTime float64              `json:"inference_time"`
}

// Summarize 生成摘要：精确缓存、语义缓存、LLM 三级回落。
func (s *Service) Summarize(ctx context.Context, text string, length entity.SummaryLength) (*Result, error) {
	ctx, span := tracer.Start(ctx, "summarize.Service.Summarize",
		trace.WithAttributes(attribute.String("length", string(length))))
	defer span.End()

	if err := ValidateInput(text, length, s.cfg.Summarize.MaxInputChars, s.cfg.Summarize.MinInputWords); err != nil {
		metrics.SummaryRequestsTotal.WithLabelValues(string(length), "invalid", "").Inc()
		return nil, err
	}

	inputWords := CountWords(text)
	metrics.SummaryInputWords.WithLabelValues(string(length)).Observe(float64(inputWords))

	start := time.Now()
	key := CacheKey(text, length)

	data, fromCache, err := s.cache.GetOrLoadSafe(ctx, key, s.cfg.Cache.SummaryTTL, func() (interface{}, error) {
		return s.loadSummary(ctx, text, length, inputWords)
	})
	if err != nil {
		metrics.SummaryRequestsTotal.WithLabelValues(string(length), "error", "").Inc()
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeSummarizeFailed, "summarization failed")
	}

	var payload cachePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "corrupt cache entry")
	}

	source := payload.Source
	inferenceTime := payload.InferenceTime
	if fromCache {
		source = entity.SourceCache
		metrics.CacheHitsTotal.WithLabelValues("exact").Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues("exact").Inc()
	}

	// 进程内计数按请求级别统计：任一缓存层命中都算命中
	if source == entity.SourceCache || source == entity.SourceSemanticCache {
		recordCacheHit()
	} else {
		recordCacheMiss()
	}

	elapsed := time.Since(start)
	metrics.SummaryRequestsTotal.WithLabelValues(string(length), "ok", string(source)).Inc()
	metrics.SummaryDuration.WithLabelValues(string(length)).Observe(elapsed.Seconds())

	ratio := CompressionRatio(utf8.RuneCountInString(text), utf8.RuneCountInString(payload.Summary))
	metrics.SummaryCompressionRatio.WithLabelValues(string(length)).Observe(ratio)

	return &Result{
		ID:               payload.ID,
		Summary:          payload.Summary,
		OriginalWords:    inputWords,
		SummaryWords:     payload.SummaryWords,
		CompressionRatio: ratio,
		InferenceTime:    inferenceTime,
		Cached:           fromCache,
		Source:           source,
		Timestamp:        time.Now().UTC(),
	}, nil
}

// loadSummary 缓存未命中路径：语义缓存优先，其次调用 LLM。
func (s *Service) loadSummary(ctx context.Context, text string, length entity.SummaryLength, inputWords int) (*cachePayload, error) {
	log := logger.FromContext(ctx)
	inputChars := utf8.RuneCountInString(text)

	var vector []float32
	if s.semanticCacheEnabled() {
		var err error
		vector, err = s.embedder.EmbedOne(ctx, text)
		if err != nil {
			// 语义缓存不可用时直接走 LLM
			log.Warn("embedding failed, skipping semantic cache", "error", err)
		} else if payload := s.semanticLookup(ctx, vector, length, inputWords, inputChars); payload != nil {
			return payload, nil
		}
	}

	start := time.Now()
	out, err := s.generator.Generate(ctx, &GenerateInput{Text: text, Length: length})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLLMCallFailed, "LLM call failed")
	}
	inference := roundSeconds(time.Since(start))

	summaryWords := CountWords(out.Summary)
	id := uuid.NewString()

	record := &entity.Summary{
		ID:               id,
		InputHash:        InputHash(text, length),
		InputChars:       inputChars,
		InputWords:       inputWords,
		Length:           length,
		SummaryText:      out.Summary,
		SummaryWords:     summaryWords,
		CompressionRatio: CompressionRatio(inputChars, utf8.RuneCountInString(out.Summary)),
		Source:           entity.SourceFresh,
		Provider:         out.Meta.Provider,
		Model:            out.Meta.Model,
		TokensPrompt:     out.Meta.PromptTokens,
		TokensCompletion: out.Meta.CompletionTokens,
		DurationMs:       int(time.Since(start).Milliseconds()),
	}
	if err := s.summaries.Create(ctx, record); err != nil {
		// 历史记录写入失败不阻塞响应
		log.Warn("failed to persist summary record", "error", err, "summary_id", id)
	}

	if s.semanticCacheEnabled() && vector != nil {
		entry := &milvus.SummaryCacheEntry{
			ID:          id,
			Vector:      vector,
			Length:      string(length),
			SummaryText: out.Summary,
			CreatedAt:   time.Now().Unix(),
		}
		if err := s.vector.Insert(ctx, entry); err != nil {
			log.Warn("failed to index summary vector", "error", err, "summary_id", id)
		}
	}

	return &cachePayload{
		ID:            id,
		Summary:       out.Summary,
		SummaryWords:  summaryWords,
		Source:        entity.SourceFresh,
		InferenceTime: inference,
	}, nil
}

// semanticLookup 查询语义缓存，命中阈值以上才复用
func (s *Service) semanticLookup(ctx context.Context, vector []float32, length entity.SummaryLength, inputWords, inputChars int) *cachePayload {
	log := logger.FromContext(ctx)

	hit, err := s.vector.FindSimilar(ctx, vector, string(length))
	if err != nil {
		log.Warn("semantic cache lookup failed", "error", err)
		return nil
	}

	threshold := s.cfg.Summarize.SemanticCache.ScoreThreshold
	if hit == nil || hit.Score < threshold {
		metrics.CacheMissesTotal.WithLabelValues("semantic").Inc()
		return nil
	}

	metrics.CacheHitsTotal.WithLabelValues("semantic").Inc()
	log.Debug("semantic cache hit", "score", hit.Score, "summary_id", hit.ID)

	summaryWords := CountWords(hit.SummaryText)
	record := &entity.Summary{
		ID:               uuid.NewString(),
		InputChars:       inputChars,
		InputWords:       inputWords,
		Length:           length,
		SummaryText:      hit.SummaryText,
		SummaryWords:     summaryWords,
		CompressionRatio: CompressionRatio(inputChars, utf8.RuneCountInString(hit.SummaryText)),
		Source:           entity.SourceSemanticCache,
	}
	if err := s.summaries.Create(ctx, record); err != nil {
		log.Warn("failed to persist semantic cache record", "error", err)
	}

	return &cachePayload{
		ID:           hit.ID,
		Summary:      hit.SummaryText,
		SummaryWords: summaryWords,
		Source:       entity.SourceSemanticCache,
	}
}

func (s *Service) semanticCacheEnabled() bool {
	return s.cfg.Summarize.SemanticCache.Enabled && s.embedder != nil && s.vector != nil
}

// GetSummary 查询单条摘要记录
func (s *Service) GetSummary(ctx context.Context, id string) (*entity.Summary, error) {
	ctx, span := tracer.Start(ctx, "summarize.Service.GetSummary")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.CodeInvalidParam, "invalid summary id")
	}

	summary, err := s.summaries.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query summary")
	}
	if summary == nil {
		return nil, errors.New(errors.CodeSummaryNotFound, "summary not found")
	}
	return summary, nil
}

// ListSummaries 分页查询摘要历史
func (s *Service) ListSummaries(ctx context.Context, filter *repository.SummaryFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Summary], error) {
	ctx, span := tracer.Start(ctx, "summarize.Service.ListSummaries")
	defer span.End()

	if filter != nil {
		if filter.Length != "" && !filter.Length.Valid() {
			return nil, errors.New(errors.CodeInvalidLength, "invalid length option")
		}
	}

	result, err := s.summaries.List(ctx, filter, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list summaries")
	}
	return result, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
