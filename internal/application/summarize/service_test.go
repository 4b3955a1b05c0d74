package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summarize-api/internal/config"
	"summarize-api/internal/domain/entity"
	"summarize-api/internal/domain/repository"
	"summarize-api/internal/infrastructure/messaging"
	"summarize-api/internal/infrastructure/persistence/milvus"
	"summarize-api/pkg/errors"
)

// --- fakes ---

type fakeChatModel struct {
	reply      string
	err        error
	calls      int
	onGenerate func()
}

func (m *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.onGenerate != nil {
		m.onGenerate()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &schema.Message{
		Role:    schema.Assistant,
		Content: m.reply,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 42, CompletionTokens: 17},
		},
	}, nil
}

func (m *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stream not supported")
}

type fakeFactory struct {
	model *fakeChatModel
}

func (f *fakeFactory) Get(_ context.Context, _ string) (model.BaseChatModel, error) {
	return f.model, nil
}
func (f *fakeFactory) DefaultProvider() string { return "openai" }
func (f *fakeFactory) ModelName(_ string) string { return "test-model" }

type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, bool, error) {
	if v, ok := f.store[key]; ok {
		return v, true, nil
	}
	data, err := loader()
	if err != nil {
		return nil, false, err
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, false, err
	}
	f.store[key] = b
	return b, false, nil
}

type fakeSummaryRepo struct {
	created   []*entity.Summary
	byID      map[string]*entity.Summary
	createErr error
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{byID: make(map[string]*entity.Summary)}
}

func (f *fakeSummaryRepo) Create(_ context.Context, s *entity.Summary) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSummaryRepo) GetByID(_ context.Context, id string) (*entity.Summary, error) {
	return f.byID[id], nil
}

func (f *fakeSummaryRepo) List(_ context.Context, _ *repository.SummaryFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Summary], error) {
	return repository.NewPagedResult(f.created, int64(len(f.created)), pagination), nil
}

func (f *fakeSummaryRepo) CountSince(_ context.Context, _ int) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeJobRepo struct {
	jobs      map[string]*entity.SummaryJob
	progress  map[string][]int
	updates   int
	createErr error
	updateErr error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:     make(map[string]*entity.SummaryJob),
		progress: make(map[string][]int),
	}
}

func (f *fakeJobRepo) Create(_ context.Context, job *entity.SummaryJob) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*entity.SummaryJob, error) {
	return f.jobs[id], nil
}

func (f *fakeJobRepo) Update(ctx context.Context, job *entity.SummaryJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) UpdateProgress(_ context.Context, id string, progress int) error {
	f.progress[id] = append(f.progress[id], progress)
	if job, ok := f.jobs[id]; ok {
		job.UpdateProgress(progress)
	}
	return nil
}

type fakePublisher struct {
	published []*messaging.BatchJobMessage
	err       error
}

func (f *fakePublisher) PublishBatchJob(_ context.Context, msg *messaging.BatchJobMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.published = append(f.published, msg)
	return "1-0", nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedOne(_ context.Context, _ string) ([]float32, error) {
	return f.vector, f.err
}

type fakeVectorCache struct {
	hit      *milvus.SimilarResult
	findErr  error
	inserted []*milvus.SummaryCacheEntry
}

func (f *fakeVectorCache) FindSimilar(_ context.Context, _ []float32, _ string) (*milvus.SimilarResult, error) {
	return f.hit, f.findErr
}

func (f *fakeVectorCache) Insert(_ context.Context, entry *milvus.SummaryCacheEntry) error {
	f.inserted = append(f.inserted, entry)
	return nil
}

// --- helpers ---

type serviceDeps struct {
	chat      *fakeChatModel
	cache     *fakeCache
	summaries *fakeSummaryRepo
	jobs      *fakeJobRepo
	publisher *fakePublisher
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.SummaryTTL = 24 * time.Hour
	cfg.Summarize.MaxInputChars = 10000
	cfg.Summarize.MinInputWords = 30
	cfg.Summarize.MaxBatchTexts = 20
	cfg.Summarize.SemanticCache.ScoreThreshold = 0.97
	return cfg
}

func newTestService(cfg *config.Config) (*Service, *serviceDeps) {
	deps := &serviceDeps{
		chat:      &fakeChatModel{reply: "a concise summary of the text"},
		cache:     newFakeCache(),
		summaries: newFakeSummaryRepo(),
		jobs:      newFakeJobRepo(),
		publisher: &fakePublisher{},
	}
	generator := NewGenerator(&fakeFactory{model: deps.chat})
	svc := NewService(cfg, deps.cache, deps.summaries, deps.jobs, generator, nil, nil, deps.publisher)
	return svc, deps
}

func validText() string {
	return strings.TrimSpace(strings.Repeat("the quick brown fox jumps over the lazy dog ", 10))
}

// --- tests ---

func TestSummarizeFresh(t *testing.T) {
	svc, deps := newTestService(testConfig())

	res, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)

	assert.Equal(t, "a concise summary of the text", res.Summary)
	assert.Equal(t, entity.SourceFresh, res.Source)
	assert.False(t, res.Cached)
	assert.Equal(t, 90, res.OriginalWords)
	assert.Equal(t, 6, res.SummaryWords)
	// 压缩比按字符计：29 字符摘要 / 439 字符输入
	assert.InDelta(t, 6.6, res.CompressionRatio, 0.001)
	assert.NotEmpty(t, res.ID)
	assert.False(t, res.Timestamp.IsZero())

	// 历史记录落库，并带上 token 用量
	require.Len(t, deps.summaries.created, 1)
	record := deps.summaries.created[0]
	assert.Equal(t, entity.SourceFresh, record.Source)
	assert.Equal(t, "test-model", record.Model)
	assert.Equal(t, 42, record.TokensPrompt)
	assert.Equal(t, 17, record.TokensCompletion)
}

func TestSummarizeExactCacheHit(t *testing.T) {
	svc, deps := newTestService(testConfig())
	text := validText()

	first, err := svc.Summarize(context.Background(), text, entity.LengthShort)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := svc.Summarize(context.Background(), text, entity.LengthShort)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, entity.SourceCache, second.Source)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.ID, second.ID)
	// 第二次不再调用 LLM
	assert.Equal(t, 1, deps.chat.calls)
}

func TestSummarizeCacheScopedByLength(t *testing.T) {
	svc, deps := newTestService(testConfig())
	text := validText()

	_, err := svc.Summarize(context.Background(), text, entity.LengthShort)
	require.NoError(t, err)
	res, err := svc.Summarize(context.Background(), text, entity.LengthLong)
	require.NoError(t, err)

	assert.False(t, res.Cached)
	assert.Equal(t, 2, deps.chat.calls)
}

func TestSummarizeValidationError(t *testing.T) {
	svc, _ := newTestService(testConfig())

	_, err := svc.Summarize(context.Background(), "", entity.LengthMedium)
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeTextEmpty, appErr.Code)
}

func TestSummarizeLLMFailure(t *testing.T) {
	svc, deps := newTestService(testConfig())
	deps.chat.err = fmt.Errorf("provider unavailable")

	_, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeLLMCallFailed, appErr.Code)
}

func TestSummarizePersistFailureDoesNotBlock(t *testing.T) {
	svc, deps := newTestService(testConfig())
	deps.summaries.createErr = fmt.Errorf("db down")

	res, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Summary)
}

func TestSummarizeSemanticCacheHit(t *testing.T) {
	cfg := testConfig()
	cfg.Summarize.SemanticCache.Enabled = true

	deps := &serviceDeps{
		chat:      &fakeChatModel{reply: "fresh summary"},
		cache:     newFakeCache(),
		summaries: newFakeSummaryRepo(),
		jobs:      newFakeJobRepo(),
		publisher: &fakePublisher{},
	}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	vector := &fakeVectorCache{hit: &milvus.SimilarResult{
		ID:          "cached-id",
		Score:       0.99,
		SummaryText: "a semantically cached summary",
		Length:      string(entity.LengthMedium),
	}}
	generator := NewGenerator(&fakeFactory{model: deps.chat})
	svc := NewService(cfg, deps.cache, deps.summaries, deps.jobs, generator, embedder, vector, deps.publisher)

	res, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)

	assert.Equal(t, entity.SourceSemanticCache, res.Source)
	assert.Equal(t, "a semantically cached summary", res.Summary)
	assert.Equal(t, "cached-id", res.ID)
	// 语义命中不调用 LLM
	assert.Equal(t, 0, deps.chat.calls)
}

func TestSummarizeSemanticCacheBelowThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Summarize.SemanticCache.Enabled = true

	deps := &serviceDeps{
		chat:      &fakeChatModel{reply: "fresh summary"},
		cache:     newFakeCache(),
		summaries: newFakeSummaryRepo(),
		jobs:      newFakeJobRepo(),
		publisher: &fakePublisher{},
	}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	vector := &fakeVectorCache{hit: &milvus.SimilarResult{ID: "low", Score: 0.5, SummaryText: "stale"}}
	generator := NewGenerator(&fakeFactory{model: deps.chat})
	svc := NewService(cfg, deps.cache, deps.summaries, deps.jobs, generator, embedder, vector, deps.publisher)

	res, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)

	assert.Equal(t, entity.SourceFresh, res.Source)
	assert.Equal(t, "fresh summary", res.Summary)
	assert.Equal(t, 1, deps.chat.calls)
	// 新摘要写入向量缓存
	require.Len(t, vector.inserted, 1)
	assert.Equal(t, res.ID, vector.inserted[0].ID)
}

func TestSummarizeEmbeddingFailureFallsBackToLLM(t *testing.T) {
	cfg := testConfig()
	cfg.Summarize.SemanticCache.Enabled = true

	deps := &serviceDeps{
		chat:      &fakeChatModel{reply: "fresh summary"},
		cache:     newFakeCache(),
		summaries: newFakeSummaryRepo(),
		jobs:      newFakeJobRepo(),
		publisher: &fakePublisher{},
	}
	embedder := &fakeEmbedder{err: fmt.Errorf("embedding service down")}
	vector := &fakeVectorCache{}
	generator := NewGenerator(&fakeFactory{model: deps.chat})
	svc := NewService(cfg, deps.cache, deps.summaries, deps.jobs, generator, embedder, vector, deps.publisher)

	res, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)
	assert.Equal(t, entity.SourceFresh, res.Source)
	assert.Empty(t, vector.inserted)
}

func TestGetSummary(t *testing.T) {
	svc, _ := newTestService(testConfig())

	res, err := svc.Summarize(context.Background(), validText(), entity.LengthMedium)
	require.NoError(t, err)

	got, err := svc.GetSummary(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Summary, got.SummaryText)

	_, err = svc.GetSummary(context.Background(), "not-a-uuid")
	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeInvalidParam, appErr.Code)

	_, err = svc.GetSummary(context.Background(), "00000000-0000-0000-0000-000000000000")
	appErr = errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeSummaryNotFound, appErr.Code)
}

func TestListSummariesRejectsInvalidLength(t *testing.T) {
	svc, _ := newTestService(testConfig())

	_, err := svc.ListSummaries(context.Background(), &repository.SummaryFilter{Length: "huge"}, repository.NewPagination(1, 20))
	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeInvalidLength, appErr.Code)
}
