package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/config"
	"summarize-api/internal/domain/entity"
	"summarize-api/internal/domain/repository"
	"summarize-api/internal/infrastructure/messaging"
)

// --- stubs for the application service's ports ---

type stubChatModel struct{ reply string }

func (m *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return &schema.Message{Role: schema.Assistant, Content: m.reply}, nil
}

func (m *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

type stubFactory struct{ chat *stubChatModel }

func (f *stubFactory) Get(_ context.Context, _ string) (model.BaseChatModel, error) {
	return f.chat, nil
}
func (f *stubFactory) DefaultProvider() string { return "openai" }
func (f *stubFactory) ModelName(_ string) string { return "test-model" }

type stubCache struct{ store map[string][]byte }

func (s *stubCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, bool, error) {
	if v, ok := s.store[key]; ok {
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
	s.store[key] = b
	return b, false, nil
}

type stubSummaryRepo struct{ byID map[string]*entity.Summary }

func (s *stubSummaryRepo) Create(_ context.Context, rec *entity.Summary) error {
	s.byID[rec.ID] = rec
	return nil
}

func (s *stubSummaryRepo) GetByID(_ context.Context, id string) (*entity.Summary, error) {
	return s.byID[id], nil
}

func (s *stubSummaryRepo) List(_ context.Context, _ *repository.SummaryFilter, p repository.Pagination) (*repository.PagedResult[*entity.Summary], error) {
	items := make([]*entity.Summary, 0, len(s.byID))
	for _, rec := range s.byID {
		items = append(items, rec)
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

func (s *stubSummaryRepo) CountSince(_ context.Context, _ int) (int64, error) {
	return int64(len(s.byID)), nil
}

type stubJobRepo struct{ jobs map[string]*entity.SummaryJob }

func (s *stubJobRepo) Create(_ context.Context, job *entity.SummaryJob) error {
	s.jobs[job.ID] = job
	return nil
}

func (s *stubJobRepo) GetByID(_ context.Context, id string) (*entity.SummaryJob, error) {
	return s.jobs[id], nil
}

func (s *stubJobRepo) Update(_ context.Context, job *entity.SummaryJob) error {
	s.jobs[job.ID] = job
	return nil
}

func (s *stubJobRepo) UpdateProgress(_ context.Context, id string, progress int) error {
	if job, ok := s.jobs[id]; ok {
		job.UpdateProgress(progress)
	}
	return nil
}

type stubPublisher struct{ published int }

func (s *stubPublisher) PublishBatchJob(_ context.Context, _ *messaging.BatchJobMessage) (string, error) {
	s.published++
	return "1-0", nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *summarize.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Cache.SummaryTTL = time.Hour
	cfg.Summarize.MaxInputChars = 10000
	cfg.Summarize.MinInputWords = 30
	cfg.Summarize.MaxBatchTexts = 20

	generator := summarize.NewGenerator(&stubFactory{chat: &stubChatModel{reply: "a brief test summary"}})
	svc := summarize.NewService(
		cfg,
		&stubCache{store: make(map[string][]byte)},
		&stubSummaryRepo{byID: make(map[string]*entity.Summary)},
		&stubJobRepo{jobs: make(map[string]*entity.SummaryJob)},
		generator,
		nil,
		nil,
		&stubPublisher{},
	)

	summaryHandler := NewSummaryHandler(svc)
	jobHandler := NewJobHandler(svc)

	r := gin.New()
	r.POST("/api/summarize", summaryHandler.Summarize)
	r.GET("/v1/summaries/:sid", summaryHandler.GetSummary)
	r.GET("/v1/summaries", summaryHandler.ListSummaries)
	r.POST("/v1/batches", jobHandler.CreateBatch)
	r.GET("/v1/jobs/:jid", jobHandler.GetJob)
	r.DELETE("/v1/jobs/:jid", jobHandler.CancelJob)
	return r, svc
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func validTestText() string {
	return strings.TrimSpace(strings.Repeat("the quick brown fox jumps over the lazy dog ", 10))
}

func TestSummarizeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	body, err := json.Marshal(gin.H{"text": validTestText(), "length": "short"})
	require.NoError(t, err)

	w := postJSON(r, "/api/summarize", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Summary          string  `json:"summary"`
			OriginalLength   int     `json:"original_length"`
			SummaryLength    int     `json:"summary_length"`
			CompressionRatio float64 `json:"compression_ratio"`
			Cached           bool    `json:"cached"`
			Source           string  `json:"source"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "a brief test summary", resp.Data.Summary)
	assert.Equal(t, 90, resp.Data.OriginalLength)
	assert.Equal(t, 4, resp.Data.SummaryLength)
	assert.False(t, resp.Data.Cached)
	assert.Equal(t, "fresh", resp.Data.Source)
}

func TestSummarizeEndpointDefaultsToMedium(t *testing.T) {
	r, _ := newTestRouter(t)

	body, err := json.Marshal(gin.H{"text": validTestText()})
	require.NoError(t, err)

	w := postJSON(r, "/api/summarize", string(body))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSummarizeEndpointLengthCaseInsensitive(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, length := range []string{"Short", "MEDIUM", "Long"} {
		body, err := json.Marshal(gin.H{"text": validTestText(), "length": length})
		require.NoError(t, err)

		w := postJSON(r, "/api/summarize", string(body))
		assert.Equal(t, http.StatusOK, w.Code, length)
	}
}

func TestSummarizeEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing text",
			body:     `{"length":"short"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid json",
			body:     `{broken`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid length",
			body:     `{"text":"` + validTestText() + `","length":"giant"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "2004",
		},
		{
			name:     "too short",
			body:     `{"text":"only a few words"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "2003",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/summarize", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Contains(t, w.Body.String(), tt.wantErr)
			}
		})
	}
}

func TestGetSummaryEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/summaries/00000000-0000-0000-0000-000000000000", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	body, err := json.Marshal(gin.H{"texts": []string{validTestText()}, "length": "medium"})
	require.NoError(t, err)

	w := postJSON(r, "/v1/batches", string(body))
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Data.Status)
	require.NotEmpty(t, resp.Data.ID)

	// 查询任务
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/"+resp.Data.ID, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 取消任务
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/v1/jobs/"+resp.Data.ID, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 已取消的任务再次取消返回冲突
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/v1/jobs/"+resp.Data.ID, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBatchEndpointLengthCaseInsensitive(t *testing.T) {
	r, _ := newTestRouter(t)

	body, err := json.Marshal(gin.H{"texts": []string{validTestText()}, "length": "Short"})
	require.NoError(t, err)

	w := postJSON(r, "/v1/batches", string(body))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestBatchEndpointTooLarge(t *testing.T) {
	r, _ := newTestRouter(t)

	texts := make([]string, 21)
	for i := range texts {
		texts[i] = validTestText()
	}
	body, err := json.Marshal(gin.H{"texts": texts, "length": "medium"})
	require.NoError(t, err)

	w := postJSON(r, "/v1/batches", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "3006")
}
