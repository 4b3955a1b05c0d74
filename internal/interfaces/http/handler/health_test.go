package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthRouter(h *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/live", h.Live)
	// 旧版 health 与 /ready 行为一致
	r.GET("/api/health", h.Ready)
	return r
}

func TestHealthAlwaysOK(t *testing.T) {
	r := newHealthRouter(NewHealthHandler(nil, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestReadyReportsMissingDependencies(t *testing.T) {
	r := newHealthRouter(NewHealthHandler(nil, nil, nil))

	for _, path := range []string{"/ready", "/api/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code, path)

		var resp struct {
			Status string `json:"status"`
			Checks map[string]struct {
				Status string `json:"status"`
				Error  string `json:"error"`
			} `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "missing", resp.Checks["postgres"].Status)
		assert.Equal(t, "missing", resp.Checks["redis"].Status)
		// Milvus 可选，缺失不影响就绪态
		assert.Equal(t, "disabled", resp.Checks["milvus"].Status)
	}
}

func TestLiveAlwaysOK(t *testing.T) {
	r := newHealthRouter(NewHealthHandler(nil, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
