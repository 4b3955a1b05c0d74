package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func newRateLimitRouter(cfg RateLimitConfig, limiter RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
	rateLimit := RateLimit(cfg, limiter)
	r.POST("/api/summarize", rateLimit, handler)
	r.POST("/v1/summaries", rateLimit, handler)
	return r
}

func TestRateLimitAllows(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute}, limiter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, limiter.keys, 1)
	assert.Contains(t, limiter.keys[0], "ratelimit:")
}

func TestRateLimitKeyedByClientNotPath(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute}, limiter)

	for _, path := range []string{"/api/summarize", "/v1/summaries"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	// 同一客户端的新旧路径共用同一限流键
	require.Len(t, limiter.keys, 2)
	assert.Equal(t, limiter.keys[0], limiter.keys[1])
	assert.NotContains(t, limiter.keys[0], "/api/summarize")
}

func TestRateLimitRejects(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute}, limiter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: fmt.Errorf("redis down")}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute}, limiter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	r := newRateLimitRouter(RateLimitConfig{Enabled: false}, limiter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, limiter.keys)
}
