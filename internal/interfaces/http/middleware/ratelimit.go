// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"summarize-api/internal/infrastructure/persistence/redis"
	"summarize-api/pkg/logger"
	"summarize-api/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// Requests 窗口内允许的请求数
	Requests int
	// Window 滑动窗口长度
	Window time.Duration
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按客户端 IP 限流的中间件。
// 限流器故障时放行，避免 Redis 不可用时拖垮业务。
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Requests <= 0 {
		cfg.Requests = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		key := redis.BuildClientRateLimitKey(c.ClientIP())

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejectedTotal.WithLabelValues(c.Request.URL.Path).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     http.StatusTooManyRequests,
				"message":  "rate limit exceeded, try again later",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
