// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"summarize-api/internal/config"
	"summarize-api/internal/interfaces/http/handler"
	"summarize-api/internal/interfaces/http/middleware"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Page    *handler.PageHandler
	Summary *handler.SummaryHandler
	Job     *handler.JobHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *Handlers
	limiter  middleware.RateLimiter
}

// New 创建新的路由器
func New(cfg *config.Config, handlers *Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.BodyLimit(r.cfg.Server.HTTP.MaxBodyBytes))

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/", h.Page.Index)
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:  r.cfg.Security.RateLimit.Enabled,
		Requests: r.cfg.Security.RateLimit.Requests,
		Window:   r.cfg.Security.RateLimit.Window,
	}, r.limiter)

	// API v1 路由组
	v1 := r.engine.Group("/v1")
	{
		summaries := v1.Group("/summaries")
		{
			summaries.POST("", rateLimit, h.Summary.Summarize)
			summaries.GET("", h.Summary.ListSummaries)
			summaries.GET("/:sid", h.Summary.GetSummary)
		}

		v1.POST("/batches", rateLimit, h.Job.CreateBatch)

		jobs := v1.Group("/jobs")
		{
			jobs.GET("/:jid", h.Job.GetJob)
			jobs.DELETE("/:jid", h.Job.CancelJob)
		}

		v1.GET("/stats", h.Stats.GetStats)
	}

	// 兼容旧版路径
	api := r.engine.Group("/api")
	{
		api.POST("/summarize", rateLimit, h.Summary.Summarize)
		api.GET("/stats", h.Stats.GetStats)
		// 旧版 health 会探测依赖，等价于 /ready
		api.GET("/health", h.Health.Ready)
	}
}
