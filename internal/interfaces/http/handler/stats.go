package handler

import (
	"github.com/gin-gonic/gin"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/interfaces/http/dto"
	"summarize-api/pkg/errors"
	"summarize-api/pkg/logger"
)

// StatsHandler 运行统计处理器
type StatsHandler struct {
	stats *summarize.StatsService
}

// NewStatsHandler 创建运行统计处理器
func NewStatsHandler(stats *summarize.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats 获取运行统计
// @Summary 获取运行统计
// @Description 返回缓存规模、Redis 运行状态和近期摘要量
// @Tags System
// @Produce json
// @Success 200 {object} dto.Response[dto.StatsResponse]
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.stats.Collect(ctx)
	if err != nil {
		if errors.IsAppError(err) {
			dto.AppError(c, err)
			return
		}
		logger.Error(ctx, "failed to collect stats", err)
		dto.InternalError(c, "failed to collect stats")
		return
	}

	dto.Success(c, dto.ToStatsResponse(stats))
}
