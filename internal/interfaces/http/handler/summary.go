// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/domain/entity"
	"summarize-api/internal/domain/repository"
	"summarize-api/internal/interfaces/http/dto"
	"summarize-api/pkg/errors"
	"summarize-api/pkg/logger"
)

// SummaryHandler 摘要处理器
type SummaryHandler struct {
	service *summarize.Service
}

// NewSummaryHandler 创建摘要处理器
func NewSummaryHandler(service *summarize.Service) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// Summarize 生成摘要
// @Summary 生成摘要
// @Description 对输入文本生成指定长度档位的摘要
// @Tags Summaries
// @Accept json
// @Produce json
// @Param request body dto.SummarizeRequest true "摘要请求"
// @Success 200 {object} dto.Response[dto.SummarizeResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/summaries [post]
func (h *SummaryHandler) Summarize(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: text is required")
		return
	}

	// 长度选项不区分大小写
	length := entity.SummaryLength(strings.ToLower(req.Length))
	if req.Length == "" {
		length = entity.LengthMedium
	}

	result, err := h.service.Summarize(ctx, req.Text, length)
	if err != nil {
		if errors.IsAppError(err) {
			dto.AppError(c, err)
			return
		}
		logger.Error(ctx, "summarization failed", err)
		dto.InternalError(c, "summarization failed")
		return
	}

	dto.Success(c, dto.ToSummarizeResponse(result))
}

// GetSummary 获取摘要记录
// @Summary 获取摘要记录
// @Description 按 ID 查询单条摘要历史记录
// @Tags Summaries
// @Produce json
// @Param sid path string true "摘要 ID"
// @Success 200 {object} dto.Response[dto.SummaryRecordResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/summaries/{sid} [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.service.GetSummary(ctx, c.Param("sid"))
	if err != nil {
		if errors.IsAppError(err) {
			dto.AppError(c, err)
			return
		}
		logger.Error(ctx, "failed to get summary", err)
		dto.InternalError(c, "failed to get summary")
		return
	}

	dto.Success(c, dto.ToSummaryRecordResponse(summary))
}

// ListSummaries 查询摘要历史
// @Summary 查询摘要历史
// @Description 分页查询摘要历史记录，可按长度档位、来源和任务过滤
// @Tags Summaries
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param length query string false "长度档位 (short/medium/long)"
// @Param source query string false "来源 (fresh/cache/semantic_cache)"
// @Param job_id query string false "批量任务 ID"
// @Success 200 {object} dto.Response[[]dto.SummaryRecordResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/summaries [get]
func (h *SummaryHandler) ListSummaries(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListSummariesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.BadRequest(c, "invalid query parameters")
		return
	}

	filter := &repository.SummaryFilter{
		Length: entity.SummaryLength(strings.ToLower(query.Length)),
		Source: entity.SummarySource(query.Source),
		JobID:  query.JobID,
	}
	pagination := repository.NewPagination(query.Page, query.PageSize)

	result, err := h.service.ListSummaries(ctx, filter, pagination)
	if err != nil {
		if errors.IsAppError(err) {
			dto.AppError(c, err)
			return
		}
		logger.Error(ctx, "failed to list summaries", err)
		dto.InternalError(c, "failed to list summaries")
		return
	}

	items := make([]*dto.SummaryRecordResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, dto.ToSummaryRecordResponse(s))
	}

	dto.SuccessWithPage(c, items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}
