package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/domain/entity"
	"summarize-api/internal/interfaces/http/dto"
	"summarize-api/pkg/errors"
	"summarize-api/pkg/logger"
)

// JobHandler 批量任务处理器
type JobHandler struct {
	service *summarize.Service
}

// NewJobHandler 创建批量任务处理器
func NewJobHandler(service *summarize.Service) *JobHandler {
	return &JobHandler{service: service}
}

// CreateBatch 创建批量摘要任务
// @Summary 创建批量摘要任务
// @Description 提交多条文本异步生成摘要，返回任务 ID 供轮询
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body dto.CreateBatchRequest true "批量摘要请求"
// @Success 202 {object} dto.Response[dto.JobResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/batches [post]
func (h *JobHandler) CreateBatch(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: texts is required")
		return
	}

	// 长度选项不区分大小写
	length := entity.SummaryLength(strings.ToLower(req.Length))
	if req.Length == "" {
		length = entity.LengthMedium
	}

	job, err := h.service.CreateBatchJob(ctx, req.Texts, length)
	if err != nil {
		if errors.IsAppError(err) {
			dto.AppError(c, err)
			return
		}
		logger.Error(ctx, "failed to create batch job", err)
		dto.InternalError(c, "failed to create batch job")
		return
	}

	dto.Accepted(c, dto.ToJobResponse(job))
}

// GetJob 获取任务详情
// @Summary 获取任务详情
// @Description 查询批量任务的状态、进度和结果
// @Tags Jobs
// @Produce json
// @Param jid path string true "任务 ID"
// @Success 200 {object} dto.Response[dto.JobResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/jobs/{jid} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.service.GetJob(ctx, c.Param("jid"))
	if err != nil {
		if errors.IsAppError(err) {
			dto.AppError(c, err)
			return
		}
		logger.Error(ctx, "failed to get job", err)
		dto.InternalError(c, "failed to get job")
		return
	}

	dto.Success(c, dto.ToJobResponse(job))
}

// CancelJob 取消任务
// @Summary 取消任务
// @Description 取消尚未结束的批量任务
// @Tags Jobs
// @Produce json
// @Param jid path string true "任务 ID"
// @Success 200 {object} dto.Response[dto.CancelJobResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "任务已结束"
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/jobs/{jid} [delete]
func (h *JobHandler) CancelJob(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.service.CancelJob(ctx, c.Param("jid"))
	if err != nil {
		if errors.IsAppError(err) {
			dto.AppError(c, err)
			return
		}
		logger.Error(ctx, "failed to cancel job", err)
		dto.InternalError(c, "failed to cancel job")
		return
	}

	dto.Success(c, &dto.CancelJobResponse{
		ID:        job.ID,
		Cancelled: true,
	})
}
