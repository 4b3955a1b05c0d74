package dto

import (
	"encoding/json"
	"time"

	"summarize-api/internal/domain/entity"
)

// CreateBatchRequest 批量摘要请求
type CreateBatchRequest struct {
	Texts  []string `json:"texts" binding:"required"`
	Length string   `json:"length,omitempty"`
}

// JobResponse 批量任务响应
type JobResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Length       string          `json:"length"`
	TextCount    int             `json:"text_count"`
	Progress     int             `json:"progress"`
	Results      json.RawMessage `json:"results,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	DurationMs   int             `json:"duration_ms,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// ToJobResponse 转换任务实体
func ToJobResponse(j *entity.SummaryJob) *JobResponse {
	return &JobResponse{
		ID:           j.ID,
		Status:       string(j.Status),
		Length:       string(j.Length),
		TextCount:    len(j.Texts),
		Progress:     j.Progress,
		Results:      j.Results,
		ErrorMessage: j.ErrorMessage,
		DurationMs:   j.DurationMs,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}

// CancelJobResponse 任务取消响应
type CancelJobResponse struct {
	ID        string `json:"id"`
	Cancelled bool   `json:"cancelled"`
}
